// Package server assembles the HTTP surface of the API: public login,
// health and metrics endpoints, and the authenticated academy routes.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	academyhandlers "github.com/ntquang22298/study-chain/internal/academy/handlers"
	"github.com/ntquang22298/study-chain/internal/auth"
	"github.com/ntquang22298/study-chain/internal/httpx"
	userhandlers "github.com/ntquang22298/study-chain/internal/users/handlers"
)

const (
	msgNotFound         = "Not found"
	msgMethodNotAllowed = "Method not allowed"
)

// Registry is where request metrics are registered and /metrics reads from.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Handlers are the endpoints the router serves.
type Handlers struct {
	Auth    *userhandlers.AuthHandler
	Academy *academyhandlers.Handler
}

// NewRouter wires every route. authn guards /account/me and /common.
func NewRouter(h Handlers, authn *auth.Middleware, reg Registry, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := newRequestMetrics(reg)

	r := mux.NewRouter()
	r.Use(metrics.observe(logger.Named("http")))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusNotFound, httpx.Body{"success": false, "msg": msgNotFound})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusMethodNotAllowed, httpx.Body{"success": false, "msg": msgMethodNotAllowed})
	})

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.OK(w, httpx.Body{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)

	me := r.PathPrefix("/account/me").Subrouter()
	me.Use(authn.Authenticate)
	common := r.PathPrefix("/common").Subrouter()
	common.Use(authn.Authenticate)
	h.Academy.Register(me, common)

	return requestID(otelhttp.NewHandler(r, "studychain-api"))
}
