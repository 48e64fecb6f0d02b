package ledger

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/identity"
)

type stubWallet map[string]bool

func (w stubWallet) Credentials(username string) (tls.Certificate, error) {
	if !w[username] {
		return tls.Certificate{}, errors.Errorf("identity [%s] not found in wallet", username)
	}
	return tls.Certificate{}, nil
}

type fakeNode struct {
	mu       sync.Mutex
	requests []callRequest
	kinds    []string
	reply    func(kind string, req callRequest) (int, string)
}

func (n *fakeNode) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/channels/{channel}", func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["channel"] != "mychannel" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.HandleFunc("/v1/channels/{channel}/contracts/{contract}/{kind}", func(w http.ResponseWriter, r *http.Request) {
		var req callRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		kind := mux.Vars(r)["kind"]
		n.mu.Lock()
		n.requests = append(n.requests, req)
		n.kinds = append(n.kinds, kind)
		n.mu.Unlock()

		status, body := n.reply(kind, req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}).Methods(http.MethodPost)
	return r
}

func newTestGateway(t *testing.T, node *fakeNode, channel string) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(node.router())
	t.Cleanup(srv.Close)

	gw, err := NewHTTPGateway(HTTPOptions{
		URL:      srv.URL + "/",
		Channel:  channel,
		Contract: "academy",
		Timeout:  2 * time.Second,
	}, stubWallet{"hoangdd": true}, zap.NewNop())
	require.NoError(t, err)
	return gw
}

func TestHTTPGatewayQueryAndInvoke(t *testing.T) {
	node := &fakeNode{reply: func(kind string, req callRequest) (int, string) {
		if kind == "invoke" {
			return http.StatusOK, `{"success":true,"msg":"Update success!"}`
		}
		return http.StatusOK, `{"success":true,"msg":"{\"Username\":\"hoangdd\"}"}`
	}}
	gw := newTestGateway(t, node, "mychannel")

	s, err := gw.Connect(context.Background(), identity.Identity{Username: "hoangdd", Role: identity.RoleStudent})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "hoangdd", s.Identity().Username)

	env := s.Query(context.Background(), "GetUser", "hoangdd")
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"Username":"hoangdd"}`, string(env.Msg.Payload()))

	env = s.Invoke(context.Background(), "UpdateUser", "hoangdd", `{"Fullname":"x"}`)
	assert.True(t, env.Success)
	assert.Equal(t, "Update success!", env.Msg.Text())

	require.Len(t, node.requests, 2)
	assert.Equal(t, []string{"query", "invoke"}, node.kinds)
	assert.Equal(t, callRequest{Function: "GetUser", Args: []string{"hoangdd"}, Identity: "hoangdd"}, node.requests[0])
}

func TestHTTPGatewayFailuresBecomeEnvelopes(t *testing.T) {
	node := &fakeNode{reply: func(kind string, req callRequest) (int, string) {
		switch req.Function {
		case "Broken":
			return http.StatusOK, `<html>`
		case "Rejected":
			return http.StatusInternalServerError, `{"success":false,"msg":"Error"}`
		default:
			return http.StatusBadGateway, `upstream down`
		}
	}}
	gw := newTestGateway(t, node, "mychannel")
	s, err := gw.Connect(context.Background(), identity.Identity{Username: "hoangdd"})
	require.NoError(t, err)
	defer s.Close()

	env := s.Query(context.Background(), "Broken")
	assert.False(t, env.Success)
	assert.Empty(t, env.Msg.Text())

	env = s.Query(context.Background(), "Rejected")
	assert.False(t, env.Success)
	assert.Equal(t, "Error", env.Msg.Text())

	env = s.Invoke(context.Background(), "Anything")
	assert.False(t, env.Success)
	assert.Empty(t, env.Msg.Text())
}

func TestHTTPGatewayConnectFailsClosed(t *testing.T) {
	node := &fakeNode{reply: func(string, callRequest) (int, string) { return http.StatusOK, `{}` }}

	gw := newTestGateway(t, node, "mychannel")
	_, err := gw.Connect(context.Background(), identity.Identity{Username: "nobody"})
	assert.Error(t, err)

	gw = newTestGateway(t, node, "otherchannel")
	_, err = gw.Connect(context.Background(), identity.Identity{Username: "hoangdd"})
	assert.Error(t, err)

	assert.Empty(t, node.requests)
}

func TestHTTPGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	gw, err := NewHTTPGateway(HTTPOptions{URL: srv.URL, Channel: "mychannel", Contract: "academy", Timeout: time.Second},
		stubWallet{"hoangdd": true}, nil)
	require.NoError(t, err)
	_, err = gw.Connect(context.Background(), identity.Identity{Username: "hoangdd"})
	assert.Error(t, err)
}

func TestNewHTTPGatewayValidates(t *testing.T) {
	_, err := NewHTTPGateway(HTTPOptions{Channel: "c", Contract: "x"}, stubWallet{}, nil)
	assert.Error(t, err)
	_, err = NewHTTPGateway(HTTPOptions{URL: "http://node"}, stubWallet{}, nil)
	assert.Error(t, err)
	_, err = NewHTTPGateway(HTTPOptions{URL: "http://node", Channel: "c", Contract: "x", CACertPath: "/does/not/exist"}, stubWallet{}, nil)
	assert.Error(t, err)
}
