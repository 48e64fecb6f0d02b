// Package handlers exposes account login over HTTP.
package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/httpx"
	"github.com/ntquang22298/study-chain/internal/jwt"
	"github.com/ntquang22298/study-chain/internal/users"
)

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*users.Account, error)
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	accounts   Authenticator
	jwtManager *jwt.Manager
	logger     *zap.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(accounts Authenticator, jwtManager *jwt.Manager, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		accounts:   accounts,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// LoginRequest is the body of a login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		httpx.Error(w, r, h.logger, apperr.New(apperr.InvalidInput, "Username and password are required"))
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	token, err := h.jwtManager.GenerateToken(account.Identity())
	if err != nil {
		httpx.Error(w, r, h.logger, err)
		return
	}

	h.logger.Info("login", zap.String("username", account.Username), zap.Stringer("role", account.Role))
	httpx.OK(w, httpx.Body{
		"msg":   "Login successfully!",
		"token": token,
		"user": map[string]any{
			"username": account.Username,
			"role":     int(account.Role),
		},
	})
}
