// Package auth authenticates HTTP requests and binds the caller's identity
// to the request context.
package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/httpx"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/jwt"
	"github.com/ntquang22298/study-chain/internal/users"
)

// MsgUnauthorized is the body of every 401.
const MsgUnauthorized = "Unauthorized"

// AccountFinder looks accounts up in the credential store.
type AccountFinder interface {
	FindByUsername(ctx context.Context, username string) (*users.Account, error)
}

// Middleware provides authentication middleware
type Middleware struct {
	jwtManager *jwt.Manager
	accounts   AccountFinder
	logger     *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(jwtManager *jwt.Manager, accounts AccountFinder, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		jwtManager: jwtManager,
		accounts:   accounts,
		logger:     logger,
	}
}

// Authenticate verifies the token in the Authorization header, with or
// without a Bearer prefix, and re-reads the account so that the role used
// for the request is the one currently stored.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromHeader(r.Header.Get("Authorization"))
		if tokenString == "" {
			httpx.Error(w, r, m.logger, apperr.New(apperr.Unauthenticated, MsgUnauthorized))
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			httpx.Error(w, r, m.logger, apperr.Wrap(err, apperr.Unauthenticated, MsgUnauthorized))
			return
		}

		account, err := m.accounts.FindByUsername(r.Context(), claims.Username)
		if err != nil {
			httpx.Error(w, r, m.logger, err)
			return
		}
		if account == nil {
			httpx.Error(w, r, m.logger, apperr.New(apperr.Unauthenticated, MsgUnauthorized))
			return
		}

		ctx := identity.NewContext(r.Context(), account.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromHeader(h string) string {
	h = strings.TrimSpace(h)
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		h = h[7:]
	}
	return strings.TrimSpace(h)
}
