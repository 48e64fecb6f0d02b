package users

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
)

// MinPasswordLength applies to every password the platform stores.
const MinPasswordLength = 6

// MsgInvalidCredentials is the only thing a failed login reveals.
const MsgInvalidCredentials = "Invalid username or password"

// Service provides login and account bootstrap.
type Service struct {
	repo   *Repository
	hasher Hasher
}

// NewService creates a new account service
func NewService(repo *Repository, hasher Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Account, error) {
	a, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if a == nil || !s.hasher.Verify(password, a.PasswordHash) {
		return nil, apperr.New(apperr.Unauthenticated, MsgInvalidCredentials)
	}
	return a, nil
}

// Register creates an account with a freshly hashed password.
func (s *Service) Register(ctx context.Context, username, password string, role identity.Role) (*Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, errors.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if !role.Valid() {
		return nil, errors.Errorf("invalid role %d", int(role))
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	a := &Account{Username: username, PasswordHash: digest, Role: role}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
