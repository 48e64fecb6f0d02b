// Package academy implements the self-service operations of students,
// teachers and administrators on top of the ledger.
//
// Every operation checks the caller's role against the policy table before
// any ledger session is opened. State-dependent rules (no changes, already
// registered, subject ownership) are evaluated on a fresh read and only then
// is a mutating call issued. Nothing guards against two concurrent requests
// of the same user racing between that read and the write.
package academy

import (
	"context"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/ledger"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/users"
)

// Client-facing messages.
const (
	MsgGatewayUnavailable         = "Failed connect to blockchain"
	MsgGatewayUnavailableRegister = "Failed connect to blockchain!"
	MsgPermissionDenied           = "Permission Denied"
	MsgPermissionDeniedStrict     = "Permission Denied!"
	MsgQueryFailed                = "Error when call chaincode"
	MsgRegisterQueryFailed        = "Can not query chaincode!"
	MsgInvokeFailed               = "Can not invoke chaincode!"
	MsgNoChanges                  = "No changes!"
	MsgUpdated                    = "Update success!"
	MsgNoSubjects                 = "You do not have subject"
	MsgScoreCreated               = "Create score successfully!"
	MsgNotEnrolled                = "Student does not study this subject"
	MsgAlreadyRegistered          = "You studied this course!"
	MsgRegistered                 = "Register Successfully!"
	MsgPasswordTooShort           = "Password must be at least 6 characters"
	MsgOldPasswordRequired        = "Old password is required"
	MsgSamePassword               = "New password must be different from old password"
	MsgConfirmMismatch            = "Confirm password does not match"
	MsgAccountNotFound            = "Account does not exist"
	MsgWrongPassword              = "Old password is incorrect"
	MsgPasswordChanged            = "Change password successfully!"
)

// Accounts is the credential store as seen by the orchestrator.
type Accounts interface {
	FindByUsername(ctx context.Context, username string) (*users.Account, error)
	UpdatePassword(ctx context.Context, username, digest string) error
}

// Service runs academy operations for one caller at a time. It holds no
// per-request state and is safe for concurrent use.
type Service struct {
	gateway  ledger.Gateway
	accounts Accounts
	hasher   users.Hasher
	logger   *zap.Logger
}

// NewService creates the orchestrator
func NewService(gateway ledger.Gateway, accounts Accounts, hasher users.Hasher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateway:  gateway,
		accounts: accounts,
		hasher:   hasher,
		logger:   logger,
	}
}

// deniedMessages overrides MsgPermissionDenied for some operations.
var deniedMessages = map[policy.Operation]string{
	policy.CreateScore:    MsgPermissionDeniedStrict,
	policy.RegisterCourse: MsgPermissionDeniedStrict,
	policy.ListMyCourses:  MsgPermissionDeniedStrict,
}

// Authorize reports whether the caller's role may run op. Every operation
// runs it first; handlers also call it before reading a request body so a
// denied caller is never told about malformed input.
func (s *Service) Authorize(id identity.Identity, op policy.Operation) error {
	return authorize(id, op)
}

func authorize(id identity.Identity, op policy.Operation) error {
	return policy.Check(id.Role, op, orDefault(deniedMessages[op], MsgPermissionDenied))
}

// open connects on behalf of id. The returned context no longer follows the
// caller's cancellation: a ledger call that was sent always resolves before
// the session is released.
func (s *Service) open(ctx context.Context, id identity.Identity, unavailable string) (context.Context, ledger.Session, error) {
	sess, err := s.gateway.Connect(ctx, id)
	if err != nil || sess == nil {
		s.logger.Warn("ledger unavailable", zap.String("username", id.Username), zap.Error(err))
		return nil, nil, apperr.Wrap(err, apperr.GatewayUnavailable, unavailable)
	}
	return context.WithoutCancel(ctx), sess, nil
}

func (s *Service) release(sess ledger.Session) {
	if err := sess.Close(); err != nil {
		s.logger.Warn("failed to close ledger session",
			zap.String("username", sess.Identity().Username), zap.Error(err))
	}
}

// query runs a read-only function and decodes its payload into T.
func query[T any](ctx context.Context, sess ledger.Session, fallback, fn string, args ...string) (T, error) {
	return ledger.Decode[T](sess.Query(ctx, fn, args...), fallback)
}

func orDefault(text, def string) string {
	if text == "" {
		return def
	}
	return text
}
