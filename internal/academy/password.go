package academy

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/users"
)

// PasswordChange is the body of a password change.
type PasswordChange struct {
	OldPass     string `json:"oldPass" validate:"required"`
	NewPass     string `json:"newPass" validate:"min=6"`
	ConfirmPass string `json:"confirmPass"`
}

var passwordMessages = map[string]string{
	"OldPass": MsgOldPasswordRequired,
	"NewPass": MsgPasswordTooShort,
}

// validate checks the shape of the request, then the rules that compare
// its fields. Lengths are counted in characters, not bytes.
func (in PasswordChange) validate() error {
	if err := checkStruct(in, passwordMessages); err != nil {
		return err
	}
	if utf8.RuneCountInString(in.NewPass) < users.MinPasswordLength {
		return apperr.New(apperr.InvalidInput, MsgPasswordTooShort)
	}
	switch {
	case in.NewPass == in.OldPass:
		return apperr.New(apperr.SamePassword, MsgSamePassword)
	case in.NewPass != in.ConfirmPass:
		return apperr.New(apperr.MismatchConfirmation, MsgConfirmMismatch)
	}
	return nil
}

// ChangePassword replaces the caller's password in the credential store.
// The ledger is not involved.
func (s *Service) ChangePassword(ctx context.Context, id identity.Identity, in PasswordChange) (string, error) {
	if err := authorize(id, policy.ChangePassword); err != nil {
		return "", err
	}
	if err := in.validate(); err != nil {
		return "", err
	}

	account, err := s.accounts.FindByUsername(ctx, id.Username)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", apperr.New(apperr.AccountNotFound, MsgAccountNotFound)
	}
	if !s.hasher.Verify(in.OldPass, account.PasswordHash) {
		return "", apperr.New(apperr.WrongPassword, MsgWrongPassword)
	}

	digest, err := s.hasher.Hash(in.NewPass)
	if err != nil {
		return "", err
	}
	if err := s.accounts.UpdatePassword(ctx, account.Username, digest); err != nil {
		return "", err
	}
	s.logger.Info("password changed", zap.String("username", id.Username))
	return MsgPasswordChanged, nil
}
