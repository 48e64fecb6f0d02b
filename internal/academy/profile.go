package academy

import (
	"context"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/changes"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/ledger"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/records"
)

// Profile is the caller's own record. Administrators have no ledger record:
// only Identity is filled in for them.
type Profile struct {
	Identity identity.Identity
	Fullname string
	Info     records.UserInfo
	Courses  []string
	Subjects []string
}

// ReadProfile returns the caller's profile.
func (s *Service) ReadProfile(ctx context.Context, id identity.Identity) (*Profile, error) {
	if err := authorize(id, policy.ReadProfile); err != nil {
		return nil, err
	}
	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	if id.Role.IsAdmin() {
		return &Profile{Identity: id}, nil
	}

	rec, err := query[records.UserRecord](ctx, sess, MsgQueryFailed, records.FnGetUser, id.Username)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		Identity: id,
		Fullname: rec.Fullname,
		Info:     rec.Info,
	}
	if id.Role == identity.RoleStudent {
		p.Courses = nonNil(rec.Courses)
	} else {
		p.Subjects = nonNil(rec.Subjects)
	}
	return p, nil
}

// UpdateProfile writes the submitted fields that differ from the stored
// record. Submitting only current values is rejected without touching the
// ledger state.
func (s *Service) UpdateProfile(ctx context.Context, id identity.Identity, update changes.ProfileUpdate) (string, error) {
	if err := authorize(id, policy.UpdateProfile); err != nil {
		return "", err
	}
	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return "", err
	}
	defer s.release(sess)

	current, err := query[records.UserRecord](ctx, sess, MsgQueryFailed, records.FnGetUser, id.Username)
	if err != nil {
		return "", err
	}

	set := changes.Detect(current, update)
	if set.Empty() {
		return "", apperr.New(apperr.NoChanges, MsgNoChanges)
	}
	payload, err := set.Payload()
	if err != nil {
		return "", err
	}

	text, err := ledger.Result(sess.Invoke(ctx, records.FnUpdateUser, id.Username, payload), MsgInvokeFailed)
	if err != nil {
		return "", err
	}
	s.logger.Info("profile updated", zap.String("username", id.Username), zap.Strings("fields", set.Fields()))
	return orDefault(text, MsgUpdated), nil
}

func nonNil(l records.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}
