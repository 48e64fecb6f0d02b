package academy

import (
	"context"
	"strings"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/records"
)

// SubjectList is the answer to ListSubjects. Roles that neither study nor
// teach get a Note instead of subjects.
type SubjectList struct {
	Subjects []records.SubjectRecord
	Note     string
}

// ListSubjects returns the subjects a student studies or a teacher teaches.
// Administrators are answered without contacting the ledger.
func (s *Service) ListSubjects(ctx context.Context, id identity.Identity) (*SubjectList, error) {
	if err := authorize(id, policy.ListSubjects); err != nil {
		return nil, err
	}

	var fn string
	switch id.Role {
	case identity.RoleStudent:
		fn = records.FnGetSubjectsByStudent
	case identity.RoleTeacher:
		fn = records.FnGetSubjectsByTeacher
	default:
		return &SubjectList{Note: MsgNoSubjects}, nil
	}

	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	subjects, err := query[records.List[records.SubjectRecord]](ctx, sess, MsgQueryFailed, fn, id.Username)
	if err != nil {
		return nil, err
	}
	return &SubjectList{Subjects: nonNilList(subjects)}, nil
}

// GetSubject reads one subject of the catalog.
func (s *Service) GetSubject(ctx context.Context, id identity.Identity, subjectID string) (*records.SubjectRecord, error) {
	if err := authorize(id, policy.GetSubject); err != nil {
		return nil, err
	}
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, apperr.New(apperr.InvalidInput, MsgSubjectRequired)
	}

	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	subject, err := query[records.SubjectRecord](ctx, sess, MsgQueryFailed, records.FnGetSubject, subjectID)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func nonNilList[T any](l records.List[T]) []T {
	if l == nil {
		return []T{}
	}
	return l
}
