package academy

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/ledger"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/records"
)

const (
	MsgSubjectRequired = "Subject is required"
	MsgStudentRequired = "Student is required"
	MsgInvalidScore    = "Score must be a non-negative number"
)

// NumberText is a number that clients send either as a JSON number or as
// a string such as "9.0".
type NumberText string

func (n *NumberText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumberText(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumberText(num)
	return nil
}

// ScoreInput is a teacher's request to grade a student.
type ScoreInput struct {
	SubjectID       string     `json:"subjectId" validate:"required"`
	StudentUsername string     `json:"studentUsername" validate:"required"`
	ScoreValue      NumberText `json:"scoreValue" validate:"required"`
}

var scoreMessages = map[string]string{
	"SubjectID":       MsgSubjectRequired,
	"StudentUsername": MsgStudentRequired,
	"ScoreValue":      MsgInvalidScore,
}

func (in ScoreInput) validate() (subjectID, student string, score float64, err error) {
	in = ScoreInput{
		SubjectID:       strings.TrimSpace(in.SubjectID),
		StudentUsername: strings.TrimSpace(in.StudentUsername),
		ScoreValue:      NumberText(strings.TrimSpace(string(in.ScoreValue))),
	}
	if err := checkStruct(in, scoreMessages); err != nil {
		return "", "", 0, err
	}
	score, perr := strconv.ParseFloat(string(in.ScoreValue), 64)
	if perr != nil || math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return "", "", 0, apperr.New(apperr.InvalidInput, MsgInvalidScore)
	}
	return in.SubjectID, in.StudentUsername, score, nil
}

// CreateScore records a score. Only the teacher of the subject may grade,
// and only students enrolled in it.
func (s *Service) CreateScore(ctx context.Context, id identity.Identity, in ScoreInput) (string, error) {
	if err := authorize(id, policy.CreateScore); err != nil {
		return "", err
	}
	subjectID, student, score, err := in.validate()
	if err != nil {
		return "", err
	}

	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return "", err
	}
	defer s.release(sess)

	subject, err := query[records.SubjectRecord](ctx, sess, MsgQueryFailed, records.FnGetSubject, subjectID)
	if err != nil {
		return "", err
	}
	if subject.TeacherUsername != id.Username {
		return "", apperr.New(apperr.PermissionDenied, MsgPermissionDeniedStrict)
	}
	if !subject.Enrolled(student) {
		return "", apperr.New(apperr.NotEnrolled, MsgNotEnrolled)
	}

	value := strconv.FormatFloat(score, 'f', -1, 64)
	text, err := ledger.Result(sess.Invoke(ctx, records.FnCreateScore, subjectID, student, value), MsgInvokeFailed)
	if err != nil {
		return "", err
	}
	s.logger.Info("score created",
		zap.String("teacher", id.Username), zap.String("subject", subjectID), zap.String("student", student))
	return orDefault(text, MsgScoreCreated), nil
}

// RosterEntry is one student of a subject with the scores they received.
type RosterEntry struct {
	Username string                `json:"username"`
	Fullname string                `json:"fullname"`
	Scores   []records.ScoreRecord `json:"scores"`
}

// SubjectRoster joins the students of a subject with their scores. A
// subject without any score yet yields students with empty score lists.
func (s *Service) SubjectRoster(ctx context.Context, id identity.Identity, subjectID string) ([]RosterEntry, error) {
	if err := authorize(id, policy.SubjectRoster); err != nil {
		return nil, err
	}
	subjectID = strings.TrimSpace(subjectID)
	if err := required(subjectID, MsgSubjectRequired); err != nil {
		return nil, err
	}

	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	students, err := query[records.List[records.StudentSummary]](ctx, sess, MsgQueryFailed, records.FnGetStudentsBySubject, subjectID)
	if err != nil {
		return nil, err
	}
	scores, err := query[records.List[records.ScoreRecord]](ctx, sess, MsgQueryFailed, records.FnGetScoresBySubject, subjectID)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[string][]records.ScoreRecord, len(students))
	for _, sc := range scores {
		byStudent[sc.StudentUsername] = append(byStudent[sc.StudentUsername], sc)
	}
	roster := make([]RosterEntry, 0, len(students))
	for _, st := range students {
		entry := RosterEntry{Username: st.Username, Fullname: st.Fullname, Scores: byStudent[st.Username]}
		if entry.Scores == nil {
			entry.Scores = []records.ScoreRecord{}
		}
		roster = append(roster, entry)
	}
	return roster, nil
}
