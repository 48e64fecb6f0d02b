package academy

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/ledger"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/records"
)

const MsgCourseRequired = "Course is required"

// RegisterCourse enrolls the calling student in a course. A course already
// on the student's record is rejected before anything is submitted.
func (s *Service) RegisterCourse(ctx context.Context, id identity.Identity, courseID string) (string, error) {
	if err := authorize(id, policy.RegisterCourse); err != nil {
		return "", err
	}
	courseID = strings.TrimSpace(courseID)
	if err := required(courseID, MsgCourseRequired); err != nil {
		return "", err
	}

	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailableRegister)
	if err != nil {
		return "", err
	}
	defer s.release(sess)

	student, err := query[records.StudentRecord](ctx, sess, MsgRegisterQueryFailed, records.FnGetUser, id.Username)
	if err != nil {
		return "", err
	}
	if student.HasCourse(courseID) {
		return "", apperr.New(apperr.AlreadyRegistered, MsgAlreadyRegistered)
	}

	if _, err := ledger.Result(sess.Invoke(ctx, records.FnRegisterCourse, id.Username, courseID), MsgInvokeFailed); err != nil {
		return "", err
	}
	s.logger.Info("course registered", zap.String("username", id.Username), zap.String("course", courseID))
	return MsgRegistered, nil
}

// ListMyCourses returns the courses the calling student is enrolled in.
func (s *Service) ListMyCourses(ctx context.Context, id identity.Identity) ([]records.CourseRecord, error) {
	if err := authorize(id, policy.ListMyCourses); err != nil {
		return nil, err
	}
	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	courses, err := query[records.List[records.CourseRecord]](ctx, sess, MsgQueryFailed, records.FnGetCoursesOfStudent, id.Username)
	if err != nil {
		return nil, err
	}
	return nonNilList(courses), nil
}

// ListCourses returns the whole course catalog.
func (s *Service) ListCourses(ctx context.Context, id identity.Identity) ([]records.CourseRecord, error) {
	if err := authorize(id, policy.ListCourses); err != nil {
		return nil, err
	}
	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	courses, err := query[records.List[records.CourseRecord]](ctx, sess, MsgQueryFailed, records.FnGetAllCourses)
	if err != nil {
		return nil, err
	}
	return nonNilList(courses), nil
}

func (s *Service) GetCourse(ctx context.Context, id identity.Identity, courseID string) (*records.CourseRecord, error) {
	if err := authorize(id, policy.GetCourse); err != nil {
		return nil, err
	}
	courseID = strings.TrimSpace(courseID)
	if err := required(courseID, MsgCourseRequired); err != nil {
		return nil, err
	}

	ctx, sess, err := s.open(ctx, id, MsgGatewayUnavailable)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	course, err := query[records.CourseRecord](ctx, sess, MsgQueryFailed, records.FnGetCourse, courseID)
	if err != nil {
		return nil, err
	}
	return &course, nil
}
