// Package handlers exposes the academy operations over HTTP. Every handler
// expects the caller's identity to be bound to the request context by the
// auth middleware.
package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ntquang22298/study-chain/internal/academy"
	"github.com/ntquang22298/study-chain/internal/apperr"
	"github.com/ntquang22298/study-chain/internal/auth"
	"github.com/ntquang22298/study-chain/internal/changes"
	"github.com/ntquang22298/study-chain/internal/httpx"
	"github.com/ntquang22298/study-chain/internal/identity"
	"github.com/ntquang22298/study-chain/internal/policy"
	"github.com/ntquang22298/study-chain/internal/records"
)

// Academy is the set of operations served by the handlers.
type Academy interface {
	Authorize(id identity.Identity, op policy.Operation) error
	ReadProfile(ctx context.Context, id identity.Identity) (*academy.Profile, error)
	UpdateProfile(ctx context.Context, id identity.Identity, update changes.ProfileUpdate) (string, error)
	ListSubjects(ctx context.Context, id identity.Identity) (*academy.SubjectList, error)
	CreateScore(ctx context.Context, id identity.Identity, in academy.ScoreInput) (string, error)
	ListCertificates(ctx context.Context, id identity.Identity) ([]records.CertificateRecord, error)
	SubjectRoster(ctx context.Context, id identity.Identity, subjectID string) ([]academy.RosterEntry, error)
	ChangePassword(ctx context.Context, id identity.Identity, in academy.PasswordChange) (string, error)
	RegisterCourse(ctx context.Context, id identity.Identity, courseID string) (string, error)
	ListMyCourses(ctx context.Context, id identity.Identity) ([]records.CourseRecord, error)
	ListCourses(ctx context.Context, id identity.Identity) ([]records.CourseRecord, error)
	GetCourse(ctx context.Context, id identity.Identity, courseID string) (*records.CourseRecord, error)
	GetSubject(ctx context.Context, id identity.Identity, subjectID string) (*records.SubjectRecord, error)
}

// Handler serves /account/me and /common.
type Handler struct {
	academy Academy
	logger  *zap.Logger
}

func NewHandler(a Academy, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{academy: a, logger: logger}
}

// caller returns the identity bound by the auth middleware. A request that
// reaches a handler without one is answered with 401.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (identity.Identity, bool) {
	id, ok := identity.FromContext(r.Context())
	if !ok {
		httpx.Error(w, r, h.logger, apperr.New(apperr.Unauthenticated, auth.MsgUnauthorized))
	}
	return id, ok
}

// permitted checks the caller's role before the body is read, so a denied
// caller gets 403 whatever it sent.
func (h *Handler) permitted(w http.ResponseWriter, r *http.Request, op policy.Operation) (identity.Identity, bool) {
	id, ok := h.caller(w, r)
	if !ok {
		return id, false
	}
	if err := h.academy.Authorize(id, op); err != nil {
		h.fail(w, r, err)
		return id, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httpx.Error(w, r, h.logger, err)
}

// Profile returns the caller's own profile.
// GET /account/me
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	p, err := h.academy.ReadProfile(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if id.Role.IsAdmin() {
		httpx.OK(w, httpx.Body{"username": id.Username, "role": int(id.Role)})
		return
	}
	body := httpx.Body{
		"username": id.Username,
		"fullname": p.Fullname,
		"info":     p.Info,
	}
	if id.Role == identity.RoleStudent {
		body["courses"] = p.Courses
	} else {
		body["subjects"] = p.Subjects
	}
	httpx.OK(w, body)
}

// UpdateInfo writes the changed fields of the caller's profile.
// PUT /account/me/info
func (h *Handler) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permitted(w, r, policy.UpdateProfile)
	if !ok {
		return
	}
	var update changes.ProfileUpdate
	if err := httpx.ReadJSON(r, &update); err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.academy.UpdateProfile(r.Context(), id, update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Message(w, msg)
}

// MySubjects lists the subjects the caller studies or teaches.
// GET /account/me/mysubjects
func (h *Handler) MySubjects(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	list, err := h.academy.ListSubjects(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list.Note != "" {
		httpx.Message(w, list.Note)
		return
	}
	httpx.OK(w, httpx.Body{"subjects": list.Subjects})
}

// CreateScore grades a student of one of the caller's subjects.
// POST /account/me/createscore
func (h *Handler) CreateScore(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permitted(w, r, policy.CreateScore)
	if !ok {
		return
	}
	var in academy.ScoreInput
	if err := httpx.ReadJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.academy.CreateScore(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Message(w, msg)
}

// Certificates lists the caller's certificates.
// GET /account/me/certificates
func (h *Handler) Certificates(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	certs, err := h.academy.ListCertificates(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, httpx.Body{"certificates": certs})
}

// Students returns the roster of a subject with every student's scores.
// GET /account/me/{subjectId}/students
func (h *Handler) Students(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	roster, err := h.academy.SubjectRoster(r.Context(), id, mux.Vars(r)["subjectId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, httpx.Body{"students": roster})
}

// ChangePassword replaces the caller's password.
// POST /account/me/changePassword
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permitted(w, r, policy.ChangePassword)
	if !ok {
		return
	}
	var in academy.PasswordChange
	if err := httpx.ReadJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.academy.ChangePassword(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Message(w, msg)
}

type registerCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// RegisterCourse enrolls the caller in a course.
// POST /account/me/registerCourse
func (h *Handler) RegisterCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.permitted(w, r, policy.RegisterCourse)
	if !ok {
		return
	}
	var req registerCourseRequest
	if err := httpx.ReadJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	msg, err := h.academy.RegisterCourse(r.Context(), id, req.CourseID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.Message(w, msg)
}

// MyCourses lists the courses the caller is enrolled in.
// GET /account/me/courses
func (h *Handler) MyCourses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	courses, err := h.academy.ListMyCourses(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, httpx.Body{"courses": courses})
}
