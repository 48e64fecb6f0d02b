package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ntquang22298/study-chain/internal/httpx"
)

// Courses lists the course catalog.
// GET /common/courses
func (h *Handler) Courses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	courses, err := h.academy.ListCourses(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, httpx.Body{"courses": courses})
}

// GET /common/course/{courseId}
func (h *Handler) Course(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	course, err := h.academy.GetCourse(r.Context(), id, mux.Vars(r)["courseId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, httpx.Body{"course": course})
}

// GET /common/subject/{subjectId}
func (h *Handler) Subject(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(w, r)
	if !ok {
		return
	}
	subject, err := h.academy.GetSubject(r.Context(), id, mux.Vars(r)["subjectId"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpx.OK(w, httpx.Body{"subject": subject})
}

// Register mounts the account routes on me and the catalog routes on common.
func (h *Handler) Register(me, common *mux.Router) {
	me.HandleFunc("", h.Profile).Methods(http.MethodGet)
	me.HandleFunc("/info", h.UpdateInfo).Methods(http.MethodPut)
	me.HandleFunc("/mysubjects", h.MySubjects).Methods(http.MethodGet)
	me.HandleFunc("/createscore", h.CreateScore).Methods(http.MethodPost)
	me.HandleFunc("/certificates", h.Certificates).Methods(http.MethodGet)
	me.HandleFunc("/changePassword", h.ChangePassword).Methods(http.MethodPost)
	me.HandleFunc("/registerCourse", h.RegisterCourse).Methods(http.MethodPost)
	me.HandleFunc("/courses", h.MyCourses).Methods(http.MethodGet)
	me.HandleFunc("/{subjectId}/students", h.Students).Methods(http.MethodGet)

	common.HandleFunc("/courses", h.Courses).Methods(http.MethodGet)
	common.HandleFunc("/course/{courseId}", h.Course).Methods(http.MethodGet)
	common.HandleFunc("/subject/{subjectId}", h.Subject).Methods(http.MethodGet)
}
