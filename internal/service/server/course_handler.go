package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/service/academy"
)

// CourseHandler handles course endpoints
type CourseHandler struct {
	store   port.Store
	academy *academy.Service
	logger  *zap.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(store port.Store, academy *academy.Service, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		store:   store,
		academy: academy,
		logger:  logger,
	}
}

// HandleList lists all courses
func (h *CourseHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.Courses().GetAll()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

// HandleGet returns one course
func (h *CourseHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	course, err := h.store.Courses().GetByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if course == nil {
		writeError(w, h.logger, fmt.Errorf("course %s: %w", id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleCreate creates a course
func (h *CourseHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.NewCourse
	if !decodeJSON(w, r, &in) {
		return
	}
	course, err := h.academy.CreateCourse(in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// HandleUpdate applies a partial update to a course
func (h *CourseHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var u domain.CourseUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	course, err := h.academy.UpdateCourse(r.PathValue("id"), u)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// HandleDelete deletes a course
func (h *CourseHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.academy.DeleteCourse(r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEnrollments lists the enrollments of a course
func (h *CourseHandler) HandleEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.store.Enrollments().GetByCourseID(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}
