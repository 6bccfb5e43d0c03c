package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/service/academy"
)

// StudentHandler handles student endpoints
type StudentHandler struct {
	store   port.Store
	academy *academy.Service
	logger  *zap.Logger
}

// NewStudentHandler creates a new StudentHandler
func NewStudentHandler(store port.Store, academy *academy.Service, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{
		store:   store,
		academy: academy,
		logger:  logger,
	}
}

// HandleList lists all students
func (h *StudentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.Students().GetAll()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// HandleGet returns one student
func (h *StudentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	student, err := h.store.Students().GetByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if student == nil {
		writeError(w, h.logger, fmt.Errorf("student %s: %w", id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// HandleCreate registers a student
func (h *StudentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.NewStudent
	if !decodeJSON(w, r, &in) {
		return
	}
	student, err := h.academy.RegisterStudent(in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

// HandleUpdate applies a partial update to a student
func (h *StudentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var u domain.StudentUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	student, err := h.academy.UpdateStudent(r.PathValue("id"), u)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// HandleDelete deletes a student without enrollments
func (h *StudentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.academy.DeleteStudent(r.PathValue("id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEnrollments lists the enrollments of a student
func (h *StudentHandler) HandleEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.store.Enrollments().GetByStudentID(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}
