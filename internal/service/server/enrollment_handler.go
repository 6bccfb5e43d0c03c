package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/domain/vo"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/service/academy"
)

// EnrollmentHandler handles enrollment endpoints
type EnrollmentHandler struct {
	store   port.Store
	academy *academy.Service
	logger  *zap.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler
func NewEnrollmentHandler(store port.Store, academy *academy.Service, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		store:   store,
		academy: academy,
		logger:  logger,
	}
}

// enrollRequest is the body of POST /api/enrollments
type enrollRequest struct {
	StudentID      string  `json:"studentId"`
	CourseID       string  `json:"courseId"`
	EnrollmentDate vo.Date `json:"enrollmentDate"`
}

// HandleList lists all enrollments
func (h *EnrollmentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.store.Enrollments().GetAll()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollments)
}

// HandleGet returns one enrollment
func (h *EnrollmentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	enrollment, err := h.store.Enrollments().GetByID(id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if enrollment == nil {
		writeError(w, h.logger, fmt.Errorf("enrollment %s: %w", id, domain.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

// HandleCreate enrolls a student in a course
func (h *EnrollmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	enrollment, err := h.academy.Enroll(req.StudentID, req.CourseID, req.EnrollmentDate)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, enrollment)
}

// HandleUpdate changes the status or date of an enrollment
func (h *EnrollmentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var u domain.EnrollmentUpdate
	if !decodeJSON(w, r, &u) {
		return
	}
	enrollment, err := h.academy.UpdateEnrollment(r.PathValue("id"), u)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

// HandlePayments lists the payments of an enrollment
func (h *EnrollmentHandler) HandlePayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.store.Payments().GetByEnrollmentID(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// HandleSuggestedPayment proposes the next payment of an enrollment
func (h *EnrollmentHandler) HandleSuggestedPayment(w http.ResponseWriter, r *http.Request) {
	suggestion, err := h.academy.SuggestPayment(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestion)
}

// HandleReminders lists the reminders of an enrollment
func (h *EnrollmentHandler) HandleReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.store.Reminders().GetByEnrollmentID(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}
