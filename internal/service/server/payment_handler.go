package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/domain"
	"github.com/vertextoedge/academic-admin/internal/port"
	"github.com/vertextoedge/academic-admin/internal/service/academy"
	"github.com/vertextoedge/academic-admin/internal/service/reminder"
)

// ReminderRunner runs a reminder scan on demand
type ReminderRunner interface {
	RunOnce(ctx context.Context) (*reminder.RunResult, error)
}

// PaymentHandler handles payment and reminder endpoints
type PaymentHandler struct {
	store     port.Store
	academy   *academy.Service
	reminders ReminderRunner
	logger    *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(store port.Store, academy *academy.Service, reminders ReminderRunner, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		store:     store,
		academy:   academy,
		reminders: reminders,
		logger:    logger,
	}
}

// HandleList lists all payments
func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	payments, err := h.store.Payments().GetAll()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// HandleCreate records a payment
func (h *PaymentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.NewPayment
	if !decodeJSON(w, r, &in) {
		return
	}
	payment, err := h.academy.RecordPayment(in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// HandleReminders lists all reminders
func (h *PaymentHandler) HandleReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.store.Reminders().GetAll()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// HandleRunReminders runs a reminder scan immediately
func (h *PaymentHandler) HandleRunReminders(w http.ResponseWriter, r *http.Request) {
	if h.reminders == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "reminders are disabled"})
		return
	}
	result, err := h.reminders.RunOnce(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
