package server

import (
	"net/http"

	"go.uber.org/zap"
)

// MetricsSource exposes counters collected from domain events
type MetricsSource interface {
	GetMetrics() map[string]any
}

// DebugHandler handles debug endpoint requests
type DebugHandler struct {
	metrics MetricsSource
	logger  *zap.Logger
}

// NewDebugHandler creates a new DebugHandler
func NewDebugHandler(metrics MetricsSource, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// HandleMetrics returns the event counters
func (h *DebugHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, h.metrics.GetMetrics())
}
