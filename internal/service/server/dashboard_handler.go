package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vertextoedge/academic-admin/internal/service/dashboard"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboard *dashboard.Service
	logger    *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *dashboard.Service, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleStats returns the dashboard figures
func (h *DashboardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.GetStats()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleActivity returns the recent activity feed; ?limit= overrides the default
func (h *DashboardHandler) HandleActivity(w http.ResponseWriter, r *http.Request) {
	items, err := h.dashboard.RecentActivity(queryInt(r, "limit"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleDebtors returns enrollments with a pending balance; ?limit= overrides the default
func (h *DashboardHandler) HandleDebtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.dashboard.Debtors(queryInt(r, "limit"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, debtors)
}

// HandleOccupancy returns the occupancy of active courses
func (h *DashboardHandler) HandleOccupancy(w http.ResponseWriter, r *http.Request) {
	occupancy, err := h.dashboard.CourseOccupancy()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, occupancy)
}
