package handler

import (
	"net/http"
	"strconv"

	"github.com/wormos/shipops-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Dashboard overview
// @Description Work order stats, schedule alerts and the caller's unread notification count
// @Tags Dashboard
// @Produce json
// @Param horizonDays query int false "Alert horizon in days" default(3)
// @Success 200 {object} domain.DashboardDTO
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	horizon, _ := strconv.Atoi(r.URL.Query().Get("horizonDays"))

	overview, err := h.dashboardService.GetOverview(r.Context(), horizon)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get dashboard overview", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get dashboard overview")
		return
	}

	respondJSON(w, http.StatusOK, overview)
}
