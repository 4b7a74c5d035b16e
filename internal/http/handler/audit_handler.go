package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler handles audit log related HTTP requests
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Returns a paginated list of audit log entries with optional filters. Admin only.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param userId query string false "Filter by user ID"
// @Param action query string false "Filter by action type"
// @Param entityType query string false "Filter by entity type"
// @Param entityId query string false "Filter by entity ID"
// @Param startTime query string false "Filter by start time (RFC3339)"
// @Param endTime query string false "Filter by end time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	params := service.AuditLogQueryParams{
		Page:       page,
		PageSize:   pageSize,
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
	}

	if raw := r.URL.Query().Get("userId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.UserID = &id
		}
	}
	if raw := r.URL.Query().Get("entityId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.EntityID = &id
		}
	}
	if raw := r.URL.Query().Get("startTime"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			params.StartTime = &t
		}
	}
	if raw := r.URL.Query().Get("endTime"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			params.EndTime = &t
		}
	}

	logs, total, err := h.auditService.List(r.Context(), params)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list audit logs")
		return
	}

	respondJSON(w, http.StatusOK, mapper.NewPaginatedResponse(logs, total, page, pageSize))
}

// GetByEntity godoc
// @Summary Audit trail for one entity
// @Description Returns recent audit entries for a specific entity. Admin only.
// @Tags Audit
// @Produce json
// @Param entityType path string true "Entity type"
// @Param entityId path string true "Entity ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {array} domain.AuditLogDTO
// @Security BearerAuth
// @Router /audit-logs/{entityType}/{entityId} [get]
func (h *AuditHandler) GetByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := urlParam(r, "entityType")
	entityID, err := urlUUID(r, "entityId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid entity ID: must be a valid UUID")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := parseInt(raw); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := h.auditService.GetByEntity(r.Context(), entityType, entityID, limit)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get audit trail", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get audit trail")
		return
	}

	respondJSON(w, http.StatusOK, logs)
}
