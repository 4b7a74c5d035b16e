package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/repository"
	"github.com/wormos/shipops-api/internal/service"
	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
	logger           *zap.Logger
}

func NewWorkOrderHandler(workOrderService *service.WorkOrderService, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService: workOrderService,
		logger:           logger,
	}
}

// @Summary List work orders
// @Description List work orders with optional filters
// @Tags WorkOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Filter by status (DRAFT, PENDING_SERVICE, IN_SERVICE, COMPLETED, PENDING_SETTLEMENT)"
// @Param city query string false "Filter by city"
// @Param customerCompany query string false "Filter by customer company"
// @Param vesselName query string false "Filter by vessel name"
// @Param createdById query string false "Filter by creator"
// @Param startAfter query string false "Start date after (YYYY-MM-DD)"
// @Param startBefore query string false "Start date before (YYYY-MM-DD)"
// @Param endAfter query string false "End date after (YYYY-MM-DD)"
// @Param endBefore query string false "End date before (YYYY-MM-DD)"
// @Param hasInternalNo query bool false "Only numbered (true) or unnumbered (false) orders"
// @Param q query string false "Search vessel name, customer, internal number or IMO"
// @Param sortBy query string false "Sort field (createdAt, updatedAt, startDate, endDate, vesselName, customerCompany, status, internalNo)"
// @Param sortOrder query string false "Sort order (asc, desc)"
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /work-orders [get]
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	filters := &repository.WorkOrderFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.WorkOrderStatus(s)
		filters.Status = &status
	}
	if c := r.URL.Query().Get("city"); c != "" {
		filters.City = &c
	}
	if cc := r.URL.Query().Get("customerCompany"); cc != "" {
		filters.CustomerCompany = &cc
	}
	if v := r.URL.Query().Get("vesselName"); v != "" {
		filters.VesselName = &v
	}
	if cid := r.URL.Query().Get("createdById"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			filters.CreatedByID = &id
		}
	}
	if sa := r.URL.Query().Get("startAfter"); sa != "" {
		if t, err := time.Parse("2006-01-02", sa); err == nil {
			filters.StartAfter = &t
		}
	}
	if sb := r.URL.Query().Get("startBefore"); sb != "" {
		if t, err := time.Parse("2006-01-02", sb); err == nil {
			filters.StartBefore = &t
		}
	}
	if ea := r.URL.Query().Get("endAfter"); ea != "" {
		if t, err := time.Parse("2006-01-02", ea); err == nil {
			filters.EndAfter = &t
		}
	}
	if eb := r.URL.Query().Get("endBefore"); eb != "" {
		if t, err := time.Parse("2006-01-02", eb); err == nil {
			filters.EndBefore = &t
		}
	}
	if hn := r.URL.Query().Get("hasInternalNo"); hn != "" {
		if b, err := strconv.ParseBool(hn); err == nil {
			filters.HasInternalNo = &b
		}
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filters.SearchQuery = &q
	}

	sort := repository.DefaultSortConfig()
	if sb := r.URL.Query().Get("sortBy"); sb != "" {
		sort.Field = sb
	}
	if so := r.URL.Query().Get("sortOrder"); so != "" {
		sort.Order = repository.ParseSortOrder(so)
	}

	orders, total, err := h.workOrderService.List(r.Context(), page, pageSize, filters, sort)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to list work orders", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list work orders")
		return
	}

	respondJSON(w, http.StatusOK, mapper.NewPaginatedResponse(orders, total, page, pageSize))
}

// @Summary Create work order
// @Description Create a new work order in DRAFT status
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateWorkOrderRequest true "Work order data"
// @Success 201 {object} domain.WorkOrderDTO
// @Security BearerAuth
// @Router /work-orders [post]
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.workOrderService.Create(r.Context(), &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to create work order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create work order")
		return
	}

	w.Header().Set("Location", "/api/v1/work-orders/"+order.ID.String())
	respondJSON(w, http.StatusCreated, order)
}

// @Summary Get work order
// @Description Get a work order by ID
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} domain.WorkOrderDTO
// @Security BearerAuth
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	order, err := h.workOrderService.GetByID(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get work order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get work order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Update work order
// @Description Update an existing work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.UpdateWorkOrderRequest true "Work order data"
// @Success 200 {object} domain.WorkOrderDTO
// @Security BearerAuth
// @Router /work-orders/{id} [put]
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.UpdateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.workOrderService.Update(r.Context(), id, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to update work order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update work order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Delete work order
// @Description Soft delete a work order. Orders with an assigned internal number require a reason.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.DeleteWorkOrderRequest false "Delete reason"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.DeleteWorkOrderRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	if err := h.workOrderService.Delete(r.Context(), id, req.Reason); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete work order", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete work order")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "work order deleted"})
}

// @Summary Generate internal number
// @Description Assign the one-shot internal number derived from the operating company and date
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} domain.WorkOrderDTO
// @Failure 409 {object} domain.APIError "Number already assigned"
// @Security BearerAuth
// @Router /work-orders/{id}/generate-no [post]
func (h *WorkOrderHandler) GenerateInternalNo(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	order, err := h.workOrderService.GenerateInternalNo(r.Context(), id)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to generate internal number", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to generate internal number")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Override work order status
// @Description Manually move a work order into settlement
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.OverrideStatusRequest true "Target status"
// @Success 200 {object} domain.WorkOrderDTO
// @Security BearerAuth
// @Router /work-orders/{id}/status [put]
func (h *WorkOrderHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.OverrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, err := h.workOrderService.OverrideStatus(r.Context(), id, req.Status)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to override status", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to override status")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// @Summary Work order stats
// @Description Status counts, city distribution and engineer load
// @Tags WorkOrders
// @Produce json
// @Success 200 {object} domain.WorkOrderStatsDTO
// @Security BearerAuth
// @Router /work-orders/stats [get]
func (h *WorkOrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.workOrderService.GetStats(r.Context())
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get stats", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// @Summary Work order alerts
// @Description Orders starting soon, ending soon, or overdue
// @Tags WorkOrders
// @Produce json
// @Param horizonDays query int false "Alert horizon in days" default(3)
// @Success 200 {object} domain.WorkOrderAlertsDTO
// @Security BearerAuth
// @Router /work-orders/alerts [get]
func (h *WorkOrderHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	horizon, _ := strconv.Atoi(r.URL.Query().Get("horizonDays"))

	alerts, err := h.workOrderService.GetAlerts(r.Context(), horizon)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get alerts", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get alerts")
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}
