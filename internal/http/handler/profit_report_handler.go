package handler

import (
	"net/http"

	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/service"
	"go.uber.org/zap"
)

type ProfitReportHandler struct {
	reportService *service.ProfitReportService
	logger        *zap.Logger
}

func NewProfitReportHandler(reportService *service.ProfitReportService, logger *zap.Logger) *ProfitReportHandler {
	return &ProfitReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// @Summary Generate profit report
// @Description Reconcile both ledgers into a new draft report
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Success 201 {object} domain.ProfitReportDTO
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports [post]
func (h *ProfitReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	report, err := h.reportService.Generate(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to generate profit report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to generate profit report")
		return
	}

	respondJSON(w, http.StatusCreated, report)
}

// @Summary List profit reports
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} domain.PaginatedResponse
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports [get]
func (h *ProfitReportHandler) List(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	page, pageSize := pagination(r)
	reports, total, err := h.reportService.ListByWorkOrder(r.Context(), workOrderID, page, pageSize)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to list profit reports", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list profit reports")
		return
	}

	respondJSON(w, http.StatusOK, mapper.NewPaginatedResponse(reports, total, page, pageSize))
}

// @Summary Get profit report
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Param reportId path string true "Report ID"
// @Success 200 {object} domain.ProfitReportDTO
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports/{reportId} [get]
func (h *ProfitReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	reportID, err := urlUUID(r, "reportId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID: must be a valid UUID")
		return
	}

	report, err := h.reportService.GetByID(r.Context(), workOrderID, reportID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get profit report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get profit report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// @Summary Latest profit report
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} domain.ProfitReportDTO
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports/latest [get]
func (h *ProfitReportHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	report, err := h.reportService.GetLatest(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get latest profit report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get latest profit report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// @Summary Confirm profit report
// @Description Recompute, lock the cost ledger and freeze the report with verbatim snapshots
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Param reportId path string true "Report ID"
// @Success 200 {object} domain.ProfitReportDTO
// @Failure 409 {object} domain.APIError "Already confirmed"
// @Failure 422 {object} domain.APIError "Missing cost or revenue basis"
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports/{reportId}/confirm [post]
func (h *ProfitReportHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	reportID, err := urlUUID(r, "reportId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID: must be a valid UUID")
		return
	}

	report, err := h.reportService.Confirm(r.Context(), workOrderID, reportID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to confirm profit report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to confirm profit report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// @Summary Export profit report
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Param reportId path string true "Report ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports/{reportId}/export [post]
func (h *ProfitReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	reportID, err := urlUUID(r, "reportId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID: must be a valid UUID")
		return
	}

	result, err := h.reportService.Export(r.Context(), workOrderID, reportID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to export profit report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to export profit report")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// @Summary Print profit report
// @Tags ProfitReports
// @Produce json
// @Param id path string true "Work order ID"
// @Param reportId path string true "Report ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/profit-reports/{reportId}/print [post]
func (h *ProfitReportHandler) Print(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	reportID, err := urlUUID(r, "reportId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report ID: must be a valid UUID")
		return
	}

	result, err := h.reportService.Print(r.Context(), workOrderID, reportID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to print profit report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to print profit report")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
