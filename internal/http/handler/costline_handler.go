package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/service"
	"go.uber.org/zap"
)

type CostLineHandler struct {
	costLineService   *service.CostLineService
	attachmentService *service.AttachmentService
	logger            *zap.Logger
}

func NewCostLineHandler(
	costLineService *service.CostLineService,
	attachmentService *service.AttachmentService,
	logger *zap.Logger,
) *CostLineHandler {
	return &CostLineHandler{
		costLineService:   costLineService,
		attachmentService: attachmentService,
		logger:            logger,
	}
}

// @Summary List cost lines
// @Description List the cost ledger of a work order
// @Tags Costs
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {array} domain.CostLineDTO
// @Security BearerAuth
// @Router /work-orders/{id}/cost-lines [get]
func (h *CostLineHandler) List(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	lines, err := h.costLineService.ListByWorkOrder(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to list cost lines", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list cost lines")
		return
	}

	respondJSON(w, http.StatusOK, lines)
}

// @Summary Create cost line
// @Description Add a line to the cost ledger
// @Tags Costs
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.CreateCostLineRequest true "Cost line data"
// @Success 201 {object} domain.CostLineDTO
// @Security BearerAuth
// @Router /work-orders/{id}/cost-lines [post]
func (h *CostLineHandler) Create(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.CreateCostLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	line, err := h.costLineService.Create(r.Context(), workOrderID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to create cost line", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create cost line")
		return
	}

	respondJSON(w, http.StatusCreated, line)
}

// @Summary Update cost line
// @Description Update an unlocked cost line
// @Tags Costs
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param lineId path string true "Cost line ID"
// @Param request body domain.UpdateCostLineRequest true "Cost line data"
// @Success 200 {object} domain.CostLineDTO
// @Failure 409 {object} domain.APIError "Line is locked"
// @Security BearerAuth
// @Router /work-orders/{id}/cost-lines/{lineId} [put]
func (h *CostLineHandler) Update(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	lineID, err := urlUUID(r, "lineId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost line ID: must be a valid UUID")
		return
	}

	var req domain.UpdateCostLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	line, err := h.costLineService.Update(r.Context(), workOrderID, lineID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to update cost line", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update cost line")
		return
	}

	respondJSON(w, http.StatusOK, line)
}

// @Summary Delete cost line
// @Description Soft delete an unlocked cost line
// @Tags Costs
// @Produce json
// @Param id path string true "Work order ID"
// @Param lineId path string true "Cost line ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/cost-lines/{lineId} [delete]
func (h *CostLineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	lineID, err := urlUUID(r, "lineId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid cost line ID: must be a valid UUID")
		return
	}

	if err := h.costLineService.Delete(r.Context(), workOrderID, lineID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete cost line", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete cost line")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "cost line deleted"})
}

// @Summary Cost summary
// @Description Aggregated totals of the cost ledger
// @Tags Costs
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} domain.CostSummaryDTO
// @Security BearerAuth
// @Router /work-orders/{id}/cost-lines/summary [get]
func (h *CostLineHandler) Summary(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	summary, err := h.costLineService.GetSummary(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to summarize cost lines", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to summarize cost lines")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// @Summary Lock cost lines
// @Description Freeze every unlocked cost line of the work order. Idempotent.
// @Tags Costs
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /work-orders/{id}/cost-lines/lock [post]
func (h *CostLineHandler) LockAll(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	locked, err := h.costLineService.LockAll(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to lock cost lines", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to lock cost lines")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"lockedCount": locked})
}

// @Summary Upload cost attachment
// @Description Attach a document to the cost ledger, optionally pinned to one line
// @Tags Costs
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Work order ID"
// @Param file formData file true "File to upload"
// @Param costLineId formData string false "Cost line to pin the file to"
// @Success 201 {object} domain.AttachmentDTO
// @Security BearerAuth
// @Router /work-orders/{id}/cost-attachments [post]
func (h *CostLineHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file in request")
		return
	}
	defer file.Close()

	var costLineID *uuid.UUID
	if raw := r.FormValue("costLineId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid cost line ID: must be a valid UUID")
			return
		}
		costLineID = &id
	}

	input := &service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}

	attachment, err := h.attachmentService.UploadCostAttachment(r.Context(), workOrderID, costLineID, input)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to upload attachment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to upload attachment")
		return
	}

	respondJSON(w, http.StatusCreated, attachment)
}

// @Summary List cost attachments
// @Tags Costs
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {array} domain.AttachmentDTO
// @Security BearerAuth
// @Router /work-orders/{id}/cost-attachments [get]
func (h *CostLineHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	attachments, err := h.attachmentService.ListCostAttachments(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to list attachments", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list attachments")
		return
	}

	respondJSON(w, http.StatusOK, attachments)
}

// @Summary Download cost attachment
// @Tags Costs
// @Produce octet-stream
// @Param id path string true "Work order ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /work-orders/{id}/cost-attachments/{attachmentId} [get]
func (h *CostLineHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	attachmentID, err := urlUUID(r, "attachmentId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	reader, meta, err := h.attachmentService.DownloadCostAttachment(r.Context(), workOrderID, attachmentID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to download attachment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to download attachment")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", meta.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+meta.Filename+`"`)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream attachment", zap.Error(err))
	}
}

// @Summary Delete cost attachment
// @Tags Costs
// @Produce json
// @Param id path string true "Work order ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/cost-attachments/{attachmentId} [delete]
func (h *CostLineHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	attachmentID, err := urlUUID(r, "attachmentId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	if err := h.attachmentService.DeleteCostAttachment(r.Context(), workOrderID, attachmentID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete attachment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "attachment deleted"})
}
