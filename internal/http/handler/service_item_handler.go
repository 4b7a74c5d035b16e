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

type ServiceItemHandler struct {
	serviceItemService *service.ServiceItemService
	attachmentService  *service.AttachmentService
	logger             *zap.Logger
}

func NewServiceItemHandler(
	serviceItemService *service.ServiceItemService,
	attachmentService *service.AttachmentService,
	logger *zap.Logger,
) *ServiceItemHandler {
	return &ServiceItemHandler{
		serviceItemService: serviceItemService,
		attachmentService:  attachmentService,
		logger:             logger,
	}
}

// @Summary List service items
// @Description List the equipment serviced under a work order
// @Tags ServiceItems
// @Produce json
// @Param id path string true "Work order ID"
// @Param status query string false "Filter by status (PENDING, IN_PROGRESS, COMPLETED)"
// @Param engineerId query string false "Filter by assigned engineer"
// @Param equipment query string false "Search equipment name"
// @Success 200 {array} domain.ServiceItemDTO
// @Security BearerAuth
// @Router /work-orders/{id}/service-items [get]
func (h *ServiceItemHandler) List(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	filters := &service.ServiceItemFilters{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ServiceItemStatus(s)
		filters.Status = &status
	}
	if e := r.URL.Query().Get("engineerId"); e != "" {
		if id, err := uuid.Parse(e); err == nil {
			filters.EngineerID = &id
		}
	}
	filters.EquipmentSearch = r.URL.Query().Get("equipment")

	items, err := h.serviceItemService.ListByWorkOrder(r.Context(), workOrderID, filters)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to list service items", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list service items")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// @Summary Create service item
// @Tags ServiceItems
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.CreateServiceItemRequest true "Service item data"
// @Success 201 {object} domain.ServiceItemDTO
// @Security BearerAuth
// @Router /work-orders/{id}/service-items [post]
func (h *ServiceItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.CreateServiceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.serviceItemService.Create(r.Context(), workOrderID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to create service item", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create service item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// @Summary Get service item
// @Tags ServiceItems
// @Produce json
// @Param id path string true "Work order ID"
// @Param itemId path string true "Service item ID"
// @Success 200 {object} domain.ServiceItemDTO
// @Security BearerAuth
// @Router /work-orders/{id}/service-items/{itemId} [get]
func (h *ServiceItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	itemID, err := urlUUID(r, "itemId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}

	item, err := h.serviceItemService.GetByID(r.Context(), workOrderID, itemID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get service item", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get service item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// @Summary Update service item
// @Tags ServiceItems
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param itemId path string true "Service item ID"
// @Param request body domain.UpdateServiceItemRequest true "Service item data"
// @Success 200 {object} domain.ServiceItemDTO
// @Security BearerAuth
// @Router /work-orders/{id}/service-items/{itemId} [put]
func (h *ServiceItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	itemID, err := urlUUID(r, "itemId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}

	var req domain.UpdateServiceItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.serviceItemService.Update(r.Context(), workOrderID, itemID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to update service item", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update service item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// @Summary Delete service item
// @Tags ServiceItems
// @Produce json
// @Param id path string true "Work order ID"
// @Param itemId path string true "Service item ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/service-items/{itemId} [delete]
func (h *ServiceItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	itemID, err := urlUUID(r, "itemId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}

	if err := h.serviceItemService.Delete(r.Context(), workOrderID, itemID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete service item", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete service item")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "service item deleted"})
}

// @Summary Upload service attachment
// @Tags ServiceItems
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Work order ID"
// @Param itemId path string true "Service item ID"
// @Param file formData file true "File to upload"
// @Success 201 {object} domain.AttachmentDTO
// @Security BearerAuth
// @Router /work-orders/{id}/service-items/{itemId}/attachments [post]
func (h *ServiceItemHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	itemID, err := urlUUID(r, "itemId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file in request")
		return
	}
	defer file.Close()

	input := &service.UploadInput{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        file,
	}

	attachment, err := h.attachmentService.UploadServiceAttachment(r.Context(), workOrderID, itemID, input)
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

// @Summary Download service attachment
// @Tags ServiceItems
// @Produce octet-stream
// @Param id path string true "Work order ID"
// @Param itemId path string true "Service item ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /work-orders/{id}/service-items/{itemId}/attachments/{attachmentId} [get]
func (h *ServiceItemHandler) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	itemID, err := urlUUID(r, "itemId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}
	attachmentID, err := urlUUID(r, "attachmentId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	reader, meta, err := h.attachmentService.DownloadServiceAttachment(r.Context(), workOrderID, itemID, attachmentID)
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

// @Summary Delete service attachment
// @Tags ServiceItems
// @Produce json
// @Param id path string true "Work order ID"
// @Param itemId path string true "Service item ID"
// @Param attachmentId path string true "Attachment ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/service-items/{itemId}/attachments/{attachmentId} [delete]
func (h *ServiceItemHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	itemID, err := urlUUID(r, "itemId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid service item ID: must be a valid UUID")
		return
	}
	attachmentID, err := urlUUID(r, "attachmentId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid attachment ID: must be a valid UUID")
		return
	}

	if err := h.attachmentService.DeleteServiceAttachment(r.Context(), workOrderID, itemID, attachmentID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete attachment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete attachment")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "attachment deleted"})
}
