package handler

import (
	"encoding/json"
	"net/http"

	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/service"
	"go.uber.org/zap"
)

type IncomeHandler struct {
	incomeService *service.IncomeService
	logger        *zap.Logger
}

func NewIncomeHandler(incomeService *service.IncomeService, logger *zap.Logger) *IncomeHandler {
	return &IncomeHandler{
		incomeService: incomeService,
		logger:        logger,
	}
}

// @Summary Income overview
// @Description Quotes, invoices, payments and the derived snapshot
// @Tags Income
// @Produce json
// @Param id path string true "Work order ID"
// @Success 200 {object} domain.IncomeOverviewDTO
// @Security BearerAuth
// @Router /work-orders/{id}/income [get]
func (h *IncomeHandler) Overview(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	overview, err := h.incomeService.GetOverview(r.Context(), workOrderID)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to get income overview", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get income overview")
		return
	}

	respondJSON(w, http.StatusOK, overview)
}

// @Summary Create quote
// @Tags Income
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.CreateQuoteRequest true "Quote data"
// @Success 201 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /work-orders/{id}/quotes [post]
func (h *IncomeHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.incomeService.CreateQuote(r.Context(), workOrderID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to create quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create quote")
		return
	}

	respondJSON(w, http.StatusCreated, quote)
}

// @Summary Update quote
// @Tags Income
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param quoteId path string true "Quote ID"
// @Param request body domain.UpdateQuoteRequest true "Quote data"
// @Success 200 {object} domain.QuoteDTO
// @Security BearerAuth
// @Router /work-orders/{id}/quotes/{quoteId} [put]
func (h *IncomeHandler) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	quoteID, err := urlUUID(r, "quoteId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quote, err := h.incomeService.UpdateQuote(r.Context(), workOrderID, quoteID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to update quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update quote")
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// @Summary Delete quote
// @Tags Income
// @Produce json
// @Param id path string true "Work order ID"
// @Param quoteId path string true "Quote ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/quotes/{quoteId} [delete]
func (h *IncomeHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	quoteID, err := urlUUID(r, "quoteId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quote ID: must be a valid UUID")
		return
	}

	if err := h.incomeService.DeleteQuote(r.Context(), workOrderID, quoteID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete quote", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete quote")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "quote deleted"})
}

// @Summary Create invoice
// @Tags Income
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} domain.InvoiceDTO
// @Security BearerAuth
// @Router /work-orders/{id}/invoices [post]
func (h *IncomeHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	invoice, err := h.incomeService.CreateInvoice(r.Context(), workOrderID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to create invoice", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	respondJSON(w, http.StatusCreated, invoice)
}

// @Summary Update invoice
// @Tags Income
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param invoiceId path string true "Invoice ID"
// @Param request body domain.UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} domain.InvoiceDTO
// @Security BearerAuth
// @Router /work-orders/{id}/invoices/{invoiceId} [put]
func (h *IncomeHandler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	invoiceID, err := urlUUID(r, "invoiceId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID: must be a valid UUID")
		return
	}

	var req domain.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	invoice, err := h.incomeService.UpdateInvoice(r.Context(), workOrderID, invoiceID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to update invoice", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	respondJSON(w, http.StatusOK, invoice)
}

// @Summary Delete invoice
// @Tags Income
// @Produce json
// @Param id path string true "Work order ID"
// @Param invoiceId path string true "Invoice ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/invoices/{invoiceId} [delete]
func (h *IncomeHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	invoiceID, err := urlUUID(r, "invoiceId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid invoice ID: must be a valid UUID")
		return
	}

	if err := h.incomeService.DeleteInvoice(r.Context(), workOrderID, invoiceID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete invoice", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "invoice deleted"})
}

// @Summary Create payment receipt
// @Tags Income
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param request body domain.CreatePaymentRequest true "Payment data"
// @Success 201 {object} domain.PaymentReceiptDTO
// @Security BearerAuth
// @Router /work-orders/{id}/payments [post]
func (h *IncomeHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}

	var req domain.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	receipt, err := h.incomeService.CreatePayment(r.Context(), workOrderID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to create payment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create payment")
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}

// @Summary Update payment receipt
// @Tags Income
// @Accept json
// @Produce json
// @Param id path string true "Work order ID"
// @Param paymentId path string true "Payment receipt ID"
// @Param request body domain.UpdatePaymentRequest true "Payment data"
// @Success 200 {object} domain.PaymentReceiptDTO
// @Security BearerAuth
// @Router /work-orders/{id}/payments/{paymentId} [put]
func (h *IncomeHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	paymentID, err := urlUUID(r, "paymentId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid payment ID: must be a valid UUID")
		return
	}

	var req domain.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	receipt, err := h.incomeService.UpdatePayment(r.Context(), workOrderID, paymentID, &req)
	if err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to update payment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update payment")
		return
	}

	respondJSON(w, http.StatusOK, receipt)
}

// @Summary Delete payment receipt
// @Tags Income
// @Produce json
// @Param id path string true "Work order ID"
// @Param paymentId path string true "Payment receipt ID"
// @Success 200 {object} domain.MessageResponse
// @Security BearerAuth
// @Router /work-orders/{id}/payments/{paymentId} [delete]
func (h *IncomeHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	workOrderID, err := urlUUID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID: must be a valid UUID")
		return
	}
	paymentID, err := urlUUID(r, "paymentId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid payment ID: must be a valid UUID")
		return
	}

	if err := h.incomeService.DeletePayment(r.Context(), workOrderID, paymentID); err != nil {
		if respondServiceError(w, err) {
			return
		}
		h.logger.Error("failed to delete payment", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to delete payment")
		return
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "payment deleted"})
}
