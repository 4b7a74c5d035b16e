package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IncomeService manages the income ledger of work orders: quotes,
// invoices and payment receipts, plus the derived income snapshot.
type IncomeService struct {
	quoteRepo     *repository.QuoteRepository
	invoiceRepo   *repository.InvoiceRepository
	paymentRepo   *repository.PaymentRepository
	workOrderRepo *repository.WorkOrderRepository
	auditService  *AuditLogService
	logger        *zap.Logger
}

func NewIncomeService(
	quoteRepo *repository.QuoteRepository,
	invoiceRepo *repository.InvoiceRepository,
	paymentRepo *repository.PaymentRepository,
	workOrderRepo *repository.WorkOrderRepository,
	auditService *AuditLogService,
	logger *zap.Logger,
) *IncomeService {
	return &IncomeService{
		quoteRepo:     quoteRepo,
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
		workOrderRepo: workOrderRepo,
		auditService:  auditService,
		logger:        logger,
	}
}

// loadWorkOrder fetches the parent and enforces the financial access rule
func (s *IncomeService) loadWorkOrder(ctx context.Context, workOrderID uuid.UUID, write bool) (*domain.WorkOrder, *auth.UserContext, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, nil, ErrUnauthorized
	}

	workOrder, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if workOrder.IsDeleted() {
		return nil, nil, ErrNotFound
	}

	allowed := auth.CanViewFinancials(userCtx, workOrder)
	if write {
		allowed = auth.CanEditFinancials(userCtx, workOrder)
	}
	if !allowed {
		return nil, nil, ErrPermissionDenied
	}

	return workOrder, userCtx, nil
}

// Quotes

func (s *IncomeService) CreateQuote(ctx context.Context, workOrderID uuid.UUID, req *domain.CreateQuoteRequest) (*domain.QuoteDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		WorkOrderID: workOrderID,
		Amount:      RoundMoney(req.Amount),
		Currency:    req.Currency,
		Notes:       req.Notes,
		CreatedByID: userCtx.UserID,
	}

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	// Marking final swaps the flag atomically so only one final quote survives
	if req.IsFinal {
		if err := s.quoteRepo.SetFinal(ctx, workOrderID, quote.ID); err != nil {
			return nil, fmt.Errorf("failed to mark quote final: %w", err)
		}
		quote.IsFinal = true
	}

	s.auditService.Record(ctx, domain.AuditQuoteCreate, "quote", &quote.ID, map[string]interface{}{
		"workOrderId": workOrderID.String(),
		"amount":      quote.Amount,
		"isFinal":     quote.IsFinal,
	})

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

func (s *IncomeService) UpdateQuote(ctx context.Context, workOrderID, quoteID uuid.UUID, req *domain.UpdateQuoteRequest) (*domain.QuoteDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if quote.WorkOrderID != workOrderID {
		return nil, ErrNotFound
	}

	promote := req.IsFinal && !quote.IsFinal

	quote.Amount = RoundMoney(req.Amount)
	quote.Currency = req.Currency
	quote.Notes = req.Notes
	quote.IsFinal = quote.IsFinal && req.IsFinal

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	// Promotion goes through the atomic swap so the prior final is cleared
	// in the same transaction
	if promote {
		if err := s.quoteRepo.SetFinal(ctx, workOrderID, quote.ID); err != nil {
			return nil, fmt.Errorf("failed to mark quote final: %w", err)
		}
		quote.IsFinal = true
	}

	s.auditService.Record(ctx, domain.AuditQuoteUpdate, "quote", &quote.ID, nil)

	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

func (s *IncomeService) DeleteQuote(ctx context.Context, workOrderID, quoteID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return err
	}

	quote, err := s.quoteRepo.GetByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get quote: %w", err)
	}
	if quote.WorkOrderID != workOrderID {
		return ErrNotFound
	}

	if err := s.quoteRepo.Delete(ctx, quoteID); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditQuoteDelete, "quote", &quoteID, nil)
	return nil
}

// Invoices

func (s *IncomeService) CreateInvoice(ctx context.Context, workOrderID uuid.UUID, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.InvoiceStatusDraft
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid invoice status", ErrInvalidInput)
	}

	invoice := &domain.Invoice{
		WorkOrderID: workOrderID,
		InvoiceNo:   req.InvoiceNo,
		Amount:      RoundMoney(req.Amount),
		Currency:    req.Currency,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		Status:      status,
		Notes:       req.Notes,
		CreatedByID: userCtx.UserID,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditInvoiceCreate, "invoice", &invoice.ID, map[string]interface{}{
		"workOrderId": workOrderID.String(),
		"invoiceNo":   invoice.InvoiceNo,
		"amount":      invoice.Amount,
	})

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *IncomeService) UpdateInvoice(ctx context.Context, workOrderID, invoiceID uuid.UUID, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice.WorkOrderID != workOrderID {
		return nil, ErrNotFound
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid invoice status", ErrInvalidInput)
	}

	invoice.InvoiceNo = req.InvoiceNo
	invoice.Amount = RoundMoney(req.Amount)
	invoice.Currency = req.Currency
	invoice.IssueDate = req.IssueDate
	invoice.DueDate = req.DueDate
	invoice.Status = req.Status
	invoice.Notes = req.Notes

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditInvoiceUpdate, "invoice", &invoice.ID, nil)

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *IncomeService) DeleteInvoice(ctx context.Context, workOrderID, invoiceID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get invoice: %w", err)
	}
	if invoice.WorkOrderID != workOrderID {
		return ErrNotFound
	}

	if err := s.invoiceRepo.Delete(ctx, invoiceID); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditInvoiceDelete, "invoice", &invoiceID, nil)
	return nil
}

// Payments

func (s *IncomeService) CreatePayment(ctx context.Context, workOrderID uuid.UUID, req *domain.CreatePaymentRequest) (*domain.PaymentReceiptDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.GetByID(ctx, *req.InvoiceID)
		if err != nil || invoice.WorkOrderID != workOrderID {
			return nil, fmt.Errorf("%w: invoice does not belong to work order", ErrInvalidInput)
		}
	}

	receipt := &domain.PaymentReceipt{
		WorkOrderID: workOrderID,
		InvoiceID:   req.InvoiceID,
		ReceiptNo:   req.ReceiptNo,
		Amount:      RoundMoney(req.Amount),
		Currency:    req.Currency,
		Date:        req.Date,
		Method:      req.Method,
		Reference:   req.Reference,
		CreatedByID: userCtx.UserID,
	}

	if err := s.paymentRepo.Create(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to create payment receipt: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditPaymentCreate, "payment_receipt", &receipt.ID, map[string]interface{}{
		"workOrderId": workOrderID.String(),
		"amount":      receipt.Amount,
	})

	dto := mapper.ToPaymentReceiptDTO(receipt)
	return &dto, nil
}

func (s *IncomeService) UpdatePayment(ctx context.Context, workOrderID, receiptID uuid.UUID, req *domain.UpdatePaymentRequest) (*domain.PaymentReceiptDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	receipt, err := s.paymentRepo.GetByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment receipt: %w", err)
	}
	if receipt.WorkOrderID != workOrderID {
		return nil, ErrNotFound
	}

	if req.InvoiceID != nil {
		invoice, err := s.invoiceRepo.GetByID(ctx, *req.InvoiceID)
		if err != nil || invoice.WorkOrderID != workOrderID {
			return nil, fmt.Errorf("%w: invoice does not belong to work order", ErrInvalidInput)
		}
	}

	receipt.InvoiceID = req.InvoiceID
	receipt.ReceiptNo = req.ReceiptNo
	receipt.Amount = RoundMoney(req.Amount)
	receipt.Currency = req.Currency
	receipt.Date = req.Date
	receipt.Method = req.Method
	receipt.Reference = req.Reference

	if err := s.paymentRepo.Update(ctx, receipt); err != nil {
		return nil, fmt.Errorf("failed to update payment receipt: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditPaymentUpdate, "payment_receipt", &receipt.ID, nil)

	dto := mapper.ToPaymentReceiptDTO(receipt)
	return &dto, nil
}

func (s *IncomeService) DeletePayment(ctx context.Context, workOrderID, receiptID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return err
	}

	receipt, err := s.paymentRepo.GetByID(ctx, receiptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get payment receipt: %w", err)
	}
	if receipt.WorkOrderID != workOrderID {
		return ErrNotFound
	}

	if err := s.paymentRepo.Delete(ctx, receiptID); err != nil {
		return fmt.Errorf("failed to delete payment receipt: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditPaymentDelete, "payment_receipt", &receiptID, nil)
	return nil
}

// GetOverview bundles the full income ledger with the derived snapshot
func (s *IncomeService) GetOverview(ctx context.Context, workOrderID uuid.UUID) (*domain.IncomeOverviewDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return nil, err
	}

	quotes, err := s.quoteRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	invoices, err := s.invoiceRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	payments, err := s.paymentRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return &domain.IncomeOverviewDTO{
		Quotes:   mapper.ToQuoteDTOs(quotes),
		Invoices: mapper.ToInvoiceDTOs(invoices),
		Payments: mapper.ToPaymentReceiptDTOs(payments),
		Snapshot: ComputeIncomeSnapshot(quotes, invoices, payments),
	}, nil
}

// GetSnapshot returns the derived income figures without the ledgers
func (s *IncomeService) GetSnapshot(ctx context.Context, workOrderID uuid.UUID) (*domain.IncomeSnapshotDTO, error) {
	overview, err := s.GetOverview(ctx, workOrderID)
	if err != nil {
		return nil, err
	}
	return &overview.Snapshot, nil
}

// ComputeIncomeSnapshot derives the income figures from the raw ledgers.
// Nothing is stored; totals are recomputed on every call.
func ComputeIncomeSnapshot(quotes []domain.Quote, invoices []domain.Invoice, payments []domain.PaymentReceipt) domain.IncomeSnapshotDTO {
	var snapshot domain.IncomeSnapshotDTO

	quoteAmounts := make([]float64, 0, len(quotes))
	for _, q := range quotes {
		quoteAmounts = append(quoteAmounts, q.Amount)
		if q.IsFinal {
			snapshot.FinalQuoteAmount = q.Amount
		}
	}
	snapshot.QuoteTotal = SumMoney(quoteAmounts...)

	invoiceAmounts := make([]float64, 0, len(invoices))
	for _, inv := range invoices {
		invoiceAmounts = append(invoiceAmounts, inv.Amount)
	}
	snapshot.InvoiceTotal = SumMoney(invoiceAmounts...)

	paymentAmounts := make([]float64, 0, len(payments))
	for _, p := range payments {
		paymentAmounts = append(paymentAmounts, p.Amount)
	}
	snapshot.ReceiptsTotal = SumMoney(paymentAmounts...)

	snapshot.Outstanding = SumMoney(snapshot.InvoiceTotal, -snapshot.ReceiptsTotal)

	return snapshot
}
