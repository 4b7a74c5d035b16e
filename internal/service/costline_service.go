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

// CostLineService manages the cost ledger of work orders
type CostLineService struct {
	costLineRepo  *repository.CostLineRepository
	workOrderRepo *repository.WorkOrderRepository
	auditService  *AuditLogService
	logger        *zap.Logger
}

func NewCostLineService(
	costLineRepo *repository.CostLineRepository,
	workOrderRepo *repository.WorkOrderRepository,
	auditService *AuditLogService,
	logger *zap.Logger,
) *CostLineService {
	return &CostLineService{
		costLineRepo:  costLineRepo,
		workOrderRepo: workOrderRepo,
		auditService:  auditService,
		logger:        logger,
	}
}

// loadWorkOrder fetches the parent and enforces the financial edit rule
func (s *CostLineService) loadWorkOrder(ctx context.Context, workOrderID uuid.UUID, write bool) (*domain.WorkOrder, *auth.UserContext, error) {
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

func (s *CostLineService) Create(ctx context.Context, workOrderID uuid.UUID, req *domain.CreateCostLineRequest) (*domain.CostLineDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: invalid cost category", ErrInvalidInput)
	}
	if req.UnitPrice <= 0 {
		return nil, fmt.Errorf("%w: unit price must be positive", ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	line := &domain.CostLine{
		WorkOrderID: workOrderID,
		ItemName:    req.ItemName,
		Category:    req.Category,
		UnitPrice:   RoundMoney(req.UnitPrice),
		Quantity:    req.Quantity,
		LineTotal:   LineTotal(req.UnitPrice, req.Quantity),
		Notes:       req.Notes,
		CreatedByID: userCtx.UserID,
	}

	if err := s.costLineRepo.Create(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to create cost line: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditCostLineCreate, "cost_line", &line.ID, map[string]interface{}{
		"workOrderId": workOrderID.String(),
		"itemName":    line.ItemName,
		"lineTotal":   line.LineTotal,
	})

	dto := mapper.ToCostLineDTO(line)
	return &dto, nil
}

func (s *CostLineService) Update(ctx context.Context, workOrderID, lineID uuid.UUID, req *domain.UpdateCostLineRequest) (*domain.CostLineDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	line, err := s.getLine(ctx, workOrderID, lineID)
	if err != nil {
		return nil, err
	}
	if line.IsLocked {
		return nil, ErrCostLineLocked
	}

	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: invalid cost category", ErrInvalidInput)
	}
	if req.UnitPrice <= 0 {
		return nil, fmt.Errorf("%w: unit price must be positive", ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	line.ItemName = req.ItemName
	line.Category = req.Category
	line.UnitPrice = RoundMoney(req.UnitPrice)
	line.Quantity = req.Quantity
	line.LineTotal = LineTotal(req.UnitPrice, req.Quantity)
	line.Notes = req.Notes

	if err := s.costLineRepo.Update(ctx, line); err != nil {
		return nil, fmt.Errorf("failed to update cost line: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditCostLineUpdate, "cost_line", &line.ID, nil)

	dto := mapper.ToCostLineDTO(line)
	return &dto, nil
}

func (s *CostLineService) Delete(ctx context.Context, workOrderID, lineID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return err
	}

	line, err := s.getLine(ctx, workOrderID, lineID)
	if err != nil {
		return err
	}
	if line.IsLocked {
		return ErrCostLineLocked
	}

	if err := s.costLineRepo.SoftDelete(ctx, lineID); err != nil {
		return fmt.Errorf("failed to delete cost line: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditCostLineDelete, "cost_line", &lineID, nil)
	return nil
}

func (s *CostLineService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.CostLineDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return nil, err
	}

	lines, err := s.costLineRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost lines: %w", err)
	}

	return mapper.ToCostLineDTOs(lines), nil
}

// GetSummary aggregates the live cost lines of a work order
func (s *CostLineService) GetSummary(ctx context.Context, workOrderID uuid.UUID) (*domain.CostSummaryDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return nil, err
	}

	total, categories, lineCount, lockedCount, err := s.costLineRepo.GetSummary(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize cost lines: %w", err)
	}

	summary := &domain.CostSummaryDTO{
		TotalCost:      RoundMoney(total),
		CategoryTotals: make(map[domain.CostCategory]float64),
		LineCount:      int(lineCount),
		LockedCount:    int(lockedCount),
	}
	for _, row := range categories {
		summary.CategoryTotals[row.Category] = RoundMoney(row.Total)
	}

	return summary, nil
}

// LockAll freezes every unlocked cost line of the work order. Locking is
// restricted to finance staff and admins and is idempotent: re-locking an
// already frozen ledger succeeds and reports zero newly locked lines.
func (s *CostLineService) LockAll(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUnauthorized
	}
	if !auth.CanLockCostLines(userCtx) {
		return 0, ErrPermissionDenied
	}

	workOrder, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get work order: %w", err)
	}
	if workOrder.IsDeleted() {
		return 0, ErrNotFound
	}

	locked, err := s.costLineRepo.LockAll(ctx, workOrderID, userCtx.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to lock cost lines: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditCostLinesLock, "work_order", &workOrderID, map[string]interface{}{
		"lockedCount": locked,
	})

	return locked, nil
}

func (s *CostLineService) getLine(ctx context.Context, workOrderID, lineID uuid.UUID) (*domain.CostLine, error) {
	line, err := s.costLineRepo.GetByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cost line: %w", err)
	}
	if line.WorkOrderID != workOrderID || line.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return line, nil
}
