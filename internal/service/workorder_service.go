package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Internal number prefixes by operating company. Companies outside the
// known set fall back to the generic AX prefix.
var operatingCompanyPrefixes = map[string]string{
	"wormos": "XQ",
	"iship":  "KD",
}

const fallbackInternalNoPrefix = "AX"

type WorkOrderService struct {
	workOrderRepo    *repository.WorkOrderRepository
	userRepo         *repository.UserRepository
	auditService     *AuditLogService
	notificationRepo *repository.NotificationRepository
	adminEmail       string
	logger           *zap.Logger
}

func NewWorkOrderService(
	workOrderRepo *repository.WorkOrderRepository,
	userRepo *repository.UserRepository,
	auditService *AuditLogService,
	notificationRepo *repository.NotificationRepository,
	adminEmail string,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		workOrderRepo:    workOrderRepo,
		userRepo:         userRepo,
		auditService:     auditService,
		notificationRepo: notificationRepo,
		adminEmail:       adminEmail,
		logger:           logger,
	}
}

// DeriveStatus computes the lifecycle stage of a work order from its
// internal number and service window, relative to the given day:
//   - no internal number: DRAFT, regardless of dates
//   - PENDING_SETTLEMENT is sticky once set and never recomputed away
//   - before the window: PENDING_SERVICE
//   - after the window: COMPLETED
//   - inside the window: IN_SERVICE
func DeriveStatus(workOrder *domain.WorkOrder, today time.Time) domain.WorkOrderStatus {
	if workOrder.InternalNo == nil || *workOrder.InternalNo == "" {
		return domain.WorkOrderStatusDraft
	}
	if workOrder.Status == domain.WorkOrderStatusPendingSettlement {
		return domain.WorkOrderStatusPendingSettlement
	}

	day := truncateToDay(today)
	start := truncateToDay(workOrder.StartDate)
	end := truncateToDay(workOrder.EndDate)

	switch {
	case day.Before(start):
		return domain.WorkOrderStatusPendingService
	case day.After(end):
		return domain.WorkOrderStatusCompleted
	default:
		return domain.WorkOrderStatusInService
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InternalNoPrefix resolves the company prefix for internal numbers
func InternalNoPrefix(operatingCompany string) string {
	if prefix, ok := operatingCompanyPrefixes[strings.ToLower(strings.TrimSpace(operatingCompany))]; ok {
		return prefix
	}
	return fallbackInternalNoPrefix
}

func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasAnyRole(domain.RoleOps, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	workOrder := &domain.WorkOrder{
		Status:                  domain.WorkOrderStatusDraft,
		OperatingCompany:        req.OperatingCompany,
		OrderType:               req.OrderType,
		PaymentTerms:            req.PaymentTerms,
		CustomerCompany:         req.CustomerCompany,
		VesselName:              req.VesselName,
		IMO:                     req.IMO,
		VesselType:              req.VesselType,
		YearBuilt:               req.YearBuilt,
		GrossTonnage:            req.GrossTonnage,
		VesselNotes:             req.VesselNotes,
		PO:                      req.PO,
		LocationType:            req.LocationType,
		LocationName:            req.LocationName,
		City:                    req.City,
		StartDate:               truncateToDay(req.StartDate),
		EndDate:                 truncateToDay(req.EndDate),
		ResponsibleEngineerName: req.ResponsibleEngineerName,
		ResponsibleOpsName:      req.ResponsibleOpsName,
		CreatedByID:             userCtx.UserID,
	}

	if err := s.workOrderRepo.Create(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}

	s.audit(ctx, domain.AuditWorkOrderCreate, workOrder.ID, map[string]interface{}{
		"vesselName":      workOrder.VesselName,
		"customerCompany": workOrder.CustomerCompany,
	})

	workOrder, err := s.workOrderRepo.GetByID(ctx, workOrder.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload work order: %w", err)
	}

	dto := mapper.ToWorkOrderDTO(workOrder)
	return &dto, nil
}

// GetByID loads a work order, recomputing and lazily persisting its status
func (s *WorkOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	workOrder, err := s.loadRefreshed(ctx, id)
	if err != nil {
		return nil, err
	}
	if workOrder.IsDeleted() {
		return nil, ErrNotFound
	}

	dto := mapper.ToWorkOrderDTO(workOrder)
	return &dto, nil
}

// loadRefreshed fetches the work order and reconciles its persisted status
// with the derived one
func (s *WorkOrderService) loadRefreshed(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	derived := DeriveStatus(workOrder, time.Now().UTC())
	if derived != workOrder.Status {
		if err := s.workOrderRepo.UpdateStatus(ctx, workOrder.ID, derived); err != nil {
			s.logger.Warn("failed to persist derived status",
				zap.String("work_order_id", workOrder.ID.String()),
				zap.Error(err),
			)
		}
		workOrder.Status = derived
	}

	return workOrder, nil
}

func (s *WorkOrderService) List(ctx context.Context, page, pageSize int, filters *repository.WorkOrderFilters, sort repository.SortConfig) ([]domain.WorkOrderDTO, int64, error) {
	workOrders, total, err := s.workOrderRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work orders: %w", err)
	}

	now := time.Now().UTC()
	for i := range workOrders {
		derived := DeriveStatus(&workOrders[i], now)
		if derived != workOrders[i].Status {
			if err := s.workOrderRepo.UpdateStatus(ctx, workOrders[i].ID, derived); err != nil {
				s.logger.Warn("failed to persist derived status",
					zap.String("work_order_id", workOrders[i].ID.String()),
					zap.Error(err),
				)
			}
			workOrders[i].Status = derived
		}
	}

	return mapper.ToWorkOrderDTOs(workOrders), total, nil
}

func (s *WorkOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkOrderRequest) (*domain.WorkOrderDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	workOrder, err := s.loadRefreshed(ctx, id)
	if err != nil {
		return nil, err
	}
	if workOrder.IsDeleted() {
		return nil, ErrNotFound
	}

	if !auth.CanEditWorkOrder(userCtx, workOrder) {
		return nil, ErrPermissionDenied
	}

	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", ErrInvalidInput)
	}

	workOrder.OperatingCompany = req.OperatingCompany
	workOrder.OrderType = req.OrderType
	workOrder.PaymentTerms = req.PaymentTerms
	workOrder.CustomerCompany = req.CustomerCompany
	workOrder.VesselName = req.VesselName
	workOrder.IMO = req.IMO
	workOrder.VesselType = req.VesselType
	workOrder.YearBuilt = req.YearBuilt
	workOrder.GrossTonnage = req.GrossTonnage
	workOrder.VesselNotes = req.VesselNotes
	workOrder.PO = req.PO
	workOrder.LocationType = req.LocationType
	workOrder.LocationName = req.LocationName
	workOrder.City = req.City
	workOrder.StartDate = truncateToDay(req.StartDate)
	workOrder.EndDate = truncateToDay(req.EndDate)
	workOrder.ResponsibleEngineerName = req.ResponsibleEngineerName
	workOrder.ResponsibleOpsName = req.ResponsibleOpsName

	// Date edits can shift the derived stage immediately
	workOrder.Status = DeriveStatus(workOrder, time.Now().UTC())

	if err := s.workOrderRepo.Update(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to update work order: %w", err)
	}

	s.audit(ctx, domain.AuditWorkOrderUpdate, workOrder.ID, nil)

	dto := mapper.ToWorkOrderDTO(workOrder)
	return &dto, nil
}

// GenerateInternalNo assigns the permanent internal number. The operation
// is one-shot: once a number exists it can never be regenerated.
func (s *WorkOrderService) GenerateInternalNo(ctx context.Context, id uuid.UUID) (*domain.WorkOrderDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	workOrder, err := s.loadRefreshed(ctx, id)
	if err != nil {
		return nil, err
	}
	if workOrder.IsDeleted() {
		return nil, ErrNotFound
	}

	if !auth.CanEditWorkOrder(userCtx, workOrder) {
		return nil, ErrPermissionDenied
	}

	if workOrder.InternalNo != nil && *workOrder.InternalNo != "" {
		return nil, ErrInternalNoAssigned
	}

	now := time.Now().UTC()
	prefix := fmt.Sprintf("%s-%s-", InternalNoPrefix(workOrder.OperatingCompany), now.Format("20060102"))

	count, err := s.workOrderRepo.CountByInternalNoPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to count internal numbers: %w", err)
	}

	internalNo := fmt.Sprintf("%s%03d", prefix, count+1)
	workOrder.InternalNo = &internalNo
	workOrder.Status = DeriveStatus(workOrder, now)

	if err := s.workOrderRepo.Update(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to assign internal number: %w", err)
	}

	s.audit(ctx, domain.AuditWorkOrderGenerateNo, workOrder.ID, map[string]interface{}{
		"internalNo": internalNo,
	})

	dto := mapper.ToWorkOrderDTO(workOrder)
	return &dto, nil
}

// Delete soft-deletes a work order. A reason is mandatory once an internal
// number exists; drafts may be deleted without one. The deletion is
// announced via a simulated email notification fanned out to the admins.
func (s *WorkOrderService) Delete(ctx context.Context, id uuid.UUID, reason string) error {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return ErrUnauthorized
	}

	workOrder, err := s.loadRefreshed(ctx, id)
	if err != nil {
		return err
	}
	if workOrder.IsDeleted() {
		return ErrNotFound
	}

	if !auth.CanEditWorkOrder(userCtx, workOrder) {
		return ErrPermissionDenied
	}

	if workOrder.InternalNo != nil && *workOrder.InternalNo != "" && strings.TrimSpace(reason) == "" {
		return ErrDeleteReasonRequired
	}

	if err := s.workOrderRepo.SoftDelete(ctx, id, reason); err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}

	s.audit(ctx, domain.AuditWorkOrderDelete, workOrder.ID, map[string]interface{}{
		"reason": reason,
	})

	s.notifyDeletion(ctx, workOrder, userCtx, reason)

	return nil
}

// OverrideStatus forces a work order into PENDING_SETTLEMENT ahead of its
// schedule, or clears that override so the derived stage applies again.
// Only finance staff and admins may settle early.
func (s *WorkOrderService) OverrideStatus(ctx context.Context, id uuid.UUID, status domain.WorkOrderStatus) (*domain.WorkOrderDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if !userCtx.HasAnyRole(domain.RoleFinance, domain.RoleAdmin) {
		return nil, ErrPermissionDenied
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	workOrder, err := s.loadRefreshed(ctx, id)
	if err != nil {
		return nil, err
	}
	if workOrder.IsDeleted() {
		return nil, ErrNotFound
	}
	if workOrder.InternalNo == nil || *workOrder.InternalNo == "" {
		return nil, fmt.Errorf("%w: draft work orders cannot be settled", ErrInvalidInput)
	}

	target := status
	if status != domain.WorkOrderStatusPendingSettlement {
		if workOrder.Status != domain.WorkOrderStatusPendingSettlement {
			return nil, fmt.Errorf("%w: only PENDING_SETTLEMENT may be set manually", ErrInvalidInput)
		}
		// Clearing the override: the requested stage is ignored and the
		// schedule decides again
		workOrder.Status = domain.WorkOrderStatusInService
		target = DeriveStatus(workOrder, time.Now().UTC())
	}

	if err := s.workOrderRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("failed to override status: %w", err)
	}
	workOrder.Status = target

	s.audit(ctx, domain.AuditWorkOrderUpdate, workOrder.ID, map[string]interface{}{
		"statusOverride": string(status),
	})

	dto := mapper.ToWorkOrderDTO(workOrder)
	return &dto, nil
}

// GetStats returns grouped counts for dashboards
func (s *WorkOrderService) GetStats(ctx context.Context) (*domain.WorkOrderStatsDTO, error) {
	statusRows, cityRows, engineerRows, total, err := s.workOrderRepo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get work order stats: %w", err)
	}

	stats := &domain.WorkOrderStatsDTO{
		StatusCounts: make(map[domain.WorkOrderStatus]int64),
		CityCounts:   make(map[string]int64),
		EngineerLoad: []domain.EngineerLoadDTO{},
		Total:        total,
	}

	for _, row := range statusRows {
		stats.StatusCounts[row.Status] = row.Count
	}
	for _, row := range cityRows {
		stats.CityCounts[row.City] = row.Count
	}
	for _, row := range engineerRows {
		stats.EngineerLoad = append(stats.EngineerLoad, domain.EngineerLoadDTO{
			Name:      row.ResponsibleEngineerName,
			ItemCount: row.Count,
		})
	}

	return stats, nil
}

// GetAlerts returns work orders starting or ending within the horizon,
// plus those whose window passed without settlement
func (s *WorkOrderService) GetAlerts(ctx context.Context, horizonDays int) (*domain.WorkOrderAlertsDTO, error) {
	if horizonDays <= 0 {
		horizonDays = 3
	}

	now := truncateToDay(time.Now().UTC())
	horizon := now.AddDate(0, 0, horizonDays)

	starting, err := s.workOrderRepo.GetStartingBetween(ctx, now, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to get starting work orders: %w", err)
	}

	ending, err := s.workOrderRepo.GetEndingBetween(ctx, now, horizon)
	if err != nil {
		return nil, fmt.Errorf("failed to get ending work orders: %w", err)
	}

	overdue, err := s.workOrderRepo.GetOverdue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get overdue work orders: %w", err)
	}

	return &domain.WorkOrderAlertsDTO{
		StartingSoon: mapper.ToWorkOrderDTOs(starting),
		EndingSoon:   mapper.ToWorkOrderDTOs(ending),
		Overdue:      mapper.ToWorkOrderDTOs(overdue),
	}, nil
}

// RefreshStatuses reconciles the persisted status of every live work order
// with the derived one. Called by the nightly maintenance job.
func (s *WorkOrderService) RefreshStatuses(ctx context.Context) (int, error) {
	workOrders, err := s.workOrderRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list work orders: %w", err)
	}

	now := time.Now().UTC()
	updated := 0
	for i := range workOrders {
		derived := DeriveStatus(&workOrders[i], now)
		if derived == workOrders[i].Status {
			continue
		}
		if err := s.workOrderRepo.UpdateStatus(ctx, workOrders[i].ID, derived); err != nil {
			s.logger.Warn("failed to refresh work order status",
				zap.String("work_order_id", workOrders[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		updated++
	}

	return updated, nil
}

// notifyDeletion simulates the deletion email and records it as an
// in-app notification for every admin. The recipient address comes from
// config when set, otherwise the first admin account's email.
func (s *WorkOrderService) notifyDeletion(ctx context.Context, workOrder *domain.WorkOrder, userCtx *auth.UserContext, reason string) {
	admins, err := s.userRepo.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		s.logger.Warn("failed to list admins for deletion notice", zap.Error(err))
	}

	recipient := s.adminEmail
	if recipient == "" && len(admins) > 0 {
		recipient = admins[0].Email
	}
	if recipient == "" {
		recipient = "admin@demo.com"
	}

	cc := ""
	if workOrder.CreatedBy != nil {
		cc = workOrder.CreatedBy.Email
	}

	label := workOrder.VesselName
	if workOrder.InternalNo != nil && *workOrder.InternalNo != "" {
		label = *workOrder.InternalNo
	}

	message := fmt.Sprintf("Work order %s was deleted by %s.", label, userCtx.Name)
	if reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, reason)
	}

	targetIDs := make([]uuid.UUID, 0, len(admins))
	for _, admin := range admins {
		targetIDs = append(targetIDs, admin.ID)
	}
	if len(targetIDs) == 0 {
		targetIDs = append(targetIDs, userCtx.UserID)
	}

	entityID := workOrder.ID
	for _, userID := range targetIDs {
		notification := &domain.Notification{
			UserID:     userID,
			Type:       string(domain.NotificationTypeDeleteWorkOrderEmail),
			Recipient:  recipient,
			CC:         cc,
			Title:      "Work order deleted",
			Message:    message,
			EntityID:   &entityID,
			EntityType: "work_order",
		}
		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to create deletion notification",
				zap.String("work_order_id", workOrder.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *WorkOrderService) audit(ctx context.Context, action string, entityID uuid.UUID, metadata map[string]interface{}) {
	s.auditService.Record(ctx, action, "work_order", &entityID, metadata)
}
