package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServiceItemService manages the equipment lines serviced under a work order
type ServiceItemService struct {
	serviceItemRepo *repository.ServiceItemRepository
	workOrderRepo   *repository.WorkOrderRepository
	userRepo        *repository.UserRepository
	auditService    *AuditLogService
	logger          *zap.Logger
}

func NewServiceItemService(
	serviceItemRepo *repository.ServiceItemRepository,
	workOrderRepo *repository.WorkOrderRepository,
	userRepo *repository.UserRepository,
	auditService *AuditLogService,
	logger *zap.Logger,
) *ServiceItemService {
	return &ServiceItemService{
		serviceItemRepo: serviceItemRepo,
		workOrderRepo:   workOrderRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		logger:          logger,
	}
}

// loadWorkOrder fetches the parent and enforces the work order edit rule
func (s *ServiceItemService) loadWorkOrder(ctx context.Context, workOrderID uuid.UUID, write bool) (*domain.WorkOrder, *auth.UserContext, error) {
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

	if write && !auth.CanEditWorkOrder(userCtx, workOrder) {
		return nil, nil, ErrPermissionDenied
	}

	return workOrder, userCtx, nil
}

// validateEngineers checks that every assignee exists and holds the
// ENGINEER role, and that IN_PROGRESS items keep at least one engineer.
func (s *ServiceItemService) validateEngineers(ctx context.Context, status domain.ServiceItemStatus, engineerIDs []uuid.UUID) error {
	if status == domain.ServiceItemStatusInProgress && len(engineerIDs) == 0 {
		return fmt.Errorf("%w: at least one engineer is required for an item in progress", ErrInvalidInput)
	}
	if len(engineerIDs) == 0 {
		return nil
	}

	users, err := s.userRepo.GetByIDs(ctx, engineerIDs)
	if err != nil {
		return fmt.Errorf("failed to load engineers: %w", err)
	}
	byID := make(map[uuid.UUID]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, id := range engineerIDs {
		user, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: engineer %s not found", ErrInvalidInput, id)
		}
		if user.Role != domain.RoleEngineer {
			return fmt.Errorf("%w: user %s does not hold the engineer role", ErrInvalidInput, id)
		}
	}
	return nil
}

func (s *ServiceItemService) Create(ctx context.Context, workOrderID uuid.UUID, req *domain.CreateServiceItemRequest) (*domain.ServiceItemDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid service item status", ErrInvalidInput)
	}
	if err := s.validateEngineers(ctx, req.Status, req.EngineerIDs); err != nil {
		return nil, err
	}

	item := &domain.ServiceItem{
		WorkOrderID:    workOrderID,
		Status:         req.Status,
		EquipmentName:  req.EquipmentName,
		Model:          req.Model,
		Serial:         req.Serial,
		ServiceContent: req.ServiceContent,
		CreatedByID:    userCtx.UserID,
	}

	if err := s.serviceItemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create service item: %w", err)
	}

	if len(req.EngineerIDs) > 0 {
		if err := s.serviceItemRepo.ReplaceEngineers(ctx, item.ID, req.EngineerIDs); err != nil {
			return nil, fmt.Errorf("failed to assign engineers: %w", err)
		}
	}

	s.auditService.Record(ctx, domain.AuditServiceItemCreate, "service_item", &item.ID, map[string]interface{}{
		"workOrderId":   workOrderID.String(),
		"equipmentName": item.EquipmentName,
	})

	return s.reload(ctx, item.ID)
}

func (s *ServiceItemService) Update(ctx context.Context, workOrderID, itemID uuid.UUID, req *domain.UpdateServiceItemRequest) (*domain.ServiceItemDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, workOrderID, itemID)
	if err != nil {
		return nil, err
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid service item status", ErrInvalidInput)
	}
	if err := s.validateEngineers(ctx, req.Status, req.EngineerIDs); err != nil {
		return nil, err
	}

	item.Status = req.Status
	item.EquipmentName = req.EquipmentName
	item.Model = req.Model
	item.Serial = req.Serial
	item.ServiceContent = req.ServiceContent

	if err := s.serviceItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update service item: %w", err)
	}
	if err := s.serviceItemRepo.ReplaceEngineers(ctx, item.ID, req.EngineerIDs); err != nil {
		return nil, fmt.Errorf("failed to assign engineers: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditServiceItemUpdate, "service_item", &item.ID, nil)

	return s.reload(ctx, item.ID)
}

func (s *ServiceItemService) Delete(ctx context.Context, workOrderID, itemID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return err
	}

	if _, err := s.getItem(ctx, workOrderID, itemID); err != nil {
		return err
	}

	if err := s.serviceItemRepo.SoftDelete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete service item: %w", err)
	}

	s.auditService.Record(ctx, domain.AuditServiceItemDelete, "service_item", &itemID, nil)
	return nil
}

func (s *ServiceItemService) GetByID(ctx context.Context, workOrderID, itemID uuid.UUID) (*domain.ServiceItemDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return nil, err
	}

	item, err := s.getItem(ctx, workOrderID, itemID)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToServiceItemDTO(item)
	return &dto, nil
}

// ServiceItemFilters narrows a work order's service item listing
type ServiceItemFilters struct {
	Status          *domain.ServiceItemStatus
	EngineerID      *uuid.UUID
	EquipmentSearch string
}

func (s *ServiceItemService) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID, filters *ServiceItemFilters) ([]domain.ServiceItemDTO, error) {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return nil, err
	}

	items, err := s.serviceItemRepo.ListByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service items: %w", err)
	}

	if filters != nil {
		items = filterServiceItems(items, filters)
	}
	return mapper.ToServiceItemDTOs(items), nil
}

func filterServiceItems(items []domain.ServiceItem, filters *ServiceItemFilters) []domain.ServiceItem {
	filtered := items[:0]
	for _, item := range items {
		if filters.Status != nil && item.Status != *filters.Status {
			continue
		}
		if filters.EngineerID != nil && !hasEngineer(item, *filters.EngineerID) {
			continue
		}
		if filters.EquipmentSearch != "" && !containsFold(item.EquipmentName, filters.EquipmentSearch) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasEngineer(item domain.ServiceItem, userID uuid.UUID) bool {
	for _, e := range item.Engineers {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

func (s *ServiceItemService) getItem(ctx context.Context, workOrderID, itemID uuid.UUID) (*domain.ServiceItem, error) {
	item, err := s.serviceItemRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service item: %w", err)
	}
	if item.WorkOrderID != workOrderID || item.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *ServiceItemService) reload(ctx context.Context, itemID uuid.UUID) (*domain.ServiceItemDTO, error) {
	item, err := s.serviceItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload service item: %w", err)
	}
	dto := mapper.ToServiceItemDTO(item)
	return &dto, nil
}
