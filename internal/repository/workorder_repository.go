package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WorkOrderFilters contains all filter options for listing work orders
type WorkOrderFilters struct {
	Status          *domain.WorkOrderStatus
	City            *string
	CustomerCompany *string
	VesselName      *string
	CreatedByID     *uuid.UUID
	StartAfter      *time.Time
	StartBefore     *time.Time
	EndAfter        *time.Time
	EndBefore       *time.Time
	HasInternalNo   *bool
	IncludeDeleted  bool
	SearchQuery     *string
}

// workOrderSortFields maps API sort field names to database columns
var workOrderSortFields = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"startDate":  "start_date",
	"endDate":    "end_date",
	"internalNo": "internal_no",
	"vesselName": "vessel_name",
	"city":       "city",
	"status":     "status",
}

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// DB exposes the underlying handle for cross-repository transactions
func (r *WorkOrderRepository) DB() *gorm.DB {
	return r.db
}

func (r *WorkOrderRepository) Create(ctx context.Context, workOrder *domain.WorkOrder) error {
	// Omit associations to avoid GORM trying to validate related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(workOrder).Error
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var workOrder domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("id = ?", id).
		First(&workOrder).Error
	if err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func (r *WorkOrderRepository) GetByInternalNo(ctx context.Context, internalNo string) (*domain.WorkOrder, error) {
	var workOrder domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("internal_no = ?", internalNo).
		First(&workOrder).Error
	if err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, workOrder *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(workOrder).Error
}

// UpdateStatus persists only the derived status column
func (r *WorkOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WorkOrderStatus) error {
	return r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// SoftDelete marks the work order as deleted with the given reason
func (r *WorkOrderRepository) SoftDelete(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at":    now,
			"delete_reason": reason,
			"updated_at":    now,
		}).Error
}

func (r *WorkOrderRepository) List(ctx context.Context, page, pageSize int, filters *WorkOrderFilters, sort SortConfig) ([]domain.WorkOrder, int64, error) {
	var workOrders []domain.WorkOrder
	var total int64

	page, pageSize = NormalizePagination(page, pageSize)

	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).Preload("CreatedBy")
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order(BuildOrderClause(sort, workOrderSortFields, "created_at DESC"))

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&workOrders).Error

	return workOrders, total, err
}

// ListActive returns all non-deleted work orders, used by the status refresh job
func (r *WorkOrderRepository) ListActive(ctx context.Context) ([]domain.WorkOrder, error) {
	var workOrders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Find(&workOrders).Error
	return workOrders, err
}

// CountByInternalNoPrefix counts work orders whose internal number starts with
// the given prefix, including soft-deleted ones so sequence numbers are never reused
func (r *WorkOrderRepository) CountByInternalNoPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("internal_no LIKE ?", prefix+"%").
		Count(&count).Error
	return count, err
}

// StatusCountRow holds a grouped status count
type StatusCountRow struct {
	Status domain.WorkOrderStatus
	Count  int64
}

// CityCountRow holds a grouped city count
type CityCountRow struct {
	City  string
	Count int64
}

// EngineerLoadRow holds the number of open work orders per responsible engineer
type EngineerLoadRow struct {
	ResponsibleEngineerName string
	Count                   int64
}

// GetStats returns grouped counts for the dashboard
func (r *WorkOrderRepository) GetStats(ctx context.Context) ([]StatusCountRow, []CityCountRow, []EngineerLoadRow, int64, error) {
	var statusRows []StatusCountRow
	if err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("status, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, nil, nil, 0, err
	}

	var cityRows []CityCountRow
	if err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("city, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("city").
		Scan(&cityRows).Error; err != nil {
		return nil, nil, nil, 0, err
	}

	var engineerRows []EngineerLoadRow
	if err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Select("responsible_engineer_name, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Where("responsible_engineer_name <> ''").
		Where("status IN ?", []domain.WorkOrderStatus{
			domain.WorkOrderStatusPendingService,
			domain.WorkOrderStatusInService,
		}).
		Group("responsible_engineer_name").
		Scan(&engineerRows).Error; err != nil {
		return nil, nil, nil, 0, err
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).
		Where("deleted_at IS NULL").
		Count(&total).Error; err != nil {
		return nil, nil, nil, 0, err
	}

	return statusRows, cityRows, engineerRows, total, nil
}

// GetStartingBetween returns work orders whose service window opens within the range
func (r *WorkOrderRepository) GetStartingBetween(ctx context.Context, from, to time.Time) ([]domain.WorkOrder, error) {
	var workOrders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("start_date >= ? AND start_date <= ?", from, to).
		Order("start_date ASC").
		Find(&workOrders).Error
	return workOrders, err
}

// GetEndingBetween returns work orders whose service window closes within the range
func (r *WorkOrderRepository) GetEndingBetween(ctx context.Context, from, to time.Time) ([]domain.WorkOrder, error) {
	var workOrders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("end_date >= ? AND end_date <= ?", from, to).
		Order("end_date ASC").
		Find(&workOrders).Error
	return workOrders, err
}

// GetOverdue returns completed-window work orders not yet settled
func (r *WorkOrderRepository) GetOverdue(ctx context.Context, asOf time.Time) ([]domain.WorkOrder, error) {
	var workOrders []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where("end_date < ?", asOf).
		Where("status NOT IN ?", []domain.WorkOrderStatus{
			domain.WorkOrderStatusPendingSettlement,
			domain.WorkOrderStatusDraft,
		}).
		Order("end_date ASC").
		Find(&workOrders).Error
	return workOrders, err
}

// WithTransaction executes operations within a transaction
func (r *WorkOrderRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// applyFilters applies all filter criteria to the query
func (r *WorkOrderRepository) applyFilters(query *gorm.DB, filters *WorkOrderFilters) *gorm.DB {
	if filters == nil {
		return query.Where("deleted_at IS NULL")
	}

	if !filters.IncludeDeleted {
		query = query.Where("deleted_at IS NULL")
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	if filters.City != nil {
		query = query.Where("city = ?", *filters.City)
	}

	if filters.CustomerCompany != nil {
		query = query.Where("customer_company = ?", *filters.CustomerCompany)
	}

	if filters.VesselName != nil {
		query = query.Where("vessel_name = ?", *filters.VesselName)
	}

	if filters.CreatedByID != nil {
		query = query.Where("created_by_id = ?", *filters.CreatedByID)
	}

	if filters.StartAfter != nil {
		query = query.Where("start_date >= ?", *filters.StartAfter)
	}

	if filters.StartBefore != nil {
		query = query.Where("start_date <= ?", *filters.StartBefore)
	}

	if filters.EndAfter != nil {
		query = query.Where("end_date >= ?", *filters.EndAfter)
	}

	if filters.EndBefore != nil {
		query = query.Where("end_date <= ?", *filters.EndBefore)
	}

	if filters.HasInternalNo != nil {
		if *filters.HasInternalNo {
			query = query.Where("internal_no IS NOT NULL")
		} else {
			query = query.Where("internal_no IS NULL")
		}
	}

	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where(
			"LOWER(vessel_name) LIKE ? OR LOWER(customer_company) LIKE ? OR LOWER(COALESCE(internal_no, '')) LIKE ? OR LOWER(imo) LIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}

	return query
}
