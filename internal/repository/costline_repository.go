package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CostLineRepository struct {
	db *gorm.DB
}

func NewCostLineRepository(db *gorm.DB) *CostLineRepository {
	return &CostLineRepository{db: db}
}

func (r *CostLineRepository) Create(ctx context.Context, line *domain.CostLine) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error
}

func (r *CostLineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CostLine, error) {
	var line domain.CostLine
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *CostLineRepository) Update(ctx context.Context, line *domain.CostLine) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(line).Error
}

// SoftDelete marks the cost line as deleted
func (r *CostLineRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.CostLine{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

// ListByWorkOrder returns all live cost lines of a work order
func (r *CostLineRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.CostLine, error) {
	var lines []domain.CostLine
	err := r.db.WithContext(ctx).
		Where("work_order_id = ? AND deleted_at IS NULL", workOrderID).
		Order("created_at ASC").
		Find(&lines).Error
	return lines, err
}

// CategoryTotalRow holds the summed line totals per category
type CategoryTotalRow struct {
	Category domain.CostCategory
	Total    float64
}

// GetSummary returns the cost total, per-category totals, and line counts
func (r *CostLineRepository) GetSummary(ctx context.Context, workOrderID uuid.UUID) (float64, []CategoryTotalRow, int64, int64, error) {
	var total float64
	base := r.db.WithContext(ctx).Model(&domain.CostLine{}).
		Where("work_order_id = ? AND deleted_at IS NULL", workOrderID)

	if err := base.Session(&gorm.Session{}).
		Select("COALESCE(SUM(line_total), 0)").Scan(&total).Error; err != nil {
		return 0, nil, 0, 0, err
	}

	var categories []CategoryTotalRow
	if err := base.Session(&gorm.Session{}).
		Select("category, COALESCE(SUM(line_total), 0) as total").
		Group("category").
		Scan(&categories).Error; err != nil {
		return 0, nil, 0, 0, err
	}

	var lineCount int64
	if err := base.Session(&gorm.Session{}).Count(&lineCount).Error; err != nil {
		return 0, nil, 0, 0, err
	}

	var lockedCount int64
	if err := base.Session(&gorm.Session{}).
		Where("is_locked = ?", true).
		Count(&lockedCount).Error; err != nil {
		return 0, nil, 0, 0, err
	}

	return total, categories, lineCount, lockedCount, nil
}

// LockAll freezes every unlocked live cost line of the work order.
// Returns the number of rows newly locked. Safe to call repeatedly.
func (r *CostLineRepository) LockAll(ctx context.Context, workOrderID, lockedByID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&domain.CostLine{}).
		Where("work_order_id = ? AND deleted_at IS NULL AND is_locked = ?", workOrderID, false).
		Updates(map[string]interface{}{
			"is_locked":    true,
			"locked_at":    now,
			"locked_by_id": lockedByID,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// LockAllTx is LockAll running on an externally managed transaction
func (r *CostLineRepository) LockAllTx(tx *gorm.DB, workOrderID, lockedByID uuid.UUID) (int64, error) {
	now := time.Now().UTC()
	result := tx.Model(&domain.CostLine{}).
		Where("work_order_id = ? AND deleted_at IS NULL AND is_locked = ?", workOrderID, false).
		Updates(map[string]interface{}{
			"is_locked":    true,
			"locked_at":    now,
			"locked_by_id": lockedByID,
			"updated_at":   now,
		})
	return result.RowsAffected, result.Error
}

// CountUnlocked returns the number of live unlocked lines for the work order
func (r *CostLineRepository) CountUnlocked(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CostLine{}).
		Where("work_order_id = ? AND deleted_at IS NULL AND is_locked = ?", workOrderID, false).
		Count(&count).Error
	return count, err
}
