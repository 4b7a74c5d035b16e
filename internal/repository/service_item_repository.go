package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServiceItemRepository struct {
	db *gorm.DB
}

func NewServiceItemRepository(db *gorm.DB) *ServiceItemRepository {
	return &ServiceItemRepository{db: db}
}

func (r *ServiceItemRepository) Create(ctx context.Context, item *domain.ServiceItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *ServiceItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceItem, error) {
	var item domain.ServiceItem
	err := r.db.WithContext(ctx).
		Preload("Engineers").
		Preload("Engineers.User").
		Preload("Attachments").
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ServiceItemRepository) Update(ctx context.Context, item *domain.ServiceItem) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error
}

// SoftDelete marks the service item as deleted
func (r *ServiceItemRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&domain.ServiceItem{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": now,
			"updated_at": now,
		}).Error
}

func (r *ServiceItemRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.ServiceItem, error) {
	var items []domain.ServiceItem
	err := r.db.WithContext(ctx).
		Preload("Engineers").
		Preload("Engineers.User").
		Preload("Attachments").
		Where("work_order_id = ? AND deleted_at IS NULL", workOrderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// ReplaceEngineers swaps the full engineer assignment set of a service item
func (r *ServiceItemRepository) ReplaceEngineers(ctx context.Context, serviceItemID uuid.UUID, userIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_item_id = ?", serviceItemID).
			Delete(&domain.ServiceItemEngineer{}).Error; err != nil {
			return err
		}
		for _, userID := range userIDs {
			assignment := domain.ServiceItemEngineer{
				ServiceItemID: serviceItemID,
				UserID:        userID,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountEngineers returns the number of engineers assigned to the service item
func (r *ServiceItemRepository) CountEngineers(ctx context.Context, serviceItemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ServiceItemEngineer{}).
		Where("service_item_id = ?", serviceItemID).
		Count(&count).Error
	return count, err
}
