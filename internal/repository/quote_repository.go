package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) Create(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(quote).Error
}

func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Update(ctx context.Context, quote *domain.Quote) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quote).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quote{}, "id = ?", id).Error
}

func (r *QuoteRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Quote, error) {
	var quotes []domain.Quote
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&quotes).Error
	return quotes, err
}

// GetFinal returns the final quote of the work order, if one exists
func (r *QuoteRepository) GetFinal(ctx context.Context, workOrderID uuid.UUID) (*domain.Quote, error) {
	var quote domain.Quote
	err := r.db.WithContext(ctx).
		Where("work_order_id = ? AND is_final = ?", workOrderID, true).
		First(&quote).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// SetFinal atomically clears the final flag on every quote of the work order
// and sets it on the given quote, so at most one final quote ever exists
func (r *QuoteRepository) SetFinal(ctx context.Context, workOrderID, quoteID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Quote{}).
			Where("work_order_id = ? AND is_final = ?", workOrderID, true).
			Update("is_final", false).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Quote{}).
			Where("id = ? AND work_order_id = ?", quoteID, workOrderID).
			Update("is_final", true).Error
	})
}
