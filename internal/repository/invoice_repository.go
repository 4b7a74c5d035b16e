package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(invoice).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id).Error
}

func (r *InvoiceRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("issue_date ASC, created_at ASC").
		Find(&invoices).Error
	return invoices, err
}

// SumByWorkOrder returns the total invoiced amount for the work order
func (r *InvoiceRepository) SumByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("work_order_id = ?", workOrderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// MarkOverdue flips SENT invoices past their due date to OVERDUE.
// Returns the number of invoices updated.
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Invoice{}).
		Where("status = ?", domain.InvoiceStatusSent).
		Where("due_date IS NOT NULL AND due_date < ?", asOf).
		Updates(map[string]interface{}{
			"status":     domain.InvoiceStatusOverdue,
			"updated_at": time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}
