package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, receipt *domain.PaymentReceipt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(receipt).Error
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaymentReceipt, error) {
	var receipt domain.PaymentReceipt
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *PaymentRepository) Update(ctx context.Context, receipt *domain.PaymentReceipt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(receipt).Error
}

func (r *PaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PaymentReceipt{}, "id = ?", id).Error
}

func (r *PaymentRepository) ListByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.PaymentReceipt, error) {
	var receipts []domain.PaymentReceipt
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("date ASC, created_at ASC").
		Find(&receipts).Error
	return receipts, err
}

// SumByWorkOrder returns the total amount received for the work order
func (r *PaymentRepository) SumByWorkOrder(ctx context.Context, workOrderID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.PaymentReceipt{}).
		Where("work_order_id = ?", workOrderID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListByInvoice returns receipts applied against a specific invoice
func (r *PaymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.PaymentReceipt, error) {
	var receipts []domain.PaymentReceipt
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("date ASC").
		Find(&receipts).Error
	return receipts, err
}
