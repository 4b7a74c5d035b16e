package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttachmentRepository persists cost ledger and service item attachments
type AttachmentRepository struct {
	db *gorm.DB
}

func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

func (r *AttachmentRepository) CreateCostAttachment(ctx context.Context, attachment *domain.CostAttachment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attachment).Error
}

func (r *AttachmentRepository) GetCostAttachmentByID(ctx context.Context, id uuid.UUID) (*domain.CostAttachment, error) {
	var attachment domain.CostAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) DeleteCostAttachment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.CostAttachment{}, "id = ?", id).Error
}

func (r *AttachmentRepository) ListCostAttachmentsByWorkOrder(ctx context.Context, workOrderID uuid.UUID) ([]domain.CostAttachment, error) {
	var attachments []domain.CostAttachment
	err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) ListCostAttachmentsByCostLine(ctx context.Context, costLineID uuid.UUID) ([]domain.CostAttachment, error) {
	var attachments []domain.CostAttachment
	err := r.db.WithContext(ctx).
		Where("cost_line_id = ?", costLineID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *AttachmentRepository) CreateServiceAttachment(ctx context.Context, attachment *domain.ServiceAttachment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attachment).Error
}

func (r *AttachmentRepository) GetServiceAttachmentByID(ctx context.Context, id uuid.UUID) (*domain.ServiceAttachment, error) {
	var attachment domain.ServiceAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *AttachmentRepository) DeleteServiceAttachment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ServiceAttachment{}, "id = ?", id).Error
}

func (r *AttachmentRepository) ListServiceAttachmentsByItem(ctx context.Context, serviceItemID uuid.UUID) ([]domain.ServiceAttachment, error) {
	var attachments []domain.ServiceAttachment
	err := r.db.WithContext(ctx).
		Where("service_item_id = ?", serviceItemID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}
