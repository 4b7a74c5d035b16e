package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/config"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/mapper"
	"github.com/wormos/shipops-api/internal/repository"
	"github.com/wormos/shipops-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// allowedMimeTypes is the upload allowlist shared by cost and service attachments
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
}

// AttachmentService handles file uploads for cost lines and service items
type AttachmentService struct {
	attachmentRepo  *repository.AttachmentRepository
	costLineRepo    *repository.CostLineRepository
	serviceItemRepo *repository.ServiceItemRepository
	workOrderRepo   *repository.WorkOrderRepository
	store           storage.Storage
	maxUploadBytes  int64
	logger          *zap.Logger
}

func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	costLineRepo *repository.CostLineRepository,
	serviceItemRepo *repository.ServiceItemRepository,
	workOrderRepo *repository.WorkOrderRepository,
	store storage.Storage,
	cfg *config.StorageConfig,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo:  attachmentRepo,
		costLineRepo:    costLineRepo,
		serviceItemRepo: serviceItemRepo,
		workOrderRepo:   workOrderRepo,
		store:           store,
		maxUploadBytes:  cfg.MaxUploadSizeMB * 1024 * 1024,
		logger:          logger,
	}
}

// UploadInput describes an incoming file
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

func (s *AttachmentService) validateUpload(input *UploadInput) error {
	if input.Size > s.maxUploadBytes {
		return ErrFileTooLarge
	}
	if !allowedMimeTypes[input.ContentType] {
		return ErrUnsupportedFileType
	}
	return nil
}

func (s *AttachmentService) loadWorkOrder(ctx context.Context, workOrderID uuid.UUID, financial bool) (*domain.WorkOrder, *auth.UserContext, error) {
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

	allowed := auth.CanEditWorkOrder(userCtx, workOrder)
	if financial {
		allowed = auth.CanEditFinancials(userCtx, workOrder)
	}
	if !allowed {
		return nil, nil, ErrPermissionDenied
	}

	return workOrder, userCtx, nil
}

// UploadCostAttachment stores a file against the cost ledger, optionally
// pinned to a single cost line. Locked lines no longer accept uploads.
func (s *AttachmentService) UploadCostAttachment(ctx context.Context, workOrderID uuid.UUID, costLineID *uuid.UUID, input *UploadInput) (*domain.AttachmentDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpload(input); err != nil {
		return nil, err
	}

	if costLineID != nil {
		line, err := s.costLineRepo.GetByID(ctx, *costLineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to get cost line: %w", err)
		}
		if line.WorkOrderID != workOrderID || line.DeletedAt != nil {
			return nil, ErrNotFound
		}
		if line.IsLocked {
			return nil, ErrCostLineLocked
		}
	}

	storagePath, size, err := s.store.Upload(ctx, input.Filename, input.ContentType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	attachment := &domain.CostAttachment{
		WorkOrderID: workOrderID,
		CostLineID:  costLineID,
		Filename:    input.Filename,
		StoragePath: storagePath,
		MimeType:    input.ContentType,
		Size:        size,
		UploaderID:  userCtx.UserID,
	}
	if err := s.attachmentRepo.CreateCostAttachment(ctx, attachment); err != nil {
		if cleanupErr := s.store.Delete(ctx, storagePath); cleanupErr != nil {
			s.logger.Warn("failed to clean up orphaned file",
				zap.String("storage_path", storagePath),
				zap.Error(cleanupErr))
		}
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	dto := mapper.ToCostAttachmentDTO(attachment)
	return &dto, nil
}

func (s *AttachmentService) ListCostAttachments(ctx context.Context, workOrderID uuid.UUID) ([]domain.AttachmentDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	workOrder, err := s.workOrderRepo.GetByID(ctx, workOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	if workOrder.IsDeleted() {
		return nil, ErrNotFound
	}
	if !auth.CanViewFinancials(userCtx, workOrder) {
		return nil, ErrPermissionDenied
	}

	attachments, err := s.attachmentRepo.ListCostAttachmentsByWorkOrder(ctx, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return mapper.ToCostAttachmentDTOs(attachments), nil
}

// DownloadCostAttachment streams a stored cost document
func (s *AttachmentService) DownloadCostAttachment(ctx context.Context, workOrderID, attachmentID uuid.UUID) (io.ReadCloser, *domain.AttachmentDTO, error) {
	attachments, err := s.ListCostAttachments(ctx, workOrderID)
	if err != nil {
		return nil, nil, err
	}

	var match *domain.AttachmentDTO
	for i := range attachments {
		if attachments[i].ID == attachmentID {
			match = &attachments[i]
			break
		}
	}
	if match == nil {
		return nil, nil, ErrNotFound
	}

	stored, err := s.attachmentRepo.GetCostAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	reader, err := s.store.Download(ctx, stored.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return reader, match, nil
}

func (s *AttachmentService) DeleteCostAttachment(ctx context.Context, workOrderID, attachmentID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, true)
	if err != nil {
		return err
	}

	attachment, err := s.attachmentRepo.GetCostAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get attachment: %w", err)
	}
	if attachment.WorkOrderID != workOrderID {
		return ErrNotFound
	}

	if attachment.CostLineID != nil {
		line, err := s.costLineRepo.GetByID(ctx, *attachment.CostLineID)
		if err == nil && line.IsLocked {
			return ErrCostLineLocked
		}
	}

	if err := s.attachmentRepo.DeleteCostAttachment(ctx, attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storage_path", attachment.StoragePath),
			zap.Error(err))
	}
	return nil
}

// UploadServiceAttachment stores a file against a service item
func (s *AttachmentService) UploadServiceAttachment(ctx context.Context, workOrderID, serviceItemID uuid.UUID, input *UploadInput) (*domain.AttachmentDTO, error) {
	_, userCtx, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return nil, err
	}
	if err := s.validateUpload(input); err != nil {
		return nil, err
	}

	item, err := s.serviceItemRepo.GetByID(ctx, serviceItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service item: %w", err)
	}
	if item.WorkOrderID != workOrderID || item.DeletedAt != nil {
		return nil, ErrNotFound
	}

	storagePath, size, err := s.store.Upload(ctx, input.Filename, input.ContentType, input.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	attachment := &domain.ServiceAttachment{
		ServiceItemID: serviceItemID,
		Filename:      input.Filename,
		StoragePath:   storagePath,
		MimeType:      input.ContentType,
		Size:          size,
		UploaderID:    userCtx.UserID,
	}
	if err := s.attachmentRepo.CreateServiceAttachment(ctx, attachment); err != nil {
		if cleanupErr := s.store.Delete(ctx, storagePath); cleanupErr != nil {
			s.logger.Warn("failed to clean up orphaned file",
				zap.String("storage_path", storagePath),
				zap.Error(cleanupErr))
		}
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	dto := mapper.ToServiceAttachmentDTO(attachment)
	return &dto, nil
}

// DownloadServiceAttachment streams a stored service item document.
// Any authenticated user with access to the work order may read it.
func (s *AttachmentService) DownloadServiceAttachment(ctx context.Context, workOrderID, serviceItemID, attachmentID uuid.UUID) (io.ReadCloser, *domain.AttachmentDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
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

	attachment, err := s.attachmentRepo.GetServiceAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get attachment: %w", err)
	}
	if attachment.ServiceItemID != serviceItemID {
		return nil, nil, ErrNotFound
	}

	reader, err := s.store.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	dto := mapper.ToServiceAttachmentDTO(attachment)
	return reader, &dto, nil
}

func (s *AttachmentService) DeleteServiceAttachment(ctx context.Context, workOrderID, serviceItemID, attachmentID uuid.UUID) error {
	_, _, err := s.loadWorkOrder(ctx, workOrderID, false)
	if err != nil {
		return err
	}

	attachment, err := s.attachmentRepo.GetServiceAttachmentByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get attachment: %w", err)
	}
	if attachment.ServiceItemID != serviceItemID {
		return ErrNotFound
	}

	if err := s.attachmentRepo.DeleteServiceAttachment(ctx, attachmentID); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file",
			zap.String("storage_path", attachment.StoragePath),
			zap.Error(err))
	}
	return nil
}
