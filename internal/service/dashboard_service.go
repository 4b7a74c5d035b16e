package service

import (
	"context"
	"fmt"

	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/domain"
	"go.uber.org/zap"
)

// DashboardService assembles the operational overview from the other services
type DashboardService struct {
	workOrderService    *WorkOrderService
	notificationService *NotificationService
	logger              *zap.Logger
}

func NewDashboardService(
	workOrderService *WorkOrderService,
	notificationService *NotificationService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		workOrderService:    workOrderService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetOverview combines work order stats, schedule alerts and the caller's
// unread notification count into one response.
func (s *DashboardService) GetOverview(ctx context.Context, alertHorizonDays int) (*domain.DashboardDTO, error) {
	if _, ok := auth.FromContext(ctx); !ok {
		return nil, ErrUnauthorized
	}

	stats, err := s.workOrderService.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	alerts, err := s.workOrderService.GetAlerts(ctx, alertHorizonDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}

	unread, err := s.notificationService.GetUnreadCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	return &domain.DashboardDTO{
		Stats:       *stats,
		Alerts:      *alerts,
		UnreadCount: unread.Count,
	}, nil
}
