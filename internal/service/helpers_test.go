package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/auth"
	"github.com/wormos/shipops-api/internal/database"
	"github.com/wormos/shipops-api/internal/domain"
	"github.com/wormos/shipops-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database. A single connection is
// kept so transactions and the memory store survive for the whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role domain.UserRole) *domain.User {
	t.Helper()

	user := &domain.User{
		Email:        fmt.Sprintf("%s-%s@example.com", strings.ToLower(string(role)), uuid.NewString()[:8]),
		Name:         string(role) + " user",
		Role:         role,
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func ctxFor(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
}

// seedWorkOrder inserts a work order whose service window spans today
func seedWorkOrder(t *testing.T, db *gorm.DB, createdByID uuid.UUID) *domain.WorkOrder {
	t.Helper()

	now := time.Now().UTC()
	order := &domain.WorkOrder{
		Status:           domain.WorkOrderStatusDraft,
		OperatingCompany: "wormos",
		OrderType:        "repair",
		PaymentTerms:     "NET30",
		CustomerCompany:  "Nordic Shipping AS",
		VesselName:       "MV Aurora",
		IMO:              "9321483",
		LocationType:     "port",
		LocationName:     "Skoltegrunnskaien",
		City:             "Bergen",
		StartDate:        now.AddDate(0, 0, -1),
		EndDate:          now.AddDate(0, 0, 1),
		CreatedByID:      createdByID,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// assignInternalNo stamps a number directly, bypassing generation
func assignInternalNo(t *testing.T, db *gorm.DB, order *domain.WorkOrder, internalNo string) {
	t.Helper()

	order.InternalNo = &internalNo
	order.Status = domain.WorkOrderStatusInService
	require.NoError(t, db.Save(order).Error)
}

func newTestAuditService(db *gorm.DB) *AuditLogService {
	return NewAuditLogService(repository.NewAuditLogRepository(db), zap.NewNop())
}

func newTestWorkOrderService(db *gorm.DB) *WorkOrderService {
	return NewWorkOrderService(
		repository.NewWorkOrderRepository(db),
		repository.NewUserRepository(db),
		newTestAuditService(db),
		repository.NewNotificationRepository(db),
		"admin@example.com",
		zap.NewNop(),
	)
}

func newTestCostLineService(db *gorm.DB) *CostLineService {
	return NewCostLineService(
		repository.NewCostLineRepository(db),
		repository.NewWorkOrderRepository(db),
		newTestAuditService(db),
		zap.NewNop(),
	)
}

func newTestIncomeService(db *gorm.DB) *IncomeService {
	return NewIncomeService(
		repository.NewQuoteRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewWorkOrderRepository(db),
		newTestAuditService(db),
		zap.NewNop(),
	)
}

func newTestProfitReportService(db *gorm.DB) *ProfitReportService {
	return NewProfitReportService(
		repository.NewProfitReportRepository(db),
		repository.NewCostLineRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewWorkOrderRepository(db),
		repository.NewNotificationRepository(db),
		newTestAuditService(db),
		zap.NewNop(),
	)
}
