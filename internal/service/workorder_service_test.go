package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/domain"
)

func day(offset int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestDeriveStatus(t *testing.T) {
	internalNo := "XQ-20260101-001"
	today := day(0)

	tests := []struct {
		name  string
		order domain.WorkOrder
		want  domain.WorkOrderStatus
	}{
		{
			name:  "no internal number is always a draft",
			order: domain.WorkOrder{StartDate: day(-5), EndDate: day(-1)},
			want:  domain.WorkOrderStatusDraft,
		},
		{
			name: "pending settlement is sticky",
			order: domain.WorkOrder{
				InternalNo: &internalNo,
				Status:     domain.WorkOrderStatusPendingSettlement,
				StartDate:  day(1),
				EndDate:    day(5),
			},
			want: domain.WorkOrderStatusPendingSettlement,
		},
		{
			name:  "before the window",
			order: domain.WorkOrder{InternalNo: &internalNo, StartDate: day(1), EndDate: day(5)},
			want:  domain.WorkOrderStatusPendingService,
		},
		{
			name:  "after the window",
			order: domain.WorkOrder{InternalNo: &internalNo, StartDate: day(-5), EndDate: day(-1)},
			want:  domain.WorkOrderStatusCompleted,
		},
		{
			name:  "inside the window",
			order: domain.WorkOrder{InternalNo: &internalNo, StartDate: day(-1), EndDate: day(1)},
			want:  domain.WorkOrderStatusInService,
		},
		{
			name:  "first day counts as in service",
			order: domain.WorkOrder{InternalNo: &internalNo, StartDate: day(0), EndDate: day(3)},
			want:  domain.WorkOrderStatusInService,
		},
		{
			name:  "last day counts as in service",
			order: domain.WorkOrder{InternalNo: &internalNo, StartDate: day(-3), EndDate: day(0)},
			want:  domain.WorkOrderStatusInService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(&tt.order, today))
		})
	}
}

func TestInternalNoPrefix(t *testing.T) {
	assert.Equal(t, "XQ", InternalNoPrefix("wormos"))
	assert.Equal(t, "XQ", InternalNoPrefix("  WormOS "))
	assert.Equal(t, "KD", InternalNoPrefix("iship"))
	assert.Equal(t, "AX", InternalNoPrefix("unknown company"))
	assert.Equal(t, "AX", InternalNoPrefix(""))
}

func validCreateRequest() *domain.CreateWorkOrderRequest {
	return &domain.CreateWorkOrderRequest{
		OperatingCompany: "wormos",
		OrderType:        "repair",
		PaymentTerms:     "NET30",
		CustomerCompany:  "Nordic Shipping AS",
		VesselName:       "MV Aurora",
		IMO:              "9321483",
		LocationType:     "port",
		LocationName:     "Skoltegrunnskaien",
		City:             "Bergen",
		StartDate:        day(-1),
		EndDate:          day(1),
	}
}

func TestCreateWorkOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)

	dto, err := svc.Create(ctxFor(ops), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusDraft, dto.Status)
	assert.Nil(t, dto.InternalNo)
}

func TestCreateWorkOrderRoleRestriction(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)

	for _, role := range []domain.UserRole{domain.RoleFinance, domain.RoleEngineer} {
		user := seedUser(t, db, role)
		_, err := svc.Create(ctxFor(user), validCreateRequest())
		assert.ErrorIs(t, err, ErrPermissionDenied, string(role))
	}
}

func TestCreateWorkOrderInvalidWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)

	req := validCreateRequest()
	req.StartDate = day(5)
	req.EndDate = day(1)

	_, err := svc.Create(ctxFor(ops), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGenerateInternalNo(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)
	ctx := ctxFor(ops)

	first := seedWorkOrder(t, db, ops.ID)
	second := seedWorkOrder(t, db, ops.ID)

	datePart := time.Now().UTC().Format("20060102")

	dto, err := svc.GenerateInternalNo(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, dto.InternalNo)
	assert.Equal(t, fmt.Sprintf("XQ-%s-001", datePart), *dto.InternalNo)
	assert.Equal(t, domain.WorkOrderStatusInService, dto.Status, "numbering promotes the draft into its derived stage")

	// The sequence continues within the same company and day
	dto, err = svc.GenerateInternalNo(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("XQ-%s-002", datePart), *dto.InternalNo)

	// Numbering is one-shot
	_, err = svc.GenerateInternalNo(ctx, first.ID)
	assert.ErrorIs(t, err, ErrInternalNoAssigned)
}

func TestGenerateInternalNoFallbackPrefix(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)

	order := seedWorkOrder(t, db, ops.ID)
	order.OperatingCompany = "Some Partner Yard"
	require.NoError(t, db.Save(order).Error)

	dto, err := svc.GenerateInternalNo(ctxFor(ops), order.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("AX-%s-001", time.Now().UTC().Format("20060102")), *dto.InternalNo)
}

func TestDeleteWorkOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)
	admin := seedUser(t, db, domain.RoleAdmin)
	ctx := ctxFor(ops)

	// Drafts can go without a reason
	draft := seedWorkOrder(t, db, ops.ID)
	require.NoError(t, svc.Delete(ctx, draft.ID, ""))
	_, err := svc.GetByID(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// A numbered order demands one
	numbered := seedWorkOrder(t, db, ops.ID)
	assignInternalNo(t, db, numbered, "XQ-20260801-001")
	assert.ErrorIs(t, svc.Delete(ctx, numbered.ID, "   "), ErrDeleteReasonRequired)
	require.NoError(t, svc.Delete(ctx, numbered.ID, "customer cancelled the visit"))

	var notifications []domain.Notification
	require.NoError(t, db.Where("type = ?", string(domain.NotificationTypeDeleteWorkOrderEmail)).Find(&notifications).Error)
	require.Len(t, notifications, 2)
	var withReason bool
	for _, n := range notifications {
		assert.Equal(t, admin.ID, n.UserID)
		assert.Equal(t, "admin@example.com", n.Recipient)
		assert.Equal(t, ops.Email, n.CC, "the order's creator is kept on copy")
		if strings.Contains(n.Message, "customer cancelled the visit") {
			withReason = true
		}
	}
	assert.True(t, withReason, "deletion reason must be part of the simulated email")
}

func TestOverrideStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)

	order := seedWorkOrder(t, db, ops.ID)
	assignInternalNo(t, db, order, "XQ-20260801-002")

	// Only finance and admins settle early
	_, err := svc.OverrideStatus(ctxFor(ops), order.ID, domain.WorkOrderStatusPendingSettlement)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Derived stages cannot be forced directly
	_, err = svc.OverrideStatus(ctxFor(finance), order.ID, domain.WorkOrderStatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidInput)

	dto, err := svc.OverrideStatus(ctxFor(finance), order.ID, domain.WorkOrderStatusPendingSettlement)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusPendingSettlement, dto.Status)

	// The override survives the next derived refresh
	dto, err = svc.GetByID(ctxFor(finance), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusPendingSettlement, dto.Status)

	// Requesting any other stage clears the override; the schedule, not
	// the requested value, decides the resulting stage
	dto, err = svc.OverrideStatus(ctxFor(finance), order.ID, domain.WorkOrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkOrderStatusInService, dto.Status)
}

func TestOverrideStatusRejectsDrafts(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)

	draft := seedWorkOrder(t, db, ops.ID)
	_, err := svc.OverrideStatus(ctxFor(finance), draft.ID, domain.WorkOrderStatusPendingSettlement)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateWorkOrderOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	owner := seedUser(t, db, domain.RoleOps)
	other := seedUser(t, db, domain.RoleOps)

	order := seedWorkOrder(t, db, owner.ID)

	req := &domain.UpdateWorkOrderRequest{
		OperatingCompany: "wormos",
		OrderType:        "repair",
		PaymentTerms:     "NET30",
		CustomerCompany:  "Nordic Shipping AS",
		VesselName:       "MV Aurora II",
		IMO:              "9321483",
		LocationType:     "port",
		LocationName:     "Skoltegrunnskaien",
		City:             "Bergen",
		StartDate:        day(-1),
		EndDate:          day(2),
	}

	_, err := svc.Update(ctxFor(other), order.ID, req)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	dto, err := svc.Update(ctxFor(owner), order.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "MV Aurora II", dto.VesselName)
}

func TestRefreshStatuses(t *testing.T) {
	db := newTestDB(t)
	svc := newTestWorkOrderService(db)
	ops := seedUser(t, db, domain.RoleOps)

	stale := seedWorkOrder(t, db, ops.ID)
	internalNo := "XQ-20260701-001"
	stale.InternalNo = &internalNo
	stale.Status = domain.WorkOrderStatusInService
	stale.StartDate = day(-10)
	stale.EndDate = day(-5)
	require.NoError(t, db.Save(stale).Error)

	current := seedWorkOrder(t, db, ops.ID)
	assignInternalNo(t, db, current, "XQ-20260801-003")

	updated, err := svc.RefreshStatuses(ctxFor(ops))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	var reloaded domain.WorkOrder
	require.NoError(t, db.First(&reloaded, "id = ?", stale.ID).Error)
	assert.Equal(t, domain.WorkOrderStatusCompleted, reloaded.Status)
}
