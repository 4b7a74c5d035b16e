package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wormos/shipops-api/internal/domain"
)

func TestCostLineCreateComputesTotal(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	order := seedWorkOrder(t, db, ops.ID)

	dto, err := svc.Create(ctxFor(finance), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Main engine piston rings",
		Category:  domain.CostCategoryParts,
		UnitPrice: 19.99,
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, 59.97, dto.LineTotal, "line total is always computed server-side")
	assert.False(t, dto.IsLocked)
}

func TestCostLineCreateInvalidCategory(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)

	_, err := svc.Create(ctxFor(ops), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Misc",
		Category:  domain.CostCategory("FREIGHT"),
		UnitPrice: 10,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCostLineRejectsNonPositivePrice(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, ops.ID)

	_, err := svc.Create(ctxFor(ops), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Free sample",
		Category:  domain.CostCategoryParts,
		UnitPrice: 0,
		Quantity:  3,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	dto, err := svc.Create(ctxFor(ops), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Hose clamp",
		Category:  domain.CostCategoryParts,
		UnitPrice: 4.5,
		Quantity:  2,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctxFor(ops), order.ID, dto.ID, &domain.UpdateCostLineRequest{
		ItemName:  "Hose clamp",
		Category:  domain.CostCategoryParts,
		UnitPrice: -5,
		Quantity:  2,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCostLineEngineerAccess(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	engineer := seedUser(t, db, domain.RoleEngineer)
	order := seedWorkOrder(t, db, ops.ID)

	_, err := svc.Create(ctxFor(engineer), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Gasket set",
		Category:  domain.CostCategoryParts,
		UnitPrice: 45,
		Quantity:  2,
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ListByWorkOrder(ctxFor(engineer), order.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied, "engineers cannot even read the cost ledger")
}

func TestCostLineOpsOwnershipRule(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	owner := seedUser(t, db, domain.RoleOps)
	other := seedUser(t, db, domain.RoleOps)
	order := seedWorkOrder(t, db, owner.ID)

	req := &domain.CreateCostLineRequest{
		ItemName:  "Crane hire",
		Category:  domain.CostCategoryOutsource,
		UnitPrice: 1200,
		Quantity:  1,
	}

	_, err := svc.Create(ctxFor(other), order.ID, req)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.Create(ctxFor(owner), order.ID, req)
	require.NoError(t, err)
}

func TestLockAll(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	order := seedWorkOrder(t, db, ops.ID)

	for _, item := range []string{"Labor day shift", "Labor night shift"} {
		_, err := svc.Create(ctxFor(ops), order.ID, &domain.CreateCostLineRequest{
			ItemName:  item,
			Category:  domain.CostCategoryLabor,
			UnitPrice: 800,
			Quantity:  1,
		})
		require.NoError(t, err)
	}

	// The owner may fill the ledger but not freeze it
	_, err := svc.LockAll(ctxFor(ops), order.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	locked, err := svc.LockAll(ctxFor(finance), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), locked)

	// Re-locking a frozen ledger succeeds and reports nothing new
	locked, err = svc.LockAll(ctxFor(finance), order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), locked)
}

func TestLockedLineIsFrozen(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	order := seedWorkOrder(t, db, ops.ID)

	dto, err := svc.Create(ctxFor(ops), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Propeller polishing",
		Category:  domain.CostCategoryOutsource,
		UnitPrice: 3500,
		Quantity:  1,
	})
	require.NoError(t, err)

	_, err = svc.LockAll(ctxFor(finance), order.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctxFor(finance), order.ID, dto.ID, &domain.UpdateCostLineRequest{
		ItemName:  "Propeller polishing",
		Category:  domain.CostCategoryOutsource,
		UnitPrice: 3600,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, ErrCostLineLocked)

	assert.ErrorIs(t, svc.Delete(ctxFor(finance), order.ID, dto.ID), ErrCostLineLocked)
}

func TestCostLineForeignWorkOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	admin := seedUser(t, db, domain.RoleAdmin)
	order := seedWorkOrder(t, db, ops.ID)
	otherOrder := seedWorkOrder(t, db, ops.ID)

	dto, err := svc.Create(ctxFor(admin), order.ID, &domain.CreateCostLineRequest{
		ItemName:  "Anodes",
		Category:  domain.CostCategoryParts,
		UnitPrice: 60,
		Quantity:  10,
	})
	require.NoError(t, err)

	// The line is addressed through the wrong parent
	_, err = svc.Update(ctxFor(admin), otherOrder.ID, dto.ID, &domain.UpdateCostLineRequest{
		ItemName:  "Anodes",
		Category:  domain.CostCategoryParts,
		UnitPrice: 65,
		Quantity:  10,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCostSummary(t *testing.T) {
	db := newTestDB(t)
	svc := newTestCostLineService(db)
	ops := seedUser(t, db, domain.RoleOps)
	finance := seedUser(t, db, domain.RoleFinance)
	order := seedWorkOrder(t, db, ops.ID)

	lines := []struct {
		item     string
		category domain.CostCategory
		price    float64
		qty      float64
	}{
		{"Piston rings", domain.CostCategoryParts, 19.99, 3},
		{"Cylinder head", domain.CostCategoryParts, 940.01, 1},
		{"Fitter", domain.CostCategoryLabor, 500, 2},
	}
	var deletable *domain.CostLineDTO
	for _, l := range lines {
		dto, err := svc.Create(ctxFor(ops), order.ID, &domain.CreateCostLineRequest{
			ItemName:  l.item,
			Category:  l.category,
			UnitPrice: l.price,
			Quantity:  l.qty,
		})
		require.NoError(t, err)
		if l.item == "Cylinder head" {
			deletable = dto
		}
	}

	// Deleted lines drop out of every aggregate
	require.NoError(t, svc.Delete(ctxFor(ops), order.ID, deletable.ID))

	summary, err := svc.GetSummary(ctxFor(finance), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1059.97, summary.TotalCost)
	assert.Equal(t, 59.97, summary.CategoryTotals[domain.CostCategoryParts])
	assert.Equal(t, 1000.0, summary.CategoryTotals[domain.CostCategoryLabor])
	assert.Equal(t, 2, summary.LineCount)
	assert.Equal(t, 0, summary.LockedCount)
}
