package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/wormos/shipops-api/internal/domain"
)

func userWithRole(role domain.UserRole) *UserContext {
	return &UserContext{
		UserID: uuid.New(),
		Name:   "Test User",
		Email:  "test@example.com",
		Role:   role,
	}
}

func orderCreatedBy(id uuid.UUID) *domain.WorkOrder {
	return &domain.WorkOrder{CreatedByID: id}
}

func TestCanEditWorkOrder(t *testing.T) {
	admin := userWithRole(domain.RoleAdmin)
	ops := userWithRole(domain.RoleOps)
	otherOps := userWithRole(domain.RoleOps)
	finance := userWithRole(domain.RoleFinance)
	engineer := userWithRole(domain.RoleEngineer)

	ownOrder := orderCreatedBy(ops.UserID)

	assert.True(t, CanEditWorkOrder(admin, ownOrder))
	assert.True(t, CanEditWorkOrder(ops, ownOrder))
	assert.False(t, CanEditWorkOrder(otherOps, ownOrder), "ops may only edit their own orders")
	assert.False(t, CanEditWorkOrder(finance, ownOrder))
	assert.False(t, CanEditWorkOrder(engineer, ownOrder))
	assert.False(t, CanEditWorkOrder(nil, ownOrder))
	assert.False(t, CanEditWorkOrder(admin, nil))
}

func TestCanEditFinancials(t *testing.T) {
	admin := userWithRole(domain.RoleAdmin)
	ops := userWithRole(domain.RoleOps)
	otherOps := userWithRole(domain.RoleOps)
	finance := userWithRole(domain.RoleFinance)
	engineer := userWithRole(domain.RoleEngineer)

	ownOrder := orderCreatedBy(ops.UserID)

	assert.True(t, CanEditFinancials(admin, ownOrder))
	assert.True(t, CanEditFinancials(finance, ownOrder), "finance may edit any order's ledgers")
	assert.True(t, CanEditFinancials(ops, ownOrder))
	assert.False(t, CanEditFinancials(otherOps, ownOrder))
	assert.False(t, CanEditFinancials(engineer, ownOrder), "engineers never touch financials")
}

func TestCanViewFinancialsMatchesEdit(t *testing.T) {
	engineer := userWithRole(domain.RoleEngineer)
	finance := userWithRole(domain.RoleFinance)
	order := orderCreatedBy(uuid.New())

	assert.False(t, CanViewFinancials(engineer, order))
	assert.True(t, CanViewFinancials(finance, order))
}

func TestCanLockCostLines(t *testing.T) {
	assert.True(t, CanLockCostLines(userWithRole(domain.RoleAdmin)))
	assert.True(t, CanLockCostLines(userWithRole(domain.RoleFinance)))
	assert.False(t, CanLockCostLines(userWithRole(domain.RoleOps)), "lock is finance-only even for the owner")
	assert.False(t, CanLockCostLines(userWithRole(domain.RoleEngineer)))
	assert.False(t, CanLockCostLines(nil))
}
