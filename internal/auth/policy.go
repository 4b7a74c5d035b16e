package auth

import (
	"github.com/wormos/shipops-api/internal/domain"
)

// Pure authorization predicates evaluated against a principal and a work
// order. Services call these before every mutation; the HTTP layer never
// makes ownership decisions on its own.

// CanEditWorkOrder reports whether the user may mutate the work order
// record itself. ADMIN always may; OPS only when they created it.
func CanEditWorkOrder(user *UserContext, workOrder *domain.WorkOrder) bool {
	if user == nil || workOrder == nil {
		return false
	}
	if user.Role == domain.RoleAdmin {
		return true
	}
	if user.Role == domain.RoleOps && workOrder.CreatedByID == user.UserID {
		return true
	}
	return false
}

// CanEditFinancials reports whether the user may mutate the cost and income
// ledgers of the work order. ADMIN and FINANCE always may; OPS only when
// owner; ENGINEER never.
func CanEditFinancials(user *UserContext, workOrder *domain.WorkOrder) bool {
	if user == nil || workOrder == nil {
		return false
	}
	switch user.Role {
	case domain.RoleAdmin, domain.RoleFinance:
		return true
	case domain.RoleOps:
		return workOrder.CreatedByID == user.UserID
	}
	return false
}

// CanViewFinancials reports whether the user may read financial figures for
// the work order. Same rule as CanEditFinancials: ENGINEER is always denied.
func CanViewFinancials(user *UserContext, workOrder *domain.WorkOrder) bool {
	return CanEditFinancials(user, workOrder)
}

// CanLockCostLines reports whether the user may run the lock-all operation.
// Restricted to FINANCE and ADMIN regardless of ownership.
func CanLockCostLines(user *UserContext) bool {
	if user == nil {
		return false
	}
	return user.HasAnyRole(domain.RoleFinance, domain.RoleAdmin)
}
