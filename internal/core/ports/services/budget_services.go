package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// BudgetSvcFacade is the budget ledger. The remaining amount is always
// derived fresh as total minus the sum of non-rejected program budgets;
// nothing is ever added or subtracted incrementally.
type BudgetSvcFacade interface {
	// SetTotalBudget overwrites a user's total allocation; staff only,
	// amount must be >= 0.
	SetTotalBudget(ctx context.Context, userID string, amount decimal.Decimal, actor domain.Actor) (*domain.UserBudget, error)

	// GetUserBudget returns the stored total and the derived remaining amount.
	GetUserBudget(ctx context.Context, userID string, actor domain.Actor) (*domain.UserBudget, error)

	// CheckReservation verifies that reserving amount for the user would
	// not exceed their remaining budget. enforced=false skips the check
	// (staff creating on a user's behalf, when policy allows).
	CheckReservation(ctx context.Context, userID string, amount decimal.Decimal, enforced bool) error
}
