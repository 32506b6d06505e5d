package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// BudgetReader defines read operations for budget account data
type BudgetReader interface {
	// FindAccountByUser retrieves the budget account for a user.
	// Returns apperrors.ErrNotFound when the user has never been allocated.
	FindAccountByUser(ctx context.Context, userID string) (*domain.BudgetAccount, error)

	// SumReservedBudget returns the sum of budgets of the user's
	// non-rejected programs. This is the reservation side of the
	// remaining-budget derivation.
	SumReservedBudget(ctx context.Context, userID string) (decimal.Decimal, error)
}

// BudgetWriter defines write operations for budget account data
type BudgetWriter interface {
	// UpsertTotalBudget creates the account if absent and overwrites its total.
	UpsertTotalBudget(ctx context.Context, account domain.BudgetAccount) error
}

// BudgetRepositoryFacade combines all budget-related repository interfaces
type BudgetRepositoryFacade interface {
	BudgetReader
	BudgetWriter
}
