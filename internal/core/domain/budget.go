package domain

import (
	"github.com/shopspring/decimal"
)

// BudgetAccount holds the authority-assigned allocation for one user.
// Only the total is stored; the remaining amount is derived as
// total minus the sum of the user's non-rejected program budgets, so
// rejecting a program releases its reservation without a ledger write.
type BudgetAccount struct {
	UserID      string          `json:"userID"`
	TotalBudget decimal.Decimal `json:"totalBudget"` // >= 0, set only by officer/admin
	AuditFields
}

// UserBudget is the read-side view of an account: the stored total plus
// the freshly derived remaining amount.
type UserBudget struct {
	UserID    string          `json:"userID"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}
