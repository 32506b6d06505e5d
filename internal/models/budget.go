package models

import "github.com/shopspring/decimal"

// BudgetAccount stores the authority-assigned total for one user.
// Remaining budget is never stored; it is derived at read time from the
// user's non-rejected programs.
type BudgetAccount struct {
	UserID      string          `db:"user_id"`
	TotalBudget decimal.Decimal `db:"total_budget"`
	AuditFields
}
