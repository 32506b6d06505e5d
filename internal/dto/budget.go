package dto

import (
	"github.com/shopspring/decimal"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// SetBudgetRequest defines the payload for overwriting a user's total allocation.
type SetBudgetRequest struct {
	Total decimal.Decimal `json:"total" binding:"required"`
}

// UserBudgetResponse returns the stored total and derived remaining budget.
type UserBudgetResponse struct {
	UserID    string          `json:"userID"`
	Total     decimal.Decimal `json:"total"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ToUserBudgetResponse converts a domain.UserBudget to its response DTO.
func ToUserBudgetResponse(b *domain.UserBudget) UserBudgetResponse {
	return UserBudgetResponse{
		UserID:    b.UserID,
		Total:     b.Total,
		Remaining: b.Remaining,
	}
}
