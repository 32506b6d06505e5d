package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
)

// budgetService is the budget ledger. Remaining budget is recomputed
// from the stored total and the non-rejected program sum on every read;
// there is no incrementally maintained balance that could drift.
type budgetService struct {
	BaseService
	budgetRepo portsrepo.BudgetRepositoryFacade
	locks      *KeyedMutex
}

// NewBudgetService creates a new budget ledger service.
func NewBudgetService(budgetRepo portsrepo.BudgetRepositoryFacade, locks *KeyedMutex) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo: budgetRepo,
		locks:      locks,
	}
}

// Ensure budgetService implements the portssvc.BudgetSvcFacade interface
var _ portssvc.BudgetSvcFacade = (*budgetService)(nil)

// SetTotalBudget overwrites a user's total allocation.
func (s *budgetService) SetTotalBudget(ctx context.Context, userID string, amount decimal.Decimal, actor domain.Actor) (*domain.UserBudget, error) {
	if !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: only the back office may assign budgets", apperrors.ErrForbidden)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: total budget must not be negative", apperrors.ErrInvalidAmount)
	}

	s.locks.Lock(budgetLockKey(userID))
	defer s.locks.Unlock(budgetLockKey(userID))

	now := time.Now()
	account := domain.BudgetAccount{
		UserID:      userID,
		TotalBudget: amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.budgetRepo.UpsertTotalBudget(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to set total budget", slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Total budget assigned",
		slog.String("user_id", userID),
		slog.String("total", amount.String()),
		slog.String("assigned_by", actor.UserID))

	return s.deriveBudget(ctx, userID)
}

// GetUserBudget returns the stored total and freshly derived remaining amount.
func (s *budgetService) GetUserBudget(ctx context.Context, userID string, actor domain.Actor) (*domain.UserBudget, error) {
	if !actor.Role.IsStaff() && actor.UserID != userID {
		return nil, fmt.Errorf("%w: cannot view another user's budget", apperrors.ErrForbidden)
	}
	return s.deriveBudget(ctx, userID)
}

// CheckReservation verifies the remaining budget covers amount.
// The caller must hold the user's budget lock so the check stays atomic
// with the insert that follows it.
func (s *budgetService) CheckReservation(ctx context.Context, userID string, amount decimal.Decimal, enforced bool) error {
	if !enforced {
		return nil
	}
	budget, err := s.deriveBudget(ctx, userID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(budget.Remaining) {
		return fmt.Errorf("%w: requested %s, remaining %s",
			apperrors.ErrInsufficientBudget, amount.String(), budget.Remaining.String())
	}
	return nil
}

// deriveBudget computes total − Σ(budget of non-rejected programs).
// A user with no account row simply has a zero total; accounts come into
// existence the first time a budget is assigned.
func (s *budgetService) deriveBudget(ctx context.Context, userID string) (*domain.UserBudget, error) {
	total := decimal.Zero
	account, err := s.budgetRepo.FindAccountByUser(ctx, userID)
	switch {
	case err == nil:
		total = account.TotalBudget
	case errors.Is(err, apperrors.ErrNotFound):
		// implicit zero-budget account
	default:
		return nil, fmt.Errorf("failed to load budget account for user %s: %w", userID, err)
	}

	reserved, err := s.budgetRepo.SumReservedBudget(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum reserved budget for user %s: %w", userID, err)
	}

	return &domain.UserBudget{
		UserID:    userID,
		Total:     total,
		Remaining: total.Sub(reserved),
	}, nil
}
