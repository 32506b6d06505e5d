package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	"github.com/thetpaing-dev/grant_portal_app/internal/models"
)

type PgxBudgetRepository struct {
	db *pgxpool.Pool
}

// newPgxBudgetRepository creates a new repository for budget account data.
func newPgxBudgetRepository(db *pgxpool.Pool) portsrepo.BudgetRepositoryFacade {
	return &PgxBudgetRepository{db: db}
}

// Ensure PgxBudgetRepository implements portsrepo.BudgetRepositoryFacade
var _ portsrepo.BudgetRepositoryFacade = (*PgxBudgetRepository)(nil)

func toDomainBudgetAccount(m models.BudgetAccount) domain.BudgetAccount {
	return domain.BudgetAccount{
		UserID:      m.UserID,
		TotalBudget: m.TotalBudget,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *PgxBudgetRepository) FindAccountByUser(ctx context.Context, userID string) (*domain.BudgetAccount, error) {
	query := `
		SELECT user_id, total_budget, created_at, created_by, last_updated_at, last_updated_by
		FROM budget_accounts
		WHERE user_id = $1;
	`
	var m models.BudgetAccount
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&m.UserID,
		&m.TotalBudget,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget account for user %s: %w", userID, err)
	}
	d := toDomainBudgetAccount(m)
	return &d, nil
}

// SumReservedBudget computes the reservation side of the remaining-budget
// derivation. Rejected programs are excluded, which is what releases their
// budget back to the user.
func (r *PgxBudgetRepository) SumReservedBudget(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(budget), 0)
		FROM programs
		WHERE owner_user_id = $1 AND status <> 'REJECTED';
	`
	var reserved decimal.Decimal
	if err := r.db.QueryRow(ctx, query, userID).Scan(&reserved); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum reserved budget for user %s: %w", userID, err)
	}
	return reserved, nil
}

func (r *PgxBudgetRepository) UpsertTotalBudget(ctx context.Context, account domain.BudgetAccount) error {
	query := `
		INSERT INTO budget_accounts (user_id, total_budget, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			total_budget = EXCLUDED.total_budget,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.db.Exec(ctx, query,
		account.UserID,
		account.TotalBudget,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert budget account for user %s: %w", account.UserID, err)
	}
	return nil
}
