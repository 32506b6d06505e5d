package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	"github.com/thetpaing-dev/grant_portal_app/internal/models"
)

type PgxProgramRepository struct {
	BaseRepository
}

// newPgxProgramRepository creates a new repository for program and status history data.
func newPgxProgramRepository(pool *pgxpool.Pool) portsrepo.ProgramRepositoryWithTx {
	return &PgxProgramRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxProgramRepository implements portsrepo.ProgramRepositoryWithTx
var _ portsrepo.ProgramRepositoryWithTx = (*PgxProgramRepository)(nil)

func toModelProgram(d domain.Program) models.Program {
	return models.Program{
		ProgramID:   d.ProgramID,
		Name:        d.Name,
		Budget:      d.Budget,
		Recipient:   d.Recipient,
		ReferenceNo: d.ReferenceNo,
		OwnerUserID: d.OwnerUserID,
		Status:      models.ProgramStatus(d.Status),
		VoucherNo:   d.VoucherNo,
		EFTNo:       d.EFTNo,
		EFTDate:     d.EFTDate,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainProgram(m models.Program) domain.Program {
	return domain.Program{
		ProgramID:   m.ProgramID,
		Name:        m.Name,
		Budget:      m.Budget,
		Recipient:   m.Recipient,
		ReferenceNo: m.ReferenceNo,
		OwnerUserID: m.OwnerUserID,
		Status:      domain.ProgramStatus(m.Status),
		VoucherNo:   m.VoucherNo,
		EFTNo:       m.EFTNo,
		EFTDate:     m.EFTDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

const programColumns = `program_id, name, budget, recipient, reference_no, owner_user_id, status,
		COALESCE(voucher_no, ''), COALESCE(eft_no, ''), eft_date,
		created_at, created_by, last_updated_at, last_updated_by`

func scanProgram(row pgx.Row) (models.Program, error) {
	var m models.Program
	err := row.Scan(
		&m.ProgramID,
		&m.Name,
		&m.Budget,
		&m.Recipient,
		&m.ReferenceNo,
		&m.OwnerUserID,
		&m.Status,
		&m.VoucherNo,
		&m.EFTNo,
		&m.EFTDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveProgram inserts the program together with its initial history entry
// so a program can never exist without a first DRAFT history row.
func (r *PgxProgramRepository) SaveProgram(ctx context.Context, program domain.Program, initial domain.StatusChange) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := toModelProgram(program)
	programQuery := `
		INSERT INTO programs (
			program_id, name, budget, recipient, reference_no, owner_user_id, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, programQuery,
		m.ProgramID,
		m.Name,
		m.Budget,
		m.Recipient,
		m.ReferenceNo,
		m.OwnerUserID,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert program: %w", err)
	}

	if err := insertStatusChange(ctx, tx, initial); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertStatusChange(ctx context.Context, tx pgx.Tx, change domain.StatusChange) error {
	historyQuery := `
		INSERT INTO program_status_history (history_id, program_id, status, changed_at, changed_by)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := tx.Exec(ctx, historyQuery,
		change.HistoryID,
		change.ProgramID,
		string(change.Status),
		change.ChangedAt,
		change.ChangedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

func (r *PgxProgramRepository) FindProgramByID(ctx context.Context, programID string) (*domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE program_id = $1;`
	m, err := scanProgram(r.Pool.QueryRow(ctx, query, programID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find program %s: %w", programID, err)
	}
	d := toDomainProgram(m)
	return &d, nil
}

func (r *PgxProgramRepository) ListProgramsByOwner(ctx context.Context, ownerUserID string) ([]domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE owner_user_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs for owner %s: %w", ownerUserID, err)
	}
	defer rows.Close()
	return collectPrograms(rows)
}

func (r *PgxProgramRepository) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()
	return collectPrograms(rows)
}

func collectPrograms(rows pgx.Rows) ([]domain.Program, error) {
	programs := []domain.Program{}
	for rows.Next() {
		m, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan program row: %w", err)
		}
		programs = append(programs, toDomainProgram(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program rows: %w", err)
	}
	return programs, nil
}

func (r *PgxProgramRepository) FindStatusHistory(ctx context.Context, programID string) ([]domain.StatusChange, error) {
	query := `
		SELECT history_id, program_id, status, changed_at, changed_by
		FROM program_status_history
		WHERE program_id = $1
		ORDER BY changed_at ASC;
	`
	rows, err := r.Pool.Query(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history for program %s: %w", programID, err)
	}
	defer rows.Close()

	history := []domain.StatusChange{}
	for rows.Next() {
		var m models.StatusChange
		if err := rows.Scan(&m.HistoryID, &m.ProgramID, &m.Status, &m.ChangedAt, &m.ChangedBy); err != nil {
			return nil, fmt.Errorf("failed to scan status history row: %w", err)
		}
		history = append(history, domain.StatusChange{
			HistoryID: m.HistoryID,
			ProgramID: m.ProgramID,
			Status:    domain.ProgramStatus(m.Status),
			ChangedAt: m.ChangedAt,
			ChangedBy: m.ChangedBy,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history rows: %w", err)
	}
	return history, nil
}

func (r *PgxProgramRepository) UpdateProgramFields(ctx context.Context, program domain.Program) error {
	m := toModelProgram(program)
	query := `
		UPDATE programs
		SET name = $2, budget = $3, recipient = $4, reference_no = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE program_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ProgramID,
		m.Name,
		m.Budget,
		m.Recipient,
		m.ReferenceNo,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update program %s: %w", m.ProgramID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateProgramStatus performs the transition write: the status column is
// updated only if it still holds expectedCurrent, and the history entry is
// appended in the same transaction. A zero-row update means another writer
// moved the program first.
func (r *PgxProgramRepository) UpdateProgramStatus(ctx context.Context, programID string, expectedCurrent domain.ProgramStatus, change domain.StatusChange, payment *domain.PaymentDetails) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var tag pgconn.CommandTag
	if payment != nil {
		query := `
			UPDATE programs
			SET status = $3, voucher_no = $4, eft_no = $5, eft_date = $6,
			    last_updated_at = $7, last_updated_by = $8
			WHERE program_id = $1 AND status = $2;
		`
		tag, err = tx.Exec(ctx, query,
			programID,
			string(expectedCurrent),
			string(change.Status),
			payment.VoucherNo,
			payment.EFTNo,
			payment.EFTDate,
			change.ChangedAt,
			change.ChangedBy,
		)
	} else {
		query := `
			UPDATE programs
			SET status = $3, last_updated_at = $4, last_updated_by = $5
			WHERE program_id = $1 AND status = $2;
		`
		tag, err = tx.Exec(ctx, query,
			programID,
			string(expectedCurrent),
			string(change.Status),
			change.ChangedAt,
			change.ChangedBy,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update status of program %s: %w", programID, err)
	}
	if tag.RowsAffected() == 0 {
		// Either the program is gone or its status moved under us.
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM programs WHERE program_id = $1);`, programID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check program %s existence: %w", programID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConcurrencyConflict
	}

	if err := insertStatusChange(ctx, tx, change); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// DeleteProgram removes the program row; documents, queries, remarks and
// history rows go with it via ON DELETE CASCADE.
func (r *PgxProgramRepository) DeleteProgram(ctx context.Context, programID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM programs WHERE program_id = $1;`, programID)
	if err != nil {
		return fmt.Errorf("failed to delete program %s: %w", programID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
