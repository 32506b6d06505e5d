package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	"github.com/thetpaing-dev/grant_portal_app/internal/models"
)

type PgxQueryRepository struct {
	db *pgxpool.Pool
}

// newPgxQueryRepository creates a new repository for query data.
func newPgxQueryRepository(db *pgxpool.Pool) portsrepo.QueryRepositoryFacade {
	return &PgxQueryRepository{db: db}
}

// Ensure PgxQueryRepository implements portsrepo.QueryRepositoryFacade
var _ portsrepo.QueryRepositoryFacade = (*PgxQueryRepository)(nil)

func toDomainQuery(m models.Query) domain.Query {
	return domain.Query{
		QueryID:    m.QueryID,
		ProgramID:  m.ProgramID,
		Question:   m.Question,
		RaisedBy:   m.RaisedBy,
		RaisedAt:   m.RaisedAt,
		Answered:   m.Answered,
		Answer:     m.Answer,
		AnsweredBy: m.AnsweredBy,
		AnsweredAt: m.AnsweredAt,
	}
}

const queryColumns = `query_id, program_id, question, raised_by, raised_at,
		answered, COALESCE(answer, ''), COALESCE(answered_by, ''), answered_at`

func scanQuery(row pgx.Row) (models.Query, error) {
	var m models.Query
	err := row.Scan(
		&m.QueryID,
		&m.ProgramID,
		&m.Question,
		&m.RaisedBy,
		&m.RaisedAt,
		&m.Answered,
		&m.Answer,
		&m.AnsweredBy,
		&m.AnsweredAt,
	)
	return m, err
}

func (r *PgxQueryRepository) FindQueryByID(ctx context.Context, queryID string) (*domain.Query, error) {
	sql := `SELECT ` + queryColumns + ` FROM queries WHERE query_id = $1;`
	m, err := scanQuery(r.db.QueryRow(ctx, sql, queryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find query %s: %w", queryID, err)
	}
	d := toDomainQuery(m)
	return &d, nil
}

func (r *PgxQueryRepository) ListQueriesByProgram(ctx context.Context, programID string) ([]domain.Query, error) {
	sql := `SELECT ` + queryColumns + ` FROM queries WHERE program_id = $1 ORDER BY raised_at ASC;`
	rows, err := r.db.Query(ctx, sql, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries for program %s: %w", programID, err)
	}
	defer rows.Close()

	queries := []domain.Query{}
	for rows.Next() {
		m, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query row: %w", err)
		}
		queries = append(queries, toDomainQuery(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query rows: %w", err)
	}
	return queries, nil
}

func (r *PgxQueryRepository) CountUnanswered(ctx context.Context, programID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM queries WHERE program_id = $1 AND NOT answered;`,
		programID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unanswered queries for program %s: %w", programID, err)
	}
	return count, nil
}

func (r *PgxQueryRepository) CountByProgram(ctx context.Context, programID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM queries WHERE program_id = $1;`,
		programID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count queries for program %s: %w", programID, err)
	}
	return count, nil
}

// SaveQuery inserts an unanswered query. A partial unique index on
// (program_id) WHERE NOT answered enforces the one-outstanding-query rule
// at the database, so concurrent raises cannot both slip through.
func (r *PgxQueryRepository) SaveQuery(ctx context.Context, query domain.Query) error {
	sql := `
		INSERT INTO queries (query_id, program_id, question, raised_by, raised_at, answered)
		VALUES ($1, $2, $3, $4, $5, FALSE);
	`
	_, err := r.db.Exec(ctx, sql,
		query.QueryID,
		query.ProgramID,
		query.Question,
		query.RaisedBy,
		query.RaisedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrQueryAlreadyPending
		}
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

func (r *PgxQueryRepository) MarkAnswered(ctx context.Context, queryID string, answer string, answeredBy string, answeredAt time.Time) error {
	sql := `
		UPDATE queries
		SET answered = TRUE, answer = $2, answered_by = $3, answered_at = $4
		WHERE query_id = $1 AND NOT answered;
	`
	tag, err := r.db.Exec(ctx, sql, queryID, answer, answeredBy, answeredAt)
	if err != nil {
		return fmt.Errorf("failed to mark query %s answered: %w", queryID, err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM queries WHERE query_id = $1);`, queryID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check query %s existence: %w", queryID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrAlreadyAnswered
	}
	return nil
}
