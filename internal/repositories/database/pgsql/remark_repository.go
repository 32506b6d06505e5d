package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	"github.com/thetpaing-dev/grant_portal_app/internal/models"
)

type PgxRemarkRepository struct {
	db *pgxpool.Pool
}

// newPgxRemarkRepository creates a new repository for remark data.
func newPgxRemarkRepository(db *pgxpool.Pool) portsrepo.RemarkRepositoryFacade {
	return &PgxRemarkRepository{db: db}
}

// Ensure PgxRemarkRepository implements portsrepo.RemarkRepositoryFacade
var _ portsrepo.RemarkRepositoryFacade = (*PgxRemarkRepository)(nil)

func (r *PgxRemarkRepository) SaveRemark(ctx context.Context, remark domain.Remark) error {
	query := `
		INSERT INTO remarks (remark_id, program_id, text, author_id, author_role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.db.Exec(ctx, query,
		remark.RemarkID,
		remark.ProgramID,
		remark.Text,
		remark.AuthorID,
		string(remark.AuthorRole),
		remark.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save remark: %w", err)
	}
	return nil
}

func (r *PgxRemarkRepository) ListRemarksByProgram(ctx context.Context, programID string) ([]domain.Remark, error) {
	query := `
		SELECT remark_id, program_id, text, author_id, author_role, created_at
		FROM remarks
		WHERE program_id = $1
		ORDER BY created_at ASC;
	`
	rows, err := r.db.Query(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to list remarks for program %s: %w", programID, err)
	}
	defer rows.Close()

	remarks := []domain.Remark{}
	for rows.Next() {
		var m models.Remark
		if err := rows.Scan(&m.RemarkID, &m.ProgramID, &m.Text, &m.AuthorID, &m.AuthorRole, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan remark row: %w", err)
		}
		remarks = append(remarks, domain.Remark{
			RemarkID:   m.RemarkID,
			ProgramID:  m.ProgramID,
			Text:       m.Text,
			AuthorID:   m.AuthorID,
			AuthorRole: domain.UserRole(m.AuthorRole),
			CreatedAt:  m.CreatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating remark rows: %w", err)
	}
	return remarks, nil
}
