package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	"github.com/thetpaing-dev/grant_portal_app/internal/models"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document metadata.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepositoryFacade {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryFacade
var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

func toDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:     m.DocumentID,
		ProgramID:      m.ProgramID,
		SlotName:       m.SlotName,
		StoredFilename: m.StoredFilename,
		DocumentType:   domain.DocumentType(m.DocumentType),
		UploadedBy:     m.UploadedBy,
		UploadedAt:     m.UploadedAt,
	}
}

const documentColumns = `document_id, program_id, slot_name, stored_filename, document_type, uploaded_by, uploaded_at`

func scanDocument(row pgx.Row) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID,
		&m.ProgramID,
		&m.SlotName,
		&m.StoredFilename,
		&m.DocumentType,
		&m.UploadedBy,
		&m.UploadedAt,
	)
	return m, err
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE document_id = $1;`
	m, err := scanDocument(r.Pool.QueryRow(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	d := toDomainDocument(m)
	return &d, nil
}

func (r *PgxDocumentRepository) ListDocumentsByProgram(ctx context.Context, programID string, docType *domain.DocumentType) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE program_id = $1`
	args := []any{programID}
	if docType != nil {
		query += ` AND document_type = $2`
		args = append(args, string(*docType))
	}
	query += ` ORDER BY uploaded_at ASC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for program %s: %w", programID, err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, toDomainDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return docs, nil
}

func (r *PgxDocumentRepository) FindBySlot(ctx context.Context, programID string, slotName string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE program_id = $1 AND slot_name = $2 AND document_type = 'ORIGINAL';`
	m, err := scanDocument(r.Pool.QueryRow(ctx, query, programID, slotName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find slot %s of program %s: %w", slotName, programID, err)
	}
	d := toDomainDocument(m)
	return &d, nil
}

func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	query := `
		INSERT INTO documents (document_id, program_id, slot_name, stored_filename, document_type, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		doc.DocumentID,
		doc.ProgramID,
		doc.SlotName,
		doc.StoredFilename,
		string(doc.DocumentType),
		doc.UploadedBy,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// ReplaceSlotDocument swaps the occupant of a predefined slot atomically:
// the old row (if any) is locked, deleted and returned, and the new row is
// inserted, all in one transaction.
func (r *PgxDocumentRepository) ReplaceSlotDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `SELECT ` + documentColumns + `
		FROM documents
		WHERE program_id = $1 AND slot_name = $2 AND document_type = 'ORIGINAL'
		FOR UPDATE;`

	var retired *domain.Document
	m, err := scanDocument(tx.QueryRow(ctx, selectQuery, doc.ProgramID, doc.SlotName))
	switch {
	case err == nil:
		d := toDomainDocument(m)
		retired = &d
		if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE document_id = $1;`, d.DocumentID); err != nil {
			return nil, fmt.Errorf("failed to retire document %s: %w", d.DocumentID, err)
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Slot is empty; nothing to retire.
	default:
		return nil, fmt.Errorf("failed to inspect slot %s of program %s: %w", doc.SlotName, doc.ProgramID, err)
	}

	insertQuery := `
		INSERT INTO documents (document_id, program_id, slot_name, stored_filename, document_type, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, insertQuery,
		doc.DocumentID,
		doc.ProgramID,
		doc.SlotName,
		doc.StoredFilename,
		string(doc.DocumentType),
		doc.UploadedBy,
		doc.UploadedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert replacement document: %w", err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return retired, nil
}

func (r *PgxDocumentRepository) DeleteDocument(ctx context.Context, documentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM documents WHERE document_id = $1;`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
