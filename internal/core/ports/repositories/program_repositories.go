package repositories

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// ProgramReader defines read operations for program data
type ProgramReader interface {
	// FindProgramByID retrieves a specific program by its unique identifier.
	FindProgramByID(ctx context.Context, programID string) (*domain.Program, error)

	// ListProgramsByOwner retrieves all programs submitted by a given user, newest first.
	ListProgramsByOwner(ctx context.Context, ownerUserID string) ([]domain.Program, error)

	// ListPrograms retrieves all programs, newest first.
	ListPrograms(ctx context.Context) ([]domain.Program, error)

	// FindStatusHistory retrieves a program's status history ordered by change time ascending.
	FindStatusHistory(ctx context.Context, programID string) ([]domain.StatusChange, error)
}

// ProgramWriter defines write operations for program data
type ProgramWriter interface {
	// SaveProgram persists a new program together with its initial DRAFT
	// history entry in a single transaction.
	SaveProgram(ctx context.Context, program domain.Program, initial domain.StatusChange) error

	// UpdateProgramFields updates the editable fields of a program (name,
	// budget, recipient, reference number).
	UpdateProgramFields(ctx context.Context, program domain.Program) error

	// UpdateProgramStatus atomically sets the program's status, appends the
	// history entry, and (for payment completion) stores the payment fields.
	// expectedCurrent guards against concurrent transitions: if the stored
	// status no longer matches, the write fails with ErrConcurrencyConflict.
	UpdateProgramStatus(ctx context.Context, programID string, expectedCurrent domain.ProgramStatus, change domain.StatusChange, payment *domain.PaymentDetails) error

	// DeleteProgram removes a program and cascades to its documents,
	// queries, remarks and status history.
	DeleteProgram(ctx context.Context, programID string) error
}

// ProgramRepositoryFacade combines all program-related repository interfaces
type ProgramRepositoryFacade interface {
	ProgramReader
	ProgramWriter
}

// ProgramRepositoryWithTx extends ProgramRepositoryFacade with transaction capabilities
type ProgramRepositoryWithTx interface {
	ProgramRepositoryFacade
	TransactionManager
}
