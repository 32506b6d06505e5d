package repositories

import (
	"context"
	"time"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// QueryReader defines read operations for query data
type QueryReader interface {
	// FindQueryByID retrieves a specific query.
	FindQueryByID(ctx context.Context, queryID string) (*domain.Query, error)

	// ListQueriesByProgram retrieves a program's queries ordered by raise time ascending.
	ListQueriesByProgram(ctx context.Context, programID string) ([]domain.Query, error)

	// CountUnanswered returns the number of unanswered queries on a program.
	// The engine uses this both for the one-outstanding-query rule and for
	// gating the QUERY -> QUERY_ANSWERED transition.
	CountUnanswered(ctx context.Context, programID string) (int, error)

	// CountByProgram returns the total number of queries ever raised on a program.
	CountByProgram(ctx context.Context, programID string) (int, error)
}

// QueryWriter defines write operations for query data
type QueryWriter interface {
	// SaveQuery persists a new unanswered query. The insert fails with
	// ErrQueryAlreadyPending when another unanswered query exists on the
	// same program (enforced by a partial unique index).
	SaveQuery(ctx context.Context, query domain.Query) error

	// MarkAnswered records the answer on an unanswered query. It fails with
	// ErrAlreadyAnswered when the query was answered in the meantime.
	MarkAnswered(ctx context.Context, queryID string, answer string, answeredBy string, answeredAt time.Time) error
}

// QueryRepositoryFacade combines all query-related repository interfaces
type QueryRepositoryFacade interface {
	QueryReader
	QueryWriter
}

// RemarkRepositoryFacade defines operations for remark data.
// Remarks are append-only; there is no update or delete.
type RemarkRepositoryFacade interface {
	// SaveRemark persists a new remark.
	SaveRemark(ctx context.Context, remark domain.Remark) error

	// ListRemarksByProgram retrieves a program's remarks ordered by creation time ascending.
	ListRemarksByProgram(ctx context.Context, programID string) ([]domain.Remark, error)
}
