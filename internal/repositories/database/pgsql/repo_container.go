package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	programRepo := newPgxProgramRepository(dbPool)
	budgetRepo := newPgxBudgetRepository(dbPool)
	queryRepo := newPgxQueryRepository(dbPool)
	remarkRepo := newPgxRemarkRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		ProgramRepo:  programRepo,
		BudgetRepo:   budgetRepo,
		QueryRepo:    queryRepo,
		RemarkRepo:   remarkRepo,
		DocumentRepo: documentRepo,
		UserRepo:     userRepo,
	}
}
