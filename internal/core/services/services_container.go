package services

import (
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// All program- and budget-mutating services share one keyed-mutex
// keyspace so their critical sections interlock.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, fileStore portsrepo.FileStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	locks := NewKeyedMutex()

	container.Budget = NewBudgetService(repos.BudgetRepo, locks)
	container.Workflow = NewWorkflowService(repos.ProgramRepo, repos.QueryRepo, locks)
	container.Program = NewProgramService(
		repos.ProgramRepo,
		container.Budget,
		locks,
		WithStaffBudgetEnforcement(cfg.EnforceBudgetForStaff),
	)
	container.Query = NewQueryService(repos.QueryRepo, repos.RemarkRepo, repos.ProgramRepo, container.Workflow, locks)
	container.Document = NewDocumentService(repos.DocumentRepo, repos.ProgramRepo, fileStore, locks)
	container.Dashboard = NewDashboardService(repos.ProgramRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.WorkflowSvcFacade  = (*workflowService)(nil)
	_ portssvc.BudgetSvcFacade    = (*budgetService)(nil)
	_ portssvc.ProgramSvcFacade   = (*programService)(nil)
	_ portssvc.QuerySvcFacade     = (*queryService)(nil)
	_ portssvc.DocumentSvcFacade  = (*documentService)(nil)
	_ portssvc.DashboardSvcFacade = (*dashboardService)(nil)
)
