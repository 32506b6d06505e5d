package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
)

// recentProgramCount caps the recent-activity list on the dashboard.
const recentProgramCount = 5

// dashboardService recomputes summary counts from the program store on
// every call. Pending uses the same non-rejected, non-completed
// predicate the budget ledger derives remaining budget with.
type dashboardService struct {
	BaseService
	programRepo portsrepo.ProgramReader
}

// NewDashboardService creates a new dashboard aggregation service.
func NewDashboardService(programRepo portsrepo.ProgramReader) portssvc.DashboardSvcFacade {
	return &dashboardService{programRepo: programRepo}
}

// Ensure dashboardService implements the portssvc.DashboardSvcFacade interface
var _ portssvc.DashboardSvcFacade = (*dashboardService)(nil)

// SummaryForUser aggregates one user's programs.
func (s *dashboardService) SummaryForUser(ctx context.Context, userID string, actor domain.Actor) (*domain.DashboardSummary, error) {
	if !actor.Role.IsStaff() && actor.UserID != userID {
		return nil, fmt.Errorf("%w: cannot view another user's dashboard", apperrors.ErrForbidden)
	}
	programs, err := s.programRepo.ListProgramsByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarize(programs), nil
}

// SummaryAll aggregates every program; staff only.
func (s *dashboardService) SummaryAll(ctx context.Context, actor domain.Actor) (*domain.DashboardSummary, error) {
	if !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: only the back office may view the system dashboard", apperrors.ErrForbidden)
	}
	programs, err := s.programRepo.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(programs), nil
}

// summarize is a pure function over a program set. Total always equals
// completed + rejected + pending.
func summarize(programs []domain.Program) *domain.DashboardSummary {
	summary := &domain.DashboardSummary{Total: len(programs)}
	for _, p := range programs {
		switch p.Status {
		case domain.StatusPaymentCompleted:
			summary.Completed++
		case domain.StatusRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}

	recent := make([]domain.Program, len(programs))
	copy(recent, programs)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentProgramCount {
		recent = recent[:recentProgramCount]
	}
	summary.Recent = recent
	return summary
}
