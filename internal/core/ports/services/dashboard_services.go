package services

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// DashboardSvcFacade computes dashboard summaries. Counts are derived
// from the program store on every call; nothing is cached or mutated.
type DashboardSvcFacade interface {
	// SummaryForUser aggregates one user's programs plus their budget view.
	SummaryForUser(ctx context.Context, userID string, actor domain.Actor) (*domain.DashboardSummary, error)

	// SummaryAll aggregates every program in the system; staff only.
	SummaryAll(ctx context.Context, actor domain.Actor) (*domain.DashboardSummary, error)
}
