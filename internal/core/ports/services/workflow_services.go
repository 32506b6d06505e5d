package services

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// WorkflowSvcFacade is the status transition engine. It validates that
// the target status is a direct successor of the program's current
// status, that the actor's role owns that edge, and applies the
// transition together with its side effects in one transaction.
type WorkflowSvcFacade interface {
	// ChangeStatus moves a program to target. payment must be non-nil and
	// complete for the transition into PAYMENT_COMPLETED and is ignored
	// everywhere else.
	ChangeStatus(ctx context.Context, programID string, target domain.ProgramStatus, actor domain.Actor, payment *domain.PaymentDetails) (*domain.Program, error)

	// GetStatusHistory returns a program's append-only status history,
	// oldest first.
	GetStatusHistory(ctx context.Context, programID string, actor domain.Actor) ([]domain.StatusChange, error)
}
