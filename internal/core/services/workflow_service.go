package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
)

// statusSuccessors is the allowed-transition graph. A transition is
// legal only when the target appears in the current status's successor
// list; terminal statuses have no entry.
var statusSuccessors = map[domain.ProgramStatus][]domain.ProgramStatus{
	domain.StatusDraft:                 {domain.StatusUnderReview},
	domain.StatusUnderReview:           {domain.StatusQuery, domain.StatusCompleteCanSendToMMK, domain.StatusRejected},
	domain.StatusQuery:                 {domain.StatusQueryAnswered},
	domain.StatusQueryAnswered:         {domain.StatusCompleteCanSendToMMK},
	domain.StatusCompleteCanSendToMMK:  {domain.StatusUnderReviewByMMK},
	domain.StatusUnderReviewByMMK:      {domain.StatusDocumentAcceptedByMMK, domain.StatusRejected},
	domain.StatusDocumentAcceptedByMMK: {domain.StatusPaymentInProgress},
	domain.StatusPaymentInProgress:     {domain.StatusPaymentCompleted},
}

// isSuccessor reports whether target directly follows current in the graph.
func isSuccessor(current, target domain.ProgramStatus) bool {
	for _, s := range statusSuccessors[current] {
		if s == target {
			return true
		}
	}
	return false
}

// workflowService is the status transition engine.
type workflowService struct {
	BaseService
	programRepo portsrepo.ProgramRepositoryWithTx
	queryRepo   portsrepo.QueryReader
	locks       *KeyedMutex
}

// NewWorkflowService creates the status transition engine. The locks
// keyspace must be shared with every other service that mutates programs.
func NewWorkflowService(programRepo portsrepo.ProgramRepositoryWithTx, queryRepo portsrepo.QueryReader, locks *KeyedMutex) portssvc.WorkflowSvcFacade {
	return &workflowService{
		programRepo: programRepo,
		queryRepo:   queryRepo,
		locks:       locks,
	}
}

// Ensure workflowService implements the portssvc.WorkflowSvcFacade interface
var _ portssvc.WorkflowSvcFacade = (*workflowService)(nil)

// ChangeStatus validates and applies one forward transition.
func (s *workflowService) ChangeStatus(ctx context.Context, programID string, target domain.ProgramStatus, actor domain.Actor, payment *domain.PaymentDetails) (*domain.Program, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, target)
	}
	if target == domain.StatusDraft {
		// DRAFT is entered only at creation.
		return nil, fmt.Errorf("%w: cannot transition into %s", apperrors.ErrInvalidTransition, domain.StatusDraft)
	}

	s.locks.Lock(programLockKey(programID))
	defer s.locks.Unlock(programLockKey(programID))

	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	if !isSuccessor(program.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, program.Status, target)
	}

	if err := s.authorizeEdge(program, target, actor); err != nil {
		return nil, err
	}

	if err := s.checkEdgeGates(ctx, program, target, payment); err != nil {
		return nil, err
	}

	change := domain.StatusChange{
		HistoryID: uuid.NewString(),
		ProgramID: programID,
		Status:    target,
		ChangedAt: time.Now(),
		ChangedBy: actor.UserID,
	}

	var paymentFields *domain.PaymentDetails
	if target == domain.StatusPaymentCompleted {
		paymentFields = payment
	}

	if err := s.programRepo.UpdateProgramStatus(ctx, programID, program.Status, change, paymentFields); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Program status changed",
		slog.String("program_id", programID),
		slog.String("from", string(program.Status)),
		slog.String("to", string(target)),
		slog.String("changed_by", actor.UserID))

	if target == domain.StatusRejected {
		// Remaining budget is derived from the non-rejected program sum, so
		// the status write itself releases the reservation.
		s.LogInfo(ctx, "Budget reservation released on rejection",
			slog.String("program_id", programID),
			slog.String("owner_user_id", program.OwnerUserID),
			slog.String("amount", program.Budget.String()))
	}

	program.Status = target
	program.LastUpdatedAt = change.ChangedAt
	program.LastUpdatedBy = actor.UserID
	if paymentFields != nil {
		program.VoucherNo = paymentFields.VoucherNo
		program.EFTNo = paymentFields.EFTNo
		eftDate := paymentFields.EFTDate
		program.EFTDate = &eftDate
	}
	return program, nil
}

// authorizeEdge enforces the role ownership of each transition edge.
// Applicants may send their own drafts for review; the query-answered
// edge is driven on the owner's behalf by the query subsystem; the back
// office owns everything else.
func (s *workflowService) authorizeEdge(program *domain.Program, target domain.ProgramStatus, actor domain.Actor) error {
	if actor.Role.IsStaff() {
		return nil
	}
	ownEdge := actor.Role == domain.RoleApplicant && actor.UserID == program.OwnerUserID
	switch {
	case program.Status == domain.StatusDraft && target == domain.StatusUnderReview && ownEdge:
		return nil
	case program.Status == domain.StatusQuery && target == domain.StatusQueryAnswered && ownEdge:
		return nil
	}
	return fmt.Errorf("%w: role %s may not perform %s -> %s", apperrors.ErrForbidden, actor.Role, program.Status, target)
}

// checkEdgeGates enforces the per-edge preconditions beyond role and adjacency.
func (s *workflowService) checkEdgeGates(ctx context.Context, program *domain.Program, target domain.ProgramStatus, payment *domain.PaymentDetails) error {
	switch target {
	case domain.StatusQuery:
		// Entered only after the reviewer recorded a question.
		unanswered, err := s.queryRepo.CountUnanswered(ctx, program.ProgramID)
		if err != nil {
			return fmt.Errorf("failed to count unanswered queries for program %s: %w", program.ProgramID, err)
		}
		if unanswered == 0 {
			return fmt.Errorf("%w: no outstanding query on program", apperrors.ErrInvalidTransition)
		}
	case domain.StatusQueryAnswered:
		// Dependent transition: permitted only once every raised query has
		// an answer recorded.
		total, err := s.queryRepo.CountByProgram(ctx, program.ProgramID)
		if err != nil {
			return fmt.Errorf("failed to count queries for program %s: %w", program.ProgramID, err)
		}
		if total == 0 {
			return fmt.Errorf("%w: program has no queries to answer", apperrors.ErrInvalidTransition)
		}
		unanswered, err := s.queryRepo.CountUnanswered(ctx, program.ProgramID)
		if err != nil {
			return fmt.Errorf("failed to count unanswered queries for program %s: %w", program.ProgramID, err)
		}
		if unanswered > 0 {
			return fmt.Errorf("%w: %d queries still unanswered", apperrors.ErrInvalidTransition, unanswered)
		}
	case domain.StatusPaymentCompleted:
		if payment == nil ||
			strings.TrimSpace(payment.VoucherNo) == "" ||
			strings.TrimSpace(payment.EFTNo) == "" ||
			payment.EFTDate.IsZero() {
			return apperrors.ErrMissingPaymentDetails
		}
	}
	return nil
}

// GetStatusHistory returns the append-only history, oldest first.
func (s *workflowService) GetStatusHistory(ctx context.Context, programID string, actor domain.Actor) ([]domain.StatusChange, error) {
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && actor.UserID != program.OwnerUserID {
		return nil, fmt.Errorf("%w: cannot view another user's program history", apperrors.ErrForbidden)
	}
	return s.programRepo.FindStatusHistory(ctx, programID)
}

// programLockKey namespaces program locks away from budget-account locks.
func programLockKey(programID string) string {
	return "program:" + programID
}

// budgetLockKey namespaces budget-account locks.
func budgetLockKey(userID string) string {
	return "budget:" + userID
}
