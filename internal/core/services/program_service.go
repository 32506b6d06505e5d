package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thetpaing-dev/grant_portal_app/internal/apperrors"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	portsrepo "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/repositories"
	portssvc "github.com/thetpaing-dev/grant_portal_app/internal/core/ports/services"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
)

// programService provides program CRUD. Creation reserves the requested
// amount against the owner's remaining budget.
type programService struct {
	BaseService
	programRepo portsrepo.ProgramRepositoryWithTx
	budgetSvc   portssvc.BudgetSvcFacade
	locks       *KeyedMutex

	// enforceBudgetForStaff extends the insufficient-budget check to
	// programs staff create on an applicant's behalf.
	enforceBudgetForStaff bool
}

// ProgramServiceOption is a functional option for configuring the program service
type ProgramServiceOption func(*programService)

// WithStaffBudgetEnforcement makes staff-created programs subject to the
// same remaining-budget check as applicant submissions.
func WithStaffBudgetEnforcement(enforce bool) ProgramServiceOption {
	return func(s *programService) {
		s.enforceBudgetForStaff = enforce
	}
}

// NewProgramService creates a new program CRUD service.
func NewProgramService(programRepo portsrepo.ProgramRepositoryWithTx, budgetSvc portssvc.BudgetSvcFacade, locks *KeyedMutex, options ...ProgramServiceOption) portssvc.ProgramSvcFacade {
	svc := &programService{
		programRepo: programRepo,
		budgetSvc:   budgetSvc,
		locks:       locks,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure programService implements the portssvc.ProgramSvcFacade interface
var _ portssvc.ProgramSvcFacade = (*programService)(nil)

// CreateProgram creates a new draft program. The budget check and the
// insert run under the owner's budget lock so two concurrent creations
// cannot both pass the remaining-budget check.
func (s *programService) CreateProgram(ctx context.Context, req dto.CreateProgramRequest, actor domain.Actor) (*domain.Program, error) {
	if req.Budget.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: program budget must be positive", apperrors.ErrInvalidAmount)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Recipient) == "" {
		return nil, fmt.Errorf("%w: name and recipient are required", apperrors.ErrValidation)
	}

	ownerID := actor.UserID
	if actor.Role.IsStaff() {
		if req.OwnerUserID == "" {
			return nil, fmt.Errorf("%w: ownerUserID is required when creating on a user's behalf", apperrors.ErrValidation)
		}
		ownerID = req.OwnerUserID
	} else if req.OwnerUserID != "" && req.OwnerUserID != actor.UserID {
		return nil, fmt.Errorf("%w: applicants may only create their own programs", apperrors.ErrForbidden)
	}

	s.locks.Lock(budgetLockKey(ownerID))
	defer s.locks.Unlock(budgetLockKey(ownerID))

	enforced := actor.Role == domain.RoleApplicant || s.enforceBudgetForStaff
	if err := s.budgetSvc.CheckReservation(ctx, ownerID, req.Budget, enforced); err != nil {
		return nil, err
	}

	now := time.Now()
	program := domain.Program{
		ProgramID:   uuid.NewString(),
		Name:        req.Name,
		Budget:      req.Budget,
		Recipient:   req.Recipient,
		ReferenceNo: req.ReferenceNo,
		OwnerUserID: ownerID,
		Status:      domain.StatusDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	initial := domain.StatusChange{
		HistoryID: uuid.NewString(),
		ProgramID: program.ProgramID,
		Status:    domain.StatusDraft,
		ChangedAt: now,
		ChangedBy: actor.UserID,
	}

	if err := s.programRepo.SaveProgram(ctx, program, initial); err != nil {
		s.LogError(ctx, err, "Failed to create program", slog.String("owner_user_id", ownerID))
		return nil, err
	}

	s.LogInfo(ctx, "Program created",
		slog.String("program_id", program.ProgramID),
		slog.String("owner_user_id", ownerID),
		slog.String("budget", program.Budget.String()))
	return &program, nil
}

// GetProgramByID retrieves a program, hiding other users' programs from applicants.
func (s *programService) GetProgramByID(ctx context.Context, programID string, actor domain.Actor) (*domain.Program, error) {
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && program.OwnerUserID != actor.UserID {
		return nil, fmt.Errorf("%w: cannot view another user's program", apperrors.ErrForbidden)
	}
	return program, nil
}

// ListProgramsByUser retrieves a user's programs, newest first.
func (s *programService) ListProgramsByUser(ctx context.Context, ownerUserID string, actor domain.Actor) ([]domain.Program, error) {
	if !actor.Role.IsStaff() && ownerUserID != actor.UserID {
		return nil, fmt.Errorf("%w: cannot list another user's programs", apperrors.ErrForbidden)
	}
	return s.programRepo.ListProgramsByOwner(ctx, ownerUserID)
}

// ListAllPrograms retrieves every program; staff only.
func (s *programService) ListAllPrograms(ctx context.Context, actor domain.Actor) ([]domain.Program, error) {
	if !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: only the back office may list all programs", apperrors.ErrForbidden)
	}
	return s.programRepo.ListPrograms(ctx)
}

// UpdateProgramFields updates the editable fields of a program.
// Applicants may edit their own drafts only; budget changes are
// restricted to drafts for everyone since later statuses have already
// consumed the reservation.
func (s *programService) UpdateProgramFields(ctx context.Context, programID string, req dto.UpdateProgramRequest, actor domain.Actor) (*domain.Program, error) {
	s.locks.Lock(programLockKey(programID))
	defer s.locks.Unlock(programLockKey(programID))

	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}

	if !actor.Role.IsStaff() {
		if program.OwnerUserID != actor.UserID {
			return nil, fmt.Errorf("%w: cannot edit another user's program", apperrors.ErrForbidden)
		}
		if program.Status != domain.StatusDraft {
			return nil, fmt.Errorf("%w: only draft programs can be edited", apperrors.ErrValidation)
		}
	}
	if program.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: program is in terminal status %s", apperrors.ErrValidation, program.Status)
	}

	if req.Budget != nil {
		if program.Status != domain.StatusDraft {
			return nil, fmt.Errorf("%w: budget can only change while the program is a draft", apperrors.ErrValidation)
		}
		if req.Budget.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: program budget must be positive", apperrors.ErrInvalidAmount)
		}
		delta := req.Budget.Sub(program.Budget)
		if delta.IsPositive() {
			s.locks.Lock(budgetLockKey(program.OwnerUserID))
			enforced := actor.Role == domain.RoleApplicant || s.enforceBudgetForStaff
			err := s.budgetSvc.CheckReservation(ctx, program.OwnerUserID, delta, enforced)
			s.locks.Unlock(budgetLockKey(program.OwnerUserID))
			if err != nil {
				return nil, err
			}
		}
		program.Budget = *req.Budget
	}
	if req.Name != nil {
		program.Name = *req.Name
	}
	if req.Recipient != nil {
		program.Recipient = *req.Recipient
	}
	if req.ReferenceNo != nil {
		program.ReferenceNo = *req.ReferenceNo
	}
	program.LastUpdatedAt = time.Now()
	program.LastUpdatedBy = actor.UserID

	if err := s.programRepo.UpdateProgramFields(ctx, *program); err != nil {
		s.LogError(ctx, err, "Failed to update program", slog.String("program_id", programID))
		return nil, err
	}
	return program, nil
}

// DeleteProgram removes a program and everything attached to it.
// Applicants may withdraw their own programs before review concludes;
// admins may delete anything.
func (s *programService) DeleteProgram(ctx context.Context, programID string, actor domain.Actor) error {
	s.locks.Lock(programLockKey(programID))
	defer s.locks.Unlock(programLockKey(programID))

	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return err
	}

	switch {
	case actor.Role == domain.RoleAdmin:
	case actor.Role == domain.RoleApplicant && program.OwnerUserID == actor.UserID:
		if program.Status != domain.StatusDraft && program.Status != domain.StatusUnderReview {
			return fmt.Errorf("%w: program can no longer be withdrawn in status %s", apperrors.ErrValidation, program.Status)
		}
	default:
		return fmt.Errorf("%w: role %s may not delete this program", apperrors.ErrForbidden, actor.Role)
	}

	if err := s.programRepo.DeleteProgram(ctx, programID); err != nil {
		s.LogError(ctx, err, "Failed to delete program", slog.String("program_id", programID))
		return err
	}
	s.LogInfo(ctx, "Program deleted",
		slog.String("program_id", programID),
		slog.String("deleted_by", actor.UserID))
	return nil
}
