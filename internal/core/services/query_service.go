package services

import (
	"context"
	"errors"
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

// queryService manages reviewer queries and remarks. Raising a query
// from UNDER_REVIEW and answering the outstanding query both drive the
// dependent status transitions through the workflow engine.
type queryService struct {
	BaseService
	queryRepo   portsrepo.QueryRepositoryFacade
	remarkRepo  portsrepo.RemarkRepositoryFacade
	programRepo portsrepo.ProgramReader
	workflowSvc portssvc.WorkflowSvcFacade
	locks       *KeyedMutex
}

// NewQueryService creates a new query/remark service.
func NewQueryService(queryRepo portsrepo.QueryRepositoryFacade, remarkRepo portsrepo.RemarkRepositoryFacade, programRepo portsrepo.ProgramReader, workflowSvc portssvc.WorkflowSvcFacade, locks *KeyedMutex) portssvc.QuerySvcFacade {
	return &queryService{
		queryRepo:   queryRepo,
		remarkRepo:  remarkRepo,
		programRepo: programRepo,
		workflowSvc: workflowSvc,
		locks:       locks,
	}
}

// Ensure queryService implements the portssvc.QuerySvcFacade interface
var _ portssvc.QuerySvcFacade = (*queryService)(nil)

// RaiseQuery records a new unanswered query on a program.
func (s *queryService) RaiseQuery(ctx context.Context, programID string, question string, actor domain.Actor) (*domain.Query, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.ErrEmptyQuery
	}
	if !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: only the back office may raise queries", apperrors.ErrForbidden)
	}

	s.locks.Lock(programLockKey(programID))
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		s.locks.Unlock(programLockKey(programID))
		return nil, err
	}
	if program.Status != domain.StatusUnderReview && program.Status != domain.StatusQueryAnswered {
		s.locks.Unlock(programLockKey(programID))
		return nil, fmt.Errorf("%w: queries can only be raised under review or after a previous answer, not in %s",
			apperrors.ErrValidation, program.Status)
	}

	unanswered, err := s.queryRepo.CountUnanswered(ctx, programID)
	if err != nil {
		s.locks.Unlock(programLockKey(programID))
		return nil, fmt.Errorf("failed to count unanswered queries for program %s: %w", programID, err)
	}
	if unanswered > 0 {
		s.locks.Unlock(programLockKey(programID))
		return nil, apperrors.ErrQueryAlreadyPending
	}

	query := domain.Query{
		QueryID:   uuid.NewString(),
		ProgramID: programID,
		Question:  question,
		RaisedBy:  actor.UserID,
		RaisedAt:  time.Now(),
	}
	if err := s.queryRepo.SaveQuery(ctx, query); err != nil {
		s.locks.Unlock(programLockKey(programID))
		s.LogError(ctx, err, "Failed to save query", slog.String("program_id", programID))
		return nil, err
	}
	// Release before the dependent transition; the workflow engine takes
	// the same program lock.
	s.locks.Unlock(programLockKey(programID))

	s.LogInfo(ctx, "Query raised",
		slog.String("query_id", query.QueryID),
		slog.String("program_id", programID),
		slog.String("raised_by", actor.UserID))

	if program.Status == domain.StatusUnderReview {
		if _, err := s.workflowSvc.ChangeStatus(ctx, programID, domain.StatusQuery, actor, nil); err != nil {
			s.LogError(ctx, err, "Failed to move program into query status", slog.String("program_id", programID))
			return nil, err
		}
	}
	// A query raised after QUERY_ANSWERED reopens the conversation without
	// rewinding the forward-only status graph.

	return &query, nil
}

// AnswerQuery records the answer on an unanswered query.
func (s *queryService) AnswerQuery(ctx context.Context, queryID string, answer string, actor domain.Actor) (*domain.Query, error) {
	if strings.TrimSpace(answer) == "" {
		return nil, apperrors.ErrEmptyAnswer
	}

	query, err := s.queryRepo.FindQueryByID(ctx, queryID)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(programLockKey(query.ProgramID))
	program, err := s.programRepo.FindProgramByID(ctx, query.ProgramID)
	if err != nil {
		s.locks.Unlock(programLockKey(query.ProgramID))
		return nil, err
	}
	if !actor.Role.IsStaff() && program.OwnerUserID != actor.UserID {
		s.locks.Unlock(programLockKey(query.ProgramID))
		return nil, fmt.Errorf("%w: cannot answer a query on another user's program", apperrors.ErrForbidden)
	}

	answeredAt := time.Now()
	if err := s.queryRepo.MarkAnswered(ctx, queryID, answer, actor.UserID, answeredAt); err != nil {
		s.locks.Unlock(programLockKey(query.ProgramID))
		if errors.Is(err, apperrors.ErrAlreadyAnswered) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to record answer", slog.String("query_id", queryID))
		return nil, err
	}
	s.locks.Unlock(programLockKey(query.ProgramID))

	s.LogInfo(ctx, "Query answered",
		slog.String("query_id", queryID),
		slog.String("program_id", query.ProgramID),
		slog.String("answered_by", actor.UserID))

	// Dependent transition: answering the outstanding query moves the
	// program out of QUERY once nothing is left unanswered.
	if program.Status == domain.StatusQuery {
		if _, err := s.workflowSvc.ChangeStatus(ctx, query.ProgramID, domain.StatusQueryAnswered, actor, nil); err != nil {
			s.LogError(ctx, err, "Failed to move program to query-answered", slog.String("program_id", query.ProgramID))
			return nil, err
		}
	}

	query.Answered = true
	query.Answer = answer
	query.AnsweredBy = actor.UserID
	query.AnsweredAt = &answeredAt
	return query, nil
}

// AddRemark appends a remark; permitted in every status.
func (s *queryService) AddRemark(ctx context.Context, programID string, text string, actor domain.Actor) (*domain.Remark, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyRemark
	}
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && program.OwnerUserID != actor.UserID {
		return nil, fmt.Errorf("%w: cannot remark on another user's program", apperrors.ErrForbidden)
	}

	remark := domain.Remark{
		RemarkID:   uuid.NewString(),
		ProgramID:  programID,
		Text:       text,
		AuthorID:   actor.UserID,
		AuthorRole: actor.Role,
		CreatedAt:  time.Now(),
	}
	if err := s.remarkRepo.SaveRemark(ctx, remark); err != nil {
		s.LogError(ctx, err, "Failed to save remark", slog.String("program_id", programID))
		return nil, err
	}
	return &remark, nil
}

// ListQueries returns a program's queries, oldest first.
func (s *queryService) ListQueries(ctx context.Context, programID string, actor domain.Actor) ([]domain.Query, error) {
	if err := s.authorizeProgramRead(ctx, programID, actor); err != nil {
		return nil, err
	}
	return s.queryRepo.ListQueriesByProgram(ctx, programID)
}

// ListRemarks returns a program's remarks, oldest first.
func (s *queryService) ListRemarks(ctx context.Context, programID string, actor domain.Actor) ([]domain.Remark, error) {
	if err := s.authorizeProgramRead(ctx, programID, actor); err != nil {
		return nil, err
	}
	return s.remarkRepo.ListRemarksByProgram(ctx, programID)
}

func (s *queryService) authorizeProgramRead(ctx context.Context, programID string, actor domain.Actor) error {
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return err
	}
	if !actor.Role.IsStaff() && program.OwnerUserID != actor.UserID {
		return fmt.Errorf("%w: cannot view another user's program", apperrors.ErrForbidden)
	}
	return nil
}
