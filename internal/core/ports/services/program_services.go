package services

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
	"github.com/thetpaing-dev/grant_portal_app/internal/dto"
)

// ProgramReaderSvc defines read operations for programs
type ProgramReaderSvc interface {
	// GetProgramByID retrieves a program, enforcing that applicants only see their own.
	GetProgramByID(ctx context.Context, programID string, actor domain.Actor) (*domain.Program, error)

	// ListProgramsByUser retrieves all programs owned by a user, newest first.
	ListProgramsByUser(ctx context.Context, ownerUserID string, actor domain.Actor) ([]domain.Program, error)

	// ListAllPrograms retrieves every program; staff only.
	ListAllPrograms(ctx context.Context, actor domain.Actor) ([]domain.Program, error)
}

// ProgramWriterSvc defines write operations for programs
type ProgramWriterSvc interface {
	// CreateProgram creates a new draft program, reserving the amount
	// against the owner's remaining budget.
	CreateProgram(ctx context.Context, req dto.CreateProgramRequest, actor domain.Actor) (*domain.Program, error)

	// UpdateProgramFields updates the editable fields of a program.
	UpdateProgramFields(ctx context.Context, programID string, req dto.UpdateProgramRequest, actor domain.Actor) (*domain.Program, error)

	// DeleteProgram removes a program and all attached records.
	DeleteProgram(ctx context.Context, programID string, actor domain.Actor) error
}

// ProgramSvcFacade combines all program CRUD service interfaces
type ProgramSvcFacade interface {
	ProgramReaderSvc
	ProgramWriterSvc
}
