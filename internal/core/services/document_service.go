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

// documentService tracks document references and enforces the
// one-document-per-slot supersede rule. File bytes are delegated to the
// FileStore.
type documentService struct {
	BaseService
	documentRepo portsrepo.DocumentRepositoryFacade
	programRepo  portsrepo.ProgramReader
	fileStore    portsrepo.FileStore
	locks        *KeyedMutex
}

// NewDocumentService creates a new document association service.
func NewDocumentService(documentRepo portsrepo.DocumentRepositoryFacade, programRepo portsrepo.ProgramReader, fileStore portsrepo.FileStore, locks *KeyedMutex) portssvc.DocumentSvcFacade {
	return &documentService{
		documentRepo: documentRepo,
		programRepo:  programRepo,
		fileStore:    fileStore,
		locks:        locks,
	}
}

// Ensure documentService implements the portssvc.DocumentSvcFacade interface
var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// Attach records a new document reference. A predefined slot holds at
// most one current document: the retire-and-insert runs as one
// repository transaction under the program lock, so no window exists
// with zero or two documents in the slot.
func (s *documentService) Attach(ctx context.Context, programID string, slotOrName string, storedFilename string, actor domain.Actor) (*domain.Document, error) {
	slot := strings.TrimSpace(slotOrName)
	if slot == "" {
		return nil, fmt.Errorf("%w: document name is required", apperrors.ErrValidation)
	}
	if storedFilename == "" {
		return nil, fmt.Errorf("%w: stored filename is required", apperrors.ErrValidation)
	}

	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && program.OwnerUserID != actor.UserID {
		return nil, fmt.Errorf("%w: cannot attach documents to another user's program", apperrors.ErrForbidden)
	}

	docType := domain.DocumentCustom
	if domain.IsPredefinedSlot(slot) {
		docType = domain.DocumentOriginal
	}
	doc := domain.Document{
		DocumentID:     uuid.NewString(),
		ProgramID:      programID,
		SlotName:       slot,
		StoredFilename: storedFilename,
		DocumentType:   docType,
		UploadedBy:     actor.UserID,
		UploadedAt:     time.Now(),
	}

	if docType == domain.DocumentOriginal {
		s.locks.Lock(programLockKey(programID))
		retired, err := s.documentRepo.ReplaceSlotDocument(ctx, doc)
		s.locks.Unlock(programLockKey(programID))
		if err != nil {
			s.LogError(ctx, err, "Failed to replace slot document",
				slog.String("program_id", programID), slog.String("slot", slot))
			return nil, err
		}
		if retired != nil {
			// Best effort: the reference is gone either way.
			if err := s.fileStore.Remove(ctx, retired.StoredFilename); err != nil {
				s.LogError(ctx, err, "Failed to remove superseded file",
					slog.String("stored_filename", retired.StoredFilename))
			}
			s.LogInfo(ctx, "Slot document superseded",
				slog.String("program_id", programID),
				slog.String("slot", slot),
				slog.String("retired_document_id", retired.DocumentID))
		}
	} else {
		if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
			s.LogError(ctx, err, "Failed to save document", slog.String("program_id", programID))
			return nil, err
		}
	}

	return &doc, nil
}

// Detach removes a document reference and its stored file.
func (s *documentService) Detach(ctx context.Context, documentID string, actor domain.Actor) error {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.authorizeProgramAccess(ctx, doc.ProgramID, actor); err != nil {
		return err
	}

	if err := s.documentRepo.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if err := s.fileStore.Remove(ctx, doc.StoredFilename); err != nil {
		s.LogError(ctx, err, "Failed to remove stored file",
			slog.String("stored_filename", doc.StoredFilename))
	}
	s.LogInfo(ctx, "Document detached",
		slog.String("document_id", documentID),
		slog.String("program_id", doc.ProgramID))
	return nil
}

// GetDocument resolves a document reference for download/view.
func (s *documentService) GetDocument(ctx context.Context, documentID string, actor domain.Actor) (*domain.Document, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeProgramAccess(ctx, doc.ProgramID, actor); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns a program's documents, optionally filtered by type.
func (s *documentService) ListDocuments(ctx context.Context, programID string, docType *domain.DocumentType, actor domain.Actor) ([]domain.Document, error) {
	if err := s.authorizeProgramAccess(ctx, programID, actor); err != nil {
		return nil, err
	}
	return s.documentRepo.ListDocumentsByProgram(ctx, programID, docType)
}

func (s *documentService) authorizeProgramAccess(ctx context.Context, programID string, actor domain.Actor) error {
	program, err := s.programRepo.FindProgramByID(ctx, programID)
	if err != nil {
		return err
	}
	if !actor.Role.IsStaff() && program.OwnerUserID != actor.UserID {
		return fmt.Errorf("%w: cannot access another user's program documents", apperrors.ErrForbidden)
	}
	return nil
}
