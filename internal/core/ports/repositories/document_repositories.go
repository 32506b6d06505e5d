package repositories

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// DocumentReader defines read operations for document metadata
type DocumentReader interface {
	// FindDocumentByID retrieves a specific document reference.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)

	// ListDocumentsByProgram retrieves a program's documents, optionally
	// filtered by document type (nil means all).
	ListDocumentsByProgram(ctx context.Context, programID string, docType *domain.DocumentType) ([]domain.Document, error)

	// FindBySlot retrieves the current document occupying a predefined slot,
	// or ErrNotFound when the slot is empty.
	FindBySlot(ctx context.Context, programID string, slotName string) (*domain.Document, error)
}

// DocumentWriter defines write operations for document metadata
type DocumentWriter interface {
	// SaveDocument persists a new document reference.
	SaveDocument(ctx context.Context, doc domain.Document) error

	// ReplaceSlotDocument retires the document currently occupying the slot
	// (if any) and inserts the replacement, in one transaction. It returns
	// the retired document so the caller can discard the stored file.
	ReplaceSlotDocument(ctx context.Context, doc domain.Document) (*domain.Document, error)

	// DeleteDocument removes a document reference permanently.
	DeleteDocument(ctx context.Context, documentID string) error
}

// DocumentRepositoryFacade combines all document-related repository interfaces
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}
