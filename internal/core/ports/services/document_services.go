package services

import (
	"context"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// DocumentSvcFacade manages document references attached to programs.
// File bytes live in an external store; the service tracks metadata and
// enforces the one-document-per-slot supersede rule.
type DocumentSvcFacade interface {
	// Attach records a new document. Uploading into an occupied predefined
	// slot supersedes the previous document; custom-named documents append
	// independently.
	Attach(ctx context.Context, programID string, slotOrName string, storedFilename string, actor domain.Actor) (*domain.Document, error)

	// Detach removes a document reference and its stored file.
	Detach(ctx context.Context, documentID string, actor domain.Actor) error

	// GetDocument resolves a document reference, for download/view endpoints.
	GetDocument(ctx context.Context, documentID string, actor domain.Actor) (*domain.Document, error)

	// ListDocuments returns a program's documents, optionally filtered by
	// type (nil means all).
	ListDocuments(ctx context.Context, programID string, docType *domain.DocumentType, actor domain.Actor) ([]domain.Document, error)
}
