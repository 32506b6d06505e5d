package dto

import (
	"time"

	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// UploadDocumentRequest carries the metadata of a document upload. The
// file itself arrives as multipart form data and is handed to the file
// store before the service records the reference.
type UploadDocumentRequest struct {
	// SlotName is a predefined slot name or a free-text custom name.
	SlotName string `form:"slotName" binding:"required"`
}

// DocumentResponse defines the data returned for a document reference.
type DocumentResponse struct {
	DocumentID     string              `json:"documentID"`
	ProgramID      string              `json:"programID"`
	SlotName       string              `json:"slotName"`
	StoredFilename string              `json:"storedFilename"`
	DocumentType   domain.DocumentType `json:"documentType"`
	UploadedBy     string              `json:"uploadedBy"`
	UploadedAt     time.Time           `json:"uploadedAt"`
}

// ToDocumentResponse converts a domain.Document to DocumentResponse DTO
func ToDocumentResponse(d *domain.Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:     d.DocumentID,
		ProgramID:      d.ProgramID,
		SlotName:       d.SlotName,
		StoredFilename: d.StoredFilename,
		DocumentType:   d.DocumentType,
		UploadedBy:     d.UploadedBy,
		UploadedAt:     d.UploadedAt,
	}
}

// ToDocumentResponses converts a slice of domain.Document to response DTOs.
func ToDocumentResponses(docs []domain.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(docs))
	for i := range docs {
		out[i] = ToDocumentResponse(&docs[i])
	}
	return out
}
