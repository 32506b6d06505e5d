package models

import "time"

// Document is the DB-facing shape of an attached file reference.
type Document struct {
	DocumentID     string    `db:"document_id"`
	ProgramID      string    `db:"program_id"`
	SlotName       string    `db:"slot_name"`
	StoredFilename string    `db:"stored_filename"`
	DocumentType   string    `db:"document_type"`
	UploadedBy     string    `db:"uploaded_by"`
	UploadedAt     time.Time `db:"uploaded_at"`
}
