package domain

import "time"

// DocumentType distinguishes files in one of the predefined slots from
// extra files attached under a free-text name.
type DocumentType string

const (
	DocumentOriginal DocumentType = "ORIGINAL"
	DocumentCustom   DocumentType = "CUSTOM"
)

// Predefined document slot names. A program holds at most one current
// document per slot; re-uploading to an occupied slot supersedes the
// previous file.
const (
	SlotProposalForm     = "proposal_form"
	SlotBudgetEstimate   = "budget_estimate"
	SlotQuotation        = "quotation"
	SlotAuthorityLetter  = "authority_letter"
	SlotInvoice          = "invoice"
	SlotCompletionReport = "completion_report"
)

// PredefinedSlots lists the six slot names in display order.
var PredefinedSlots = []string{
	SlotProposalForm,
	SlotBudgetEstimate,
	SlotQuotation,
	SlotAuthorityLetter,
	SlotInvoice,
	SlotCompletionReport,
}

// IsPredefinedSlot reports whether name is one of the six slot names.
func IsPredefinedSlot(name string) bool {
	for _, s := range PredefinedSlots {
		if s == name {
			return true
		}
	}
	return false
}

// Document is a reference to a stored file; the bytes themselves live
// in an external file store and are addressed by StoredFilename.
type Document struct {
	DocumentID     string       `json:"documentID"`
	ProgramID      string       `json:"programID"`
	SlotName       string       `json:"slotName"` // predefined slot or custom display name
	StoredFilename string       `json:"storedFilename"`
	DocumentType   DocumentType `json:"documentType"`
	UploadedBy     string       `json:"uploadedBy"` // UserID Reference
	UploadedAt     time.Time    `json:"uploadedAt"`
}
