package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProgramStatus indicates where a program sits in the approval workflow.
type ProgramStatus string

const (
	StatusDraft                 ProgramStatus = "DRAFT"
	StatusUnderReview           ProgramStatus = "UNDER_REVIEW"
	StatusQuery                 ProgramStatus = "QUERY"
	StatusQueryAnswered         ProgramStatus = "QUERY_ANSWERED"
	StatusCompleteCanSendToMMK  ProgramStatus = "COMPLETE_CAN_SEND_TO_MMK"
	StatusUnderReviewByMMK      ProgramStatus = "UNDER_REVIEW_BY_MMK"
	StatusDocumentAcceptedByMMK ProgramStatus = "DOCUMENT_ACCEPTED_BY_MMK"
	StatusPaymentInProgress     ProgramStatus = "PAYMENT_IN_PROGRESS"
	StatusPaymentCompleted      ProgramStatus = "PAYMENT_COMPLETED"
	StatusRejected              ProgramStatus = "REJECTED"
)

// IsTerminal reports whether a program in this status can transition further.
func (s ProgramStatus) IsTerminal() bool {
	return s == StatusPaymentCompleted || s == StatusRejected
}

// IsValid reports whether s is one of the ten known workflow statuses.
func (s ProgramStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusUnderReview, StatusQuery, StatusQueryAnswered,
		StatusCompleteCanSendToMMK, StatusUnderReviewByMMK,
		StatusDocumentAcceptedByMMK, StatusPaymentInProgress,
		StatusPaymentCompleted, StatusRejected:
		return true
	}
	return false
}

// Program represents a single funding request moving through the approval workflow.
type Program struct {
	ProgramID   string          `json:"programID"` // Primary Key (UUID)
	Name        string          `json:"name"`
	Budget      decimal.Decimal `json:"budget"` // Requested amount, always positive
	Recipient   string          `json:"recipient"`
	ReferenceNo string          `json:"referenceNo"`
	OwnerUserID string          `json:"ownerUserID"`
	Status      ProgramStatus   `json:"status"`

	// Payment settlement fields. All three are set together on the
	// payment-completion transition and are empty before it.
	VoucherNo string     `json:"voucherNo,omitempty"`
	EFTNo     string     `json:"eftNo,omitempty"`
	EFTDate   *time.Time `json:"eftDate,omitempty"`

	AuditFields
}

// StatusChange is one append-only entry in a program's status history.
// The history is never rewritten; the last entry's status always equals
// the program's current status.
type StatusChange struct {
	HistoryID string        `json:"historyID"`
	ProgramID string        `json:"programID"`
	Status    ProgramStatus `json:"status"`
	ChangedAt time.Time     `json:"changedAt"`
	ChangedBy string        `json:"changedBy"` // UserID Reference
}

// PaymentDetails carries the settlement fields required by the
// payment-completion transition.
type PaymentDetails struct {
	VoucherNo string
	EFTNo     string
	EFTDate   time.Time
}
