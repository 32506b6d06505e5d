package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/thetpaing-dev/grant_portal_app/internal/core/domain"
)

// CreateProgramRequest defines the data needed to create a new draft program.
type CreateProgramRequest struct {
	Name        string          `json:"name" binding:"required"`
	Budget      decimal.Decimal `json:"budget" binding:"required"`
	Recipient   string          `json:"recipient" binding:"required"`
	ReferenceNo string          `json:"referenceNo"`
	// OwnerUserID lets staff create a program on an applicant's behalf.
	// Applicants may only create their own; the field is ignored for them.
	OwnerUserID string `json:"ownerUserID"`
}

// UpdateProgramRequest defines the editable fields of a program.
// Pointers distinguish omitted fields from zero values.
type UpdateProgramRequest struct {
	Name        *string          `json:"name"`
	Budget      *decimal.Decimal `json:"budget"`
	Recipient   *string          `json:"recipient"`
	ReferenceNo *string          `json:"referenceNo"`
}

// ChangeStatusRequest defines the payload of a status transition call.
type ChangeStatusRequest struct {
	Target domain.ProgramStatus `json:"target" binding:"required"`
	// Payment settlement fields, required only for PAYMENT_COMPLETED.
	VoucherNo string     `json:"voucherNo"`
	EFTNo     string     `json:"eftNo"`
	EFTDate   *time.Time `json:"eftDate"`
}

// ProgramResponse defines the data returned for a program.
type ProgramResponse struct {
	ProgramID   string               `json:"programID"`
	Name        string               `json:"name"`
	Budget      decimal.Decimal      `json:"budget"`
	Recipient   string               `json:"recipient"`
	ReferenceNo string               `json:"referenceNo"`
	OwnerUserID string               `json:"ownerUserID"`
	Status      domain.ProgramStatus `json:"status"`
	VoucherNo   string               `json:"voucherNo,omitempty"`
	EFTNo       string               `json:"eftNo,omitempty"`
	EFTDate     *time.Time           `json:"eftDate,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	CreatedBy   string               `json:"createdBy"`
}

// StatusChangeResponse is one entry of a program's status history.
type StatusChangeResponse struct {
	Status    domain.ProgramStatus `json:"status"`
	ChangedAt time.Time            `json:"changedAt"`
	ChangedBy string               `json:"changedBy"`
}

// ToProgramResponse converts a domain.Program to ProgramResponse DTO
func ToProgramResponse(p *domain.Program) ProgramResponse {
	return ProgramResponse{
		ProgramID:   p.ProgramID,
		Name:        p.Name,
		Budget:      p.Budget,
		Recipient:   p.Recipient,
		ReferenceNo: p.ReferenceNo,
		OwnerUserID: p.OwnerUserID,
		Status:      p.Status,
		VoucherNo:   p.VoucherNo,
		EFTNo:       p.EFTNo,
		EFTDate:     p.EFTDate,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
	}
}

// ToProgramResponses converts a slice of domain.Program to response DTOs.
func ToProgramResponses(programs []domain.Program) []ProgramResponse {
	out := make([]ProgramResponse, len(programs))
	for i := range programs {
		out[i] = ToProgramResponse(&programs[i])
	}
	return out
}

// ToStatusChangeResponses converts domain history entries to response DTOs.
func ToStatusChangeResponses(history []domain.StatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, len(history))
	for i, h := range history {
		out[i] = StatusChangeResponse{
			Status:    h.Status,
			ChangedAt: h.ChangedAt,
			ChangedBy: h.ChangedBy,
		}
	}
	return out
}

// PaymentDetailsFromRequest extracts the payment fields of a status
// change request, or nil when none were supplied.
func (r ChangeStatusRequest) PaymentDetailsFromRequest() *domain.PaymentDetails {
	if r.VoucherNo == "" && r.EFTNo == "" && r.EFTDate == nil {
		return nil
	}
	pd := &domain.PaymentDetails{
		VoucherNo: r.VoucherNo,
		EFTNo:     r.EFTNo,
	}
	if r.EFTDate != nil {
		pd.EFTDate = *r.EFTDate
	}
	return pd
}
