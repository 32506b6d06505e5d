package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProgramStatus mirrors domain.ProgramStatus for DB storage.
type ProgramStatus string

// Program is the DB-facing shape of a funding request.
type Program struct {
	ProgramID   string          `db:"program_id"`
	Name        string          `db:"name"`
	Budget      decimal.Decimal `db:"budget"`
	Recipient   string          `db:"recipient"`
	ReferenceNo string          `db:"reference_no"`
	OwnerUserID string          `db:"owner_user_id"`
	Status      ProgramStatus   `db:"status"`
	VoucherNo   string          `db:"voucher_no"` // empty until payment completion
	EFTNo       string          `db:"eft_no"`
	EFTDate     *time.Time      `db:"eft_date"`
	AuditFields
}

// StatusChange is one row of a program's append-only status history.
type StatusChange struct {
	HistoryID string        `db:"history_id"`
	ProgramID string        `db:"program_id"`
	Status    ProgramStatus `db:"status"`
	ChangedAt time.Time     `db:"changed_at"`
	ChangedBy string        `db:"changed_by"`
}
