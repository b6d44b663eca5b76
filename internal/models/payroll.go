package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollCycle is the row shape of the payroll_cycles table.
type PayrollCycle struct {
	CycleID     string     `db:"cycle_id"`
	Period      string     `db:"period"`
	Status      string     `db:"status"`
	ConfirmedBy *string    `db:"confirmed_by"` // Nullable
	ConfirmedAt *time.Time `db:"confirmed_at"` // Nullable
	PostedBy    *string    `db:"posted_by"`    // Nullable
	PostedAt    *time.Time `db:"posted_at"`    // Nullable
	AuditFields
}

// PayrollLine is the row shape of the payroll_lines table.
type PayrollLine struct {
	LineID         string           `db:"line_id"`
	CycleID        string           `db:"cycle_id"`
	MemberID       string           `db:"member_id"`
	LoanID         *string          `db:"loan_id"` // Nullable, LOAN_REPAYMENT only
	LineType       string           `db:"line_type"`
	ExpectedAmount decimal.Decimal  `db:"expected_amount"`
	ActualAmount   *decimal.Decimal `db:"actual_amount"` // Nullable
	Status         string           `db:"status"`
	Reason         string           `db:"reason"`
	AuditFields
}
