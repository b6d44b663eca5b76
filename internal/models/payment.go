package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the row shape of the payments table.
type Payment struct {
	PaymentID string          `db:"payment_id"`
	MemberID  string          `db:"member_id"`
	LoanID    *string         `db:"loan_id"` // Nullable
	Type      string          `db:"payment_type"`
	Status    string          `db:"status"`
	Amount    decimal.Decimal `db:"amount"`
	PaidAt    time.Time       `db:"paid_at"`
	Reference string          `db:"reference"`
	AuditFields
}

// Repayment is the row shape of the repayments table.
type Repayment struct {
	RepaymentID string          `db:"repayment_id"`
	LoanID      string          `db:"loan_id"`
	MemberID    string          `db:"member_id"`
	Amount      decimal.Decimal `db:"amount"`
	PaidAt      time.Time       `db:"paid_at"`
	Source      string          `db:"source"`
	CreatedBy   string          `db:"created_by"`
}
