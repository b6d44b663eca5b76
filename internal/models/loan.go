package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the row shape of the loans table.
type Loan struct {
	LoanID         string          `db:"loan_id"`
	MemberID       string          `db:"member_id"`
	Principal      decimal.Decimal `db:"principal"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	DurationMonths int             `db:"duration_months"`
	TotalRepayable decimal.Decimal `db:"total_repayable"`
	MonthlyPayment decimal.Decimal `db:"monthly_payment"`
	Balance        decimal.Decimal `db:"balance"`
	Status         string          `db:"status"`
	ApprovedAt     *time.Time      `db:"approved_at"` // Nullable
	AuditFields
}
