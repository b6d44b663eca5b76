package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType classifies money a member paid in.
type PaymentType string

const (
	PaymentContribution  PaymentType = "CONTRIBUTION"
	PaymentLoanRepayment PaymentType = "LOAN_REPAYMENT"
)

// PaymentStatus is the approval state of a payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// Payment is money paid outside payroll. Approved LOAN_REPAYMENT payments are
// the direct repayments netted off the monthly payroll deduction.
type Payment struct {
	PaymentID string          `json:"paymentID"`
	MemberID  string          `json:"memberID"`
	LoanID    *string         `json:"loanID,omitempty"`
	Type      PaymentType     `json:"type"`
	Status    PaymentStatus   `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
	Reference string          `json:"reference"`
	AuditFields
}
