package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus indicates the state of a loan.
type LoanStatus string

const (
	LoanPending   LoanStatus = "PENDING"
	LoanApproved  LoanStatus = "APPROVED"
	LoanRejected  LoanStatus = "REJECTED"
	LoanCompleted LoanStatus = "COMPLETED"
)

// moneyPlaces is the number of decimal places money is stored with.
const moneyPlaces = 2

// Loan belongs to exactly one member.
type Loan struct {
	LoanID         string          `json:"loanID"`
	MemberID       string          `json:"memberID"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interestRate"` // flat rate for the whole term, 0.10 = 10%
	DurationMonths int             `json:"durationMonths"`
	TotalRepayable decimal.Decimal `json:"totalRepayable"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	Balance        decimal.Decimal `json:"balance"`
	Status         LoanStatus      `json:"status"`
	ApprovedAt     *time.Time      `json:"approvedAt,omitempty"`
	AuditFields
}

// NewLoanTerms computes totalRepayable and monthlyPayment for a loan request.
func NewLoanTerms(principal, rate decimal.Decimal, durationMonths int) (total, monthly decimal.Decimal, err error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, decimal.Zero, errors.New("principal must be positive")
	}
	if rate.IsNegative() {
		return decimal.Zero, decimal.Zero, errors.New("interest rate cannot be negative")
	}
	if durationMonths <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("duration must be at least one month, got %d", durationMonths)
	}
	total = principal.Mul(decimal.NewFromInt(1).Add(rate)).Round(moneyPlaces)
	monthly = total.Div(decimal.NewFromInt(int64(durationMonths))).Round(moneyPlaces)
	return total, monthly, nil
}

// IsRepayable reports whether the loan is eligible for payroll deduction.
func (l Loan) IsRepayable() bool {
	return l.Status == LoanApproved && l.Balance.GreaterThan(decimal.Zero)
}

// ScheduledInstallment is the amount to deduct this month before any direct
// repayment is netted off. It never exceeds what is still owed.
func (l Loan) ScheduledInstallment() decimal.Decimal {
	return decimal.Min(l.MonthlyPayment, l.Balance)
}

// ApplyRepayment reduces the balance by at most amount and returns the part
// actually applied. The loan completes when nothing is left.
func (l *Loan) ApplyRepayment(amount decimal.Decimal) decimal.Decimal {
	if amount.LessThanOrEqual(decimal.Zero) || l.Balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	repay := decimal.Min(amount, l.Balance)
	l.Balance = l.Balance.Sub(repay)
	if l.Balance.LessThanOrEqual(decimal.Zero) {
		l.Balance = decimal.Zero
		l.Status = LoanCompleted
	}
	return repay
}

// Repayment records money applied to a loan, through payroll or directly.
type Repayment struct {
	RepaymentID string          `json:"repaymentID"`
	LoanID      string          `json:"loanID"`
	MemberID    string          `json:"memberID"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAt      time.Time       `json:"paidAt"`
	Source      string          `json:"source"` // PAYROLL or DIRECT
	CreatedBy   string          `json:"createdBy"`
}

const (
	RepaymentSourcePayroll = "PAYROLL"
	RepaymentSourceDirect  = "DIRECT"
)
