package dto

import (
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest defines the data needed to request a loan.
type CreateLoanRequest struct {
	MemberID       string           `json:"memberID" binding:"required"`
	Principal      *decimal.Decimal `json:"principal" binding:"required"`
	InterestRate   *decimal.Decimal `json:"interestRate" binding:"required"` // flat rate, 0.10 = 10%
	DurationMonths int              `json:"durationMonths" binding:"required,min=1,max=120"`
}

// DirectRepaymentRequest records a repayment made outside payroll.
type DirectRepaymentRequest struct {
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	PaidAt    *time.Time       `json:"paidAt"` // Optional, defaults to now
	Reference string           `json:"reference"`
}

// LoanResponse defines the data returned for a loan with its repayments.
type LoanResponse struct {
	domain.Loan
	Repayments []domain.Repayment `json:"repayments,omitempty"`
}

// ToLoanResponse converts a domain.Loan to LoanResponse DTO
func ToLoanResponse(l *domain.Loan, repayments []domain.Repayment) LoanResponse {
	return LoanResponse{Loan: *l, Repayments: repayments}
}
