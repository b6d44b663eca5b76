package services

import (
	"context"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
)

// LoanReaderSvc defines read operations for loans
type LoanReaderSvc interface {
	GetLoan(ctx context.Context, loanID string) (*domain.Loan, []domain.Repayment, error)
	ListMemberLoans(ctx context.Context, memberID string) ([]domain.Loan, error)
}

// LoanWriterSvc defines write operations for loans
type LoanWriterSvc interface {
	// CreateLoan records a PENDING loan with computed repayment terms.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error)

	// ApproveLoan disburses a PENDING loan and adds it to the member's loanBalance.
	ApproveLoan(ctx context.Context, loanID string, userID string) (*domain.Loan, error)

	// RecordDirectRepayment applies money paid outside payroll to a loan.
	RecordDirectRepayment(ctx context.Context, loanID string, req dto.DirectRepaymentRequest, userID string) (*domain.Loan, error)
}

// LoanSvcFacade combines all loan service interfaces
type LoanSvcFacade interface {
	LoanReaderSvc
	LoanWriterSvc
}
