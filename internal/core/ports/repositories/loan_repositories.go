package repositories

import (
	"context"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan by its unique identifier.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByMember retrieves every loan belonging to a member, newest first.
	ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error)

	// ListRepayableLoans returns APPROVED loans with an outstanding balance.
	ListRepayableLoans(ctx context.Context) ([]domain.Loan, error)

	// ListRepaymentsByLoan returns the repayments applied to a loan, oldest first.
	ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoan writes status, balance and approval fields of an existing loan.
	UpdateLoan(ctx context.Context, loan domain.Loan) error
}

// LoanLedgerSupport defines the locked reads and appends used when money is applied to a loan.
type LoanLedgerSupport interface {
	// FindLoanByIDForUpdate selects a loan and locks the row within the current transaction.
	FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error)

	// SaveRepayment appends a repayment record.
	SaveRepayment(ctx context.Context, repayment domain.Repayment) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
	LoanLedgerSupport
}
