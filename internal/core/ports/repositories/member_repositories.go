package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a specific member by its unique identifier.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembers retrieves a page of members, optionally filtered by status.
	ListMembers(ctx context.Context, status *domain.MemberStatus, limit int, offset int) ([]domain.Member, error)

	// ListPayrollEligibleMembers returns active, voucher-enabled members with a positive monthly contribution.
	ListPayrollEligibleMembers(ctx context.Context) ([]domain.Member, error)
}

// MemberWriter defines write operations for member data
type MemberWriter interface {
	// SaveMember persists a new member.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMemberStatus changes a member's lifecycle status.
	UpdateMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus, userID string, now time.Time) error
}

// MemberLedgerSupport defines the ledger mutations used by posting and repayments.
type MemberLedgerSupport interface {
	// FindMemberByIDForUpdate selects a member and locks the row within the current transaction.
	FindMemberByIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error)

	// UpdateMemberLedger writes balance, totalContributions and loanBalance.
	UpdateMemberLedger(ctx context.Context, member domain.Member) error

	// ListLoanBalanceDrift returns members whose cached loanBalance differs from their outstanding approved loans.
	ListLoanBalanceDrift(ctx context.Context) ([]domain.LoanBalanceDrift, error)
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
	MemberLedgerSupport
}
