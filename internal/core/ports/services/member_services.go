package services

import (
	"context"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
)

// MemberReaderSvc defines read operations for members
type MemberReaderSvc interface {
	GetMember(ctx context.Context, memberID string) (*domain.Member, error)
	ListMembers(ctx context.Context, params dto.ListMembersParams) ([]domain.Member, error)
	ListMemberTransactions(ctx context.Context, memberID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}

// MemberWriterSvc defines write operations for members
type MemberWriterSvc interface {
	// RegisterMember creates a member and issues their first voucher.
	RegisterMember(ctx context.Context, req dto.RegisterMemberRequest, userID string) (*domain.Member, error)

	// CloseMember closes a member and removes their open vouchers.
	CloseMember(ctx context.Context, memberID string, userID string) (*domain.Member, error)

	// ReconcileLoanBalances repairs members whose cached loanBalance drifted from their loans.
	ReconcileLoanBalances(ctx context.Context, userID string) ([]domain.LoanBalanceDrift, error)
}

// MemberSvcFacade combines all member service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
}
