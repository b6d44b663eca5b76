package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxListLimit = 100

type memberService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	memberRepo  portsrepo.MemberRepositoryFacade
	voucherRepo portsrepo.VoucherWriter
	ledgerRepo  portsrepo.TransactionReader
	voucherSvc  portssvc.VoucherSvcFacade
}

// MemberServiceOption is a functional option for configuring the member service
type MemberServiceOption func(*memberService)

// WithMemberClock replaces time.Now for registration and audit timestamps.
func WithMemberClock(clock func() time.Time) MemberServiceOption {
	return func(s *memberService) {
		s.clock = clock
	}
}

// NewMemberService creates the member ledger service. Vouchers issued at
// registration go through voucherSvc.
func NewMemberService(repos portsrepo.RepositoryProvider, voucherSvc portssvc.VoucherSvcFacade, options ...MemberServiceOption) portssvc.MemberSvcFacade {
	svc := &memberService{
		txManager:   repos.TxManager,
		memberRepo:  repos.MemberRepo,
		voucherRepo: repos.VoucherRepo,
		ledgerRepo:  repos.LedgerRepo,
		voucherSvc:  voucherSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) RegisterMember(ctx context.Context, req dto.RegisterMemberRequest, userID string) (*domain.Member, error) {
	if req.MonthlyContribution == nil || req.MonthlyContribution.IsNegative() {
		return nil, fmt.Errorf("%w: monthlyContribution must be zero or more", apperrors.ErrValidation)
	}

	now := s.Now()
	member := domain.Member{
		MemberID:            uuid.NewString(),
		FullName:            strings.TrimSpace(req.FullName),
		Email:               strings.ToLower(strings.TrimSpace(req.Email)),
		StaffNumber:         strings.TrimSpace(req.StaffNumber),
		Role:                domain.RoleMember,
		Status:              domain.MemberPending,
		RegisteredAt:        now,
		MonthlyContribution: req.MonthlyContribution.Round(2),
		VoucherEnabled:      true,
		Balance:             decimal.Zero,
		TotalContributions:  decimal.Zero,
		LoanBalance:         decimal.Zero,
		AuditFields:         auditFields(userID, now),
	}
	if req.Role != "" {
		member.Role = req.Role
	}
	if req.Activate {
		member.Status = domain.MemberActive
	}
	if req.VoucherEnabled != nil {
		member.VoucherEnabled = *req.VoucherEnabled
	}
	if req.RegisteredAt != nil {
		member.RegisteredAt = req.RegisteredAt.UTC()
	}
	if member.FullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", apperrors.ErrValidation)
	}

	var voucher *domain.Voucher
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.memberRepo.SaveMember(ctx, member); err != nil {
			return err
		}
		if member.Role != domain.RoleMember || !member.VoucherEnabled || !member.MonthlyContribution.IsPositive() {
			return nil
		}
		c, err := s.voucherSvc.Classify(member.RegisteredAt, domain.PeriodOf(member.RegisteredAt))
		if err != nil {
			return err
		}
		voucher, err = s.voucherSvc.IssueVoucher(ctx, member, c.FirstVoucherPeriod, userID)
		return err
	})
	if err != nil {
		s.LogWarn(ctx, err, "Member registration failed", slog.String("email", member.Email))
		return nil, err
	}

	attrs := []any{
		slog.String("member_id", member.MemberID),
		slog.String("status", string(member.Status)),
	}
	if voucher != nil {
		attrs = append(attrs, slog.String("first_voucher_period", voucher.Period))
	}
	s.LogInfo(ctx, "Member registered", attrs...)
	return &member, nil
}

func (s *memberService) GetMember(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

func (s *memberService) ListMembers(ctx context.Context, params dto.ListMembersParams) ([]domain.Member, error) {
	limit, offset := clampPage(params.Limit, params.Offset, 20)
	var status *domain.MemberStatus
	if params.Status != "" {
		st := domain.MemberStatus(params.Status)
		status = &st
	}
	members, err := s.memberRepo.ListMembers(ctx, status, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members")
		return nil, err
	}
	return members, nil
}

func (s *memberService) ListMemberTransactions(ctx context.Context, memberID string, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
		return nil, nil, err
	}
	limit, _ := clampPage(params.Limit, 0, 20)
	return s.ledgerRepo.ListTransactionsByMember(ctx, memberID, limit, params.NextToken)
}

// CloseMember refuses members that still owe money; their loans must be
// settled first.
func (s *memberService) CloseMember(ctx context.Context, memberID string, userID string) (*domain.Member, error) {
	var member *domain.Member
	var removed int64
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		member, err = s.memberRepo.FindMemberByIDForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		if member.Status == domain.MemberClosed {
			return fmt.Errorf("%w: member %s is already closed", apperrors.ErrConflict, memberID)
		}
		if member.LoanBalance.IsPositive() {
			return fmt.Errorf("%w: member %s has an outstanding loan balance of %s", apperrors.ErrConflict, memberID, member.LoanBalance.StringFixed(2))
		}

		now := s.Now()
		if err := s.memberRepo.UpdateMemberStatus(ctx, memberID, domain.MemberClosed, userID, now); err != nil {
			return err
		}
		removed, err = s.voucherRepo.RemoveOpenVouchersForMember(ctx, memberID, userID, now)
		if err != nil {
			return err
		}
		member.Status = domain.MemberClosed
		member.LastUpdatedAt = now
		member.LastUpdatedBy = userID
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Member close rejected", slog.String("member_id", memberID))
		return nil, err
	}

	s.LogInfo(ctx, "Member closed",
		slog.String("member_id", memberID),
		slog.Int64("vouchers_removed", removed))
	return member, nil
}

func (s *memberService) ReconcileLoanBalances(ctx context.Context, userID string) ([]domain.LoanBalanceDrift, error) {
	var repaired []domain.LoanBalanceDrift
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		drift, err := s.memberRepo.ListLoanBalanceDrift(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute loan balance drift: %w", err)
		}
		now := s.Now()
		for _, d := range drift {
			member, err := s.memberRepo.FindMemberByIDForUpdate(ctx, d.MemberID)
			if err != nil {
				return err
			}
			member.LoanBalance = d.Actual
			member.LastUpdatedAt = now
			member.LastUpdatedBy = userID
			if err := s.memberRepo.UpdateMemberLedger(ctx, *member); err != nil {
				return err
			}
		}
		repaired = drift
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Loan balance reconciliation failed")
		return nil, err
	}

	for _, d := range repaired {
		s.LogWarn(ctx, fmt.Errorf("cached %s, actual %s", d.Cached.StringFixed(2), d.Actual.StringFixed(2)),
			"Repaired loan balance drift", slog.String("member_id", d.MemberID))
	}
	s.LogInfo(ctx, "Loan balances reconciled", slog.Int("repaired", len(repaired)))
	if repaired == nil {
		repaired = []domain.LoanBalanceDrift{}
	}
	return repaired, nil
}

// clampPage applies the default and maximum page size.
func clampPage(limit, offset, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
