package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type loanService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	loanRepo    portsrepo.LoanRepositoryFacade
	memberRepo  portsrepo.MemberRepositoryFacade
	paymentRepo portsrepo.PaymentWriter
	ledgerRepo  portsrepo.TransactionWriter
}

// LoanServiceOption is a functional option for configuring the loan service
type LoanServiceOption func(*loanService)

// WithLoanClock replaces time.Now for audit timestamps.
func WithLoanClock(clock func() time.Time) LoanServiceOption {
	return func(s *loanService) {
		s.clock = clock
	}
}

// NewLoanService creates the loan registry service.
func NewLoanService(repos portsrepo.RepositoryProvider, options ...LoanServiceOption) portssvc.LoanSvcFacade {
	svc := &loanService{
		txManager:   repos.TxManager,
		loanRepo:    repos.LoanRepo,
		memberRepo:  repos.MemberRepo,
		paymentRepo: repos.PaymentRepo,
		ledgerRepo:  repos.LedgerRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, userID string) (*domain.Loan, error) {
	if req.Principal == nil || req.InterestRate == nil {
		return nil, fmt.Errorf("%w: principal and interestRate are required", apperrors.ErrValidation)
	}
	total, monthly, err := domain.NewLoanTerms(req.Principal.Round(2), *req.InterestRate, req.DurationMonths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	member, err := s.memberRepo.FindMemberByID(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if member.Status != domain.MemberActive {
		return nil, fmt.Errorf("%w: member %s is %s", apperrors.ErrConflict, member.MemberID, member.Status)
	}

	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		MemberID:       member.MemberID,
		Principal:      req.Principal.Round(2),
		InterestRate:   *req.InterestRate,
		DurationMonths: req.DurationMonths,
		TotalRepayable: total,
		MonthlyPayment: monthly,
		Balance:        decimal.Zero,
		Status:         domain.LoanPending,
		AuditFields:    auditFields(userID, s.Now()),
	}
	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		s.LogError(ctx, err, "Failed to save loan", slog.String("member_id", member.MemberID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan requested",
		slog.String("loan_id", loan.LoanID),
		slog.String("member_id", loan.MemberID),
		slog.String("total_repayable", total.StringFixed(2)))
	return &loan, nil
}

func (s *loanService) ApproveLoan(ctx context.Context, loanID string, userID string) (*domain.Loan, error) {
	var loan *domain.Loan
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		loan, err = s.loanRepo.FindLoanByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanPending {
			return fmt.Errorf("%w: loan %s is %s", apperrors.ErrConflict, loanID, loan.Status)
		}
		member, err := s.memberRepo.FindMemberByIDForUpdate(ctx, loan.MemberID)
		if err != nil {
			return err
		}
		if member.Status != domain.MemberActive {
			return fmt.Errorf("%w: member %s is %s", apperrors.ErrConflict, member.MemberID, member.Status)
		}

		now := s.Now()
		loan.Status = domain.LoanApproved
		loan.Balance = loan.TotalRepayable
		loan.ApprovedAt = &now
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = userID
		if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
			return err
		}

		member.LoanBalance = member.LoanBalance.Add(loan.TotalRepayable)
		member.LastUpdatedAt = now
		member.LastUpdatedBy = userID
		if err := s.memberRepo.UpdateMemberLedger(ctx, *member); err != nil {
			return err
		}

		id := loan.LoanID
		return s.ledgerRepo.SaveTransaction(ctx, domain.Transaction{
			TransactionID: uuid.NewString(),
			MemberID:      member.MemberID,
			LoanID:        &id,
			Type:          domain.TxnLoanDisbursal,
			Status:        domain.TxnCompleted,
			Amount:        loan.Principal,
			Description:   "Loan disbursement",
			OccurredAt:    now,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		s.LogWarn(ctx, err, "Loan approval rejected", slog.String("loan_id", loanID))
		return nil, err
	}

	s.LogInfo(ctx, "Loan approved",
		slog.String("loan_id", loanID),
		slog.String("member_id", loan.MemberID),
		slog.String("balance", loan.Balance.StringFixed(2)))
	return loan, nil
}

func (s *loanService) RecordDirectRepayment(ctx context.Context, loanID string, req dto.DirectRepaymentRequest, userID string) (*domain.Loan, error) {
	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	amount := req.Amount.Round(2)
	now := s.Now()
	paidAt := now
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	var loan *domain.Loan
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		loan, err = s.loanRepo.FindLoanByIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanApproved {
			return fmt.Errorf("%w: loan %s is %s", apperrors.ErrConflict, loanID, loan.Status)
		}
		if amount.GreaterThan(loan.Balance) {
			return fmt.Errorf("%w: amount %s exceeds outstanding balance %s", apperrors.ErrValidation, amount.StringFixed(2), loan.Balance.StringFixed(2))
		}
		member, err := s.memberRepo.FindMemberByIDForUpdate(ctx, loan.MemberID)
		if err != nil {
			return err
		}

		applied := loan.ApplyRepayment(amount)
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = userID
		if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
			return err
		}

		id := loan.LoanID
		if err := s.paymentRepo.SavePayment(ctx, domain.Payment{
			PaymentID:   uuid.NewString(),
			MemberID:    member.MemberID,
			LoanID:      &id,
			Type:        domain.PaymentLoanRepayment,
			Status:      domain.PaymentApproved,
			Amount:      applied,
			PaidAt:      paidAt,
			Reference:   req.Reference,
			AuditFields: auditFields(userID, now),
		}); err != nil {
			return err
		}
		if err := s.loanRepo.SaveRepayment(ctx, domain.Repayment{
			RepaymentID: uuid.NewString(),
			LoanID:      id,
			MemberID:    member.MemberID,
			Amount:      applied,
			PaidAt:      paidAt,
			Source:      domain.RepaymentSourceDirect,
			CreatedBy:   userID,
		}); err != nil {
			return err
		}

		member.LoanBalance = member.LoanBalance.Sub(applied)
		if member.LoanBalance.IsNegative() {
			member.LoanBalance = decimal.Zero
		}
		member.LastUpdatedAt = now
		member.LastUpdatedBy = userID
		if err := s.memberRepo.UpdateMemberLedger(ctx, *member); err != nil {
			return err
		}

		return s.ledgerRepo.SaveTransaction(ctx, domain.Transaction{
			TransactionID: uuid.NewString(),
			MemberID:      member.MemberID,
			LoanID:        &id,
			Type:          domain.TxnLoanRepayment,
			Status:        domain.TxnCompleted,
			Amount:        applied,
			Description:   "Direct loan repayment",
			OccurredAt:    paidAt,
			CreatedBy:     userID,
		})
	})
	if err != nil {
		s.LogWarn(ctx, err, "Direct repayment rejected", slog.String("loan_id", loanID))
		return nil, err
	}

	s.LogInfo(ctx, "Direct repayment recorded",
		slog.String("loan_id", loanID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("status", string(loan.Status)))
	return loan, nil
}

func (s *loanService) GetLoan(ctx context.Context, loanID string) (*domain.Loan, []domain.Repayment, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	repayments, err := s.loanRepo.ListRepaymentsByLoan(ctx, loanID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load repayments", slog.String("loan_id", loanID))
		return nil, nil, err
	}
	return loan, repayments, nil
}

func (s *loanService) ListMemberLoans(ctx context.Context, memberID string) ([]domain.Loan, error) {
	if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
		return nil, err
	}
	return s.loanRepo.ListLoansByMember(ctx, memberID)
}
