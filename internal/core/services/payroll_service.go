package services

import (
	"context"
	"errors"
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

// DefaultAutoPostDay is the day-of-month from which auto-posting runs.
const DefaultAutoPostDay = 30

type payrollService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	payrollRepo portsrepo.PayrollRepositoryFacade
	memberRepo  portsrepo.MemberRepositoryFacade
	loanRepo    portsrepo.LoanRepositoryFacade
	paymentRepo portsrepo.PaymentReader
	ledgerRepo  portsrepo.TransactionWriter
	autoPostDay int
}

// PayrollServiceOption is a functional option for configuring the payroll service
type PayrollServiceOption func(*payrollService)

// WithAutoPostDay overrides the due-day threshold used by AutoPostIfDue.
func WithAutoPostDay(day int) PayrollServiceOption {
	return func(s *payrollService) {
		if day > 0 {
			s.autoPostDay = day
		}
	}
}

// WithPayrollClock replaces time.Now for audit timestamps.
func WithPayrollClock(clock func() time.Time) PayrollServiceOption {
	return func(s *payrollService) {
		s.clock = clock
	}
}

// NewPayrollService creates the payroll cycle engine.
func NewPayrollService(repos portsrepo.RepositoryProvider, options ...PayrollServiceOption) portssvc.PayrollSvcFacade {
	svc := &payrollService{
		txManager:   repos.TxManager,
		payrollRepo: repos.PayrollRepo,
		memberRepo:  repos.MemberRepo,
		loanRepo:    repos.LoanRepo,
		paymentRepo: repos.PaymentRepo,
		ledgerRepo:  repos.LedgerRepo,
		autoPostDay: DefaultAutoPostDay,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) GenerateDraft(ctx context.Context, period string, userID string) (*domain.PayrollCycle, error) {
	start, end, err := domain.MonthRange(period)
	if err != nil {
		s.LogWarn(ctx, err, "Rejected draft generation", slog.String("period", period))
		return nil, err
	}

	now := s.Now()
	cycle := domain.PayrollCycle{
		CycleID:     uuid.NewString(),
		Period:      period,
		Status:      domain.CycleDraft,
		AuditFields: auditFields(userID, now),
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.payrollRepo.FindCycleByPeriod(ctx, period)
		if err == nil {
			return fmt.Errorf("%w: %s is %s", apperrors.ErrCycleAlreadyExists, period, existing.Status)
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		members, err := s.memberRepo.ListPayrollEligibleMembers(ctx)
		if err != nil {
			return fmt.Errorf("failed to load eligible members: %w", err)
		}
		loans, err := s.loanRepo.ListRepayableLoans(ctx)
		if err != nil {
			return fmt.Errorf("failed to load repayable loans: %w", err)
		}
		direct, err := s.paymentRepo.SumDirectLoanRepaymentsByMember(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to sum direct repayments: %w", err)
		}

		// UNIQUE(period) decides the race between two concurrent drafts.
		if err := s.payrollRepo.SaveCycle(ctx, cycle); err != nil {
			return err
		}
		cycle.Lines = buildDraftLines(cycle, members, loans, direct)
		return s.payrollRepo.SaveLines(ctx, cycle.Lines)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrCycleAlreadyExists) {
			s.LogWarn(ctx, err, "Draft already exists", slog.String("period", period))
		} else {
			s.LogError(ctx, err, "Failed to generate payroll draft", slog.String("period", period))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Payroll draft generated",
		slog.String("cycle_id", cycle.CycleID),
		slog.String("period", period),
		slog.Int("lines", len(cycle.Lines)))
	return &cycle, nil
}

// buildDraftLines emits one SAVINGS line per eligible member and one
// LOAN_REPAYMENT line per repayable loan still due after netting off the
// owner's direct repayments for the period. A member's direct repayments are
// consumed across their loans in order, so they are never counted twice.
func buildDraftLines(cycle domain.PayrollCycle, members []domain.Member, loans []domain.Loan, direct map[string]decimal.Decimal) []domain.PayrollLine {
	lines := make([]domain.PayrollLine, 0, len(members)+len(loans))
	newLine := func(memberID string, lineType domain.LineType, amount decimal.Decimal) domain.PayrollLine {
		actual := amount
		return domain.PayrollLine{
			LineID:         uuid.NewString(),
			CycleID:        cycle.CycleID,
			MemberID:       memberID,
			LineType:       lineType,
			ExpectedAmount: amount,
			ActualAmount:   &actual,
			Status:         domain.LinePending,
			AuditFields:    cycle.AuditFields,
		}
	}

	for _, m := range members {
		if !m.IsPayrollEligible() {
			continue
		}
		lines = append(lines, newLine(m.MemberID, domain.LineSavings, m.MonthlyContribution))
	}

	remaining := make(map[string]decimal.Decimal, len(direct))
	for memberID, paid := range direct {
		remaining[memberID] = paid
	}
	for _, loan := range loans {
		if !loan.IsRepayable() {
			continue
		}
		scheduled := loan.ScheduledInstallment()
		offset := decimal.Min(remaining[loan.MemberID], scheduled)
		if offset.IsNegative() {
			offset = decimal.Zero
		}
		remaining[loan.MemberID] = remaining[loan.MemberID].Sub(offset)

		due := scheduled.Sub(offset)
		if due.LessThanOrEqual(decimal.Zero) {
			continue
		}
		line := newLine(loan.MemberID, domain.LineLoanRepayment, due)
		loanID := loan.LoanID
		line.LoanID = &loanID
		if offset.GreaterThan(decimal.Zero) {
			line.Reason = fmt.Sprintf("adjusted for direct repayment of %s", offset.StringFixed(2))
		}
		lines = append(lines, line)
	}
	return lines
}

func (s *payrollService) EditLine(ctx context.Context, lineID string, req dto.EditLineRequest, userID string) (*domain.PayrollLine, error) {
	if req.ActualAmount != nil && req.ActualAmount.IsNegative() {
		return nil, fmt.Errorf("%w: actualAmount cannot be negative", apperrors.ErrValidation)
	}
	if req.Status != nil && *req.Status != domain.LinePending && *req.Status != domain.LineExcluded {
		return nil, fmt.Errorf("%w: status must be PENDING or EXCLUDED", apperrors.ErrValidation)
	}

	var line *domain.PayrollLine
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		found, err := s.payrollRepo.FindLineByID(ctx, lineID)
		if err != nil {
			return err
		}
		cycle, err := s.payrollRepo.FindCycleByIDForUpdate(ctx, found.CycleID)
		if err != nil {
			return err
		}
		if !cycle.IsEditable() {
			return fmt.Errorf("%w: cycle %s is %s", apperrors.ErrCycleNotEditable, cycle.Period, cycle.Status)
		}
		// Re-read now that the cycle lock is held.
		line, err = s.payrollRepo.FindLineByID(ctx, lineID)
		if err != nil {
			return err
		}

		if req.ActualAmount != nil {
			amount := req.ActualAmount.Round(2)
			line.ActualAmount = &amount
		}
		if req.Status != nil {
			line.Status = *req.Status
		}
		if req.Reason != nil {
			line.Reason = *req.Reason
		}
		line.LastUpdatedAt = s.Now()
		line.LastUpdatedBy = userID
		return s.payrollRepo.UpdateLine(ctx, *line)
	})
	if err != nil {
		s.LogWarn(ctx, err, "Payroll line edit rejected", slog.String("line_id", lineID))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll line updated",
		slog.String("line_id", lineID),
		slog.String("status", string(line.Status)))
	return line, nil
}

func (s *payrollService) ConfirmFinance(ctx context.Context, cycleID string, userID string) (*domain.PayrollCycle, error) {
	var cycle *domain.PayrollCycle
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		cycle, err = s.payrollRepo.FindCycleByIDForUpdate(ctx, cycleID)
		if err != nil {
			return err
		}
		if cycle.Status != domain.CycleDraft {
			return fmt.Errorf("%w: cycle %s is %s", apperrors.ErrCycleNotDraft, cycle.Period, cycle.Status)
		}

		now := s.Now()
		actor := userID
		cycle.Status = domain.CycleFinanceConfirmed
		cycle.ConfirmedBy = &actor
		cycle.ConfirmedAt = &now
		cycle.LastUpdatedAt = now
		cycle.LastUpdatedBy = userID
		return s.payrollRepo.UpdateCycle(ctx, *cycle)
	})
	if err != nil {
		s.LogWarn(ctx, err, "Finance confirmation rejected", slog.String("cycle_id", cycleID))
		return nil, err
	}

	s.LogInfo(ctx, "Payroll cycle finance confirmed",
		slog.String("cycle_id", cycleID),
		slog.String("period", cycle.Period),
		slog.String("confirmed_by", userID))
	return cycle, nil
}

// postingLedger caches the member and loan rows locked during one posting.
type postingLedger struct {
	s       *payrollService
	members map[string]*domain.Member
	loans   map[string]*domain.Loan
}

func (p *postingLedger) member(ctx context.Context, memberID string) (*domain.Member, error) {
	if m, ok := p.members[memberID]; ok {
		return m, nil
	}
	m, err := p.s.memberRepo.FindMemberByIDForUpdate(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock member %s: %w", memberID, err)
	}
	p.members[memberID] = m
	return m, nil
}

func (p *postingLedger) loan(ctx context.Context, loanID string) (*domain.Loan, error) {
	if l, ok := p.loans[loanID]; ok {
		return l, nil
	}
	l, err := p.s.loanRepo.FindLoanByIDForUpdate(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}
	p.loans[loanID] = l
	return l, nil
}

func (s *payrollService) PostCycle(ctx context.Context, cycleID string, userID string) (*domain.PayrollCycle, error) {
	var cycle *domain.PayrollCycle
	var posted, excluded int
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		cycle, err = s.payrollRepo.FindCycleByIDForUpdate(ctx, cycleID)
		if err != nil {
			return err
		}
		// This precondition is the only guard against posting twice.
		if cycle.Status != domain.CycleFinanceConfirmed {
			return fmt.Errorf("%w: cycle %s is %s", apperrors.ErrCycleNotConfirmed, cycle.Period, cycle.Status)
		}

		lines, err := s.payrollRepo.ListLinesByCycle(ctx, cycle.CycleID)
		if err != nil {
			return err
		}

		now := s.Now()
		ledger := &postingLedger{s: s, members: map[string]*domain.Member{}, loans: map[string]*domain.Loan{}}
		for i := range lines {
			line := &lines[i]
			if line.Status != domain.LinePending {
				continue
			}
			applied, err := s.postLine(ctx, ledger, cycle, line, userID, now)
			if err != nil {
				return fmt.Errorf("failed to post line %s: %w", line.LineID, err)
			}
			line.LastUpdatedAt = now
			line.LastUpdatedBy = userID
			if err := s.payrollRepo.UpdateLine(ctx, *line); err != nil {
				return err
			}
			if applied {
				posted++
			} else {
				excluded++
			}
		}

		actor := userID
		cycle.Status = domain.CyclePosted
		cycle.PostedBy = &actor
		cycle.PostedAt = &now
		cycle.LastUpdatedAt = now
		cycle.LastUpdatedBy = userID
		if err := s.payrollRepo.UpdateCycle(ctx, *cycle); err != nil {
			return err
		}
		cycle.Lines = lines
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, err, "Payroll posting rejected", slog.String("cycle_id", cycleID))
		} else {
			s.LogError(ctx, err, "Payroll posting rolled back", slog.String("cycle_id", cycleID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Payroll cycle posted",
		slog.String("cycle_id", cycleID),
		slog.String("period", cycle.Period),
		slog.Int("posted", posted),
		slog.Int("excluded", excluded))
	return cycle, nil
}

// postLine applies one PENDING line and sets its final status. It reports
// whether the line had a ledger effect.
func (s *payrollService) postLine(ctx context.Context, ledger *postingLedger, cycle *domain.PayrollCycle, line *domain.PayrollLine, userID string, now time.Time) (bool, error) {
	amount := line.EffectiveAmount()
	if amount.LessThanOrEqual(decimal.Zero) {
		line.Status = domain.LineExcluded
		return false, nil
	}

	member, err := ledger.member(ctx, line.MemberID)
	if err != nil {
		return false, err
	}
	cycleID := cycle.CycleID

	switch line.LineType {
	case domain.LineSavings:
		member.Balance = member.Balance.Add(amount)
		member.TotalContributions = member.TotalContributions.Add(amount)
		member.LastUpdatedAt = now
		member.LastUpdatedBy = userID
		if err := s.memberRepo.UpdateMemberLedger(ctx, *member); err != nil {
			return false, err
		}
		if err := s.ledgerRepo.SaveTransaction(ctx, domain.Transaction{
			TransactionID: uuid.NewString(),
			MemberID:      member.MemberID,
			CycleID:       &cycleID,
			Type:          domain.TxnContribution,
			Status:        domain.TxnCompleted,
			Amount:        amount,
			Description:   fmt.Sprintf("Payroll savings deduction for %s", cycle.Period),
			OccurredAt:    now,
			CreatedBy:     userID,
		}); err != nil {
			return false, err
		}
		line.ActualAmount = &amount

	case domain.LineLoanRepayment:
		if line.LoanID == nil {
			return false, fmt.Errorf("%w: loan repayment line without loan", apperrors.ErrValidation)
		}
		loan, err := ledger.loan(ctx, *line.LoanID)
		if err != nil {
			return false, err
		}
		repay := loan.ApplyRepayment(amount)
		if repay.IsZero() {
			line.Status = domain.LineExcluded
			line.Reason = appendReason(line.Reason, "loan has no outstanding balance")
			return false, nil
		}
		loan.LastUpdatedAt = now
		loan.LastUpdatedBy = userID
		if err := s.loanRepo.UpdateLoan(ctx, *loan); err != nil {
			return false, err
		}
		if err := s.loanRepo.SaveRepayment(ctx, domain.Repayment{
			RepaymentID: uuid.NewString(),
			LoanID:      loan.LoanID,
			MemberID:    member.MemberID,
			Amount:      repay,
			PaidAt:      now,
			Source:      domain.RepaymentSourcePayroll,
			CreatedBy:   userID,
		}); err != nil {
			return false, err
		}

		member.LoanBalance = member.LoanBalance.Sub(repay)
		if member.LoanBalance.IsNegative() {
			member.LoanBalance = decimal.Zero
		}
		member.LastUpdatedAt = now
		member.LastUpdatedBy = userID
		if err := s.memberRepo.UpdateMemberLedger(ctx, *member); err != nil {
			return false, err
		}

		loanID := loan.LoanID
		if err := s.ledgerRepo.SaveTransaction(ctx, domain.Transaction{
			TransactionID: uuid.NewString(),
			MemberID:      member.MemberID,
			LoanID:        &loanID,
			CycleID:       &cycleID,
			Type:          domain.TxnLoanRepayment,
			Status:        domain.TxnCompleted,
			Amount:        repay,
			Description:   fmt.Sprintf("Payroll loan repayment for %s", cycle.Period),
			OccurredAt:    now,
			CreatedBy:     userID,
		}); err != nil {
			return false, err
		}
		// The line records what reached the ledger, not what was requested.
		if repay.LessThan(amount) {
			line.Reason = appendReason(line.Reason, fmt.Sprintf("clamped from %s to outstanding balance", amount.StringFixed(2)))
		}
		line.ActualAmount = &repay

	default:
		return false, fmt.Errorf("%w: unknown line type %q", apperrors.ErrValidation, line.LineType)
	}

	line.Status = domain.LinePosted
	return true, nil
}

func appendReason(reason, note string) string {
	if reason == "" {
		return note
	}
	return reason + "; " + note
}

// AutoPostIfDue runs each step in its own transaction. Every step re-checks
// the cycle status under a row lock, so concurrent callers at worst see a
// conflict on a step another caller already completed.
func (s *payrollService) AutoPostIfDue(ctx context.Context, now time.Time) (*domain.AutoPostResult, error) {
	result := &domain.AutoPostResult{
		Period: domain.PeriodOf(now),
		Due:    domain.IsAutoPostDay(now, s.autoPostDay),
	}
	if !result.Due {
		s.LogDebug(ctx, "Auto-post not due", slog.String("period", result.Period))
		return result, nil
	}

	cycle, err := s.payrollRepo.FindCycleByPeriod(ctx, result.Period)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		cycle, err = s.GenerateDraft(ctx, result.Period, domain.SystemActor)
		if errors.Is(err, apperrors.ErrCycleAlreadyExists) {
			cycle, err = s.payrollRepo.FindCycleByPeriod(ctx, result.Period)
		} else if err == nil {
			result.Created = true
		}
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	result.CycleID = cycle.CycleID

	if cycle.Status == domain.CyclePosted {
		return result, nil
	}

	if cycle.Status == domain.CycleDraft {
		_, err := s.ConfirmFinance(ctx, cycle.CycleID, domain.SystemActor)
		switch {
		case err == nil:
			result.Confirmed = true
		case errors.Is(err, apperrors.ErrCycleNotDraft):
			// confirmed concurrently
		default:
			return nil, err
		}
	}

	if _, err := s.PostCycle(ctx, cycle.CycleID, domain.SystemActor); err != nil {
		if errors.Is(err, apperrors.ErrCycleNotConfirmed) {
			// posted concurrently
			return result, nil
		}
		return nil, err
	}
	result.Posted = true

	s.LogInfo(ctx, "Auto-post completed",
		slog.String("cycle_id", result.CycleID),
		slog.String("period", result.Period),
		slog.Bool("created", result.Created),
		slog.Bool("confirmed", result.Confirmed))
	return result, nil
}

func (s *payrollService) GetCycle(ctx context.Context, cycleID string) (*domain.PayrollCycle, error) {
	cycle, err := s.payrollRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, cycle)
}

func (s *payrollService) GetCycleByPeriod(ctx context.Context, period string) (*domain.PayrollCycle, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}
	cycle, err := s.payrollRepo.FindCycleByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, cycle)
}

func (s *payrollService) withLines(ctx context.Context, cycle *domain.PayrollCycle) (*domain.PayrollCycle, error) {
	lines, err := s.payrollRepo.ListLinesByCycle(ctx, cycle.CycleID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payroll lines", slog.String("cycle_id", cycle.CycleID))
		return nil, err
	}
	cycle.Lines = lines
	return cycle, nil
}

func (s *payrollService) ListCycles(ctx context.Context, limit int, offset int) ([]domain.PayrollCycle, error) {
	return s.payrollRepo.ListCycles(ctx, limit, offset)
}
