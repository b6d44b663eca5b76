package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/core/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/SscSPs/coop_payroll_app/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type PayrollServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	repos   portsrepo.RepositoryProvider
	service portssvc.PayrollSvcFacade
}

func (suite *PayrollServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.repos = memory.NewRepositoryProvider(suite.store)
	suite.service = services.NewPayrollService(suite.repos, services.WithPayrollClock(fixedClock(june30)))

	t := suite.T()
	seedMember(t, suite.store, "m1", "1000")
	seedMember(t, suite.store, "m2", "500")
	seedMember(t, suite.store, "m3", "700", func(m *domain.Member) { m.Status = domain.MemberPending })
	seedMember(t, suite.store, "m4", "800", func(m *domain.Member) { m.VoucherEnabled = false })
	seedLoan(t, suite.store, "l1", "m1", "500", "2000")
	seedLoan(t, suite.store, "l2", "m2", "1000", "300")
	seedDirectPayment(t, suite.store, "m1", "l1", "200", time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
	// Paid in May, so it does not reduce the June deduction.
	seedDirectPayment(t, suite.store, "m2", "l2", "100", time.Date(2024, 5, 31, 23, 0, 0, 0, time.UTC))
}

func (suite *PayrollServiceTestSuite) draftAndConfirm(period string) *domain.PayrollCycle {
	cycle, err := suite.service.GenerateDraft(suite.ctx, period, adminID)
	suite.Require().NoError(err)
	_, err = suite.service.ConfirmFinance(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)
	return cycle
}

func (suite *PayrollServiceTestSuite) lineFor(cycle *domain.PayrollCycle, memberID string, lineType domain.LineType) domain.PayrollLine {
	for _, l := range cycle.Lines {
		if l.MemberID == memberID && l.LineType == lineType {
			return l
		}
	}
	suite.FailNow("line not found", "%s %s", memberID, lineType)
	return domain.PayrollLine{}
}

func (suite *PayrollServiceTestSuite) TestGenerateDraft_BuildsLines() {
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.CycleDraft, cycle.Status)
	suite.Equal("2024-06", cycle.Period)
	suite.Len(cycle.Lines, 4, "m3 is pending and m4 has vouchers disabled")

	savings := suite.lineFor(cycle, "m1", domain.LineSavings)
	suite.True(savings.ExpectedAmount.Equal(dec("1000")))
	suite.Require().NotNil(savings.ActualAmount)
	suite.True(savings.ActualAmount.Equal(dec("1000")))
	suite.Equal(domain.LinePending, savings.Status)

	loan := suite.lineFor(cycle, "m1", domain.LineLoanRepayment)
	suite.True(loan.ExpectedAmount.Equal(dec("300")), "500 installment less 200 paid directly")
	suite.Equal("adjusted for direct repayment of 200.00", loan.Reason)
	suite.Require().NotNil(loan.LoanID)
	suite.Equal("l1", *loan.LoanID)

	small := suite.lineFor(cycle, "m2", domain.LineLoanRepayment)
	suite.True(small.ExpectedAmount.Equal(dec("300")), "installment capped at the balance")
	suite.Empty(small.Reason)

	stored, err := suite.service.GetCycleByPeriod(suite.ctx, "2024-06")
	suite.Require().NoError(err)
	suite.Equal(cycle.CycleID, stored.CycleID)
	suite.Len(stored.Lines, 4)
	suite.Equal("m1", stored.Lines[0].MemberID)
	suite.Equal(domain.LineSavings, stored.Lines[0].LineType)
}

func (suite *PayrollServiceTestSuite) TestGenerateDraft_DirectRepaymentCoversInstallment() {
	seedDirectPayment(suite.T(), suite.store, "m2", "l2", "300", time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC))

	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	for _, l := range cycle.Lines {
		suite.False(l.MemberID == "m2" && l.LineType == domain.LineLoanRepayment, "fully prepaid loan gets no line")
	}
}

func (suite *PayrollServiceTestSuite) TestGenerateDraft_DirectRepaymentSpreadsAcrossLoans() {
	seedLoan(suite.T(), suite.store, "l3", "m1", "400", "4000")
	// 200 already paid in June covers part of l1 only; l3 stays at its full installment.
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)

	var total []string
	for _, l := range cycle.Lines {
		if l.MemberID == "m1" && l.LineType == domain.LineLoanRepayment {
			total = append(total, *l.LoanID+"="+l.ExpectedAmount.StringFixed(2))
		}
	}
	suite.ElementsMatch([]string{"l1=300.00", "l3=400.00"}, total)
}

func (suite *PayrollServiceTestSuite) TestGenerateDraft_DuplicatePeriod() {
	_, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)

	_, err = suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.ErrorIs(err, apperrors.ErrCycleAlreadyExists)
	suite.ErrorIs(err, apperrors.ErrDuplicate)

	cycles, err := suite.service.ListCycles(suite.ctx, 10, 0)
	suite.Require().NoError(err)
	suite.Len(cycles, 1)
}

func (suite *PayrollServiceTestSuite) TestGenerateDraft_ConcurrentCallersCreateOneCycle() {
	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, apperrors.ErrCycleAlreadyExists):
			dup++
		default:
			suite.Failf("unexpected error", "%v", err)
		}
	}
	suite.Equal(1, ok)
	suite.Equal(callers-1, dup)
}

func (suite *PayrollServiceTestSuite) TestGenerateDraft_InvalidPeriod() {
	_, err := suite.service.GenerateDraft(suite.ctx, "2024-13", adminID)
	suite.ErrorIs(err, apperrors.ErrInvalidPeriod)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PayrollServiceTestSuite) TestEditLine_DraftOnly() {
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	line := suite.lineFor(cycle, "m2", domain.LineSavings)

	excluded := domain.LineExcluded
	reason := "on leave"
	edited, err := suite.service.EditLine(suite.ctx, line.LineID, dto.EditLineRequest{
		ActualAmount: decPtr("120.456"),
		Status:       &excluded,
		Reason:       &reason,
	}, adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.LineExcluded, edited.Status)
	suite.Equal("120.46", edited.ActualAmount.StringFixed(2))
	suite.Equal("on leave", edited.Reason)
	suite.True(edited.ExpectedAmount.Equal(dec("500")), "expected amount is never edited")

	_, err = suite.service.ConfirmFinance(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)

	_, err = suite.service.EditLine(suite.ctx, line.LineID, dto.EditLineRequest{ActualAmount: decPtr("1")}, adminID)
	suite.ErrorIs(err, apperrors.ErrCycleNotEditable)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *PayrollServiceTestSuite) TestEditLine_Validation() {
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	line := cycle.Lines[0]

	_, err = suite.service.EditLine(suite.ctx, line.LineID, dto.EditLineRequest{ActualAmount: decPtr("-1")}, adminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	posted := domain.LinePosted
	_, err = suite.service.EditLine(suite.ctx, line.LineID, dto.EditLineRequest{Status: &posted}, adminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.EditLine(suite.ctx, "missing", dto.EditLineRequest{ActualAmount: decPtr("1")}, adminID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PayrollServiceTestSuite) TestConfirmFinance_OnlyFromDraft() {
	cycle := suite.draftAndConfirm("2024-06")

	stored, err := suite.service.GetCycle(suite.ctx, cycle.CycleID)
	suite.Require().NoError(err)
	suite.Equal(domain.CycleFinanceConfirmed, stored.Status)
	suite.Require().NotNil(stored.ConfirmedBy)
	suite.Equal(adminID, *stored.ConfirmedBy)
	suite.Require().NotNil(stored.ConfirmedAt)
	suite.True(stored.ConfirmedAt.Equal(june30))

	_, err = suite.service.ConfirmFinance(suite.ctx, cycle.CycleID, adminID)
	suite.ErrorIs(err, apperrors.ErrCycleNotDraft)
}

func (suite *PayrollServiceTestSuite) TestPostCycle_AppliesLedger() {
	cycle := suite.draftAndConfirm("2024-06")

	posted, err := suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.CyclePosted, posted.Status)
	suite.Require().NotNil(posted.PostedBy)
	suite.Equal(adminID, *posted.PostedBy)
	for _, l := range posted.Lines {
		suite.Equal(domain.LinePosted, l.Status, "line %s", l.LineID)
	}

	m1, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m1.Balance.Equal(dec("1000")))
	suite.True(m1.TotalContributions.Equal(dec("1000")))
	suite.True(m1.LoanBalance.Equal(dec("1700")))

	l1, err := suite.store.FindLoanByID(suite.ctx, "l1")
	suite.Require().NoError(err)
	suite.True(l1.Balance.Equal(dec("1700")))
	suite.Equal(domain.LoanApproved, l1.Status)

	l2, err := suite.store.FindLoanByID(suite.ctx, "l2")
	suite.Require().NoError(err)
	suite.True(l2.Balance.IsZero())
	suite.Equal(domain.LoanCompleted, l2.Status)

	m2, err := suite.store.FindMemberByID(suite.ctx, "m2")
	suite.Require().NoError(err)
	suite.True(m2.LoanBalance.IsZero())

	txns, _, err := suite.store.ListTransactionsByMember(suite.ctx, "m1", 10, nil)
	suite.Require().NoError(err)
	suite.Len(txns, 2)
	for _, txn := range txns {
		suite.Require().NotNil(txn.CycleID)
		suite.Equal(cycle.CycleID, *txn.CycleID)
	}

	repayments, err := suite.store.ListRepaymentsByLoan(suite.ctx, "l1")
	suite.Require().NoError(err)
	suite.Require().Len(repayments, 1)
	suite.Equal(domain.RepaymentSourcePayroll, repayments[0].Source)
	suite.True(repayments[0].Amount.Equal(dec("300")))
}

func (suite *PayrollServiceTestSuite) TestPostCycle_ExcludedAndZeroLinesHaveNoEffect() {
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)

	excluded := domain.LineExcluded
	_, err = suite.service.EditLine(suite.ctx, suite.lineFor(cycle, "m1", domain.LineSavings).LineID,
		dto.EditLineRequest{Status: &excluded}, adminID)
	suite.Require().NoError(err)
	_, err = suite.service.EditLine(suite.ctx, suite.lineFor(cycle, "m2", domain.LineSavings).LineID,
		dto.EditLineRequest{ActualAmount: decPtr("0")}, adminID)
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmFinance(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)
	posted, err := suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)

	suite.Equal(domain.LineExcluded, suite.lineFor(posted, "m1", domain.LineSavings).Status)
	suite.Equal(domain.LineExcluded, suite.lineFor(posted, "m2", domain.LineSavings).Status)

	for _, id := range []string{"m1", "m2"} {
		m, err := suite.store.FindMemberByID(suite.ctx, id)
		suite.Require().NoError(err)
		suite.True(m.Balance.IsZero(), "member %s", id)
		suite.True(m.TotalContributions.IsZero(), "member %s", id)
	}
}

func (suite *PayrollServiceTestSuite) TestPostCycle_ClampsRepaymentToBalance() {
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	line := suite.lineFor(cycle, "m2", domain.LineLoanRepayment)
	_, err = suite.service.EditLine(suite.ctx, line.LineID, dto.EditLineRequest{ActualAmount: decPtr("900")}, adminID)
	suite.Require().NoError(err)
	_, err = suite.service.ConfirmFinance(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)

	posted, err := suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)

	got := suite.lineFor(posted, "m2", domain.LineLoanRepayment)
	suite.Equal(domain.LinePosted, got.Status)
	suite.True(got.ActualAmount.Equal(dec("300")))
	suite.Contains(got.Reason, "clamped from 900.00 to outstanding balance")

	l2, err := suite.store.FindLoanByID(suite.ctx, "l2")
	suite.Require().NoError(err)
	suite.True(l2.Balance.IsZero(), "balance never goes negative")
}

func (suite *PayrollServiceTestSuite) TestPostCycle_RequiresConfirmation() {
	cycle, err := suite.service.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)

	_, err = suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.ErrorIs(err, apperrors.ErrCycleNotConfirmed)

	m1, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m1.Balance.IsZero())
}

func (suite *PayrollServiceTestSuite) TestPostCycle_SecondPostIsRejected() {
	cycle := suite.draftAndConfirm("2024-06")
	_, err := suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)

	_, err = suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.ErrorIs(err, apperrors.ErrCycleNotConfirmed)

	m1, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m1.Balance.Equal(dec("1000")), "posting twice must not apply twice")
	txns, _, err := suite.store.ListTransactionsByMember(suite.ctx, "m1", 10, nil)
	suite.Require().NoError(err)
	suite.Len(txns, 2)
}

func (suite *PayrollServiceTestSuite) TestPostCycle_FailureRollsBackEverything() {
	cycle := suite.draftAndConfirm("2024-06")

	repos := suite.repos
	repos.LedgerRepo = &failingLedger{Store: suite.store, n: 3}
	failing := services.NewPayrollService(repos, services.WithPayrollClock(fixedClock(june30)))

	_, err := failing.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.ErrorIs(err, errLedgerDown)

	stored, err := suite.service.GetCycle(suite.ctx, cycle.CycleID)
	suite.Require().NoError(err)
	suite.Equal(domain.CycleFinanceConfirmed, stored.Status)
	suite.Nil(stored.PostedAt)
	for _, l := range stored.Lines {
		suite.Equal(domain.LinePending, l.Status, "line %s", l.LineID)
	}

	m1, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m1.Balance.IsZero())
	suite.True(m1.LoanBalance.Equal(dec("2000")))
	l1, err := suite.store.FindLoanByID(suite.ctx, "l1")
	suite.Require().NoError(err)
	suite.True(l1.Balance.Equal(dec("2000")))
	repayments, err := suite.store.ListRepaymentsByLoan(suite.ctx, "l1")
	suite.Require().NoError(err)
	suite.Empty(repayments)

	// The untouched cycle can still be posted once the ledger recovers.
	_, err = suite.service.PostCycle(suite.ctx, cycle.CycleID, adminID)
	suite.Require().NoError(err)
}

func (suite *PayrollServiceTestSuite) TestAutoPostIfDue_NotDue() {
	result, err := suite.service.AutoPostIfDue(suite.ctx, time.Date(2024, 6, 14, 8, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.False(result.Due)
	suite.Equal("2024-06", result.Period)

	_, err = suite.service.GetCycleByPeriod(suite.ctx, "2024-06")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PayrollServiceTestSuite) TestAutoPostIfDue_CreatesConfirmsAndPosts() {
	result, err := suite.service.AutoPostIfDue(suite.ctx, june30)
	suite.Require().NoError(err)
	suite.True(result.Due)
	suite.True(result.Created)
	suite.True(result.Confirmed)
	suite.True(result.Posted)

	cycle, err := suite.service.GetCycleByPeriod(suite.ctx, "2024-06")
	suite.Require().NoError(err)
	suite.Equal(domain.CyclePosted, cycle.Status)
	suite.Require().NotNil(cycle.PostedBy)
	suite.Equal(domain.SystemActor, *cycle.PostedBy)

	again, err := suite.service.AutoPostIfDue(suite.ctx, june30.Add(time.Hour))
	suite.Require().NoError(err)
	suite.True(again.Due)
	suite.False(again.Created)
	suite.False(again.Posted)
	suite.Equal(cycle.CycleID, again.CycleID)

	m1, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m1.Balance.Equal(dec("1000")))
}

func (suite *PayrollServiceTestSuite) TestAutoPostIfDue_PostsAdminConfirmedCycle() {
	cycle := suite.draftAndConfirm("2024-06")

	result, err := suite.service.AutoPostIfDue(suite.ctx, june30)
	suite.Require().NoError(err)
	suite.False(result.Created)
	suite.False(result.Confirmed)
	suite.True(result.Posted)
	suite.Equal(cycle.CycleID, result.CycleID)
}

func (suite *PayrollServiceTestSuite) TestAutoPostIfDue_ConcurrentCallersPostOnce() {
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.service.AutoPostIfDue(suite.ctx, june30)
			suite.NoError(err)
		}()
	}
	wg.Wait()

	m1, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m1.Balance.Equal(dec("1000")), "balance %s", m1.Balance)
	txns, _, err := suite.store.ListTransactionsByMember(suite.ctx, "m1", 10, nil)
	suite.Require().NoError(err)
	suite.Len(txns, 2)
}

func (suite *PayrollServiceTestSuite) TestAutoPostDayOption() {
	svc := services.NewPayrollService(suite.repos, services.WithAutoPostDay(25))
	result, err := svc.AutoPostIfDue(suite.ctx, time.Date(2024, 6, 25, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.True(result.Due)
	suite.True(result.Posted)
}

func TestPayrollServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PayrollServiceTestSuite))
}
