package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/core/services"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
	"github.com/SscSPs/coop_payroll_app/internal/repositories/memory"
	"github.com/stretchr/testify/suite"
)

type LoanServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	service portssvc.LoanSvcFacade
	payroll portssvc.PayrollSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	repos := memory.NewRepositoryProvider(suite.store)
	suite.service = services.NewLoanService(repos, services.WithLoanClock(fixedClock(june30)))
	suite.payroll = services.NewPayrollService(repos, services.WithPayrollClock(fixedClock(june30)))
	seedMember(suite.T(), suite.store, "m1", "1000")
}

func (suite *LoanServiceTestSuite) approvedLoan() *domain.Loan {
	loan, err := suite.service.CreateLoan(suite.ctx, dto.CreateLoanRequest{
		MemberID:       "m1",
		Principal:      decPtr("10000"),
		InterestRate:   decPtr("0.05"),
		DurationMonths: 10,
	}, adminID)
	suite.Require().NoError(err)
	loan, err = suite.service.ApproveLoan(suite.ctx, loan.LoanID, adminID)
	suite.Require().NoError(err)
	return loan
}

func (suite *LoanServiceTestSuite) TestCreateLoan() {
	loan, err := suite.service.CreateLoan(suite.ctx, dto.CreateLoanRequest{
		MemberID:       "m1",
		Principal:      decPtr("10000"),
		InterestRate:   decPtr("0.05"),
		DurationMonths: 10,
	}, adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.LoanPending, loan.Status)
	suite.True(loan.TotalRepayable.Equal(dec("10500")))
	suite.True(loan.MonthlyPayment.Equal(dec("1050")))
	suite.True(loan.Balance.IsZero(), "nothing is owed before approval")

	m, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m.LoanBalance.IsZero())
}

func (suite *LoanServiceTestSuite) TestCreateLoan_Rejected() {
	_, err := suite.service.CreateLoan(suite.ctx, dto.CreateLoanRequest{
		MemberID: "m1", Principal: decPtr("0"), InterestRate: decPtr("0.1"), DurationMonths: 3,
	}, adminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.CreateLoan(suite.ctx, dto.CreateLoanRequest{
		MemberID: "nobody", Principal: decPtr("100"), InterestRate: decPtr("0.1"), DurationMonths: 3,
	}, adminID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	seedMember(suite.T(), suite.store, "m2", "100", func(m *domain.Member) { m.Status = domain.MemberPending })
	_, err = suite.service.CreateLoan(suite.ctx, dto.CreateLoanRequest{
		MemberID: "m2", Principal: decPtr("100"), InterestRate: decPtr("0.1"), DurationMonths: 3,
	}, adminID)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LoanServiceTestSuite) TestApproveLoan() {
	loan := suite.approvedLoan()
	suite.Equal(domain.LoanApproved, loan.Status)
	suite.True(loan.Balance.Equal(dec("10500")))
	suite.Require().NotNil(loan.ApprovedAt)

	m, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m.LoanBalance.Equal(dec("10500")))

	txns, _, err := suite.store.ListTransactionsByMember(suite.ctx, "m1", 10, nil)
	suite.Require().NoError(err)
	suite.Require().Len(txns, 1)
	suite.Equal(domain.TxnLoanDisbursal, txns[0].Type)
	suite.True(txns[0].Amount.Equal(dec("10000")))

	_, err = suite.service.ApproveLoan(suite.ctx, loan.LoanID, adminID)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LoanServiceTestSuite) TestRecordDirectRepayment() {
	loan := suite.approvedLoan()
	paidAt := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	updated, err := suite.service.RecordDirectRepayment(suite.ctx, loan.LoanID, dto.DirectRepaymentRequest{
		Amount:    decPtr("400"),
		PaidAt:    &paidAt,
		Reference: "bank-123",
	}, adminID)
	suite.Require().NoError(err)
	suite.True(updated.Balance.Equal(dec("10100")))

	m, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m.LoanBalance.Equal(dec("10100")))

	got, repayments, err := suite.service.GetLoan(suite.ctx, loan.LoanID)
	suite.Require().NoError(err)
	suite.True(got.Balance.Equal(dec("10100")))
	suite.Require().Len(repayments, 1)
	suite.Equal(domain.RepaymentSourceDirect, repayments[0].Source)

	// The June draft nets the direct repayment off the installment.
	cycle, err := suite.payroll.GenerateDraft(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	for _, l := range cycle.Lines {
		if l.LineType == domain.LineLoanRepayment {
			suite.True(l.ExpectedAmount.Equal(dec("650")), "1050 less 400, got %s", l.ExpectedAmount)
		}
	}
}

func (suite *LoanServiceTestSuite) TestRecordDirectRepayment_CompletesLoan() {
	loan := suite.approvedLoan()

	updated, err := suite.service.RecordDirectRepayment(suite.ctx, loan.LoanID, dto.DirectRepaymentRequest{Amount: decPtr("10500")}, adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.LoanCompleted, updated.Status)
	suite.True(updated.Balance.IsZero())

	_, err = suite.service.RecordDirectRepayment(suite.ctx, loan.LoanID, dto.DirectRepaymentRequest{Amount: decPtr("1")}, adminID)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LoanServiceTestSuite) TestRecordDirectRepayment_Rejected() {
	loan := suite.approvedLoan()

	_, err := suite.service.RecordDirectRepayment(suite.ctx, loan.LoanID, dto.DirectRepaymentRequest{Amount: decPtr("0")}, adminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RecordDirectRepayment(suite.ctx, loan.LoanID, dto.DirectRepaymentRequest{Amount: decPtr("10500.01")}, adminID)
	suite.ErrorIs(err, apperrors.ErrValidation)

	m, err := suite.store.FindMemberByID(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.True(m.LoanBalance.Equal(dec("10500")), "rejected repayment leaves the balance alone")
}

func (suite *LoanServiceTestSuite) TestListMemberLoans() {
	suite.approvedLoan()

	loans, err := suite.service.ListMemberLoans(suite.ctx, "m1")
	suite.Require().NoError(err)
	suite.Len(loans, 1)

	_, err = suite.service.ListMemberLoans(suite.ctx, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
