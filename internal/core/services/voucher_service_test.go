package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/core/services"
	"github.com/SscSPs/coop_payroll_app/internal/repositories/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockVoucherRepository is a mock type for the VoucherRepositoryFacade interface
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByPeriod(ctx context.Context, period string) ([]domain.Voucher, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateVoucherStatus(ctx context.Context, voucherID string, status domain.VoucherStatus, userID string, now time.Time) error {
	args := m.Called(ctx, voucherID, status, userID, now)
	return args.Error(0)
}

func (m *MockVoucherRepository) RemoveOpenVouchersForMember(ctx context.Context, memberID string, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, memberID, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

// passthroughTx runs fn directly, for tests whose repositories are mocks.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var testFees = domain.FeeSchedule{
	NewMemberFee: dec("1000"),
	RecurringFee: dec("200"),
	CutoffDay:    15,
}

type VoucherServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	mockRepo *MockVoucherRepository
	mocked   portssvc.VoucherSvcFacade
	service  portssvc.VoucherSvcFacade
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.service = services.NewVoucherService(memory.NewRepositoryProvider(suite.store), testFees,
		services.WithVoucherClock(fixedClock(june30)))

	suite.mockRepo = new(MockVoucherRepository)
	suite.mocked = services.NewVoucherService(portsrepo.RepositoryProvider{
		TxManager:   passthroughTx{},
		MemberRepo:  suite.store,
		VoucherRepo: suite.mockRepo,
	}, testFees)
}

func (suite *VoucherServiceTestSuite) TestClassify() {
	registered := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	c, err := suite.service.Classify(registered, "2024-04")
	suite.Require().NoError(err)
	suite.Equal(domain.MemberClassNew, c.Class)
	suite.True(c.Fee.Equal(dec("1000")))
	suite.Equal("2024-04", c.FirstVoucherPeriod)

	c, err = suite.service.Classify(registered, "2024-03")
	suite.Require().NoError(err)
	suite.True(c.RegisteredInPeriod)
	suite.Equal(domain.MemberClassOld, c.Class, "fee follows the first voucher period, not the registration month")

	_, err = suite.service.Classify(registered, "March")
	suite.ErrorIs(err, apperrors.ErrInvalidPeriod)
}

func (suite *VoucherServiceTestSuite) TestIssueVoucher_PricesFirstVoucher() {
	member := domain.Member{
		MemberID:            "m1",
		RegisteredAt:        time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		MonthlyContribution: dec("750"),
	}
	suite.mockRepo.On("SaveVoucher", suite.ctx, mock.MatchedBy(func(v domain.Voucher) bool {
		return v.MemberID == "m1" &&
			v.Period == "2024-06" &&
			v.Classification == domain.MemberClassNew &&
			v.Amount.Equal(dec("1750")) &&
			v.Status == domain.VoucherGenerated
	})).Return(nil).Once()

	v, err := suite.mocked.IssueVoucher(suite.ctx, member, "2024-06", adminID)
	suite.Require().NoError(err)
	suite.True(v.Fee.Equal(dec("1000")))
	suite.True(v.Contribution.Equal(dec("750")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestIssueVoucher_BeforeFirstPeriod() {
	member := domain.Member{MemberID: "m1", RegisteredAt: time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)}

	_, err := suite.mocked.IssueVoucher(suite.ctx, member, "2024-06", adminID)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestIssueVoucher_SaveError() {
	member := domain.Member{MemberID: "m1", RegisteredAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("SaveVoucher", suite.ctx, mock.AnythingOfType("domain.Voucher")).Return(dbErr).Once()

	_, err := suite.mocked.IssueVoucher(suite.ctx, member, "2024-06", adminID)
	suite.ErrorIs(err, dbErr)
}

func (suite *VoucherServiceTestSuite) TestGenerateVouchers_ListError() {
	dbErr := errors.New("connection reset")
	seedMember(suite.T(), suite.store, "m1", "1000")
	suite.mockRepo.On("ListVouchersByPeriod", mock.Anything, "2024-06").Return(nil, dbErr).Once()

	_, _, err := suite.mocked.GenerateVouchers(suite.ctx, "2024-06", adminID)
	suite.ErrorIs(err, dbErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestGenerateVouchers() {
	t := suite.T()
	seedMember(t, suite.store, "m1", "1000")
	seedMember(t, suite.store, "m2", "500", func(m *domain.Member) {
		m.RegisteredAt = time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC) // first voucher in July
	})
	seedMember(t, suite.store, "m3", "400", func(m *domain.Member) {
		m.RegisteredAt = time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	})
	seedMember(t, suite.store, "m4", "600")
	seedMember(t, suite.store, "m5", "600", func(m *domain.Member) { m.Status = domain.MemberClosed })

	m4, err := suite.store.FindMemberByID(suite.ctx, "m4")
	suite.Require().NoError(err)
	_, err = suite.service.IssueVoucher(suite.ctx, *m4, "2024-06", adminID)
	suite.Require().NoError(err)

	created, existing, err := suite.service.GenerateVouchers(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	suite.Equal(1, existing)
	suite.Require().Len(created, 2)

	byMember := map[string]domain.Voucher{}
	for _, v := range created {
		byMember[v.MemberID] = v
	}
	suite.Equal(domain.MemberClassOld, byMember["m1"].Classification)
	suite.True(byMember["m1"].Amount.Equal(dec("1200")))
	suite.Equal(domain.MemberClassNew, byMember["m3"].Classification)
	suite.True(byMember["m3"].Amount.Equal(dec("1400")))

	created, existing, err = suite.service.GenerateVouchers(suite.ctx, "2024-06", adminID)
	suite.Require().NoError(err)
	suite.Empty(created)
	suite.Equal(3, existing)

	all, err := suite.service.ListVouchers(suite.ctx, "2024-06")
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func (suite *VoucherServiceTestSuite) TestMarkSent() {
	m := seedMember(suite.T(), suite.store, "m1", "1000")
	v, err := suite.service.IssueVoucher(suite.ctx, m, "2024-06", adminID)
	suite.Require().NoError(err)

	sent, err := suite.service.MarkSent(suite.ctx, v.VoucherID, adminID)
	suite.Require().NoError(err)
	suite.Equal(domain.VoucherSent, sent.Status)
	suite.Require().NotNil(sent.SentAt)
	suite.True(sent.SentAt.Equal(june30))

	_, err = suite.service.MarkSent(suite.ctx, v.VoucherID, adminID)
	suite.ErrorIs(err, apperrors.ErrConflict)

	_, err = suite.service.MarkSent(suite.ctx, "missing", adminID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
