package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/coop_payroll_app/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const adminID = "admin-1"

// june30 is an auto-post day for the default threshold.
var june30 = time.Date(2024, 6, 30, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func seedMember(t *testing.T, s *memory.Store, id string, contribution string, mutate ...func(*domain.Member)) domain.Member {
	t.Helper()
	m := domain.Member{
		MemberID:            id,
		FullName:            "Member " + id,
		Email:               id + "@coop.test",
		Role:                domain.RoleMember,
		Status:              domain.MemberActive,
		RegisteredAt:        time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC),
		MonthlyContribution: dec(contribution),
		VoucherEnabled:      true,
		AuditFields:         domain.AuditFields{CreatedBy: adminID, LastUpdatedBy: adminID},
	}
	for _, fn := range mutate {
		fn(&m)
	}
	require.NoError(t, s.SaveMember(context.Background(), m))
	return m
}

// seedLoan stores an APPROVED loan and adds its balance to the owner's loanBalance.
func seedLoan(t *testing.T, s *memory.Store, id, memberID, monthly, balance string) domain.Loan {
	t.Helper()
	ctx := context.Background()
	l := domain.Loan{
		LoanID:         id,
		MemberID:       memberID,
		Principal:      dec(balance),
		TotalRepayable: dec(balance),
		DurationMonths: 12,
		MonthlyPayment: dec(monthly),
		Balance:        dec(balance),
		Status:         domain.LoanApproved,
	}
	require.NoError(t, s.SaveLoan(ctx, l))

	m, err := s.FindMemberByID(ctx, memberID)
	require.NoError(t, err)
	m.LoanBalance = m.LoanBalance.Add(l.Balance)
	require.NoError(t, s.UpdateMemberLedger(ctx, *m))
	return l
}

func seedDirectPayment(t *testing.T, s *memory.Store, memberID, loanID, amount string, paidAt time.Time) {
	t.Helper()
	require.NoError(t, s.SavePayment(context.Background(), domain.Payment{
		PaymentID: "p-" + memberID + "-" + paidAt.Format("20060102"),
		MemberID:  memberID,
		LoanID:    &loanID,
		Type:      domain.PaymentLoanRepayment,
		Status:    domain.PaymentApproved,
		Amount:    dec(amount),
		PaidAt:    paidAt,
	}))
}

var errLedgerDown = errors.New("ledger unavailable")

// failingLedger fails the nth SaveTransaction call and every call after it.
type failingLedger struct {
	*memory.Store
	mu    sync.Mutex
	calls int
	n     int
}

func (f *failingLedger) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls >= f.n
	f.mu.Unlock()
	if fail {
		return errLedgerDown
	}
	return f.Store.SaveTransaction(ctx, txn)
}

var _ portsrepo.TransactionRepositoryFacade = (*failingLedger)(nil)
