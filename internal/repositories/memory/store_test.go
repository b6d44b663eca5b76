package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SaveMember(ctx, domain.Member{MemberID: "m1", Email: "a@coop.test", Balance: decimal.Zero}))

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.UpdateMemberLedger(ctx, domain.Member{MemberID: "m1", Balance: decimal.NewFromInt(500)}))
		require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{TransactionID: "t1", MemberID: "m1"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	m, err := s.FindMemberByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, m.Balance.IsZero(), "balance restored")

	txns, _, err := s.ListTransactionsByMember(ctx, "m1", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestWithinTransaction_CommitsAndNests(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SaveMember(ctx, domain.Member{MemberID: "m1"}))

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.UpdateMemberLedger(ctx, domain.Member{MemberID: "m1", Balance: decimal.NewFromInt(10)})
		})
	})
	require.NoError(t, err)

	m, err := s.FindMemberByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, m.Balance.Equal(decimal.NewFromInt(10)))
}

func TestSaveCycle_UniquePeriod(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SaveCycle(ctx, domain.PayrollCycle{CycleID: "c1", Period: "2024-06", Status: domain.CycleDraft}))

	err := s.SaveCycle(ctx, domain.PayrollCycle{CycleID: "c2", Period: "2024-06", Status: domain.CycleDraft})
	assert.ErrorIs(t, err, apperrors.ErrCycleAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	_, err = s.FindCycleByID(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListTransactionsByMember_Paginates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{
			TransactionID: fmt.Sprintf("t%d", i),
			MemberID:      "m1",
			OccurredAt:    base, // same instant: ids break the tie
		}))
	}
	require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{TransactionID: "other", MemberID: "m2", OccurredAt: base}))

	first, next, err := s.ListTransactionsByMember(ctx, "m1", 2, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.NotNil(t, next)
	assert.Equal(t, "t4", first[0].TransactionID)
	assert.Equal(t, "t3", first[1].TransactionID)

	second, next, err := s.ListTransactionsByMember(ctx, "m1", 2, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, []string{second[0].TransactionID, second[1].TransactionID})

	third, next, err := s.ListTransactionsByMember(ctx, "m1", 2, next)
	require.NoError(t, err)
	assert.Len(t, third, 1)
	assert.Nil(t, next)

	bad := "%%%"
	_, _, err = s.ListTransactionsByMember(ctx, "m1", 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRemoveOpenVouchersForMember(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, s.SaveVoucher(ctx, domain.Voucher{VoucherID: "v1", MemberID: "m1", Period: "2024-05", Status: domain.VoucherSent}))
	require.NoError(t, s.SaveVoucher(ctx, domain.Voucher{VoucherID: "v2", MemberID: "m1", Period: "2024-06", Status: domain.VoucherGenerated}))
	assert.ErrorIs(t, s.SaveVoucher(ctx, domain.Voucher{VoucherID: "v3", MemberID: "m1", Period: "2024-06"}), apperrors.ErrDuplicate)

	n, err := s.RemoveOpenVouchersForMember(ctx, "m1", "admin", now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	v, err := s.FindVoucherByID(ctx, "v2")
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherRemoved, v.Status)
	v, err = s.FindVoucherByID(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, domain.VoucherSent, v.Status)
}
