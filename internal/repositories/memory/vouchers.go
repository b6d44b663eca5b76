package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

func (s *Store) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	return s.write(ctx, func(d *state) error {
		for _, v := range d.vouchers {
			if v.MemberID == voucher.MemberID && v.Period == voucher.Period {
				return fmt.Errorf("voucher for member %s in %s: %w", voucher.MemberID, voucher.Period, apperrors.ErrDuplicate)
			}
		}
		d.vouchers[voucher.VoucherID] = voucher
		return nil
	})
}

func (s *Store) FindVoucherByID(_ context.Context, voucherID string) (*domain.Voucher, error) {
	var out *domain.Voucher
	err := s.read(func(d *state) error {
		v, ok := d.vouchers[voucherID]
		if !ok {
			return apperrors.NewNotFoundError("voucher " + voucherID)
		}
		out = &v
		return nil
	})
	return out, err
}

func (s *Store) ListVouchersByPeriod(_ context.Context, period string) ([]domain.Voucher, error) {
	vouchers := []domain.Voucher{}
	_ = s.read(func(d *state) error {
		for _, v := range d.vouchers {
			if v.Period == period {
				vouchers = append(vouchers, v)
			}
		}
		return nil
	})
	sort.Slice(vouchers, func(i, j int) bool { return vouchers[i].MemberID < vouchers[j].MemberID })
	return vouchers, nil
}

func (s *Store) UpdateVoucherStatus(ctx context.Context, voucherID string, status domain.VoucherStatus, userID string, now time.Time) error {
	return s.write(ctx, func(d *state) error {
		v, ok := d.vouchers[voucherID]
		if !ok {
			return apperrors.NewNotFoundError("voucher " + voucherID)
		}
		v.Status = status
		if status == domain.VoucherSent {
			sentAt := now
			v.SentAt = &sentAt
		}
		v.LastUpdatedAt = now
		v.LastUpdatedBy = userID
		d.vouchers[voucherID] = v
		return nil
	})
}

func (s *Store) RemoveOpenVouchersForMember(ctx context.Context, memberID string, userID string, now time.Time) (int64, error) {
	var n int64
	err := s.write(ctx, func(d *state) error {
		for id, v := range d.vouchers {
			if v.MemberID != memberID || v.Status != domain.VoucherGenerated {
				continue
			}
			v.Status = domain.VoucherRemoved
			v.LastUpdatedAt = now
			v.LastUpdatedBy = userID
			d.vouchers[id] = v
			n++
		}
		return nil
	})
	return n, err
}
