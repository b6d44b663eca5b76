package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

// VoucherReader defines read operations for vouchers
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher by its identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchersByPeriod retrieves all vouchers issued for a period.
	ListVouchersByPeriod(ctx context.Context, period string) ([]domain.Voucher, error)
}

// VoucherWriter defines write operations for vouchers
type VoucherWriter interface {
	// SaveVoucher persists a voucher. It returns apperrors.ErrDuplicate when the
	// member already has a voucher for the period.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	// UpdateVoucherStatus moves a voucher to a new status.
	UpdateVoucherStatus(ctx context.Context, voucherID string, status domain.VoucherStatus, userID string, now time.Time) error

	// RemoveOpenVouchersForMember marks the member's GENERATED vouchers REMOVED and returns how many changed.
	RemoveOpenVouchersForMember(ctx context.Context, memberID string, userID string, now time.Time) (int64, error)
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}
