package services

import (
	"context"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

// VoucherSvcFacade defines voucher operations
type VoucherSvcFacade interface {
	// Classify returns the fee class of a member registered at registeredAt for period.
	Classify(registeredAt time.Time, period string) (domain.Classification, error)

	// GenerateVouchers issues missing vouchers for period. It returns the
	// vouchers created and how many members already had one.
	GenerateVouchers(ctx context.Context, period string, userID string) ([]domain.Voucher, int, error)

	// IssueVoucher creates the voucher of member for period, classified and priced by the fee schedule.
	IssueVoucher(ctx context.Context, member domain.Member, period string, userID string) (*domain.Voucher, error)

	// MarkSent moves a GENERATED voucher to SENT.
	MarkSent(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error)

	ListVouchers(ctx context.Context, period string) ([]domain.Voucher, error)
}
