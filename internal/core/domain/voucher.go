package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherStatus is the lifecycle of a payroll-deduction notice.
type VoucherStatus string

const (
	VoucherGenerated VoucherStatus = "GENERATED"
	VoucherSent      VoucherStatus = "SENT"
	VoucherRemoved   VoucherStatus = "REMOVED"
)

// MemberClass decides which fee a voucher carries.
type MemberClass string

const (
	MemberClassNew MemberClass = "NEW"
	MemberClassOld MemberClass = "OLD"
)

// FeeSchedule holds the one-time and recurring voucher fees.
type FeeSchedule struct {
	NewMemberFee decimal.Decimal
	RecurringFee decimal.Decimal
	CutoffDay    int
}

// Classification is the fee class of a member for one period.
type Classification struct {
	Class              MemberClass     `json:"class"`
	Fee                decimal.Decimal `json:"fee"`
	FirstVoucherPeriod string          `json:"firstVoucherPeriod"`
	RegisteredInPeriod bool            `json:"registeredInPeriod"` // raw registration-month match, display only
}

// ClassifyVoucher classifies a member for period. A member is NEW in the
// period of their first voucher (cutoff-adjusted) and OLD afterwards.
func ClassifyVoucher(registeredAt time.Time, period string, fees FeeSchedule) Classification {
	cutoff := fees.CutoffDay
	if cutoff <= 0 {
		cutoff = DefaultVoucherCutoffDay
	}
	first := FirstVoucherPeriodWithCutoff(registeredAt, cutoff)
	c := Classification{
		Class:              MemberClassOld,
		Fee:                fees.RecurringFee,
		FirstVoucherPeriod: first,
		RegisteredInPeriod: IsNewMember(registeredAt, period),
	}
	if first == period {
		c.Class = MemberClassNew
		c.Fee = fees.NewMemberFee
	}
	return c
}

// Voucher authorizes one month's payroll deduction for a member.
type Voucher struct {
	VoucherID      string          `json:"voucherID"`
	MemberID       string          `json:"memberID"`
	Period         string          `json:"period"`
	Classification MemberClass     `json:"classification"`
	Fee            decimal.Decimal `json:"fee"`
	Contribution   decimal.Decimal `json:"contribution"`
	Amount         decimal.Decimal `json:"amount"` // contribution + fee
	Status         VoucherStatus   `json:"status"`
	SentAt         *time.Time      `json:"sentAt,omitempty"`
	AuditFields
}
