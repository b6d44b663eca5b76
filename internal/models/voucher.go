package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is the row shape of the vouchers table.
type Voucher struct {
	VoucherID      string          `db:"voucher_id"`
	MemberID       string          `db:"member_id"`
	Period         string          `db:"period"`
	Classification string          `db:"classification"`
	Fee            decimal.Decimal `db:"fee"`
	Contribution   decimal.Decimal `db:"contribution"`
	Amount         decimal.Decimal `db:"amount"`
	Status         string          `db:"status"`
	SentAt         *time.Time      `db:"sent_at"` // Nullable
	AuditFields
}
