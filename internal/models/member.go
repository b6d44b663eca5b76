package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is the row shape of the members table.
type Member struct {
	MemberID            string          `db:"member_id"`
	FullName            string          `db:"full_name"`
	Email               string          `db:"email"`
	StaffNumber         string          `db:"staff_number"`
	Role                string          `db:"role"`
	Status              string          `db:"status"`
	RegisteredAt        time.Time       `db:"registered_at"`
	MonthlyContribution decimal.Decimal `db:"monthly_contribution"`
	VoucherEnabled      bool            `db:"voucher_enabled"`
	Balance             decimal.Decimal `db:"balance"`
	TotalContributions  decimal.Decimal `db:"total_contributions"`
	LoanBalance         decimal.Decimal `db:"loan_balance"`
	AuditFields
}
