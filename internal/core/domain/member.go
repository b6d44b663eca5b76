package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MemberRole separates cooperative members from back-office staff records.
type MemberRole string

const (
	RoleMember MemberRole = "MEMBER"
	RoleAdmin  MemberRole = "ADMIN"
)

// MemberStatus tracks where a member is in their lifecycle.
type MemberStatus string

const (
	MemberPending MemberStatus = "PENDING"
	MemberActive  MemberStatus = "ACTIVE"
	MemberClosed  MemberStatus = "CLOSED"
)

// Member is a cooperative member together with their ledger fields.
type Member struct {
	MemberID            string          `json:"memberID"` // Primary Key (UUID)
	FullName            string          `json:"fullName"`
	Email               string          `json:"email"`
	StaffNumber         string          `json:"staffNumber"` // payroll reference used on vouchers
	Role                MemberRole      `json:"role"`
	Status              MemberStatus    `json:"status"`
	RegisteredAt        time.Time       `json:"registeredAt"`
	MonthlyContribution decimal.Decimal `json:"monthlyContribution"` // planned recurring savings
	VoucherEnabled      bool            `json:"voucherEnabled"`
	Balance             decimal.Decimal `json:"balance"`            // cumulative savings
	TotalContributions  decimal.Decimal `json:"totalContributions"` // savings posted through payroll
	LoanBalance         decimal.Decimal `json:"loanBalance"`        // mirror of outstanding approved loans
	AuditFields
}

// IsPayrollEligible reports whether a SAVINGS line should be drafted for the member.
func (m Member) IsPayrollEligible() bool {
	return m.Role == RoleMember &&
		m.Status == MemberActive &&
		m.VoucherEnabled &&
		m.MonthlyContribution.GreaterThan(decimal.Zero)
}

// LoanBalanceDrift is a member whose cached loan balance disagreed with the
// sum of their outstanding loans.
type LoanBalanceDrift struct {
	MemberID string          `json:"memberID"`
	Cached   decimal.Decimal `json:"cached"`
	Actual   decimal.Decimal `json:"actual"`
}
