package dto

import (
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterMemberRequest defines the data needed to register a member.
type RegisterMemberRequest struct {
	FullName            string            `json:"fullName" binding:"required"`
	Email               string            `json:"email" binding:"required,email"`
	StaffNumber         string            `json:"staffNumber"`
	Role                domain.MemberRole `json:"role" binding:"omitempty,oneof=MEMBER ADMIN"`
	MonthlyContribution *decimal.Decimal  `json:"monthlyContribution" binding:"required"`
	VoucherEnabled      *bool             `json:"voucherEnabled"` // Optional, defaults to true
	RegisteredAt        *time.Time        `json:"registeredAt"`   // Optional, defaults to now (back-office imports)
	Activate            bool              `json:"activate"`       // register directly as ACTIVE
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID            string              `json:"memberID"`
	FullName            string              `json:"fullName"`
	Email               string              `json:"email"`
	StaffNumber         string              `json:"staffNumber"`
	Role                domain.MemberRole   `json:"role"`
	Status              domain.MemberStatus `json:"status"`
	RegisteredAt        time.Time           `json:"registeredAt"`
	FirstVoucherPeriod  string              `json:"firstVoucherPeriod"`
	MonthlyContribution decimal.Decimal     `json:"monthlyContribution"`
	VoucherEnabled      bool                `json:"voucherEnabled"`
	Balance             decimal.Decimal     `json:"balance"`
	TotalContributions  decimal.Decimal     `json:"totalContributions"`
	LoanBalance         decimal.Decimal     `json:"loanBalance"`
	CreatedAt           time.Time           `json:"createdAt"`
	CreatedBy           string              `json:"createdBy"`
	LastUpdatedAt       time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy       string              `json:"lastUpdatedBy"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:            m.MemberID,
		FullName:            m.FullName,
		Email:               m.Email,
		StaffNumber:         m.StaffNumber,
		Role:                m.Role,
		Status:              m.Status,
		RegisteredAt:        m.RegisteredAt,
		FirstVoucherPeriod:  domain.FirstVoucherPeriod(m.RegisteredAt),
		MonthlyContribution: m.MonthlyContribution,
		VoucherEnabled:      m.VoucherEnabled,
		Balance:             m.Balance,
		TotalContributions:  m.TotalContributions,
		LoanBalance:         m.LoanBalance,
		CreatedAt:           m.CreatedAt,
		CreatedBy:           m.CreatedBy,
		LastUpdatedAt:       m.LastUpdatedAt,
		LastUpdatedBy:       m.LastUpdatedBy,
	}
}

// ToListMemberResponse converts a slice of domain.Member to MemberResponse DTOs
func ToListMemberResponse(members []domain.Member) []MemberResponse {
	res := make([]MemberResponse, len(members))
	for i := range members {
		res[i] = ToMemberResponse(&members[i])
	}
	return res
}

// ListMembersParams defines query parameters for listing members.
type ListMembersParams struct {
	Status string `form:"status" binding:"omitempty,oneof=PENDING ACTIVE CLOSED"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListTransactionsParams defines query parameters for a member's ledger.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of ledger transactions.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    *string              `json:"nextToken,omitempty"`
}

// ReconcileLoanBalancesResponse lists the members whose loanBalance was repaired.
type ReconcileLoanBalancesResponse struct {
	Repaired []domain.LoanBalanceDrift `json:"repaired"`
}
