package mapping

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/models"
)

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:            d.MemberID,
		FullName:            d.FullName,
		Email:               d.Email,
		StaffNumber:         d.StaffNumber,
		Role:                string(d.Role),
		Status:              string(d.Status),
		RegisteredAt:        d.RegisteredAt,
		MonthlyContribution: d.MonthlyContribution,
		VoucherEnabled:      d.VoucherEnabled,
		Balance:             d.Balance,
		TotalContributions:  d.TotalContributions,
		LoanBalance:         d.LoanBalance,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:            m.MemberID,
		FullName:            m.FullName,
		Email:               m.Email,
		StaffNumber:         m.StaffNumber,
		Role:                domain.MemberRole(m.Role),
		Status:              domain.MemberStatus(m.Status),
		RegisteredAt:        m.RegisteredAt,
		MonthlyContribution: m.MonthlyContribution,
		VoucherEnabled:      m.VoucherEnabled,
		Balance:             m.Balance,
		TotalContributions:  m.TotalContributions,
		LoanBalance:         m.LoanBalance,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMemberSlice converts a slice of model Members to a slice of domain Members
func ToDomainMemberSlice(ms []models.Member) []domain.Member {
	ds := make([]domain.Member, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMember(m)
	}
	return ds
}
