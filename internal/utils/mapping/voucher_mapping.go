package mapping

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:      d.VoucherID,
		MemberID:       d.MemberID,
		Period:         d.Period,
		Classification: string(d.Classification),
		Fee:            d.Fee,
		Contribution:   d.Contribution,
		Amount:         d.Amount,
		Status:         string(d.Status),
		SentAt:         d.SentAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:      m.VoucherID,
		MemberID:       m.MemberID,
		Period:         m.Period,
		Classification: domain.MemberClass(m.Classification),
		Fee:            m.Fee,
		Contribution:   m.Contribution,
		Amount:         m.Amount,
		Status:         domain.VoucherStatus(m.Status),
		SentAt:         m.SentAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
