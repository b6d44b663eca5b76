package mapping

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/models"
)

// ToModelPayrollCycle converts a domain PayrollCycle to a model PayrollCycle.
// Lines are stored separately.
func ToModelPayrollCycle(d domain.PayrollCycle) models.PayrollCycle {
	return models.PayrollCycle{
		CycleID:     d.CycleID,
		Period:      d.Period,
		Status:      string(d.Status),
		ConfirmedBy: d.ConfirmedBy,
		ConfirmedAt: d.ConfirmedAt,
		PostedBy:    d.PostedBy,
		PostedAt:    d.PostedAt,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollCycle converts a model PayrollCycle to a domain PayrollCycle
func ToDomainPayrollCycle(m models.PayrollCycle) domain.PayrollCycle {
	return domain.PayrollCycle{
		CycleID:     m.CycleID,
		Period:      m.Period,
		Status:      domain.CycleStatus(m.Status),
		ConfirmedBy: m.ConfirmedBy,
		ConfirmedAt: m.ConfirmedAt,
		PostedBy:    m.PostedBy,
		PostedAt:    m.PostedAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayrollLine converts a domain PayrollLine to a model PayrollLine
func ToModelPayrollLine(d domain.PayrollLine) models.PayrollLine {
	return models.PayrollLine{
		LineID:         d.LineID,
		CycleID:        d.CycleID,
		MemberID:       d.MemberID,
		LoanID:         d.LoanID,
		LineType:       string(d.LineType),
		ExpectedAmount: d.ExpectedAmount,
		ActualAmount:   d.ActualAmount,
		Status:         string(d.Status),
		Reason:         d.Reason,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayrollLine converts a model PayrollLine to a domain PayrollLine
func ToDomainPayrollLine(m models.PayrollLine) domain.PayrollLine {
	return domain.PayrollLine{
		LineID:         m.LineID,
		CycleID:        m.CycleID,
		MemberID:       m.MemberID,
		LoanID:         m.LoanID,
		LineType:       domain.LineType(m.LineType),
		ExpectedAmount: m.ExpectedAmount,
		ActualAmount:   m.ActualAmount,
		Status:         domain.LineStatus(m.Status),
		Reason:         m.Reason,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayrollLineSlice converts a slice of model PayrollLines to domain PayrollLines
func ToDomainPayrollLineSlice(ms []models.PayrollLine) []domain.PayrollLine {
	ds := make([]domain.PayrollLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayrollLine(m)
	}
	return ds
}
