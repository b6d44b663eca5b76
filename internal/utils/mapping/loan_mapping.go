package mapping

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:         d.LoanID,
		MemberID:       d.MemberID,
		Principal:      d.Principal,
		InterestRate:   d.InterestRate,
		DurationMonths: d.DurationMonths,
		TotalRepayable: d.TotalRepayable,
		MonthlyPayment: d.MonthlyPayment,
		Balance:        d.Balance,
		Status:         string(d.Status),
		ApprovedAt:     d.ApprovedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:         m.LoanID,
		MemberID:       m.MemberID,
		Principal:      m.Principal,
		InterestRate:   m.InterestRate,
		DurationMonths: m.DurationMonths,
		TotalRepayable: m.TotalRepayable,
		MonthlyPayment: m.MonthlyPayment,
		Balance:        m.Balance,
		Status:         domain.LoanStatus(m.Status),
		ApprovedAt:     m.ApprovedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans to a slice of domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}

// ToModelRepayment converts a domain Repayment to a model Repayment
func ToModelRepayment(d domain.Repayment) models.Repayment {
	return models.Repayment{
		RepaymentID: d.RepaymentID,
		LoanID:      d.LoanID,
		MemberID:    d.MemberID,
		Amount:      d.Amount,
		PaidAt:      d.PaidAt,
		Source:      d.Source,
		CreatedBy:   d.CreatedBy,
	}
}

// ToDomainRepayment converts a model Repayment to a domain Repayment
func ToDomainRepayment(m models.Repayment) domain.Repayment {
	return domain.Repayment{
		RepaymentID: m.RepaymentID,
		LoanID:      m.LoanID,
		MemberID:    m.MemberID,
		Amount:      m.Amount,
		PaidAt:      m.PaidAt,
		Source:      m.Source,
		CreatedBy:   m.CreatedBy,
	}
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:   d.PaymentID,
		MemberID:    d.MemberID,
		LoanID:      d.LoanID,
		Type:        string(d.Type),
		Status:      string(d.Status),
		Amount:      d.Amount,
		PaidAt:      d.PaidAt,
		Reference:   d.Reference,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
