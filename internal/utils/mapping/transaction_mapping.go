package mapping

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		MemberID:      d.MemberID,
		LoanID:        d.LoanID,
		CycleID:       d.CycleID,
		Type:          string(d.Type),
		Status:        string(d.Status),
		Amount:        d.Amount,
		Description:   d.Description,
		OccurredAt:    d.OccurredAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		MemberID:      m.MemberID,
		LoanID:        m.LoanID,
		CycleID:       m.CycleID,
		Type:          domain.TransactionType(m.Type),
		Status:        domain.TransactionStatus(m.Status),
		Amount:        m.Amount,
		Description:   m.Description,
		OccurredAt:    m.OccurredAt,
		CreatedBy:     m.CreatedBy,
	}
}
