package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates what moved money on a member's ledger.
type TransactionType string

const (
	TxnContribution  TransactionType = "CONTRIBUTION"
	TxnLoanRepayment TransactionType = "LOAN_REPAYMENT"
	TxnLoanDisbursal TransactionType = "LOAN_DISBURSEMENT"
)

// TransactionStatus is the settlement state of a ledger transaction.
type TransactionStatus string

const (
	TxnCompleted TransactionStatus = "COMPLETED"
)

// Transaction is an append-only entry in a member's ledger, consumed by reporting.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	MemberID      string            `json:"memberID"`
	LoanID        *string           `json:"loanID,omitempty"`
	CycleID       *string           `json:"cycleID,omitempty"` // set for payroll postings
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"` // always positive
	Description   string            `json:"description"`
	OccurredAt    time.Time         `json:"occurredAt"`
	CreatedBy     string            `json:"createdBy"`
}
