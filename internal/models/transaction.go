package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the ledger_transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	MemberID      string          `db:"member_id"`
	LoanID        *string         `db:"loan_id"`  // Nullable
	CycleID       *string         `db:"cycle_id"` // Nullable
	Type          string          `db:"transaction_type"`
	Status        string          `db:"status"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	OccurredAt    time.Time       `db:"occurred_at"`
	CreatedBy     string          `db:"created_by"`
	CreatedAt     time.Time       `db:"created_at"`
}
