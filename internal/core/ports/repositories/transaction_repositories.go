package repositories

import (
	"context"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

// TransactionReader defines read operations for member ledger transactions
type TransactionReader interface {
	// ListTransactionsByMember retrieves a page of a member's transactions using token-based pagination.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for member ledger transactions
type TransactionWriter interface {
	// SaveTransaction appends a ledger transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all ledger transaction interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
