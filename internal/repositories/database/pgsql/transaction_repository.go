package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/coop_payroll_app/internal/models"
	"github.com/SscSPs/coop_payroll_app/internal/utils/mapping"
	"github.com/SscSPs/coop_payroll_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	t := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO ledger_transactions (transaction_id, member_id, loan_id, cycle_id, transaction_type, status,
			amount, description, occurred_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		t.TransactionID,
		t.MemberID,
		t.LoanID,
		t.CycleID,
		t.Type,
		t.Status,
		t.Amount,
		t.Description,
		t.OccurredAt,
		t.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save ledger transaction: %w", err)
	}
	return nil
}

// ListTransactionsByMember pages newest first on (occurred_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT transaction_id, member_id, loan_id, cycle_id, transaction_type, status, amount, description,
		       occurred_at, created_by, created_at
		FROM ledger_transactions
		WHERE member_id = $1
	`
	orderByClause := `ORDER BY occurred_at DESC, transaction_id DESC`

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastID, decodeErr := pagination.DecodeCursor(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr))
		}
		query := baseQuery + ` AND (occurred_at, transaction_id) < ($2, $3) ` + orderByClause + ` LIMIT $4;`
		rows, err = r.conn(ctx).Query(ctx, query, memberID, lastOccurredAt, lastID, fetchLimit)
	} else {
		query := baseQuery + ` ` + orderByClause + ` LIMIT $2;`
		rows, err = r.conn(ctx).Query(ctx, query, memberID, fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for member "+memberID, err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.TransactionID,
			&t.MemberID,
			&t.LoanID,
			&t.CycleID,
			&t.Type,
			&t.Status,
			&t.Amount,
			&t.Description,
			&t.OccurredAt,
			&t.CreatedBy,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for member "+memberID, err)
		}
		modelTxns = append(modelTxns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for member "+memberID, err)
	}

	var nextTokenVal *string
	if len(modelTxns) > limit {
		// The token points to the last item included in this page.
		last := modelTxns[limit-1]
		token := pagination.EncodeCursor(last.OccurredAt, last.TransactionID)
		nextTokenVal = &token
		modelTxns = modelTxns[:limit]
	}

	results := make([]domain.Transaction, len(modelTxns))
	for i, t := range modelTxns {
		results[i] = mapping.ToDomainTransaction(t)
	}
	return results, nextTokenVal, nil
}
