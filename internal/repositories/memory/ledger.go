package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/utils/pagination"
)

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func(d *state) error {
		d.txns = append(d.txns, txn)
		return nil
	})
}

func (s *Store) ListTransactionsByMember(_ context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var txns []domain.Transaction
	_ = s.read(func(d *state) error {
		for _, t := range d.txns {
			if t.MemberID == memberID {
				txns = append(txns, t)
			}
		}
		return nil
	})
	// Newest first, transaction id breaks ties.
	sort.Slice(txns, func(i, j int) bool {
		if !txns[i].OccurredAt.Equal(txns[j].OccurredAt) {
			return txns[i].OccurredAt.After(txns[j].OccurredAt)
		}
		return txns[i].TransactionID > txns[j].TransactionID
	})

	if nextToken != nil && *nextToken != "" {
		lastAt, lastID, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		}
		start := sort.Search(len(txns), func(i int) bool {
			t := txns[i]
			return t.OccurredAt.Before(lastAt) || (t.OccurredAt.Equal(lastAt) && t.TransactionID < lastID)
		})
		txns = txns[start:]
	}

	var next *string
	if len(txns) > limit {
		last := txns[limit-1]
		token := pagination.EncodeCursor(last.OccurredAt, last.TransactionID)
		next = &token
		txns = txns[:limit]
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, next, nil
}
