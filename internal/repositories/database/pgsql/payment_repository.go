package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/coop_payroll_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	p := mapping.ToModelPayment(payment)
	query := `
		INSERT INTO payments (payment_id, member_id, loan_id, payment_type, status, amount, paid_at, reference,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		p.PaymentID,
		p.MemberID,
		p.LoanID,
		p.Type,
		p.Status,
		p.Amount,
		p.PaidAt,
		p.Reference,
		p.CreatedAt,
		p.CreatedBy,
		p.LastUpdatedAt,
		p.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

func (r *PgxPaymentRepository) SumDirectLoanRepaymentsByMember(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT member_id, SUM(amount)
		FROM payments
		WHERE payment_type = $1 AND status = $2 AND paid_at >= $3 AND paid_at < $4
		GROUP BY member_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query,
		string(domain.PaymentLoanRepayment),
		string(domain.PaymentApproved),
		from,
		to,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum direct loan repayments: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var memberID string
		var total decimal.Decimal
		if err := rows.Scan(&memberID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan repayment sum row: %w", err)
		}
		sums[memberID] = total
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating repayment sum rows: %w", rows.Err())
	}
	return sums, nil
}
