package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/coop_payroll_app/internal/models"
	"github.com/SscSPs/coop_payroll_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const loanColumns = `loan_id, member_id, principal, interest_rate, duration_months, total_repayable,
	monthly_payment, balance, status, approved_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (models.Loan, error) {
	var l models.Loan
	err := row.Scan(
		&l.LoanID,
		&l.MemberID,
		&l.Principal,
		&l.InterestRate,
		&l.DurationMonths,
		&l.TotalRepayable,
		&l.MonthlyPayment,
		&l.Balance,
		&l.Status,
		&l.ApprovedAt,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	l := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		l.LoanID,
		l.MemberID,
		l.Principal,
		l.InterestRate,
		l.DurationMonths,
		l.TotalRepayable,
		l.MonthlyPayment,
		l.Balance,
		l.Status,
		l.ApprovedAt,
		l.CreatedAt,
		l.CreatedBy,
		l.LastUpdatedAt,
		l.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save loan: %w", err)
	}
	return nil
}

func (r *PgxLoanRepository) findLoan(ctx context.Context, loanID string, forUpdate bool) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	l, err := scanLoan(r.conn(ctx).QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("loan " + loanID)
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}
	d := mapping.ToDomainLoan(l)
	return &d, nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.findLoan(ctx, loanID, false)
}

// FindLoanByIDForUpdate must be called with a transactional context.
func (r *PgxLoanRepository) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.findLoan(ctx, loanID, true)
}

func (r *PgxLoanRepository) queryLoans(ctx context.Context, query string, args ...any) ([]domain.Loan, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	modelLoans := []models.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", err)
		}
		modelLoans = append(modelLoans, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", rows.Err())
	}
	return mapping.ToDomainLoanSlice(modelLoans), nil
}

func (r *PgxLoanRepository) ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error) {
	return r.queryLoans(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE member_id = $1
		ORDER BY created_at DESC, loan_id;`, memberID)
}

func (r *PgxLoanRepository) ListRepayableLoans(ctx context.Context) ([]domain.Loan, error) {
	return r.queryLoans(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE status = $1 AND balance > 0
		ORDER BY member_id, created_at, loan_id;`, string(domain.LoanApproved))
}

func (r *PgxLoanRepository) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	query := `
		UPDATE loans
		SET status = $1, balance = $2, approved_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE loan_id = $6;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		string(loan.Status),
		loan.Balance,
		loan.ApprovedAt,
		loan.LastUpdatedAt,
		loan.LastUpdatedBy,
		loan.LoanID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan %s: %w", loan.LoanID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("loan " + loan.LoanID)
	}
	return nil
}

func (r *PgxLoanRepository) SaveRepayment(ctx context.Context, repayment domain.Repayment) error {
	m := mapping.ToModelRepayment(repayment)
	query := `
		INSERT INTO repayments (repayment_id, loan_id, member_id, amount, paid_at, source, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.RepaymentID,
		m.LoanID,
		m.MemberID,
		m.Amount,
		m.PaidAt,
		m.Source,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save repayment for loan %s: %w", m.LoanID, err)
	}
	return nil
}

func (r *PgxLoanRepository) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	query := `
		SELECT repayment_id, loan_id, member_id, amount, paid_at, source, created_by
		FROM repayments
		WHERE loan_id = $1
		ORDER BY paid_at, repayment_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query repayments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	repayments := []domain.Repayment{}
	for rows.Next() {
		var m models.Repayment
		if err := rows.Scan(&m.RepaymentID, &m.LoanID, &m.MemberID, &m.Amount, &m.PaidAt, &m.Source, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan repayment row: %w", err)
		}
		repayments = append(repayments, mapping.ToDomainRepayment(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating repayment rows: %w", rows.Err())
	}
	return repayments, nil
}
