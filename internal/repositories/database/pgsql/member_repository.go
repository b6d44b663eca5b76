package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	"github.com/SscSPs/coop_payroll_app/internal/models"
	"github.com/SscSPs/coop_payroll_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `member_id, full_name, email, staff_number, role, status, registered_at,
	monthly_contribution, voucher_enabled, balance, total_contributions, loan_balance,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.FullName,
		&m.Email,
		&m.StaffNumber,
		&m.Role,
		&m.Status,
		&m.RegisteredAt,
		&m.MonthlyContribution,
		&m.VoucherEnabled,
		&m.Balance,
		&m.TotalContributions,
		&m.LoanBalance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.MemberID,
		m.FullName,
		m.Email,
		m.StaffNumber,
		m.Role,
		m.Status,
		m.RegisteredAt,
		m.MonthlyContribution,
		m.VoucherEnabled,
		m.Balance,
		m.TotalContributions,
		m.LoanBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("member with email %s: %w", m.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save member: %w", err)
	}
	return nil
}

func (r *PgxMemberRepository) findMember(ctx context.Context, memberID string, forUpdate bool) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanMember(r.conn(ctx).QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("member " + memberID)
		}
		return nil, fmt.Errorf("failed to find member by ID %s: %w", memberID, err)
	}
	d := mapping.ToDomainMember(m)
	return &d, nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return r.findMember(ctx, memberID, false)
}

// FindMemberByIDForUpdate must be called with a transactional context.
func (r *PgxMemberRepository) FindMemberByIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error) {
	return r.findMember(ctx, memberID, true)
}

func (r *PgxMemberRepository) queryMembers(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	modelMembers := []models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		modelMembers = append(modelMembers, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", rows.Err())
	}
	return mapping.ToDomainMemberSlice(modelMembers), nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, status *domain.MemberStatus, limit int, offset int) ([]domain.Member, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if status != nil {
		return r.queryMembers(ctx, `
			SELECT `+memberColumns+` FROM members
			WHERE status = $1
			ORDER BY registered_at DESC, member_id
			LIMIT $2 OFFSET $3;`, string(*status), limit, offset)
	}
	return r.queryMembers(ctx, `
		SELECT `+memberColumns+` FROM members
		ORDER BY registered_at DESC, member_id
		LIMIT $1 OFFSET $2;`, limit, offset)
}

func (r *PgxMemberRepository) ListPayrollEligibleMembers(ctx context.Context) ([]domain.Member, error) {
	return r.queryMembers(ctx, `
		SELECT `+memberColumns+` FROM members
		WHERE role = $1 AND status = $2 AND voucher_enabled AND monthly_contribution > 0
		ORDER BY member_id;`, string(domain.RoleMember), string(domain.MemberActive))
}

func (r *PgxMemberRepository) UpdateMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus, userID string, now time.Time) error {
	query := `
		UPDATE members
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE member_id = $4;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query, string(status), now, userID, memberID)
	if err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("member " + memberID)
	}
	return nil
}

func (r *PgxMemberRepository) UpdateMemberLedger(ctx context.Context, member domain.Member) error {
	query := `
		UPDATE members
		SET balance = $1, total_contributions = $2, loan_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE member_id = $6;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		member.Balance,
		member.TotalContributions,
		member.LoanBalance,
		member.LastUpdatedAt,
		member.LastUpdatedBy,
		member.MemberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update member ledger for %s: %w", member.MemberID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("member " + member.MemberID)
	}
	return nil
}

func (r *PgxMemberRepository) ListLoanBalanceDrift(ctx context.Context) ([]domain.LoanBalanceDrift, error) {
	query := `
		SELECT m.member_id, m.loan_balance, COALESCE(SUM(l.balance), 0) AS actual
		FROM members m
		LEFT JOIN loans l ON l.member_id = m.member_id AND l.status = $1
		GROUP BY m.member_id, m.loan_balance
		HAVING m.loan_balance <> COALESCE(SUM(l.balance), 0)
		ORDER BY m.member_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, string(domain.LoanApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to query loan balance drift: %w", err)
	}
	defer rows.Close()

	drift := []domain.LoanBalanceDrift{}
	for rows.Next() {
		var d domain.LoanBalanceDrift
		if err := rows.Scan(&d.MemberID, &d.Cached, &d.Actual); err != nil {
			return nil, fmt.Errorf("failed to scan loan balance drift row: %w", err)
		}
		drift = append(drift, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating loan balance drift rows: %w", rows.Err())
	}
	return drift, nil
}
