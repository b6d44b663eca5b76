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

const voucherColumns = `voucher_id, member_id, period, classification, fee, contribution, amount, status, sent_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (models.Voucher, error) {
	var v models.Voucher
	err := row.Scan(
		&v.VoucherID,
		&v.MemberID,
		&v.Period,
		&v.Classification,
		&v.Fee,
		&v.Contribution,
		&v.Amount,
		&v.Status,
		&v.SentAt,
		&v.CreatedAt,
		&v.CreatedBy,
		&v.LastUpdatedAt,
		&v.LastUpdatedBy,
	)
	return v, err
}

func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	v := mapping.ToModelVoucher(voucher)
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (member_id, period) DO NOTHING;
	`
	// DO NOTHING keeps the surrounding transaction usable after a duplicate.
	tag, err := r.conn(ctx).Exec(ctx, query,
		v.VoucherID,
		v.MemberID,
		v.Period,
		v.Classification,
		v.Fee,
		v.Contribution,
		v.Amount,
		v.Status,
		v.SentAt,
		v.CreatedAt,
		v.CreatedBy,
		v.LastUpdatedAt,
		v.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("voucher for member %s in %s: %w", v.MemberID, v.Period, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save voucher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("voucher for member %s in %s: %w", v.MemberID, v.Period, apperrors.ErrDuplicate)
	}
	return nil
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`
	v, err := scanVoucher(r.conn(ctx).QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("voucher " + voucherID)
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	d := mapping.ToDomainVoucher(v)
	return &d, nil
}

func (r *PgxVoucherRepository) ListVouchersByPeriod(ctx context.Context, period string) ([]domain.Voucher, error) {
	query := `
		SELECT ` + voucherColumns + ` FROM vouchers
		WHERE period = $1
		ORDER BY member_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to query vouchers for %s: %w", period, err)
	}
	defer rows.Close()

	vouchers := []domain.Voucher{}
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, mapping.ToDomainVoucher(v))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating voucher rows: %w", rows.Err())
	}
	return vouchers, nil
}

func (r *PgxVoucherRepository) UpdateVoucherStatus(ctx context.Context, voucherID string, status domain.VoucherStatus, userID string, now time.Time) error {
	query := `
		UPDATE vouchers
		SET status = $1,
			sent_at = CASE WHEN $1 = 'SENT' THEN $2 ELSE sent_at END,
			last_updated_at = $2, last_updated_by = $3
		WHERE voucher_id = $4;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query, string(status), now, userID, voucherID)
	if err != nil {
		return fmt.Errorf("failed to update voucher %s: %w", voucherID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("voucher " + voucherID)
	}
	return nil
}

func (r *PgxVoucherRepository) RemoveOpenVouchersForMember(ctx context.Context, memberID string, userID string, now time.Time) (int64, error) {
	query := `
		UPDATE vouchers
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE member_id = $4 AND status = $5;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		string(domain.VoucherRemoved), now, userID, memberID, string(domain.VoucherGenerated))
	if err != nil {
		return 0, fmt.Errorf("failed to remove vouchers for member %s: %w", memberID, err)
	}
	return cmdTag.RowsAffected(), nil
}
