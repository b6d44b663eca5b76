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

const cycleColumns = `cycle_id, period, status, confirmed_by, confirmed_at, posted_by, posted_at,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, cycle_id, member_id, loan_id, line_type, expected_amount, actual_amount,
	status, reason, created_at, created_by, last_updated_at, last_updated_by`

type PgxPayrollRepository struct {
	BaseRepository
}

func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxPayrollRepository implements portsrepo.PayrollRepositoryFacade
var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

func scanCycle(row pgx.Row) (models.PayrollCycle, error) {
	var c models.PayrollCycle
	err := row.Scan(
		&c.CycleID,
		&c.Period,
		&c.Status,
		&c.ConfirmedBy,
		&c.ConfirmedAt,
		&c.PostedBy,
		&c.PostedAt,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	return c, err
}

func scanLine(row pgx.Row) (models.PayrollLine, error) {
	var l models.PayrollLine
	err := row.Scan(
		&l.LineID,
		&l.CycleID,
		&l.MemberID,
		&l.LoanID,
		&l.LineType,
		&l.ExpectedAmount,
		&l.ActualAmount,
		&l.Status,
		&l.Reason,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	return l, err
}

// SaveCycle relies on UNIQUE(period) so that concurrent draft generation
// for one period yields exactly one cycle.
func (r *PgxPayrollRepository) SaveCycle(ctx context.Context, cycle domain.PayrollCycle) error {
	c := mapping.ToModelPayrollCycle(cycle)
	query := `
		INSERT INTO payroll_cycles (` + cycleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.conn(ctx).Exec(ctx, query,
		c.CycleID,
		c.Period,
		c.Status,
		c.ConfirmedBy,
		c.ConfirmedAt,
		c.PostedBy,
		c.PostedAt,
		c.CreatedAt,
		c.CreatedBy,
		c.LastUpdatedAt,
		c.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("period %s: %w", c.Period, apperrors.ErrCycleAlreadyExists)
		}
		return fmt.Errorf("failed to save payroll cycle: %w", err)
	}
	return nil
}

func (r *PgxPayrollRepository) findCycle(ctx context.Context, where string, arg string, forUpdate bool) (*domain.PayrollCycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM payroll_cycles WHERE ` + where
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCycle(r.conn(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payroll cycle " + arg)
		}
		return nil, fmt.Errorf("failed to find payroll cycle %s: %w", arg, err)
	}
	d := mapping.ToDomainPayrollCycle(c)
	return &d, nil
}

func (r *PgxPayrollRepository) FindCycleByID(ctx context.Context, cycleID string) (*domain.PayrollCycle, error) {
	return r.findCycle(ctx, "cycle_id = $1", cycleID, false)
}

func (r *PgxPayrollRepository) FindCycleByPeriod(ctx context.Context, period string) (*domain.PayrollCycle, error) {
	return r.findCycle(ctx, "period = $1", period, false)
}

// FindCycleByIDForUpdate must be called with a transactional context.
func (r *PgxPayrollRepository) FindCycleByIDForUpdate(ctx context.Context, cycleID string) (*domain.PayrollCycle, error) {
	return r.findCycle(ctx, "cycle_id = $1", cycleID, true)
}

func (r *PgxPayrollRepository) ListCycles(ctx context.Context, limit int, offset int) ([]domain.PayrollCycle, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + cycleColumns + ` FROM payroll_cycles
		ORDER BY period DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.conn(ctx).Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll cycles: %w", err)
	}
	defer rows.Close()

	cycles := []domain.PayrollCycle{}
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll cycle row: %w", err)
		}
		cycles = append(cycles, mapping.ToDomainPayrollCycle(c))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payroll cycle rows: %w", rows.Err())
	}
	return cycles, nil
}

func (r *PgxPayrollRepository) UpdateCycle(ctx context.Context, cycle domain.PayrollCycle) error {
	c := mapping.ToModelPayrollCycle(cycle)
	query := `
		UPDATE payroll_cycles
		SET status = $1, confirmed_by = $2, confirmed_at = $3, posted_by = $4, posted_at = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE cycle_id = $8;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		c.Status,
		c.ConfirmedBy,
		c.ConfirmedAt,
		c.PostedBy,
		c.PostedAt,
		c.LastUpdatedAt,
		c.LastUpdatedBy,
		c.CycleID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll cycle %s: %w", c.CycleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payroll cycle " + c.CycleID)
	}
	return nil
}

func (r *PgxPayrollRepository) FindLineByID(ctx context.Context, lineID string) (*domain.PayrollLine, error) {
	query := `SELECT ` + lineColumns + ` FROM payroll_lines WHERE line_id = $1;`
	l, err := scanLine(r.conn(ctx).QueryRow(ctx, query, lineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payroll line " + lineID)
		}
		return nil, fmt.Errorf("failed to find payroll line %s: %w", lineID, err)
	}
	d := mapping.ToDomainPayrollLine(l)
	return &d, nil
}

func (r *PgxPayrollRepository) ListLinesByCycle(ctx context.Context, cycleID string) ([]domain.PayrollLine, error) {
	query := `
		SELECT ` + lineColumns + ` FROM payroll_lines
		WHERE cycle_id = $1
		ORDER BY member_id, line_type DESC, line_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for cycle %s: %w", cycleID, err)
	}
	defer rows.Close()

	lines := []models.PayrollLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll line row for cycle %s: %w", cycleID, err)
		}
		lines = append(lines, l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payroll line rows for cycle %s: %w", cycleID, rows.Err())
	}
	return mapping.ToDomainPayrollLineSlice(lines), nil
}

// SaveLines sends every insert in one batch.
func (r *PgxPayrollRepository) SaveLines(ctx context.Context, lines []domain.PayrollLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO payroll_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		l := mapping.ToModelPayrollLine(line)
		batch.Queue(query,
			l.LineID,
			l.CycleID,
			l.MemberID,
			l.LoanID,
			l.LineType,
			l.ExpectedAmount,
			l.ActualAmount,
			l.Status,
			l.Reason,
			l.CreatedAt,
			l.CreatedBy,
			l.LastUpdatedAt,
			l.LastUpdatedBy,
		)
	}

	br := r.conn(ctx).SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute payroll line batch: %w", err)
	}
	return nil
}

func (r *PgxPayrollRepository) UpdateLine(ctx context.Context, line domain.PayrollLine) error {
	l := mapping.ToModelPayrollLine(line)
	query := `
		UPDATE payroll_lines
		SET actual_amount = $1, status = $2, reason = $3, last_updated_at = $4, last_updated_by = $5
		WHERE line_id = $6;
	`
	cmdTag, err := r.conn(ctx).Exec(ctx, query,
		l.ActualAmount,
		l.Status,
		l.Reason,
		l.LastUpdatedAt,
		l.LastUpdatedBy,
		l.LineID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll line %s: %w", l.LineID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payroll line " + l.LineID)
	}
	return nil
}
