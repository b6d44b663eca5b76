package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

func (s *Store) SaveCycle(ctx context.Context, cycle domain.PayrollCycle) error {
	return s.write(ctx, func(d *state) error {
		for _, c := range d.cycles {
			if c.Period == cycle.Period {
				return fmt.Errorf("period %s: %w", cycle.Period, apperrors.ErrCycleAlreadyExists)
			}
		}
		cycle.Lines = nil
		d.cycles[cycle.CycleID] = cycle
		return nil
	})
}

func (s *Store) FindCycleByID(_ context.Context, cycleID string) (*domain.PayrollCycle, error) {
	var out *domain.PayrollCycle
	err := s.read(func(d *state) error {
		c, ok := d.cycles[cycleID]
		if !ok {
			return apperrors.NewNotFoundError("payroll cycle " + cycleID)
		}
		out = &c
		return nil
	})
	return out, err
}

func (s *Store) FindCycleByIDForUpdate(ctx context.Context, cycleID string) (*domain.PayrollCycle, error) {
	return s.FindCycleByID(ctx, cycleID)
}

func (s *Store) FindCycleByPeriod(_ context.Context, period string) (*domain.PayrollCycle, error) {
	var out *domain.PayrollCycle
	err := s.read(func(d *state) error {
		for _, c := range d.cycles {
			if c.Period == period {
				c := c
				out = &c
				return nil
			}
		}
		return apperrors.NewNotFoundError("payroll cycle " + period)
	})
	return out, err
}

func (s *Store) ListCycles(_ context.Context, limit int, offset int) ([]domain.PayrollCycle, error) {
	var cycles []domain.PayrollCycle
	_ = s.read(func(d *state) error {
		for _, c := range d.cycles {
			cycles = append(cycles, c)
		}
		return nil
	})
	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Period > cycles[j].Period })
	return page(cycles, limit, offset), nil
}

func (s *Store) UpdateCycle(ctx context.Context, cycle domain.PayrollCycle) error {
	return s.write(ctx, func(d *state) error {
		c, ok := d.cycles[cycle.CycleID]
		if !ok {
			return apperrors.NewNotFoundError("payroll cycle " + cycle.CycleID)
		}
		c.Status = cycle.Status
		c.ConfirmedBy = cycle.ConfirmedBy
		c.ConfirmedAt = cycle.ConfirmedAt
		c.PostedBy = cycle.PostedBy
		c.PostedAt = cycle.PostedAt
		c.LastUpdatedAt = cycle.LastUpdatedAt
		c.LastUpdatedBy = cycle.LastUpdatedBy
		d.cycles[cycle.CycleID] = c
		return nil
	})
}

func (s *Store) FindLineByID(_ context.Context, lineID string) (*domain.PayrollLine, error) {
	var out *domain.PayrollLine
	err := s.read(func(d *state) error {
		l, ok := d.lines[lineID]
		if !ok {
			return apperrors.NewNotFoundError("payroll line " + lineID)
		}
		out = &l
		return nil
	})
	return out, err
}

// ListLinesByCycle orders lines like the SQL store: member, SAVINGS before LOAN_REPAYMENT, then id.
func (s *Store) ListLinesByCycle(_ context.Context, cycleID string) ([]domain.PayrollLine, error) {
	lines := []domain.PayrollLine{}
	_ = s.read(func(d *state) error {
		for _, l := range d.lines {
			if l.CycleID == cycleID {
				lines = append(lines, l)
			}
		}
		return nil
	})
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.MemberID != b.MemberID {
			return a.MemberID < b.MemberID
		}
		if a.LineType != b.LineType {
			return a.LineType > b.LineType
		}
		return a.LineID < b.LineID
	})
	return lines, nil
}

func (s *Store) SaveLines(ctx context.Context, lines []domain.PayrollLine) error {
	return s.write(ctx, func(d *state) error {
		for _, l := range lines {
			if _, ok := d.cycles[l.CycleID]; !ok {
				return apperrors.NewNotFoundError("payroll cycle " + l.CycleID)
			}
			if _, ok := d.lines[l.LineID]; ok {
				return fmt.Errorf("payroll line %s: %w", l.LineID, apperrors.ErrDuplicate)
			}
		}
		for _, l := range lines {
			d.lines[l.LineID] = l
		}
		return nil
	})
}

func (s *Store) UpdateLine(ctx context.Context, line domain.PayrollLine) error {
	return s.write(ctx, func(d *state) error {
		l, ok := d.lines[line.LineID]
		if !ok {
			return apperrors.NewNotFoundError("payroll line " + line.LineID)
		}
		l.ActualAmount = line.ActualAmount
		l.Status = line.Status
		l.Reason = line.Reason
		l.LastUpdatedAt = line.LastUpdatedAt
		l.LastUpdatedBy = line.LastUpdatedBy
		d.lines[line.LineID] = l
		return nil
	})
}
