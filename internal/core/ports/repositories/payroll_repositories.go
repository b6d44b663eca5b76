package repositories

import (
	"context"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
)

// CycleReader defines read operations for payroll cycles
type CycleReader interface {
	// FindCycleByID retrieves a cycle (without lines) by its identifier.
	FindCycleByID(ctx context.Context, cycleID string) (*domain.PayrollCycle, error)

	// FindCycleByPeriod retrieves the cycle for a YYYY-MM period.
	FindCycleByPeriod(ctx context.Context, period string) (*domain.PayrollCycle, error)

	// ListCycles retrieves cycles, newest period first.
	ListCycles(ctx context.Context, limit int, offset int) ([]domain.PayrollCycle, error)
}

// CycleWriter defines write operations for payroll cycles
type CycleWriter interface {
	// SaveCycle persists a new cycle. It returns apperrors.ErrCycleAlreadyExists
	// when a cycle for the same period exists.
	SaveCycle(ctx context.Context, cycle domain.PayrollCycle) error

	// UpdateCycle writes status and confirmation/posting fields.
	UpdateCycle(ctx context.Context, cycle domain.PayrollCycle) error
}

// CycleLockSupport defines locked reads that serialize state transitions.
type CycleLockSupport interface {
	// FindCycleByIDForUpdate selects a cycle and locks the row within the current transaction.
	FindCycleByIDForUpdate(ctx context.Context, cycleID string) (*domain.PayrollCycle, error)
}

// LineReader defines read operations for payroll lines
type LineReader interface {
	// FindLineByID retrieves a payroll line by its identifier.
	FindLineByID(ctx context.Context, lineID string) (*domain.PayrollLine, error)

	// ListLinesByCycle retrieves all lines of a cycle in a stable order.
	ListLinesByCycle(ctx context.Context, cycleID string) ([]domain.PayrollLine, error)
}

// LineWriter defines write operations for payroll lines
type LineWriter interface {
	// SaveLines bulk-inserts lines.
	SaveLines(ctx context.Context, lines []domain.PayrollLine) error

	// UpdateLine writes actualAmount, status and reason.
	UpdateLine(ctx context.Context, line domain.PayrollLine) error
}

// PayrollRepositoryFacade combines all payroll-related repository interfaces
type PayrollRepositoryFacade interface {
	CycleReader
	CycleWriter
	CycleLockSupport
	LineReader
	LineWriter
}
