package services

import (
	"context"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/dto"
)

// PayrollReaderSvc defines read operations for payroll cycles
type PayrollReaderSvc interface {
	// GetCycle retrieves a cycle together with its lines.
	GetCycle(ctx context.Context, cycleID string) (*domain.PayrollCycle, error)

	// GetCycleByPeriod retrieves the cycle of a YYYY-MM period together with its lines.
	GetCycleByPeriod(ctx context.Context, period string) (*domain.PayrollCycle, error)

	// ListCycles retrieves cycles (without lines), newest period first.
	ListCycles(ctx context.Context, limit int, offset int) ([]domain.PayrollCycle, error)
}

// PayrollCycleSvc defines the payroll cycle state machine
type PayrollCycleSvc interface {
	// GenerateDraft creates the DRAFT cycle for period with its SAVINGS and LOAN_REPAYMENT lines.
	GenerateDraft(ctx context.Context, period string, userID string) (*domain.PayrollCycle, error)

	// EditLine changes a line's actualAmount, status or reason while its cycle is DRAFT.
	EditLine(ctx context.Context, lineID string, req dto.EditLineRequest, userID string) (*domain.PayrollLine, error)

	// ConfirmFinance moves a DRAFT cycle to FINANCE_CONFIRMED.
	ConfirmFinance(ctx context.Context, cycleID string, userID string) (*domain.PayrollCycle, error)

	// PostCycle applies every PENDING line to the ledgers and moves the cycle to POSTED, atomically.
	PostCycle(ctx context.Context, cycleID string, userID string) (*domain.PayrollCycle, error)

	// AutoPostIfDue runs draft, confirm and post for the current period on a due day.
	AutoPostIfDue(ctx context.Context, now time.Time) (*domain.AutoPostResult, error)
}

// PayrollSvcFacade combines all payroll service interfaces
type PayrollSvcFacade interface {
	PayrollReaderSvc
	PayrollCycleSvc
}
