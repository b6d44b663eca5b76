package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// SumDirectLoanRepaymentsByMember sums APPROVED LOAN_REPAYMENT payments paid in [from, to), keyed by member.
	SumDirectLoanRepaymentsByMember(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a payment.
	SavePayment(ctx context.Context, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
