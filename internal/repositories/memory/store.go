// Package memory provides an in-process implementation of every repository
// port, used by tests and by STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
)

type txCtxKey struct{}

type state struct {
	members    map[string]domain.Member
	loans      map[string]domain.Loan
	repayments []domain.Repayment
	payments   []domain.Payment
	txns       []domain.Transaction
	cycles     map[string]domain.PayrollCycle
	lines      map[string]domain.PayrollLine
	vouchers   map[string]domain.Voucher
}

func newState() state {
	return state{
		members:  make(map[string]domain.Member),
		loans:    make(map[string]domain.Loan),
		cycles:   make(map[string]domain.PayrollCycle),
		lines:    make(map[string]domain.PayrollLine),
		vouchers: make(map[string]domain.Voucher),
	}
}

// clone copies the maps and slices. Stored values are never mutated in
// place, so a shallow copy of each entry is enough.
func (s state) clone() state {
	c := state{
		members:    make(map[string]domain.Member, len(s.members)),
		loans:      make(map[string]domain.Loan, len(s.loans)),
		repayments: append([]domain.Repayment(nil), s.repayments...),
		payments:   append([]domain.Payment(nil), s.payments...),
		txns:       append([]domain.Transaction(nil), s.txns...),
		cycles:     make(map[string]domain.PayrollCycle, len(s.cycles)),
		lines:      make(map[string]domain.PayrollLine, len(s.lines)),
		vouchers:   make(map[string]domain.Voucher, len(s.vouchers)),
	}
	for k, v := range s.members {
		c.members[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	for k, v := range s.cycles {
		c.cycles[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	for k, v := range s.vouchers {
		c.vouchers[k] = v
	}
	return c
}

// Store keeps all repository data in memory. Writers are serialized: a
// transaction holds txMu for its whole duration, and a write outside a
// transaction holds it for the single call. A failed transaction restores
// the snapshot taken when it began.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:   s,
		MemberRepo:  s,
		LoanRepo:    s,
		PaymentRepo: s,
		LedgerRepo:  s,
		PayrollRepo: s,
		VoucherRepo: s,
	}
}

var (
	_ portsrepo.TransactionManager          = (*Store)(nil)
	_ portsrepo.MemberRepositoryFacade      = (*Store)(nil)
	_ portsrepo.LoanRepositoryFacade        = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.PayrollRepositoryFacade     = (*Store)(nil)
	_ portsrepo.VoucherRepositoryFacade     = (*Store)(nil)
)

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txCtxKey{}).(bool)
	return ok
}

// WithinTransaction runs fn with all writes applied atomically. A nested call
// joins the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// write runs fn with the data lock held, taking txMu too when ctx carries no transaction.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(fn func(d *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.data)
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
