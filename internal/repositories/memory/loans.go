package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveLoan(ctx context.Context, loan domain.Loan) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.loans[loan.LoanID]; ok {
			return fmt.Errorf("loan %s: %w", loan.LoanID, apperrors.ErrDuplicate)
		}
		d.loans[loan.LoanID] = loan
		return nil
	})
}

func (s *Store) FindLoanByID(_ context.Context, loanID string) (*domain.Loan, error) {
	var out *domain.Loan
	err := s.read(func(d *state) error {
		l, ok := d.loans[loanID]
		if !ok {
			return apperrors.NewNotFoundError("loan " + loanID)
		}
		out = &l
		return nil
	})
	return out, err
}

func (s *Store) FindLoanByIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return s.FindLoanByID(ctx, loanID)
}

func (s *Store) ListLoansByMember(_ context.Context, memberID string) ([]domain.Loan, error) {
	loans := []domain.Loan{}
	_ = s.read(func(d *state) error {
		for _, l := range d.loans {
			if l.MemberID == memberID {
				loans = append(loans, l)
			}
		}
		return nil
	})
	sort.Slice(loans, func(i, j int) bool {
		if !loans[i].CreatedAt.Equal(loans[j].CreatedAt) {
			return loans[i].CreatedAt.After(loans[j].CreatedAt)
		}
		return loans[i].LoanID < loans[j].LoanID
	})
	return loans, nil
}

func (s *Store) ListRepayableLoans(_ context.Context) ([]domain.Loan, error) {
	loans := []domain.Loan{}
	_ = s.read(func(d *state) error {
		for _, l := range d.loans {
			if l.IsRepayable() {
				loans = append(loans, l)
			}
		}
		return nil
	})
	sort.Slice(loans, func(i, j int) bool {
		a, b := loans[i], loans[j]
		if a.MemberID != b.MemberID {
			return a.MemberID < b.MemberID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.LoanID < b.LoanID
	})
	return loans, nil
}

func (s *Store) UpdateLoan(ctx context.Context, loan domain.Loan) error {
	return s.write(ctx, func(d *state) error {
		l, ok := d.loans[loan.LoanID]
		if !ok {
			return apperrors.NewNotFoundError("loan " + loan.LoanID)
		}
		l.Status = loan.Status
		l.Balance = loan.Balance
		l.ApprovedAt = loan.ApprovedAt
		l.LastUpdatedAt = loan.LastUpdatedAt
		l.LastUpdatedBy = loan.LastUpdatedBy
		d.loans[loan.LoanID] = l
		return nil
	})
}

func (s *Store) SaveRepayment(ctx context.Context, repayment domain.Repayment) error {
	return s.write(ctx, func(d *state) error {
		d.repayments = append(d.repayments, repayment)
		return nil
	})
}

func (s *Store) ListRepaymentsByLoan(_ context.Context, loanID string) ([]domain.Repayment, error) {
	repayments := []domain.Repayment{}
	_ = s.read(func(d *state) error {
		for _, r := range d.repayments {
			if r.LoanID == loanID {
				repayments = append(repayments, r)
			}
		}
		return nil
	})
	sort.SliceStable(repayments, func(i, j int) bool { return repayments[i].PaidAt.Before(repayments[j].PaidAt) })
	return repayments, nil
}

func (s *Store) SavePayment(ctx context.Context, payment domain.Payment) error {
	return s.write(ctx, func(d *state) error {
		d.payments = append(d.payments, payment)
		return nil
	})
}

func (s *Store) SumDirectLoanRepaymentsByMember(_ context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	_ = s.read(func(d *state) error {
		for _, p := range d.payments {
			if p.Type != domain.PaymentLoanRepayment || p.Status != domain.PaymentApproved {
				continue
			}
			if p.PaidAt.Before(from) || !p.PaidAt.Before(to) {
				continue
			}
			sums[p.MemberID] = sums[p.MemberID].Add(p.Amount)
		}
		return nil
	})
	return sums, nil
}
