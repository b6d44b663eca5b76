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

func (s *Store) SaveMember(ctx context.Context, member domain.Member) error {
	return s.write(ctx, func(d *state) error {
		if _, ok := d.members[member.MemberID]; ok {
			return fmt.Errorf("member %s: %w", member.MemberID, apperrors.ErrDuplicate)
		}
		for _, m := range d.members {
			if member.Email != "" && m.Email == member.Email {
				return fmt.Errorf("member with email %s: %w", member.Email, apperrors.ErrDuplicate)
			}
		}
		d.members[member.MemberID] = member
		return nil
	})
}

func (s *Store) FindMemberByID(_ context.Context, memberID string) (*domain.Member, error) {
	var out *domain.Member
	err := s.read(func(d *state) error {
		m, ok := d.members[memberID]
		if !ok {
			return apperrors.NewNotFoundError("member " + memberID)
		}
		out = &m
		return nil
	})
	return out, err
}

// FindMemberByIDForUpdate needs no row lock: the enclosing transaction already serializes writers.
func (s *Store) FindMemberByIDForUpdate(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.FindMemberByID(ctx, memberID)
}

func (s *Store) ListMembers(_ context.Context, status *domain.MemberStatus, limit int, offset int) ([]domain.Member, error) {
	var members []domain.Member
	_ = s.read(func(d *state) error {
		for _, m := range d.members {
			if status == nil || m.Status == *status {
				members = append(members, m)
			}
		}
		return nil
	})
	sort.Slice(members, func(i, j int) bool {
		if !members[i].RegisteredAt.Equal(members[j].RegisteredAt) {
			return members[i].RegisteredAt.After(members[j].RegisteredAt)
		}
		return members[i].MemberID < members[j].MemberID
	})
	return page(members, limit, offset), nil
}

func (s *Store) ListPayrollEligibleMembers(_ context.Context) ([]domain.Member, error) {
	members := []domain.Member{}
	_ = s.read(func(d *state) error {
		for _, m := range d.members {
			if m.IsPayrollEligible() {
				members = append(members, m)
			}
		}
		return nil
	})
	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })
	return members, nil
}

func (s *Store) UpdateMemberStatus(ctx context.Context, memberID string, status domain.MemberStatus, userID string, now time.Time) error {
	return s.write(ctx, func(d *state) error {
		m, ok := d.members[memberID]
		if !ok {
			return apperrors.NewNotFoundError("member " + memberID)
		}
		m.Status = status
		m.LastUpdatedAt = now
		m.LastUpdatedBy = userID
		d.members[memberID] = m
		return nil
	})
}

func (s *Store) UpdateMemberLedger(ctx context.Context, member domain.Member) error {
	return s.write(ctx, func(d *state) error {
		m, ok := d.members[member.MemberID]
		if !ok {
			return apperrors.NewNotFoundError("member " + member.MemberID)
		}
		m.Balance = member.Balance
		m.TotalContributions = member.TotalContributions
		m.LoanBalance = member.LoanBalance
		m.LastUpdatedAt = member.LastUpdatedAt
		m.LastUpdatedBy = member.LastUpdatedBy
		d.members[member.MemberID] = m
		return nil
	})
}

func (s *Store) ListLoanBalanceDrift(_ context.Context) ([]domain.LoanBalanceDrift, error) {
	drift := []domain.LoanBalanceDrift{}
	_ = s.read(func(d *state) error {
		actual := make(map[string]decimal.Decimal)
		for _, l := range d.loans {
			if l.Status == domain.LoanApproved {
				actual[l.MemberID] = actual[l.MemberID].Add(l.Balance)
			}
		}
		for id, m := range d.members {
			if !m.LoanBalance.Equal(actual[id]) {
				drift = append(drift, domain.LoanBalanceDrift{MemberID: id, Cached: m.LoanBalance, Actual: actual[id]})
			}
		}
		return nil
	})
	sort.Slice(drift, func(i, j int) bool { return drift[i].MemberID < drift[j].MemberID })
	return drift, nil
}
