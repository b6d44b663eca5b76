package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/google/uuid"
)

type voucherService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	voucherRepo portsrepo.VoucherRepositoryFacade
	memberRepo  portsrepo.MemberReader
	fees        domain.FeeSchedule
}

// VoucherServiceOption is a functional option for configuring the voucher service
type VoucherServiceOption func(*voucherService)

// WithVoucherClock replaces time.Now for audit timestamps.
func WithVoucherClock(clock func() time.Time) VoucherServiceOption {
	return func(s *voucherService) {
		s.clock = clock
	}
}

// NewVoucherService creates the voucher service priced by fees.
func NewVoucherService(repos portsrepo.RepositoryProvider, fees domain.FeeSchedule, options ...VoucherServiceOption) portssvc.VoucherSvcFacade {
	if fees.CutoffDay <= 0 {
		fees.CutoffDay = domain.DefaultVoucherCutoffDay
	}
	svc := &voucherService{
		txManager:   repos.TxManager,
		voucherRepo: repos.VoucherRepo,
		memberRepo:  repos.MemberRepo,
		fees:        fees,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func (s *voucherService) Classify(registeredAt time.Time, period string) (domain.Classification, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return domain.Classification{}, err
	}
	return domain.ClassifyVoucher(registeredAt, period, s.fees), nil
}

func (s *voucherService) IssueVoucher(ctx context.Context, member domain.Member, period string, userID string) (*domain.Voucher, error) {
	c, err := s.Classify(member.RegisteredAt, period)
	if err != nil {
		return nil, err
	}
	if period < c.FirstVoucherPeriod {
		return nil, fmt.Errorf("%w: member %s gets vouchers from %s", apperrors.ErrValidation, member.MemberID, c.FirstVoucherPeriod)
	}

	voucher := domain.Voucher{
		VoucherID:      uuid.NewString(),
		MemberID:       member.MemberID,
		Period:         period,
		Classification: c.Class,
		Fee:            c.Fee,
		Contribution:   member.MonthlyContribution,
		Amount:         member.MonthlyContribution.Add(c.Fee),
		Status:         domain.VoucherGenerated,
		AuditFields:    auditFields(userID, s.Now()),
	}
	if err := s.voucherRepo.SaveVoucher(ctx, voucher); err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Voucher issued",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("member_id", member.MemberID),
		slog.String("period", period),
		slog.String("class", string(c.Class)))
	return &voucher, nil
}

func (s *voucherService) GenerateVouchers(ctx context.Context, period string, userID string) ([]domain.Voucher, int, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, 0, err
	}

	var created []domain.Voucher
	var existing int
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		created, existing = nil, 0

		members, err := s.memberRepo.ListPayrollEligibleMembers(ctx)
		if err != nil {
			return fmt.Errorf("failed to load eligible members: %w", err)
		}
		issued, err := s.voucherRepo.ListVouchersByPeriod(ctx, period)
		if err != nil {
			return fmt.Errorf("failed to load vouchers for %s: %w", period, err)
		}
		has := make(map[string]bool, len(issued))
		for _, v := range issued {
			if v.Status != domain.VoucherRemoved {
				has[v.MemberID] = true
			}
		}

		for _, m := range members {
			if domain.FirstVoucherPeriodWithCutoff(m.RegisteredAt, s.fees.CutoffDay) > period {
				continue
			}
			if has[m.MemberID] {
				existing++
				continue
			}
			v, err := s.IssueVoucher(ctx, m, period, userID)
			if errors.Is(err, apperrors.ErrDuplicate) {
				existing++
				continue
			}
			if err != nil {
				return err
			}
			created = append(created, *v)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to generate vouchers", slog.String("period", period))
		return nil, 0, err
	}

	s.LogInfo(ctx, "Vouchers generated",
		slog.String("period", period),
		slog.Int("created", len(created)),
		slog.Int("existing", existing))
	return created, existing, nil
}

func (s *voucherService) MarkSent(ctx context.Context, voucherID string, userID string) (*domain.Voucher, error) {
	var voucher *domain.Voucher
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		voucher, err = s.voucherRepo.FindVoucherByID(ctx, voucherID)
		if err != nil {
			return err
		}
		if voucher.Status != domain.VoucherGenerated {
			return fmt.Errorf("%w: voucher %s is %s", apperrors.ErrConflict, voucherID, voucher.Status)
		}
		now := s.Now()
		if err := s.voucherRepo.UpdateVoucherStatus(ctx, voucherID, domain.VoucherSent, userID, now); err != nil {
			return err
		}
		voucher.Status = domain.VoucherSent
		voucher.SentAt = &now
		voucher.LastUpdatedAt = now
		voucher.LastUpdatedBy = userID
		return nil
	})
	if err != nil {
		s.LogWarn(ctx, err, "Voucher not marked sent", slog.String("voucher_id", voucherID))
		return nil, err
	}
	s.LogInfo(ctx, "Voucher marked sent", slog.String("voucher_id", voucherID))
	return voucher, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, period string) ([]domain.Voucher, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return s.voucherRepo.ListVouchersByPeriod(ctx, period)
}
