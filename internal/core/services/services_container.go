package services

import (
	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_payroll_app/internal/core/ports/services"
	"github.com/SscSPs/coop_payroll_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Voucher service first since member registration issues vouchers through it
	container.Voucher = NewVoucherService(repos, domain.FeeSchedule{
		NewMemberFee: cfg.NewMemberFee,
		RecurringFee: cfg.RecurringFee,
		CutoffDay:    cfg.VoucherCutoffDay,
	})
	container.Member = NewMemberService(repos, container.Voucher)
	container.Loan = NewLoanService(repos)
	container.Payroll = NewPayrollService(repos, WithAutoPostDay(cfg.AutoPostDay))

	return container
}
