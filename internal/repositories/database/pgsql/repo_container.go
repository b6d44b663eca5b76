package pgsql

import (
	portsrepo "github.com/SscSPs/coop_payroll_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:   newPgxTransactionManager(dbPool),
		MemberRepo:  newPgxMemberRepository(dbPool),
		LoanRepo:    newPgxLoanRepository(dbPool),
		PaymentRepo: newPgxPaymentRepository(dbPool),
		LedgerRepo:  newPgxTransactionRepository(dbPool),
		PayrollRepo: newPgxPayrollRepository(dbPool),
		VoucherRepo: newPgxVoucherRepository(dbPool),
	}
}
