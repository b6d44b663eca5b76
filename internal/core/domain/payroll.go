package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CycleStatus is the state of a monthly payroll cycle. Transitions are linear:
// DRAFT -> FINANCE_CONFIRMED -> POSTED.
type CycleStatus string

const (
	CycleDraft            CycleStatus = "DRAFT"
	CycleFinanceConfirmed CycleStatus = "FINANCE_CONFIRMED"
	CyclePosted           CycleStatus = "POSTED"
)

// LineType is the kind of deduction a payroll line represents.
type LineType string

const (
	LineSavings       LineType = "SAVINGS"
	LineLoanRepayment LineType = "LOAN_REPAYMENT"
)

// LineStatus is the state of one payroll line.
type LineStatus string

const (
	LinePending  LineStatus = "PENDING"
	LineExcluded LineStatus = "EXCLUDED"
	LinePosted   LineStatus = "POSTED"
)

// PayrollCycle is the batch of deductions for one calendar period.
type PayrollCycle struct {
	CycleID     string      `json:"cycleID"`
	Period      string      `json:"period"` // YYYY-MM, unique
	Status      CycleStatus `json:"status"`
	ConfirmedBy *string     `json:"confirmedBy,omitempty"`
	ConfirmedAt *time.Time  `json:"confirmedAt,omitempty"`
	PostedBy    *string     `json:"postedBy,omitempty"`
	PostedAt    *time.Time  `json:"postedAt,omitempty"`
	AuditFields

	Lines []PayrollLine `json:"lines,omitempty"`
}

// IsEditable reports whether lines may still be changed.
func (c PayrollCycle) IsEditable() bool {
	return c.Status == CycleDraft
}

// PayrollLine is one member's one deduction within a cycle.
type PayrollLine struct {
	LineID         string           `json:"lineID"`
	CycleID        string           `json:"cycleID"`
	MemberID       string           `json:"memberID"`
	LoanID         *string          `json:"loanID,omitempty"` // only for LOAN_REPAYMENT lines
	LineType       LineType         `json:"lineType"`
	ExpectedAmount decimal.Decimal  `json:"expectedAmount"`
	ActualAmount   *decimal.Decimal `json:"actualAmount,omitempty"`
	Status         LineStatus       `json:"status"`
	Reason         string           `json:"reason"`
	AuditFields
}

// EffectiveAmount is the amount posting will apply: the admin's actual amount
// when set, otherwise the expected one, floored at zero.
func (l PayrollLine) EffectiveAmount() decimal.Decimal {
	amount := l.ExpectedAmount
	if l.ActualAmount != nil {
		amount = *l.ActualAmount
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// CycleSummary totals a cycle's lines by type and status.
type CycleSummary struct {
	SavingsTotal   decimal.Decimal `json:"savingsTotal"`
	RepaymentTotal decimal.Decimal `json:"repaymentTotal"`
	PendingLines   int             `json:"pendingLines"`
	ExcludedLines  int             `json:"excludedLines"`
	PostedLines    int             `json:"postedLines"`
}

// Summarize computes totals over the effective amount of non-excluded lines.
func Summarize(lines []PayrollLine) CycleSummary {
	s := CycleSummary{SavingsTotal: decimal.Zero, RepaymentTotal: decimal.Zero}
	for _, l := range lines {
		switch l.Status {
		case LineExcluded:
			s.ExcludedLines++
			continue
		case LinePosted:
			s.PostedLines++
		default:
			s.PendingLines++
		}
		if l.LineType == LineSavings {
			s.SavingsTotal = s.SavingsTotal.Add(l.EffectiveAmount())
		} else {
			s.RepaymentTotal = s.RepaymentTotal.Add(l.EffectiveAmount())
		}
	}
	return s
}

// AutoPostResult describes what one auto-post check did.
type AutoPostResult struct {
	Due       bool   `json:"due"`
	Period    string `json:"period"`
	CycleID   string `json:"cycleID,omitempty"`
	Created   bool   `json:"created"`
	Confirmed bool   `json:"confirmed"`
	Posted    bool   `json:"posted"`
}
