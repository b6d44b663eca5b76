package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/apperrors"
)

// periodLayout is the calendar-month key format used for payroll periods.
const periodLayout = "2006-01"

// DefaultVoucherCutoffDay is the last day of a month on which a registration
// still lands on that month's payroll voucher.
const DefaultVoucherCutoffDay = 15

// PeriodOf returns the YYYY-MM key of t, using t's own year and month.
func PeriodOf(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// ParsePeriod validates a YYYY-MM key and returns the first instant of that
// month in UTC.
func ParsePeriod(period string) (time.Time, error) {
	if len(period) != len(periodLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, period)
	}
	start, err := time.Parse(periodLayout, period)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPeriod, period)
	}
	return start, nil
}

// ValidatePeriod reports whether period is a well-formed YYYY-MM key.
func ValidatePeriod(period string) error {
	_, err := ParsePeriod(period)
	return err
}

// MonthRange returns the half-open interval [start, end) covering period.
func MonthRange(period string) (time.Time, time.Time, error) {
	start, err := ParsePeriod(period)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 1, 0), nil
}

// NextPeriod returns the calendar month after period.
func NextPeriod(period string) (string, error) {
	start, err := ParsePeriod(period)
	if err != nil {
		return "", err
	}
	return PeriodOf(start.AddDate(0, 1, 0)), nil
}

// FirstVoucherPeriod is the first payroll period a member registered at
// registeredAt is deducted in, using the default cutoff day.
func FirstVoucherPeriod(registeredAt time.Time) string {
	return FirstVoucherPeriodWithCutoff(registeredAt, DefaultVoucherCutoffDay)
}

// FirstVoucherPeriodWithCutoff returns the registration month when the member
// registered on or before cutoffDay, otherwise the following month.
func FirstVoucherPeriodWithCutoff(registeredAt time.Time, cutoffDay int) string {
	if registeredAt.Day() <= cutoffDay {
		return PeriodOf(registeredAt)
	}
	// Day 1 avoids AddDate normalising e.g. Jan 31 + 1 month into March.
	firstOfMonth := time.Date(registeredAt.Year(), registeredAt.Month(), 1, 0, 0, 0, 0, registeredAt.Location())
	return PeriodOf(firstOfMonth.AddDate(0, 1, 0))
}

// IsNewMember reports whether the member's raw registration month equals
// targetPeriod. Fee classification uses the cutoff-adjusted rule instead, see
// ClassifyVoucher.
func IsNewMember(registeredAt time.Time, targetPeriod string) bool {
	return PeriodOf(registeredAt) == targetPeriod
}

// IsAutoPostDay reports whether now falls on a month-end posting day: the
// day-of-month has reached dueDay, or tomorrow starts a new month.
func IsAutoPostDay(now time.Time, dueDay int) bool {
	if now.Day() >= dueDay {
		return true
	}
	return now.AddDate(0, 0, 1).Month() != now.Month()
}
