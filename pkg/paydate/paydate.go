// Package paydate provides date construction utilities for pay-cycle and
// installment calculations. All charge dates are built through ChargeDate so
// the midday anchor and short-month clamping policy apply everywhere.
package paydate

import (
	"time"

	"github.com/mrosner/paycycle/pkg/constants"
)

// MustParse parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParse(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// StartOfMonth returns midnight on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths returns the first day of the month the given number of months
// after t's month. Year carry is computed explicitly rather than relying on
// day-preserving date addition, which can roll over at month ends.
func AddMonths(t time.Time, months int) time.Time {
	m := int(t.Month()) - 1 + months
	y := t.Year() + m/constants.MonthsPerYear
	m %= constants.MonthsPerYear
	if m < 0 {
		m += constants.MonthsPerYear
		y--
	}
	return time.Date(y, time.Month(m+1), 1, 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ChargeDate builds the charge date for the given day of month within
// month's month, anchored at midday. Days past the end of a short month are
// clamped to its last day; a day-31 charge in February lands on the 28th
// (or 29th), never in March.
func ChargeDate(month time.Time, day int) time.Time {
	if last := DaysIn(month.Year(), month.Month()); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(month.Year(), month.Month(), day, constants.MiddayHour, 0, 0, 0, month.Location())
}

// SameMonth reports whether two times fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// BeforeMonth reports whether a's calendar month is strictly before b's.
func BeforeMonth(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	return a.Month() < b.Month()
}
