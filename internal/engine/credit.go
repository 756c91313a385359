package engine

import (
	"time"

	"github.com/mrosner/paycycle/pkg/mathutil"
	"github.com/mrosner/paycycle/pkg/paydate"
)

// CreditInfoAt computes a credit's amortization state as of the given time.
// The second return value is false when the item is not an installment credit
// or its credit terms are unusable (zero duration, non-positive principal,
// missing start date); that is a not-applicable signal, not an error.
func CreditInfoAt(item Item, at time.Time) (CreditInfo, bool) {
	terms := item.Credit
	if item.Kind != ExpenseItem || terms == nil {
		return CreditInfo{}, false
	}
	if terms.DurationMonths < 1 || terms.TotalAmount <= 0 || terms.StartDate.IsZero() {
		return CreditInfo{}, false
	}

	// The start date's day-of-month component is informational; the schedule
	// runs from the first of the start month.
	start := paydate.StartOfMonth(terms.StartDate)
	lastMonth := paydate.AddMonths(start, terms.DurationMonths-1)
	end := paydate.ChargeDate(lastMonth, item.DayOfMonth)

	made := paymentsMadeUntil(start, item.DayOfMonth, terms.DurationMonths, at)
	monthly := terms.TotalAmount / float64(terms.DurationMonths)
	remaining := terms.DurationMonths - made
	if remaining < 0 {
		remaining = 0
	}

	return CreditInfo{
		MonthlyAmount:     monthly,
		TotalAmount:       terms.TotalAmount,
		RemainingAmount:   monthly * float64(remaining),
		RemainingPayments: remaining,
		PaymentsMade:      made,
		Active:            !at.Before(start) && !at.After(end),
		ProgressPercent:   mathutil.Percentage(float64(made), float64(terms.DurationMonths)),
		StartDate:         start,
		EndDate:           end,
	}, true
}

// CreditActiveAt reports whether the item's credit is within its charging
// window, inclusive of both the start month and the final charge date.
func CreditActiveAt(item Item, at time.Time) bool {
	info, ok := CreditInfoAt(item, at)
	return ok && info.Active
}

// paymentsMadeUntil counts installments charged on or before at by walking
// the schedule month by month from the start month. A month counts when it is
// strictly before at's month, or it is at's month and at's day has reached the
// (clamped) charge day. The walk is deliberate: closed-form month differences
// miscount when at's day straddles the charge day across months of different
// lengths.
func paymentsMadeUntil(start time.Time, chargeDay, duration int, at time.Time) int {
	made := 0
	month := start
	for i := 0; i < duration; i++ {
		switch {
		case paydate.BeforeMonth(month, at):
			made++
		case paydate.SameMonth(month, at):
			if at.Day() >= paydate.ChargeDate(month, chargeDay).Day() {
				made++
			}
		}
		month = paydate.AddMonths(month, 1)
	}
	return made
}
