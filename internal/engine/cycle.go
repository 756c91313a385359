package engine

import (
	"sort"
	"time"

	"github.com/mrosner/paycycle/pkg/constants"
)

// CyclePosition maps a day of month (1..31) onto its 0-based position within
// a pay cycle starting on payDay. Days on or after payDay come first; days
// before payDay belong to the tail of the cycle that spans into the next
// calendar month, so payDay sorts to position 0 and payDay-1 to position 30.
func CyclePosition(dayOfMonth, payDay int) int {
	if payDay < 1 || payDay > constants.DaysPerCycle {
		payDay = constants.DefaultPayDay
	}
	if dayOfMonth >= payDay {
		return dayOfMonth - payDay
	}
	return constants.DaysPerCycle - payDay + dayOfMonth
}

// CurrentCyclePosition returns today's position within the pay cycle. This is
// the only wall-clock-dependent function in the package; everything else takes
// an explicit reference time.
func CurrentCyclePosition(payDay int) int {
	return CyclePosition(time.Now().Day(), payDay)
}

// SortItems returns a copy of items ordered by cycle position, i.e. "next
// thing to happen first" relative to payDay. The sort is stable so items
// sharing a day keep their original order.
func SortItems(items []Item, payDay int) []Item {
	sorted := append([]Item(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CyclePosition(sorted[i].DayOfMonth, payDay) < CyclePosition(sorted[j].DayOfMonth, payDay)
	})
	return sorted
}
