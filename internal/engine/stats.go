package engine

import (
	"time"

	"github.com/mrosner/paycycle/pkg/constants"
)

// MonthlyStats folds a plan's items into the aggregate view at the given
// reference time: income and expense totals, the expenses still ahead in the
// current cycle, and a summary of the credits active at that time. The whole
// result is recomputed from scratch on every call; item counts are personal
// finance scale, so there is nothing worth maintaining incrementally.
func MonthlyStats(items []Item, at time.Time, payDay int) Stats {
	if payDay < 1 || payDay > constants.DaysPerCycle {
		payDay = constants.DefaultPayDay
	}

	stats := Stats{
		Items:           SortItems(items, payDay),
		CurrentPosition: CyclePosition(at.Day(), payDay),
	}

	for _, item := range stats.Items {
		switch item.Kind {
		case IncomeItem:
			stats.TotalIncome += item.Amount
		case ExpenseItem:
			amount := AmountAt(item, at)
			stats.TotalExpenses += amount
			if CyclePosition(item.DayOfMonth, payDay) > stats.CurrentPosition {
				stats.RemainingThisCycle += amount
			}
			if info, ok := CreditInfoAt(item, at); ok && info.Active {
				stats.ActiveCredits.Count++
				stats.ActiveCredits.TotalMonthly += info.MonthlyAmount
				stats.ActiveCredits.TotalRemaining += info.RemainingAmount
			}
		}
	}

	stats.Remaining = stats.TotalIncome - stats.TotalExpenses
	return stats
}
