package engine

import (
	"time"

	"github.com/mrosner/paycycle/pkg/constants"
	"github.com/mrosner/paycycle/pkg/paydate"
	"go.uber.org/zap"
)

// Project advances the reference time cycle by cycle and resolves every
// item's effective amount at that cycle's concrete charge date. Income is
// assumed constant across cycles; expenses are re-resolved each cycle because
// a credit can be active in one cycle and expired by the next. A credit is
// reported in EndingCredits for the cycle in which it makes its final charge,
// detected by comparing its active flag at consecutive cycles' charge dates.
func Project(logger *zap.Logger, items []Item, at time.Time, cycles, payDay int) []Cycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cycles <= 0 {
		cycles = constants.DefaultProjectionCycles
	}
	if payDay < 1 || payDay > constants.DaysPerCycle {
		payDay = constants.DefaultPayDay
	}

	result := make([]Cycle, 0, cycles)
	for i := 0; i < cycles; i++ {
		anchor := paydate.AddMonths(paydate.StartOfMonth(at), i)
		cycle := Cycle{Index: i, Month: anchor}

		for _, item := range items {
			switch item.Kind {
			case IncomeItem:
				cycle.Income += item.Amount
			case ExpenseItem:
				charge := chargeDateInCycle(item, anchor, payDay)
				cycle.Expenses += AmountAt(item, charge)

				if item.Credit != nil && CreditActiveAt(item, charge) {
					next := chargeDateInCycle(item, paydate.AddMonths(anchor, 1), payDay)
					if !CreditActiveAt(item, next) {
						cycle.EndingCredits = append(cycle.EndingCredits, item.Name)
						logger.Debug("credit makes its final charge",
							zap.String("op", "engine.Project"),
							zap.String("item", item.Name),
							zap.Int("cycle", i),
						)
					}
				}
			}
		}

		cycle.Balance = cycle.Income - cycle.Expenses
		result = append(result, cycle)
	}

	return result
}

// chargeDateInCycle builds the concrete date an item charges within the cycle
// anchored at the given month. Items on or after payDay charge inside the
// anchor month; items before payDay belong to the cycle's tail and charge in
// the following calendar month.
func chargeDateInCycle(item Item, anchor time.Time, payDay int) time.Time {
	month := anchor
	if item.DayOfMonth < payDay {
		month = paydate.AddMonths(anchor, 1)
	}
	return paydate.ChargeDate(month, item.DayOfMonth)
}
