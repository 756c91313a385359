package engine

import "time"

// AmountAt resolves the effective amount an item contributes at the given
// time. Incomes and plain expenses always contribute their fixed amount.
// Credits contribute the recomputed monthly installment while active and zero
// outside the activity window; the item's cached Amount is never consulted
// for a credit. Every aggregation and projection goes through this function
// rather than reading Amount directly.
func AmountAt(item Item, at time.Time) float64 {
	switch item.Kind {
	case IncomeItem:
		return item.Amount
	case ExpenseItem:
		if item.Credit == nil {
			return item.Amount
		}
		info, ok := CreditInfoAt(item, at)
		if !ok || !info.Active {
			return 0
		}
		return info.MonthlyAmount
	}
	return 0
}
