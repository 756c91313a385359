// Package engine implements the pay-cycle and credit amortization
// calculations for a personal budget plan. All functions are pure over their
// inputs; the reference time is always an explicit parameter and nothing here
// mutates the item list it is given.
package engine

import "time"

// Kind discriminates the two financial item variants.
type Kind int

const (
	// IncomeItem is a fixed monthly income.
	IncomeItem Kind = iota
	// ExpenseItem is a fixed monthly charge or an installment credit.
	ExpenseItem
)

func (k Kind) String() string {
	switch k {
	case IncomeItem:
		return "income"
	case ExpenseItem:
		return "expense"
	}
	return "unknown"
}

// CreditTerms holds the authoritative parameters of an installment credit.
// The monthly installment is always recomputed as TotalAmount/DurationMonths;
// the owning item's Amount field is a display cache that can go stale after
// edits and is never used in calculations.
type CreditTerms struct {
	TotalAmount    float64
	DurationMonths int
	StartDate      time.Time
}

// Item is a single financial item in a plan. Credit is non-nil only for
// installment-credit expenses; a nil Credit on an ExpenseItem means a plain
// fixed monthly charge.
type Item struct {
	ID         string
	UserID     string
	Name       string
	Kind       Kind
	Amount     float64
	DayOfMonth int
	Icon       string
	Credit     *CreditTerms
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsCredit reports whether the item is an installment-credit expense.
func (it Item) IsCredit() bool {
	return it.Kind == ExpenseItem && it.Credit != nil
}

// CreditInfo describes a credit's amortization state at a reference time.
// Derived on demand, never stored.
type CreditInfo struct {
	MonthlyAmount     float64
	TotalAmount       float64
	RemainingAmount   float64
	RemainingPayments int
	PaymentsMade      int
	Active            bool
	ProgressPercent   float64
	StartDate         time.Time
	EndDate           time.Time
}

// CreditSummary aggregates the credits active at a reference time.
type CreditSummary struct {
	Count          int
	TotalMonthly   float64
	TotalRemaining float64
}

// Stats is the aggregate view of a plan at a reference time.
type Stats struct {
	TotalIncome        float64
	TotalExpenses      float64
	Remaining          float64
	RemainingThisCycle float64
	CurrentPosition    int
	Items              []Item
	ActiveCredits      CreditSummary
}

// Cycle is one projected pay cycle.
type Cycle struct {
	Index         int
	Month         time.Time
	Income        float64
	Expenses      float64
	Balance       float64
	EndingCredits []string
}
