package engine

import (
	"testing"

	"go.uber.org/zap"
)

func TestProjectCycleCount(t *testing.T) {
	items := []Item{{Name: "Salary", Kind: IncomeItem, Amount: 1000, DayOfMonth: 29}}

	cycles := Project(zap.NewNop(), items, mustDate(t, "2024-01-05"), 12, 29)
	if len(cycles) != 12 {
		t.Fatalf("expected 12 cycles, got %d", len(cycles))
	}
	for i, cycle := range cycles {
		if cycle.Index != i {
			t.Errorf("cycle %d has index %d", i, cycle.Index)
		}
		if cycle.Income != 1000 {
			t.Errorf("cycle %d income = %.2f, expected 1000", i, cycle.Income)
		}
		if cycle.Balance != 1000 {
			t.Errorf("cycle %d balance = %.2f, expected 1000", i, cycle.Balance)
		}
	}

	// Non-positive cycle count falls back to the default.
	cycles = Project(nil, items, mustDate(t, "2024-01-05"), 0, 29)
	if len(cycles) != 12 {
		t.Errorf("expected default of 12 cycles, got %d", len(cycles))
	}
}

// A 4-month credit starting this cycle charges in cycles 0-3 and is reported
// as ending exactly once, in cycle 3.
func TestProjectEndingCreditDetection(t *testing.T) {
	credit := creditItem(400, 4, "2024-01-01", 10)
	credit.Name = "Bike"
	items := []Item{
		{Name: "Salary", Kind: IncomeItem, Amount: 1000, DayOfMonth: 1},
		credit,
	}

	cycles := Project(zap.NewNop(), items, mustDate(t, "2024-01-05"), 6, 1)

	for i := 0; i < 3; i++ {
		if len(cycles[i].EndingCredits) != 0 {
			t.Errorf("cycle %d: expected no ending credits, got %v", i, cycles[i].EndingCredits)
		}
		if cycles[i].Expenses != 100 {
			t.Errorf("cycle %d: expenses = %.2f, expected 100", i, cycles[i].Expenses)
		}
	}

	if len(cycles[3].EndingCredits) != 1 || cycles[3].EndingCredits[0] != "Bike" {
		t.Errorf("cycle 3: expected ending credits [Bike], got %v", cycles[3].EndingCredits)
	}
	if cycles[3].Expenses != 100 {
		t.Errorf("cycle 3: expenses = %.2f, expected 100 (final charge)", cycles[3].Expenses)
	}

	for i := 4; i < 6; i++ {
		if cycles[i].Expenses != 0 {
			t.Errorf("cycle %d: expenses = %.2f, expected 0 after credit ends", i, cycles[i].Expenses)
		}
		if len(cycles[i].EndingCredits) != 0 {
			t.Errorf("cycle %d: expected no ending credits, got %v", i, cycles[i].EndingCredits)
		}
	}
}

// Items charging before the pay day belong to the cycle's tail and charge in
// the following calendar month, so a credit expiring mid-projection drops out
// one cycle earlier than a naive anchor-month resolution would suggest.
func TestProjectTailItemsChargeNextMonth(t *testing.T) {
	// Credit charges on day 5; with pay day 29 its charges belong to the
	// cycle anchored the month before. 3 installments from 2024-01.
	credit := creditItem(300, 3, "2024-01-01", 5)
	credit.Name = "Dentist"
	items := []Item{credit}

	// Reference date in January; cycle 0 is anchored at January but day 5
	// charges on 2024-02-05.
	cycles := Project(zap.NewNop(), items, mustDate(t, "2024-01-30"), 4, 29)

	// Cycle 0 charge 2024-02-05 (active), cycle 1 charge 2024-03-05 (final),
	// cycle 2 charge 2024-04-05 (expired).
	if cycles[0].Expenses != 100 {
		t.Errorf("cycle 0 expenses = %.2f, expected 100", cycles[0].Expenses)
	}
	if cycles[1].Expenses != 100 {
		t.Errorf("cycle 1 expenses = %.2f, expected 100", cycles[1].Expenses)
	}
	if len(cycles[1].EndingCredits) != 1 {
		t.Errorf("cycle 1: expected the final charge to be reported, got %v", cycles[1].EndingCredits)
	}
	if cycles[2].Expenses != 0 {
		t.Errorf("cycle 2 expenses = %.2f, expected 0", cycles[2].Expenses)
	}
}

func TestProjectMixedItems(t *testing.T) {
	credit := creditItem(1200, 12, "2024-01-01", 10)
	credit.Name = "Laptop"
	items := []Item{
		{Name: "Salary", Kind: IncomeItem, Amount: 2300, DayOfMonth: 29},
		{Name: "Rent", Kind: ExpenseItem, Amount: 800, DayOfMonth: 1},
		credit,
	}

	cycles := Project(zap.NewNop(), items, mustDate(t, "2024-06-05"), 12, 29)

	// Credit charges through December 2024: cycles anchored June-December
	// include the installment (day 10 < payDay 29, so each cycle's charge is
	// in the month after its anchor; the anchor-November cycle charges
	// 2024-12-10, the final installment).
	for i, cycle := range cycles {
		expected := 800.0
		if i <= 5 {
			expected += 100
		}
		if cycle.Expenses != expected {
			t.Errorf("cycle %d expenses = %.2f, expected %.2f", i, cycle.Expenses, expected)
		}
		if cycle.Balance != cycle.Income-cycle.Expenses {
			t.Errorf("cycle %d balance = %.2f, expected income-expenses", i, cycle.Balance)
		}
	}

	if len(cycles[5].EndingCredits) != 1 || cycles[5].EndingCredits[0] != "Laptop" {
		t.Errorf("expected Laptop to end in cycle 5, got %v", cycles[5].EndingCredits)
	}
}
