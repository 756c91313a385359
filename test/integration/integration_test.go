// Package integration exercises the full pipeline: plan file -> validation ->
// item conversion -> stats and projection.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mrosner/paycycle/internal/config"
	"github.com/mrosner/paycycle/internal/engine"
	"github.com/mrosner/paycycle/pkg/constants"
	"github.com/mrosner/paycycle/pkg/output"
	"github.com/mrosner/paycycle/pkg/paydate"
	"go.uber.org/zap"
)

func TestPlanToProjectionPipeline(t *testing.T) {
	plan, err := config.LoadPlan(filepath.Join("..", "plan.yaml"))
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}

	if warnings := plan.Validate(); len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	items, err := plan.Items()
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}

	at := paydate.MustParse(constants.DateLayout, "2024-06-05")
	payDay := plan.PayDayOrDefault()

	stats := engine.MonthlyStats(items, at, payDay)
	if stats.TotalIncome != 2300 {
		t.Errorf("TotalIncome = %.2f, expected 2300", stats.TotalIncome)
	}
	if stats.TotalExpenses != 940 {
		t.Errorf("TotalExpenses = %.2f, expected 940", stats.TotalExpenses)
	}

	projection := engine.Project(zap.NewNop(), items, at, plan.CyclesOrDefault(), payDay)
	if len(projection) != 12 {
		t.Fatalf("expected 12 cycles, got %d", len(projection))
	}

	// While the Laptop credit charges, cycle expenses are 940; afterwards
	// they drop to 840. The final charge is 2024-12-10, in the cycle
	// anchored at November.
	for i, cycle := range projection {
		expected := 840.0
		if i <= 5 {
			expected = 940.0
		}
		if cycle.Expenses != expected {
			t.Errorf("cycle %d expenses = %.2f, expected %.2f", i, cycle.Expenses, expected)
		}
		if cycle.Income != 2300 {
			t.Errorf("cycle %d income = %.2f, expected 2300", i, cycle.Income)
		}
	}

	if len(projection[5].EndingCredits) != 1 || projection[5].EndingCredits[0] != "Laptop" {
		t.Errorf("expected Laptop ending in cycle 5, got %v", projection[5].EndingCredits)
	}

	csv := output.ProjectionCSVString(projection)
	if csv == "" {
		t.Fatal("expected CSV output")
	}
}

func TestWorkerPipeline(t *testing.T) {
	plan, err := config.LoadPlan(filepath.Join("..", "plan.yaml"))
	if err != nil {
		t.Fatalf("LoadPlan() error = %v", err)
	}

	items, err := plan.Items()
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}

	worker := engine.NewWorker(zap.NewNop())
	defer worker.Close()

	result, err := worker.Recompute(context.Background(), engine.Request{
		Items:  items,
		At:     paydate.MustParse(constants.DateLayout, "2024-06-05"),
		Cycles: plan.CyclesOrDefault(),
		PayDay: plan.PayDayOrDefault(),
	})
	if err != nil {
		t.Fatalf("Recompute() error = %v", err)
	}

	if result.Stats.Remaining != 1360 {
		t.Errorf("Remaining = %.2f, expected 1360", result.Stats.Remaining)
	}
	if len(result.Projection) != 12 {
		t.Errorf("expected 12 projected cycles, got %d", len(result.Projection))
	}
}
