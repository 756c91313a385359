// Package output provides utilities for formatting and displaying plan
// statistics and projections.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrosner/paycycle/internal/engine"
	"github.com/mrosner/paycycle/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyStats outputs a human-readable summary of the aggregate view. The
// per-item listing resolves each amount at the reference time so it agrees
// with the totals; a credit's cached amount never reaches the output.
func PrettyStats(stats engine.Stats, at time.Time) {
	p := message.NewPrinter(language.English)
	_, _ = p.Printf("--- Monthly statistics ---\n")
	_, _ = p.Printf("Income:               $%.2f\n", stats.TotalIncome)
	_, _ = p.Printf("Expenses:             $%.2f\n", stats.TotalExpenses)
	_, _ = p.Printf("Remaining:            $%.2f\n", stats.Remaining)
	_, _ = p.Printf("Still due this cycle: $%.2f\n", stats.RemainingThisCycle)
	_, _ = p.Printf("Active credits:       %d ($%.2f/month, $%.2f outstanding)\n",
		stats.ActiveCredits.Count, stats.ActiveCredits.TotalMonthly, stats.ActiveCredits.TotalRemaining)

	fmt.Printf("\nDay | Item                 | Amount\n")
	fmt.Printf("___ | ____                 | ______\n")
	for _, item := range stats.Items {
		_, _ = p.Printf("%3d | %-20s | $%.2f\n", item.DayOfMonth, item.Name, engine.AmountAt(item, at))
	}
}

// PrettyProjection outputs a human-readable table of projected cycles.
func PrettyProjection(cycles []engine.Cycle) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Projection ---\n")
	fmt.Printf("Cycle   | Income        | Expenses      | Balance       | Notes\n")
	fmt.Printf("_____   | ______        | ________      | _______       | _____\n")
	for _, cycle := range cycles {
		_, _ = p.Printf("%s | $%.2f | $%.2f | $%.2f | %s\n",
			cycle.Month.Format(constants.MonthLayout),
			cycle.Income, cycle.Expenses, cycle.Balance,
			endingNotes(cycle.EndingCredits))
	}
}

// StatsCSV outputs the aggregate view in comma-separated value format.
func StatsCSV(stats engine.Stats, at time.Time) {
	fmt.Print(StatsCSVString(stats, at))
}

// StatsCSVString renders the aggregate view as CSV: one row per item in cycle
// order with its resolved amount, followed by the totals.
func StatsCSVString(stats engine.Stats, at time.Time) string {
	var b strings.Builder
	b.WriteString(`"day","item","kind","amount"`)
	b.WriteString("\n")
	for _, item := range stats.Items {
		fmt.Fprintf(&b, `"%d","%s","%s","%.2f"`, item.DayOfMonth, item.Name, item.Kind, engine.AmountAt(item, at))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, `"","total income","","%.2f"`, stats.TotalIncome)
	b.WriteString("\n")
	fmt.Fprintf(&b, `"","total expenses","","%.2f"`, stats.TotalExpenses)
	b.WriteString("\n")
	fmt.Fprintf(&b, `"","remaining","","%.2f"`, stats.Remaining)
	b.WriteString("\n")
	return b.String()
}

// ProjectionCSV outputs the projection in comma-separated value format.
func ProjectionCSV(cycles []engine.Cycle) {
	fmt.Print(ProjectionCSVString(cycles))
}

// ProjectionCSVString renders the projection as CSV, including a running
// balance column alongside the per-cycle figures.
func ProjectionCSVString(cycles []engine.Cycle) string {
	var b strings.Builder
	b.WriteString(`"cycle","income","expenses","balance","running balance","ending credits"`)
	b.WriteString("\n")
	running := 0.0
	for _, cycle := range cycles {
		running += cycle.Balance
		fmt.Fprintf(&b, `"%s","%.2f","%.2f","%.2f","%.2f","%s"`,
			cycle.Month.Format(constants.MonthLayout),
			cycle.Income, cycle.Expenses, cycle.Balance, running,
			strings.Join(cycle.EndingCredits, ";"))
		b.WriteString("\n")
	}
	return b.String()
}

func endingNotes(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return "final charge: " + strings.Join(names, ", ")
}
