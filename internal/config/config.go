// Package config defines the plan file structures and includes functions for
// loading, validating, and converting a plan into engine items.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/mrosner/paycycle/internal/engine"
	"github.com/mrosner/paycycle/pkg/constants"
	"github.com/mrosner/paycycle/pkg/mathutil"
	"github.com/mrosner/paycycle/pkg/validation"
	"github.com/spf13/viper"
)

// DateLayout is the format expected for dates in plan files.
const DateLayout = constants.DateLayout

// Plan holds all configuration for a budget plan.
type Plan struct {
	PayDay     int
	Projection ProjectionConfig
	Incomes    []IncomeConfig
	Expenses   []ExpenseConfig
	Logging    LoggingConfig `yaml:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty"`
}

// ProjectionConfig holds projection options.
type ProjectionConfig struct {
	Cycles int
}

// IncomeConfig is a fixed monthly income entry.
type IncomeConfig struct {
	Name       string
	Amount     float64
	DayOfMonth int
	Icon       string
}

// ExpenseConfig is a monthly charge entry, optionally carrying credit terms.
type ExpenseConfig struct {
	Name       string
	Amount     float64
	DayOfMonth int
	Icon       string
	Credit     *CreditConfig
}

// CreditConfig holds the authoritative installment-credit parameters.
type CreditConfig struct {
	TotalAmount    float64
	DurationMonths int
	StartDate      string
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadPlan takes a file path as input and loads the YAML-formatted plan there.
func LoadPlan(path string) (*Plan, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading plan file, %s", err)
	}

	var plan Plan
	if err := v.Unmarshal(&plan); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &plan, nil
}

// LoadPlanFromReader loads a YAML-formatted plan from an in-memory reader.
// Used by the server, which receives plans as request bodies.
func LoadPlanFromReader(r io.Reader) (*Plan, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading plan data, %s", err)
	}

	var plan Plan
	if err := v.Unmarshal(&plan); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &plan, nil
}

// PayDayOrDefault resolves the configured pay day, falling back to the shared
// default. This is the single place the fallback happens; everything
// downstream receives the resolved value.
func (p *Plan) PayDayOrDefault() int {
	if p.PayDay < 1 || p.PayDay > constants.DaysPerCycle {
		return constants.DefaultPayDay
	}
	return p.PayDay
}

// CyclesOrDefault resolves the configured projection length.
func (p *Plan) CyclesOrDefault() int {
	if p.Projection.Cycles <= 0 {
		return constants.DefaultProjectionCycles
	}
	return p.Projection.Cycles
}

// Validate performs general validation of the plan and returns warnings for
// conditions that are suspicious but not fatal.
func (p *Plan) Validate() []string {
	var warnings []string

	if p.PayDay != 0 && (p.PayDay < 1 || p.PayDay > constants.DaysPerCycle) {
		warnings = append(warnings, fmt.Sprintf(
			"payDay %d is outside 1..%d; using default %d",
			p.PayDay, constants.DaysPerCycle, constants.DefaultPayDay))
	}

	for _, income := range p.Incomes {
		if mathutil.IsZero(income.Amount) {
			warnings = append(warnings, fmt.Sprintf("income %q has a zero amount", income.Name))
		}
	}

	for _, expense := range p.Expenses {
		if expense.Credit == nil {
			if mathutil.IsZero(expense.Amount) {
				warnings = append(warnings, fmt.Sprintf("expense %q has a zero amount", expense.Name))
			}
			continue
		}
		if expense.Credit.DurationMonths > 0 && !mathutil.IsZero(expense.Amount) {
			installment := expense.Credit.TotalAmount / float64(expense.Credit.DurationMonths)
			if !mathutil.WithinTolerance(expense.Amount, installment, constants.CurrencyTolerance) {
				warnings = append(warnings, fmt.Sprintf(
					"expense %q cached amount %.2f does not match installment %.2f; calculations use the installment",
					expense.Name, expense.Amount, installment))
			}
		}
	}

	return warnings
}

// Items converts the plan entries into engine items, validating each at this
// boundary so the calculation layer only ever sees well-formed records.
func (p *Plan) Items() ([]engine.Item, error) {
	items := make([]engine.Item, 0, len(p.Incomes)+len(p.Expenses))

	for _, income := range p.Incomes {
		if err := validation.ValidateDayOfMonth(income.DayOfMonth); err != nil {
			return nil, fmt.Errorf("income %q: %w", income.Name, err)
		}
		if err := validation.ValidateAmount(income.Amount); err != nil {
			return nil, fmt.Errorf("income %q: %w", income.Name, err)
		}
		items = append(items, engine.Item{
			Name:       income.Name,
			Kind:       engine.IncomeItem,
			Amount:     income.Amount,
			DayOfMonth: income.DayOfMonth,
			Icon:       income.Icon,
		})
	}

	for _, expense := range p.Expenses {
		if err := validation.ValidateDayOfMonth(expense.DayOfMonth); err != nil {
			return nil, fmt.Errorf("expense %q: %w", expense.Name, err)
		}
		if err := validation.ValidateAmount(expense.Amount); err != nil {
			return nil, fmt.Errorf("expense %q: %w", expense.Name, err)
		}

		item := engine.Item{
			Name:       expense.Name,
			Kind:       engine.ExpenseItem,
			Amount:     expense.Amount,
			DayOfMonth: expense.DayOfMonth,
			Icon:       expense.Icon,
		}

		if credit := expense.Credit; credit != nil {
			if err := validation.ValidateCreditTerms(credit.TotalAmount, credit.DurationMonths, credit.StartDate != ""); err != nil {
				return nil, fmt.Errorf("expense %q: %w", expense.Name, err)
			}
			start, err := time.Parse(DateLayout, credit.StartDate)
			if err != nil {
				return nil, fmt.Errorf("expense %q: invalid credit startDate %q: %w", expense.Name, credit.StartDate, err)
			}
			item.Credit = &engine.CreditTerms{
				TotalAmount:    credit.TotalAmount,
				DurationMonths: credit.DurationMonths,
				StartDate:      start,
			}
		}

		items = append(items, item)
	}

	return items, nil
}
