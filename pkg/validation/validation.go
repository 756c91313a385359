// Package validation provides boundary validation for plan input. The
// calculation layer assumes well-formed records; these checks run where items
// are constructed or edited, not inside the calculations.
package validation

import (
	"fmt"
	"math"

	"github.com/mrosner/paycycle/pkg/constants"
)

// ValidateDayOfMonth checks that a recurrence day is within 1..31.
func ValidateDayOfMonth(day int) error {
	if day < 1 || day > constants.DaysPerCycle {
		return fmt.Errorf("dayOfMonth must be between 1 and %d, got %d", constants.DaysPerCycle, day)
	}
	return nil
}

// ValidateAmount checks that a monthly amount is finite and non-negative.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("amount must be a finite number, got %v", amount)
	}
	if amount < 0 {
		return fmt.Errorf("amount must not be negative, got %.2f", amount)
	}
	return nil
}

// ValidateCreditTerms checks the authoritative credit parameters. A zero
// duration would make the installment division undefined, so it is rejected
// here rather than guarded in the calculation layer.
func ValidateCreditTerms(totalAmount float64, durationMonths int, hasStartDate bool) error {
	if math.IsNaN(totalAmount) || math.IsInf(totalAmount, 0) || totalAmount <= 0 {
		return fmt.Errorf("credit totalAmount must be a positive number, got %v", totalAmount)
	}
	if durationMonths < 1 {
		return fmt.Errorf("credit durationMonths must be at least 1, got %d", durationMonths)
	}
	if !hasStartDate {
		return fmt.Errorf("credit startDate is required")
	}
	return nil
}

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}
