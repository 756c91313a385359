// Package constants provides shared constants for the paycycle application.
package constants

// DateLayout is the format expected for calendar dates in plan files and is
// also the output date format.
const DateLayout = "2006-01-02"

// MonthLayout is the format used when only month granularity is needed,
// e.g. projection cycle labels.
const MonthLayout = "2006-01"

// Pay cycle constants
const (
	// DefaultPayDay is the day of month a pay cycle begins when a plan does
	// not configure one.
	DefaultPayDay = 29

	// DefaultProjectionCycles is the number of cycles projected forward when
	// a plan does not configure one.
	DefaultProjectionCycles = 12

	// DaysPerCycle is the nominal span of a pay cycle used for position
	// arithmetic; day-of-month values are defined over 1..31 regardless of
	// actual month length.
	DaysPerCycle = 31

	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// MiddayHour anchors constructed charge dates at 12:00 so date-level
	// comparisons cannot flip across a day boundary under timezone
	// conversion.
	MiddayHour = 12
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultPlanFile is the default plan file name
	DefaultPlanFile = "plan.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum request body size for plan
	// payloads (256 KB)
	DefaultMaxBodyBytes int64 = 256 * 1024
)
