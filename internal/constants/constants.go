// Package constants provides named constants used throughout the pathways codebase.
// This centralizes magic numbers and default labels for better maintainability.
package constants

// Shipment generation constants
const (
	// DefaultStartDate is the date parametric shipment generation counts from.
	// The first generated shipment arrives one day after it.
	DefaultStartDate = "2020-04-01"

	// DateLayout is the layout of dates in configuration and F280 records.
	DateLayout = "2006-01-02"

	// DefaultStemsPerBox is used when the configuration does not set stems_per_box.
	DefaultStemsPerBox = 1
)

// Inspection defaults
const (
	// DefaultMinBoxes is the minimum number of boxes the percentage strategy opens.
	DefaultMinBoxes = 1

	// DefaultEndStrategy is the percentage end strategy used when none is configured.
	DefaultEndStrategy = "to_completion"
)

// Pest defaults
const (
	// DefaultInfestationProbability makes every shipment a candidate for pest.
	DefaultInfestationProbability = 1.0

	// DefaultArrangement spreads infested stems independently.
	DefaultArrangement = "random"
)

// Simulation defaults used by the CLI.
const (
	DefaultNumShipments   = 100
	DefaultNumSimulations = 1
	DefaultWorkers        = 1
	DefaultHistoryLimit   = 20
)

// Disposition code keys and their default labels in F280 output.
const (
	DispositionInspectedOK       = "inspected_ok"
	DispositionInspectedPest     = "inspected_pest"
	DispositionCFRPInspectedOK   = "cfrp_inspected_ok"
	DispositionCFRPInspectedPest = "cfrp_inspected_pest"
	DispositionCFRPNotInspected  = "cfrp_not_inspected"
)

// DefaultDispositions maps disposition keys to the labels written when the
// configuration does not override them.
var DefaultDispositions = map[string]string{
	DispositionInspectedOK:       "OK Inspected",
	DispositionInspectedPest:     "Pest Found",
	DispositionCFRPInspectedOK:   "OK CFRP Inspected",
	DispositionCFRPInspectedPest: "Pest Found CFRP Inspected",
	DispositionCFRPNotInspected:  "CFRP Not Inspected",
}

// Storage locations
const (
	// DataDirName is the per-project directory for the experiment store and traces.
	DataDirName = ".pathways"

	// DatabaseFileName is the SQLite experiment store inside DataDirName.
	DatabaseFileName = "pathways.db"
)
