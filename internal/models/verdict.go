// Package models defines the data types that flow through the inspection
// pipeline: shipments, inspection verdicts and per-shipment decisions.
package models

// Verdict is the result of applying an inspection strategy to a shipment.
type Verdict struct {
	// Passed is true iff none of the examined boxes were infested.
	Passed bool `json:"passed"`

	// BoxesExamined counts boxes actually opened, 0 <= BoxesExamined <= NumBoxes.
	BoxesExamined int `json:"boxes_examined"`
}

// Decision is the release gate's answer for one shipment.
type Decision struct {
	MustInspect bool `json:"must_inspect"`

	// Program names the release program that applied, or "" when none did.
	Program string `json:"program,omitempty"`
}
