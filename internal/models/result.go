package models

// Result summarizes one simulation run.
type Result struct {
	// MissedRate is the percentage of infested shipments that were passed or
	// released, 0 when no shipment was infested.
	MissedRate float64 `json:"missed_rate"`

	// NumInspections counts shipments actually inspected.
	NumInspections int `json:"num_inspections"`

	// NumBoxesInspected sums boxes opened across inspected shipments.
	NumBoxesInspected int `json:"num_boxes_inspected"`

	// NumBoxes sums boxes of inspected shipments.
	NumBoxes int `json:"num_boxes"`
}

// AggregateResult is the element-wise mean of the Results of an aggregate.
type AggregateResult struct {
	MissedRate        float64 `json:"missed_rate"`
	NumInspections    float64 `json:"num_inspections"`
	NumBoxesInspected float64 `json:"num_boxes_inspected"`
	NumBoxes          float64 `json:"num_boxes"`

	NumSimulations int    `json:"num_simulations"`
	NumShipments   int    `json:"num_shipments"`
	Seed           *int64 `json:"seed,omitempty"`
}
