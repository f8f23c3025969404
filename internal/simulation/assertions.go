package simulation

import (
	"testing"

	"github.com/pathways-sim/pathways/internal/audit"
	"github.com/pathways-sim/pathways/internal/models"
	"github.com/pathways-sim/pathways/internal/outcome"
)

// AssertResult asserts that a run produced exactly want.
func AssertResult(t *testing.T, got, want models.Result) {
	t.Helper()
	if got != want {
		t.Errorf("AssertResult: got %+v, want %+v", got, want)
	}
}

// AssertOutcomes asserts the categories a RecordingReporter saw, in order.
func AssertOutcomes(t *testing.T, rec *outcome.RecordingReporter, want ...outcome.Category) {
	t.Helper()
	if len(rec.Categories) != len(want) {
		t.Fatalf("AssertOutcomes: got %d outcomes %v, want %d %v", len(rec.Categories), rec.Categories, len(want), want)
	}
	for i := range want {
		if rec.Categories[i] != want[i] {
			t.Errorf("AssertOutcomes: shipment %d: got %v, want %v", i+1, rec.Categories[i], want[i])
		}
	}
}

// AssertOneOutcomePerShipment asserts that every shipment of a completed run
// was classified exactly once.
func AssertOneOutcomePerShipment(t *testing.T, rec *outcome.RecordingReporter, numShipments int) {
	t.Helper()
	if len(rec.Categories) != numShipments {
		t.Errorf("AssertOneOutcomePerShipment: %d outcomes for %d shipments", len(rec.Categories), numShipments)
	}
	for i, c := range rec.Categories {
		if c == outcome.Impossible {
			t.Errorf("AssertOneOutcomePerShipment: shipment %d tallied as impossible", i+1)
		}
	}
}

// AssertExaminedWithinBounds asserts 0 <= boxes examined <= boxes for every
// recorded shipment, and 0 for released ones.
func AssertExaminedWithinBounds(t *testing.T, entries []audit.Entry) {
	t.Helper()
	for _, e := range entries {
		if e.BoxesExamined < 0 || e.BoxesExamined > e.NumBoxes {
			t.Errorf("AssertExaminedWithinBounds: run %d shipment %d examined %d of %d boxes", e.Run, e.Seq, e.BoxesExamined, e.NumBoxes)
		}
		if !e.Inspected && e.BoxesExamined != 0 {
			t.Errorf("AssertExaminedWithinBounds: run %d shipment %d released but examined %d boxes", e.Run, e.Seq, e.BoxesExamined)
		}
	}
}
