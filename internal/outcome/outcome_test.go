package outcome

import (
	"errors"
	"testing"
	"time"

	"github.com/pathways-sim/pathways/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		passed, infested bool
		want             Category
		label            string
	}{
		{true, false, TruePass, "TP"},
		{false, true, Caught, "TN"},
		{true, true, Missed, "FP"},
		{false, false, Impossible, "FN"},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := Classify(tt.passed, tt.infested)
			if got != tt.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tt.passed, tt.infested, got, tt.want)
			}
			if got.Label() != tt.label {
				t.Errorf("Label() = %q, want %q", got.Label(), tt.label)
			}
		})
	}
}

func testShipment(t *testing.T, seq int) *models.Shipment {
	t.Helper()
	s, err := models.NewShipmentWithBoxes("P", "O", "Rosa", time.Time{}, []bool{true, false})
	if err != nil {
		t.Fatal(err)
	}
	s.Seq = seq
	return s
}

func TestClassifier_TallyAndReporter(t *testing.T) {
	rec := &RecordingReporter{}
	c := NewClassifier(rec)

	inputs := []struct{ passed, infested bool }{
		{true, false},
		{false, true},
		{true, true},
		{true, false},
	}
	for i, in := range inputs {
		if _, err := c.Classify(in.passed, in.infested, testShipment(t, i+1)); err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
	}

	got := c.Tally()
	want := Tally{TruePass: 2, Caught: 1, Missed: 1}
	if got != want {
		t.Errorf("Tally() = %+v, want %+v", got, want)
	}
	if got.Total() != len(inputs) {
		t.Errorf("Total() = %d, want %d", got.Total(), len(inputs))
	}

	wantCats := []Category{TruePass, Caught, Missed, TruePass}
	if len(rec.Categories) != len(wantCats) {
		t.Fatalf("reported %d categories, want %d", len(rec.Categories), len(wantCats))
	}
	for i := range wantCats {
		if rec.Categories[i] != wantCats[i] {
			t.Errorf("Categories[%d] = %v, want %v", i, rec.Categories[i], wantCats[i])
		}
	}
	if len(rec.MissedSeqs) != 1 || rec.MissedSeqs[0] != 3 {
		t.Errorf("MissedSeqs = %v, want [3]", rec.MissedSeqs)
	}
}

func TestClassifier_Impossible(t *testing.T) {
	rec := &RecordingReporter{}
	c := NewClassifier(rec)

	cat, err := c.Classify(false, false, testShipment(t, 1))
	if !errors.Is(err, ErrImpossibleOutcome) {
		t.Fatalf("Classify() error = %v, want ErrImpossibleOutcome", err)
	}
	if cat != Impossible {
		t.Errorf("category = %v, want impossible", cat)
	}
	if c.Tally() != (Tally{}) {
		t.Errorf("impossible outcome was tallied: %+v", c.Tally())
	}
	if len(rec.Categories) != 0 {
		t.Errorf("impossible outcome was reported: %v", rec.Categories)
	}
}

func TestClassifier_NilReporter(t *testing.T) {
	c := NewClassifier(nil)
	if _, err := c.Classify(true, true, testShipment(t, 1)); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if c.Tally().Missed != 1 {
		t.Errorf("Missed = %d, want 1", c.Tally().Missed)
	}
}

func TestTally_MissedRate(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  float64
	}{
		{"empty", Tally{}, 0},
		{"nothing infested", Tally{TruePass: 10}, 0},
		{"all missed", Tally{Missed: 1}, 100},
		{"all caught", Tally{TruePass: 3, Caught: 4}, 0},
		{"quarter missed", Tally{TruePass: 6, Caught: 3, Missed: 1}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tally.MissedRate(); got != tt.want {
				t.Errorf("MissedRate() = %v, want %v", got, tt.want)
			}
		})
	}
}
