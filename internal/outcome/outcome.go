// Package outcome classifies each shipment's verdict against ground truth
// and keeps the running confusion-matrix counts of a run.
package outcome

import (
	"errors"
	"fmt"

	"github.com/pathways-sim/pathways/internal/models"
)

// ErrImpossibleOutcome is returned when a shipment failed inspection but
// carries no pest. It means the gate, strategy and classifier disagree.
var ErrImpossibleOutcome = errors.New("impossible outcome: shipment flagged but clean")

// Category is one cell of the confusion matrix.
type Category int

const (
	// TruePass: passed or released, and clean.
	TruePass Category = iota
	// Caught: flagged by inspection, and infested.
	Caught
	// Missed: passed or released, but infested.
	Missed
	// Impossible: flagged, but clean. Never tallied.
	Impossible
)

// String returns the category's trace name.
func (c Category) String() string {
	switch c {
	case TruePass:
		return "true_pass"
	case Caught:
		return "caught"
	case Missed:
		return "missed"
	case Impossible:
		return "impossible"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Label returns the short confusion-matrix label used in reports.
func (c Category) Label() string {
	switch c {
	case TruePass:
		return "TP"
	case Caught:
		return "TN"
	case Missed:
		return "FP"
	case Impossible:
		return "FN"
	}
	return "?"
}

// Classify maps a verdict and ground truth to a category. Uninspected
// shipments are passed as passed=true.
func Classify(passed, infested bool) Category {
	switch {
	case passed && !infested:
		return TruePass
	case !passed && infested:
		return Caught
	case passed && infested:
		return Missed
	default:
		return Impossible
	}
}

// Reporter is notified once per classified shipment.
type Reporter interface {
	TruePass()
	Caught()
	// Missed receives the shipment whose pest went undetected.
	Missed(s *models.Shipment)
}

// Tally counts classified shipments by category.
type Tally struct {
	TruePass int `json:"true_pass"`
	Caught   int `json:"caught"`
	Missed   int `json:"missed"`
}

// Total returns the number of classified shipments.
func (t Tally) Total() int { return t.TruePass + t.Caught + t.Missed }

// MissedRate returns the percentage of infested shipments that were passed
// or released. With no infested shipments the rate is 0.
func (t Tally) MissedRate() float64 {
	infested := t.Total() - t.TruePass
	if infested == 0 {
		return 0
	}
	return 100 * float64(t.Missed) / float64(infested)
}

// Classifier tallies outcomes for one run and forwards them to a Reporter.
// It is not safe for concurrent use; each run owns its own.
type Classifier struct {
	reporter Reporter
	tally    Tally
}

// NewClassifier returns a classifier reporting to r. A nil r reports nothing.
func NewClassifier(r Reporter) *Classifier {
	if r == nil {
		r = MuteReporter{}
	}
	return &Classifier{reporter: r}
}

// Classify records the outcome for s. An impossible outcome returns
// ErrImpossibleOutcome and leaves the tally unchanged.
func (c *Classifier) Classify(passed, infested bool, s *models.Shipment) (Category, error) {
	cat := Classify(passed, infested)
	switch cat {
	case TruePass:
		c.tally.TruePass++
		c.reporter.TruePass()
	case Caught:
		c.tally.Caught++
		c.reporter.Caught()
	case Missed:
		c.tally.Missed++
		c.reporter.Missed(s)
	default:
		return cat, fmt.Errorf("shipment %d (%s at %s): %w", s.Seq, s.Commodity, s.Port, ErrImpossibleOutcome)
	}
	return cat, nil
}

// Tally returns the counts so far.
func (c *Classifier) Tally() Tally { return c.tally }

// MuteReporter discards every notification.
type MuteReporter struct{}

func (MuteReporter) TruePass()               {}
func (MuteReporter) Caught()                 {}
func (MuteReporter) Missed(*models.Shipment) {}

// RecordingReporter keeps every notification in order.
type RecordingReporter struct {
	Categories []Category
	MissedSeqs []int
}

func (r *RecordingReporter) TruePass() { r.Categories = append(r.Categories, TruePass) }
func (r *RecordingReporter) Caught()   { r.Categories = append(r.Categories, Caught) }
func (r *RecordingReporter) Missed(s *models.Shipment) {
	r.Categories = append(r.Categories, Missed)
	r.MissedSeqs = append(r.MissedSeqs, s.Seq)
}
