package simulation

import (
	"io"
	"log/slog"

	"github.com/pathways-sim/pathways/internal/audit"
	"github.com/pathways-sim/pathways/internal/logging"
	"github.com/pathways-sim/pathways/internal/metrics"
	"github.com/pathways-sim/pathways/internal/outcome"
	"github.com/pathways-sim/pathways/internal/pretty"
)

// Options controls one Run or RunMany call.
type Options struct {
	// NumShipments processed per run. Must not be negative.
	NumShipments int

	// Seed fixes every random stream. Run i of an aggregate uses Seed+i.
	// Nil leaves runs nondeterministic.
	Seed *int64

	// Verbose prints one line per classified shipment and the run's missed
	// rate to Out.
	Verbose bool

	// Preview renders each shipment to Out before it reaches the gate.
	Preview pretty.Mode

	// Out receives console output. Nil discards it.
	Out io.Writer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder sets the audit recorder shared by every run. The caller
// keeps ownership and closes it.
func WithRecorder(rec audit.Recorder) RunnerOption {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDecisionLogger traces every shipment decision.
func WithDecisionLogger(dl *logging.DecisionLogger) RunnerOption {
	return func(r *Runner) { r.decisions = dl }
}

// WithMetrics records counters on c.
func WithMetrics(c *metrics.Collector) RunnerOption {
	return func(r *Runner) { r.metrics = c }
}

// WithWorkers bounds how many runs RunMany executes at once.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithComponents replaces the configured shipment source and pest model.
// The configuration's pathway section is then not validated.
func WithComponents(f ComponentFactory) RunnerOption {
	return func(r *Runner) { r.factory = f }
}

// WithReporter supplies the outcome reporter of each run, overriding the
// verbose printer.
func WithReporter(f func(run int) outcome.Reporter) RunnerOption {
	return func(r *Runner) { r.reporter = f }
}
