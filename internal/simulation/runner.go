package simulation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pathways-sim/pathways/internal/audit"
	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/inspection"
	"github.com/pathways-sim/pathways/internal/logging"
	"github.com/pathways-sim/pathways/internal/metrics"
	"github.com/pathways-sim/pathways/internal/models"
	"github.com/pathways-sim/pathways/internal/outcome"
	"github.com/pathways-sim/pathways/internal/pest"
	"github.com/pathways-sim/pathways/internal/pretty"
	"github.com/pathways-sim/pathways/internal/release"
	"github.com/pathways-sim/pathways/internal/seed"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidArgument is returned for run arguments rejected before any work.
var ErrInvalidArgument = errors.New("invalid argument")

// Runner executes an inspection policy over shipment streams. It is safe
// to call Run and RunMany from multiple goroutines.
type Runner struct {
	cfg  *config.Config
	gate *release.Gate

	factory   ComponentFactory
	recorder  audit.Recorder
	reporter  func(run int) outcome.Reporter
	logger    *slog.Logger
	decisions *logging.DecisionLogger
	metrics   *metrics.Collector
	workers   int
}

// NewRunner validates cfg and builds a runner. Every configuration error
// (strategy, release program, pest arrangement, shipment source) surfaces
// here rather than during a run.
func NewRunner(cfg *config.Config, opts ...RunnerOption) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("new runner: nil config")
	}

	r := &Runner{
		cfg:      cfg,
		recorder: audit.Nop{},
		logger:   logging.Discard(),
		workers:  1,
	}
	for _, opt := range opts {
		opt(r)
	}

	if _, err := inspection.New(cfg.Inspection, seed.New(seed.Ptr(0)).Inspection); err != nil {
		return nil, err
	}

	gate, err := release.New(cfg.ReleasePrograms)
	if err != nil {
		return nil, err
	}
	r.gate = gate

	if r.factory == nil {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
		if _, err := pest.New(cfg.Pest, seed.New(seed.Ptr(0)).Pest); err != nil {
			return nil, err
		}
		factory, err := configComponents(cfg)
		if err != nil {
			return nil, err
		}
		r.factory = factory
	}

	return r, nil
}

// Run executes one run with opts.Seed.
func (r *Runner) Run(ctx context.Context, opts Options) (models.Result, error) {
	if err := checkOptions(opts); err != nil {
		return models.Result{}, err
	}
	opts.Out = outputOrDiscard(opts.Out)
	return r.run(ctx, 0, opts.Seed, opts)
}

// RunMany executes numSimulations runs, run i seeded with opts.Seed+i, and
// returns the element-wise mean of their results. Any failing run fails
// the aggregate.
func (r *Runner) RunMany(ctx context.Context, numSimulations int, opts Options) (models.AggregateResult, error) {
	if err := r.Check(numSimulations, opts); err != nil {
		return models.AggregateResult{}, err
	}
	opts.Out = outputOrDiscard(opts.Out)

	results := make([]models.Result, numSimulations)
	if r.workers <= 1 || numSimulations == 1 {
		for i := range results {
			res, err := r.run(ctx, i, seed.ForRun(opts.Seed, i), opts)
			if err != nil {
				return models.AggregateResult{}, err
			}
			results[i] = res
		}
	} else {
		opts.Out = NewSyncWriter(opts.Out)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for i := range results {
			g.Go(func() error {
				res, err := r.run(gctx, i, seed.ForRun(opts.Seed, i), opts)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return models.AggregateResult{}, err
		}
	}

	agg := models.AggregateResult{
		NumSimulations: numSimulations,
		NumShipments:   opts.NumShipments,
		Seed:           opts.Seed,
	}
	// Folded in run order so parallel aggregates match sequential ones bit for bit.
	for _, res := range results {
		agg.MissedRate += res.MissedRate
		agg.NumInspections += float64(res.NumInspections)
		agg.NumBoxesInspected += float64(res.NumBoxesInspected)
		agg.NumBoxes += float64(res.NumBoxes)
	}
	n := float64(numSimulations)
	agg.MissedRate /= n
	agg.NumInspections /= n
	agg.NumBoxesInspected /= n
	agg.NumBoxes /= n

	return agg, nil
}

// Check reports the argument errors RunMany would return, without running.
// Callers use it to reject a run before opening any output.
func (r *Runner) Check(numSimulations int, opts Options) error {
	if numSimulations < 1 {
		return fmt.Errorf("%w: num_simulations must be at least 1, got %d", ErrInvalidArgument, numSimulations)
	}
	return checkOptions(opts)
}

// With returns a copy of r with opts applied. It is meant for output
// collaborators (recorder, decision logger) opened after a successful
// Check; a component factory set here is not validated.
func (r *Runner) With(opts ...RunnerOption) *Runner {
	c := *r
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

func checkOptions(opts Options) error {
	if opts.NumShipments < 0 {
		return fmt.Errorf("%w: num_shipments must not be negative, got %d", ErrInvalidArgument, opts.NumShipments)
	}
	if _, err := pretty.ParseMode(string(opts.Preview)); err != nil {
		return err
	}
	return nil
}

// run executes the per-shipment pipeline once.
func (r *Runner) run(ctx context.Context, idx int, runSeed *int64, opts Options) (models.Result, error) {
	start := time.Now()
	r.logger.Debug("run started", "run", idx, "seed", seedAttr(runSeed), "shipments", opts.NumShipments)

	streams := seed.New(runSeed)
	comps, err := r.factory(idx, streams)
	if err != nil {
		return models.Result{}, err
	}
	strategy, err := inspection.New(r.cfg.Inspection, streams.Inspection)
	if err != nil {
		return models.Result{}, err
	}

	var reporter outcome.Reporter
	switch {
	case r.reporter != nil:
		reporter = r.reporter(idx)
	case opts.Verbose:
		reporter = pretty.NewPrintReporter(opts.Out)
	}
	classifier := outcome.NewClassifier(reporter)

	var res models.Result
	for i := 0; i < opts.NumShipments; i++ {
		if err := ctx.Err(); err != nil {
			return models.Result{}, err
		}

		s, err := comps.Source.Next()
		if err != nil {
			return models.Result{}, fmt.Errorf("run %d shipment %d: %w", idx, i+1, err)
		}
		if err := comps.Pest.Infest(s); err != nil {
			return models.Result{}, fmt.Errorf("run %d: %w", idx, err)
		}
		pretty.Preview(opts.Out, opts.Preview, s)

		decision := r.gate.Decide(s, s.ArrivalTime)
		verdict := models.Verdict{Passed: true}
		if decision.MustInspect {
			verdict = strategy.Inspect(s)
			if err := s.RecordInspection(verdict); err != nil {
				return models.Result{}, fmt.Errorf("run %d shipment %d: %w", idx, s.Seq, err)
			}
			res.NumInspections++
			res.NumBoxesInspected += verdict.BoxesExamined
			res.NumBoxes += s.NumBoxes
		}

		if err := r.recorder.Record(audit.Entry{
			Run:           idx,
			Seq:           s.Seq,
			Date:          s.ArrivalTime,
			Port:          s.Port,
			Origin:        s.Origin,
			Commodity:     s.Commodity,
			NumBoxes:      s.NumBoxes,
			Inspected:     decision.MustInspect,
			Passed:        verdict.Passed,
			BoxesExamined: verdict.BoxesExamined,
			Program:       decision.Program,
		}); err != nil {
			return models.Result{}, fmt.Errorf("run %d: recording shipment %d: %w", idx, s.Seq, err)
		}

		infested := s.IsInfested()
		cat, err := classifier.Classify(verdict.Passed, infested, s)
		if err != nil {
			return models.Result{}, fmt.Errorf("run %d: %w", idx, err)
		}

		r.metrics.ObserveShipment(cat.String(), decision.MustInspect, verdict.BoxesExamined, decision.Program)
		r.decisions.Log(logging.ShipmentDecision{
			Run:           idx,
			Seq:           s.Seq,
			Commodity:     s.Commodity,
			Port:          s.Port,
			MustInspect:   decision.MustInspect,
			Program:       decision.Program,
			Passed:        verdict.Passed,
			BoxesExamined: verdict.BoxesExamined,
			Infested:      infested,
			Outcome:       cat.String(),
		})
		r.logger.Log(ctx, logging.LevelTrace, "shipment",
			"run", idx, "seq", s.Seq, "commodity", s.Commodity,
			"inspected", decision.MustInspect, "outcome", cat.Label())
	}

	tally := classifier.Tally()
	res.MissedRate = tally.MissedRate()
	if opts.Verbose && tally.Total() > tally.TruePass {
		pretty.PrintMissing(opts.Out, res.MissedRate)
	}

	r.metrics.ObserveRun(time.Since(start))
	r.logger.Debug("run finished", "run", idx, "seed", seedAttr(runSeed),
		"shipments", opts.NumShipments, "missed_rate", res.MissedRate)
	return res, nil
}

func seedAttr(s *int64) any {
	if s == nil {
		return "none"
	}
	return *s
}

func outputOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// SyncWriter serializes writes to w. Console output shared by parallel runs
// and a stdout audit recorder must go through one SyncWriter.
type SyncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSyncWriter wraps w, returning w itself if it is already a SyncWriter.
func NewSyncWriter(w io.Writer) *SyncWriter {
	if sw, ok := w.(*SyncWriter); ok {
		return sw
	}
	return &SyncWriter{w: w}
}

func (s *SyncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
