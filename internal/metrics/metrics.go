// Package metrics exposes simulation counters through a per-process
// Prometheus registry that can be exported as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/pathways-sim/pathways/internal/pathutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pathways"

// Collector holds the simulation metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	reg *prometheus.Registry

	// ShipmentsTotal counts classified shipments by outcome.
	ShipmentsTotal *prometheus.CounterVec

	// InspectionsTotal counts shipments actually inspected.
	InspectionsTotal prometheus.Counter

	// BoxesInspectedTotal counts boxes opened.
	BoxesInspectedTotal prometheus.Counter

	// ReleaseProgramAppliedTotal counts shipments a release program handled.
	ReleaseProgramAppliedTotal *prometheus.CounterVec

	// RunsTotal counts completed runs.
	RunsTotal prometheus.Counter

	// RunDurationSeconds observes wall time per run.
	RunDurationSeconds prometheus.Histogram
}

// New creates a collector on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		reg: reg,
		ShipmentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shipments_total",
				Help:      "Shipments processed by outcome",
			},
			[]string{"outcome"},
		),
		InspectionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inspections_total",
			Help:      "Shipments actually inspected",
		}),
		BoxesInspectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boxes_inspected_total",
			Help:      "Boxes opened during inspections",
		}),
		ReleaseProgramAppliedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "release_program_applied_total",
				Help:      "Shipments a release program applied to",
			},
			[]string{"program"},
		),
		RunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed simulation runs",
		}),
		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one simulation run in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// ObserveShipment records one classified shipment.
func (c *Collector) ObserveShipment(outcome string, inspected bool, boxesExamined int, program string) {
	if c == nil {
		return
	}
	c.ShipmentsTotal.WithLabelValues(outcome).Inc()
	if inspected {
		c.InspectionsTotal.Inc()
		c.BoxesInspectedTotal.Add(float64(boxesExamined))
	}
	if program != "" {
		c.ReleaseProgramAppliedTotal.WithLabelValues(program).Inc()
	}
}

// ObserveRun records a completed run.
func (c *Collector) ObserveRun(d time.Duration) {
	if c == nil {
		return
	}
	c.RunsTotal.Inc()
	c.RunDurationSeconds.Observe(d.Seconds())
}

// Registry returns the underlying registry, or nil for a nil collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	if err := pathutil.EnsureParentDir(path); err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, c.reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", pathutil.RedactPath(path), err)
	}
	return nil
}
