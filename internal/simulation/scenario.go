package simulation

import (
	"testing"
	"time"

	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/constants"
	"github.com/pathways-sim/pathways/internal/models"
	"github.com/pathways-sim/pathways/internal/pest"
	"github.com/pathways-sim/pathways/internal/seed"
	"github.com/pathways-sim/pathways/internal/shipments"
)

// Scenario scripts the shipments a runner sees, with infestation already
// decided, so a policy can be checked against known ground truth.
type Scenario struct {
	Name            string
	Inspection      config.InspectionConfig
	ReleasePrograms map[string]config.ReleaseProgramConfig

	// Runs lists the shipments of each run index. Runs past the end of the
	// list replay the last entry.
	Runs [][]ShipmentSpec
}

// ShipmentSpec is a flat builder for a scripted shipment.
type ShipmentSpec struct {
	Port      string
	Origin    string
	Commodity string
	Arrival   time.Time
	// Boxes is the infestation of each box, one stem per box.
	Boxes []bool
}

// ToShipment builds a fresh shipment, applying defaults.
func (s ShipmentSpec) ToShipment() (*models.Shipment, error) {
	port, origin, commodity := s.Port, s.Origin, s.Commodity
	if port == "" {
		port = "scenario-port"
	}
	if origin == "" {
		origin = "scenario-origin"
	}
	if commodity == "" {
		commodity = "scenario-flower"
	}
	arrival := s.Arrival
	if arrival.IsZero() {
		arrival = time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC)
	}
	return models.NewShipmentWithBoxes(port, origin, commodity, arrival, s.Boxes)
}

// Config returns the configuration the scenario's runner is built from.
func (sc Scenario) Config() *config.Config {
	cfg := config.Default()
	cfg.Inspection = sc.Inspection
	if cfg.Inspection.Percentage.EndStrategy == "" {
		cfg.Inspection.Percentage.EndStrategy = constants.DefaultEndStrategy
	}
	cfg.ReleasePrograms = sc.ReleasePrograms
	return cfg
}

// Components returns a factory feeding each run its scripted shipments.
// Shipments are rebuilt for every run.
func (sc Scenario) Components() ComponentFactory {
	return func(run int, _ *seed.Streams) (Components, error) {
		var specs []ShipmentSpec
		if len(sc.Runs) > 0 {
			specs = sc.Runs[min(run, len(sc.Runs)-1)]
		}
		list := make([]*models.Shipment, 0, len(specs))
		for _, spec := range specs {
			s, err := spec.ToShipment()
			if err != nil {
				return Components{}, err
			}
			list = append(list, s)
		}
		return Components{Source: shipments.NewStaticSource(list...), Pest: pest.Noop{}}, nil
	}
}

// NewScenarioRunner builds a runner over the scenario's shipments.
func NewScenarioRunner(sc Scenario, opts ...RunnerOption) (*Runner, error) {
	opts = append([]RunnerOption{WithComponents(sc.Components())}, opts...)
	return NewRunner(sc.Config(), opts...)
}

// MustScenarioRunner is NewScenarioRunner for tests.
func MustScenarioRunner(t testing.TB, sc Scenario, opts ...RunnerOption) *Runner {
	t.Helper()
	r, err := NewScenarioRunner(sc, opts...)
	if err != nil {
		t.Fatalf("scenario %s: NewScenarioRunner: %v", sc.Name, err)
	}
	return r
}
