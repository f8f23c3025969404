package simulation

import (
	"fmt"

	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/pest"
	"github.com/pathways-sim/pathways/internal/seed"
	"github.com/pathways-sim/pathways/internal/shipments"
)

// Components are the per-run collaborators that produce and infest
// shipments.
type Components struct {
	Source shipments.Source
	Pest   pest.Model
}

// ComponentFactory builds fresh components for run index run, drawing any
// randomness from streams.
type ComponentFactory func(run int, streams *seed.Streams) (Components, error)

// configComponents returns the factory for cfg's pathway. F280 records are
// read once here and shared by every run.
func configComponents(cfg *config.Config) (ComponentFactory, error) {
	var records []shipments.F280Record
	replay := cfg.InputF280 != ""
	if replay {
		var err error
		records, err = shipments.LoadF280(cfg.InputF280)
		if err != nil {
			return nil, err
		}
	}

	start, err := cfg.StartTime()
	if err != nil {
		return nil, err
	}

	return func(run int, streams *seed.Streams) (Components, error) {
		var src shipments.Source
		var err error
		if replay {
			src, err = shipments.NewF280Source(records, cfg.StemsPerBox)
		} else {
			src, err = shipments.NewParameterSource(shipments.Parameters{
				Ports:       cfg.Ports,
				Origins:     cfg.Shipment.Origins,
				Flowers:     cfg.Shipment.Flowers,
				MinBoxes:    cfg.Shipment.Boxes.Min,
				MaxBoxes:    cfg.Shipment.Boxes.Max,
				StemsPerBox: cfg.StemsPerBox,
				StartDate:   start,
			}, streams.Shipments)
		}
		if err != nil {
			return Components{}, fmt.Errorf("run %d: shipment source: %w", run, err)
		}

		model, err := pest.New(cfg.Pest, streams.Pest)
		if err != nil {
			return Components{}, fmt.Errorf("run %d: %w", run, err)
		}
		return Components{Source: src, Pest: model}, nil
	}, nil
}
