// Package shipments provides the sources that feed shipments into a
// simulation run: parametric generation, F280 record replay, and a fixed
// list for scripted scenarios.
package shipments

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pathways-sim/pathways/internal/models"
)

// ErrExhausted is returned when a finite source has no shipments left.
var ErrExhausted = errors.New("shipment source exhausted")

// Source produces one shipment per call. Returned shipments carry identity
// and unit counts but no infestation.
type Source interface {
	Next() (*models.Shipment, error)
}

// Parameters configures a ParameterSource.
type Parameters struct {
	Ports       []string
	Origins     []string
	Flowers     []string
	MinBoxes    int
	MaxBoxes    int
	StemsPerBox int
	StartDate   time.Time
}

// ParameterSource generates shipments from parameter ranges. Every call
// advances the arrival date by one day, so the first shipment arrives the
// day after StartDate.
type ParameterSource struct {
	params Parameters
	rng    *rand.Rand
	date   time.Time
	seq    int
}

// NewParameterSource validates params and returns a source drawing from rng.
func NewParameterSource(params Parameters, rng *rand.Rand) (*ParameterSource, error) {
	if len(params.Ports) == 0 || len(params.Origins) == 0 || len(params.Flowers) == 0 {
		return nil, fmt.Errorf("parameter source: ports, origins and flowers must be non-empty")
	}
	if params.MinBoxes < 1 || params.MaxBoxes < params.MinBoxes {
		return nil, fmt.Errorf("parameter source: invalid box range [%d, %d]", params.MinBoxes, params.MaxBoxes)
	}
	if params.StemsPerBox < 1 {
		return nil, fmt.Errorf("parameter source: stems_per_box must be at least 1, got %d", params.StemsPerBox)
	}
	if rng == nil {
		return nil, fmt.Errorf("parameter source: nil random source")
	}
	return &ParameterSource{params: params, rng: rng, date: params.StartDate}, nil
}

// Next implements Source.
func (p *ParameterSource) Next() (*models.Shipment, error) {
	p.date = p.date.AddDate(0, 0, 1)
	p.seq++

	port := p.params.Ports[p.rng.IntN(len(p.params.Ports))]
	origin := p.params.Origins[p.rng.IntN(len(p.params.Origins))]
	flower := p.params.Flowers[p.rng.IntN(len(p.params.Flowers))]
	boxes := p.params.MinBoxes + p.rng.IntN(p.params.MaxBoxes-p.params.MinBoxes+1)

	s, err := models.NewShipment(port, origin, flower, p.date, boxes, boxes*p.params.StemsPerBox, p.params.StemsPerBox)
	if err != nil {
		return nil, fmt.Errorf("generate shipment %d: %w", p.seq, err)
	}
	s.Seq = p.seq
	return s, nil
}

// StaticSource hands out a fixed list of shipments in order.
type StaticSource struct {
	shipments []*models.Shipment
	next      int
}

// NewStaticSource returns a source over the given shipments. Sequence
// numbers are assigned in order when unset.
func NewStaticSource(shipments ...*models.Shipment) *StaticSource {
	for i, s := range shipments {
		if s.Seq == 0 {
			s.Seq = i + 1
		}
	}
	return &StaticSource{shipments: shipments}
}

// Next implements Source.
func (s *StaticSource) Next() (*models.Shipment, error) {
	if s.next >= len(s.shipments) {
		return nil, ErrExhausted
	}
	sh := s.shipments[s.next]
	s.next++
	return sh, nil
}
