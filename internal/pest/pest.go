// Package pest marks the stems of generated shipments as infested.
//
// A shipment first draws whether it carries pest at all
// (infestation_probability). An infested shipment then receives stems
// according to its arrangement: independently per stem, or in contiguous
// clusters whose total size is binomially distributed.
package pest

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/models"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrUnknownArrangement is returned for arrangement names no model implements.
var ErrUnknownArrangement = errors.New("unknown pest arrangement")

// Arrangement names how infested stems are laid out in a shipment.
type Arrangement string

const (
	Random    Arrangement = "random"
	Clustered Arrangement = "clustered"
)

// Model applies infestation to a shipment exactly once.
type Model interface {
	Infest(s *models.Shipment) error
}

// New builds the model described by cfg, drawing from rng.
func New(cfg config.PestConfig, rng *rand.Rand) (Model, error) {
	if rng == nil {
		return nil, fmt.Errorf("pest model: nil random source")
	}
	arrangement := Arrangement(cfg.Arrangement)
	switch arrangement {
	case Random, Clustered:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownArrangement, cfg.Arrangement)
	}

	return &stemModel{
		arrangement: arrangement,
		rate:        cfg.InfestationRate,
		maxCluster:  cfg.Clustered.MaxStemsPerCluster,
		rng:         rng,
		carries:     distuv.Bernoulli{P: cfg.InfestationProbability, Src: rng},
		perStem:     distuv.Bernoulli{P: cfg.InfestationRate, Src: rng},
	}, nil
}

type stemModel struct {
	arrangement Arrangement
	rate        float64
	maxCluster  int
	rng         *rand.Rand
	carries     distuv.Bernoulli
	perStem     distuv.Bernoulli
}

func (m *stemModel) Infest(s *models.Shipment) error {
	stems := make([]bool, s.NumStems)
	if m.carries.Rand() == 1 {
		switch m.arrangement {
		case Random:
			m.infestRandom(stems)
		case Clustered:
			m.infestClustered(stems, s.StemsPerBox)
		}
	}
	if err := s.ApplyStemInfestation(stems); err != nil {
		return fmt.Errorf("infest shipment %d: %w", s.Seq, err)
	}
	return nil
}

func (m *stemModel) infestRandom(stems []bool) {
	for i := range stems {
		stems[i] = m.perStem.Rand() == 1
	}
}

// infestClustered places Binomial(n, rate) infested stems in clusters of at
// most maxCluster stems (one box when unset). Clusters may overlap.
func (m *stemModel) infestClustered(stems []bool, stemsPerBox int) {
	n := len(stems)
	var count int
	switch {
	case m.rate <= 0:
		return
	case m.rate >= 1:
		count = n
	default:
		count = int(distuv.Binomial{N: float64(n), P: m.rate, Src: m.rng}.Rand())
	}

	maxCluster := m.maxCluster
	if maxCluster < 1 {
		maxCluster = stemsPerBox
	}
	for count > 0 {
		size := min(count, maxCluster, n)
		start := m.rng.IntN(n - size + 1)
		for i := start; i < start+size; i++ {
			stems[i] = true
		}
		count -= size
	}
}

// Noop leaves shipments as their source produced them.
type Noop struct{}

// Infest implements Model.
func (Noop) Infest(*models.Shipment) error { return nil }
