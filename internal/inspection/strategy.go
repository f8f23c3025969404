// Package inspection implements the box sampling strategies applied to
// shipments that the release gate sends to inspection.
package inspection

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/models"
)

// Configuration errors returned by New.
var (
	ErrUnknownStrategy    = errors.New("unknown inspection strategy")
	ErrUnknownEndStrategy = errors.New("unknown inspection end strategy")
)

// Kind names a sampling strategy.
type Kind string

const (
	Percentage Kind = "percentage"
	FirstN     Kind = "first_n"
	First      Kind = "first"
	OneRandom  Kind = "one_random"
	All        Kind = "all"
)

// EndStrategy says whether a percentage inspection opens every sampled box
// or stops at the first infested one.
type EndStrategy string

const (
	ToCompletion EndStrategy = "to_completion"
	ToDetection  EndStrategy = "to_detection"
)

// Strategy is a validated sampling rule. Only the parameters of its Kind
// are meaningful.
type Strategy struct {
	kind Kind

	proportion float64
	minBoxes   int
	end        EndStrategy

	firstN int

	rng *rand.Rand
}

// New validates cfg and returns the strategy it selects. rng is used only by
// one_random and may be nil for other kinds.
func New(cfg config.InspectionConfig, rng *rand.Rand) (*Strategy, error) {
	s := &Strategy{kind: Kind(cfg.Strategy), rng: rng}
	switch s.kind {
	case Percentage:
		s.proportion = cfg.Percentage.Proportion
		s.minBoxes = cfg.Percentage.MinBoxes
		s.end = EndStrategy(cfg.Percentage.EndStrategy)
		if s.end != ToCompletion && s.end != ToDetection {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEndStrategy, cfg.Percentage.EndStrategy)
		}
	case FirstN:
		s.firstN = cfg.FirstNBoxes
	case OneRandom:
		if rng == nil {
			return nil, fmt.Errorf("inspection strategy %s: nil random source", s.kind)
		}
	case First, All:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Strategy)
	}
	return s, nil
}

// Kind returns the strategy's kind.
func (s *Strategy) Kind() Kind { return s.kind }

// Inspect samples sh and reports whether every opened box was clean along
// with the number of boxes actually opened.
func (s *Strategy) Inspect(sh *models.Shipment) models.Verdict {
	switch s.kind {
	case Percentage:
		n := int(math.Ceil(s.proportion * float64(sh.NumBoxes)))
		n = min(max(n, s.minBoxes), sh.NumBoxes)
		return scan(sh, n, s.end == ToDetection)
	case FirstN:
		return scan(sh, min(s.firstN, sh.NumBoxes), true)
	case First:
		return models.Verdict{Passed: !sh.Box(0), BoxesExamined: 1}
	case OneRandom:
		return models.Verdict{Passed: !sh.Box(s.rng.IntN(sh.NumBoxes)), BoxesExamined: 1}
	default:
		return models.Verdict{Passed: !sh.IsInfested(), BoxesExamined: sh.NumBoxes}
	}
}

// scan opens the first n boxes. With stopAtDetection it reports only the
// boxes opened up to and including the first infested one.
func scan(sh *models.Shipment, n int, stopAtDetection bool) models.Verdict {
	passed := true
	for i := 0; i < n; i++ {
		if !sh.Box(i) {
			continue
		}
		if stopAtDetection {
			return models.Verdict{Passed: false, BoxesExamined: i + 1}
		}
		passed = false
	}
	return models.Verdict{Passed: passed, BoxesExamined: n}
}
