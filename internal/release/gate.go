// Package release decides whether a shipment must be inspected or may be
// released under a compliance-based release program.
package release

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pathways-sim/pathways/internal/config"
	"github.com/pathways-sim/pathways/internal/models"
)

// ErrUnknownProgram is returned for release programs that are not registered.
var ErrUnknownProgram = errors.New("unknown release program")

// Program names a release program.
type Program string

const (
	// None means every shipment is inspected.
	None Program = ""

	// NaiveCFRP releases small shipments of listed flowers except on the
	// listed flower's day.
	NaiveCFRP Program = "naive_cfrp"
)

// registry lists the programs New accepts.
var registry = []Program{NaiveCFRP}

// Gate is a validated release program.
type Gate struct {
	program  Program
	flowers  []string
	maxBoxes int
}

// New builds the gate for the configured programs. An empty map yields the
// always-inspect default. At most one program may be configured.
func New(programs map[string]config.ReleaseProgramConfig) (*Gate, error) {
	if len(programs) == 0 {
		return &Gate{program: None}, nil
	}
	if len(programs) > 1 {
		names := make([]string, 0, len(programs))
		for name := range programs {
			names = append(names, name)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("only one release program may be configured, got %s", strings.Join(names, ", "))
	}

	// Exactly one entry.
	var name string
	var cfg config.ReleaseProgramConfig
	for name, cfg = range programs {
	}

	p := Program(name)
	if !slices.Contains(registry, p) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	return &Gate{
		program:  p,
		flowers:  slices.Clone(cfg.Flowers),
		maxBoxes: cfg.MaxBoxes,
	}, nil
}

// Program returns the configured program, or None.
func (g *Gate) Program() Program { return g.program }

// Decide returns whether s, arriving at t, must be inspected and which
// program, if any, applied to it.
func (g *Gate) Decide(s *models.Shipment, t time.Time) models.Decision {
	switch g.program {
	case NaiveCFRP:
		if len(g.flowers) == 0 || s.NumBoxes > g.maxBoxes || !slices.Contains(g.flowers, s.Commodity) {
			break
		}
		flowerOfTheDay := g.flowers[t.Day()%len(g.flowers)]
		return models.Decision{MustInspect: s.Commodity == flowerOfTheDay, Program: string(NaiveCFRP)}
	}
	return models.Decision{MustInspect: true}
}
