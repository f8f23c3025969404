// Package seed derives the random-number generators a simulation run consumes.
//
// Every run owns its own generators; nothing in the pipeline reads a
// process-wide source, so runs of an aggregate can execute in parallel and
// still reproduce bit-identical results for the same seed.
package seed

import "math/rand/v2"

// Stream identifiers keep consumers independent: drawing more numbers in one
// stage never shifts the sequence another stage sees.
const (
	streamShipments uint64 = 0x5348495053 // "SHIPS"
	streamPest      uint64 = 0x50455354   // "PEST"
	streamInspect   uint64 = 0x494e5350   // "INSP"
)

// Streams holds the generators for one run.
type Streams struct {
	// Shipments drives parametric shipment generation.
	Shipments *rand.Rand

	// Pest drives infestation draws. *rand.Rand satisfies rand.Source, so it
	// can also back gonum distributions.
	Pest *rand.Rand

	// Inspection drives randomized sampling strategies.
	Inspection *rand.Rand
}

// New returns the generators for a run. A nil seed leaves the run
// nondeterministic; a non-nil seed fixes every stream.
func New(seed *int64) *Streams {
	if seed == nil {
		return &Streams{
			Shipments:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			Pest:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			Inspection: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		}
	}
	s := uint64(*seed)
	return &Streams{
		Shipments:  rand.New(rand.NewPCG(s, streamShipments)),
		Pest:       rand.New(rand.NewPCG(s, streamPest)),
		Inspection: rand.New(rand.NewPCG(s, streamInspect)),
	}
}

// ForRun returns the seed of run i in an aggregate with the given base seed:
// base+i when base is set, nil for every run otherwise.
func ForRun(base *int64, i int) *int64 {
	if base == nil {
		return nil
	}
	s := *base + int64(i)
	return &s
}

// Ptr returns a pointer to seed, for callers building Options literals.
func Ptr(seed int64) *int64 {
	return &seed
}
