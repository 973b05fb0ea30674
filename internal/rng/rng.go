// Package rng provides the single random source injected into the
// progression core. Routing every draw through one seeded source keeps
// whole turns replayable in tests.
package rng

import (
	"math/rand"
	"time"
)

// Source is the draw interface the engine, mutation manager and ending
// resolver depend on. Implementations need not be safe for concurrent use;
// the core is single-threaded by contract.
type Source interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
	// Range returns a uniform int in [min, max], inclusive on both ends.
	// min may be negative; min must be <= max.
	Range(min, max int) int
}

type seededSource struct {
	rng *rand.Rand
}

// New returns a deterministic Source for the given seed. The same seed
// produces the same draw sequence.
func New(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

// NewTimeSeeded returns a Source seeded from the wall clock, for production
// sessions where replay is not needed.
func NewTimeSeeded() Source {
	return New(time.Now().UnixNano())
}

func (s *seededSource) Intn(n int) int {
	return s.rng.Intn(n)
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

func (s *seededSource) Range(min, max int) int {
	if min == max {
		return min
	}
	return min + s.rng.Intn(max-min+1)
}
