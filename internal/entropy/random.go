// Package entropy provides the randomness source injected into the economy
// and bot decision engines. Every stochastic choice flows through a Source
// so a game can be replayed deterministically from its seed.
package entropy

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the randomness contract consumed by the engines.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Uniform returns a uniform value in [min, max).
	Uniform(min, max float64) float64
	// IntRange returns a uniform integer in [min, max] inclusive.
	IntRange(min, max int) int
}

// seeded is a Source backed by math/rand with an explicit seed.
// The mutex lets one source serve parallel games; within a game all
// consumption is already serialized by the owning turn loop.
type seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeeded returns a deterministic Source for the given seed.
func NewSeeded(seed int64) Source {
	return &seeded{rng: rand.New(rand.NewSource(seed))}
}

// New returns a time-seeded Source for live games.
func New() Source {
	return NewSeeded(time.Now().UnixNano())
}

func (s *seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *seeded) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.Float64()*(max-min)
}

func (s *seeded) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.rng.Intn(max-min+1)
}
