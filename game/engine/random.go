package engine

import (
	"math/rand/v2"
)

// Source is the random number source threaded through every stochastic call
// site (weather, event, growth and damage rolls, city placement).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a number in [0, 1)
	Float64() float64
	// IntN returns a number in [0, n); n must be positive
	IntN(n int) int
}

// NewSource returns a seeded PCG source. Equal seeds replay identical games.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the runtime's entropy
func NewRandomSource() Source {
	return NewSource(rand.Uint64())
}

// roll reports whether a probability-p roll succeeds
func roll(rng Source, p float64) bool {
	return rng.Float64() < p
}
