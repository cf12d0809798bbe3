package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// IntN returns a value in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Hash mixes a cell coordinate, a tick counter and a salt into a well
// distributed 64-bit value. Equal inputs always produce equal outputs, which
// lets every cell draw its own random bits without shared state.
func Hash(x, y int, tick uint64, salt int64) uint64 {
	h := splitmix(uint64(salt))
	h = splitmix(h ^ uint64(uint32(x)))
	h = splitmix(h ^ uint64(uint32(y))<<32)
	return splitmix(h ^ tick)
}

func splitmix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
