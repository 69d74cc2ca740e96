/*package rng contains the seeded random number generator used by every
operation that makes random choices. Results only depend on the seed and on
the number of draws, so runs are exactly reproducible across machines and Go
versions, which math/rand doesn't promise.
*/
package rng

import (
	"math"
)

var (
	xorshiftMaxUint = float64(math.MaxUint32) + 1
)

// RNG is an xorshift128 random number generator. It is not thread safe.
type RNG struct {
	w, x, y, z uint32
}

// New creates an RNG from a 64-bit seed. Every bit of the seed affects the
// stream: the seed is expanded with splitmix64 into the generator's 128
// bits of state.
func New(seed uint64) *RNG {
	s := seed
	a, b := splitmix64(&s), splitmix64(&s)
	gen := &RNG{uint32(a), uint32(a >> 32), uint32(b), uint32(b >> 32)}
	if gen.w|gen.x|gen.y|gen.z == 0 {
		// The all-zero state is a fixed point.
		gen.x = 123456789
	}
	return gen
}

func splitmix64(s *uint64) uint64 {
	*s += 0x9e3779b97f4a7c15
	z := *s
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Uint32 returns the next raw 32-bit value.
func (gen *RNG) Uint32() uint32 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	return gen.w
}

// Uniform generates a single random number in the range [0, 1). Exactly one
// Uint32 is consumed per call.
func (gen *RNG) Uniform() float64 {
	return float64(gen.Uint32()) / xorshiftMaxUint
}

// Intn returns a uniformly distributed integer in [0, n). It uses rejection
// sampling, so there is no modulo bias. n must be in (0, 2^32].
func (gen *RNG) Intn(n int) int {
	if n <= 0 || uint64(n) > 1<<32 {
		panic("rng: Intn called with n out of range")
	}
	bound := uint64(n)
	// Values at or above limit would favor small results.
	limit := (1 << 32) - (1<<32)%bound
	for {
		x := uint64(gen.Uint32())
		if x < limit {
			return int(x % bound)
		}
	}
}

// Shuffle permutes n elements with the Fisher-Yates algorithm, calling swap
// to exchange elements i and j. Every permutation is equally likely.
func (gen *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := gen.Intn(i + 1)
		swap(i, j)
	}
}
