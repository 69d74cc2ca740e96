package rng

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterminism(t *testing.T) {
	seeds := []uint64{0, 1, 2, 1 << 40, ^uint64(0)}

	for _, seed := range seeds {
		a, b := New(seed), New(seed)
		for i := 0; i < 1000; i++ {
			require.Equal(t, a.Uint32(), b.Uint32(), "seed %d, draw %d",
				seed, i)
		}
	}

	a, b := New(0), New(1)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint32() == b.Uint32() {
			same++
		}
	}
	assert.Less(t, same, 5, "seeds 0 and 1 give nearly the same stream")
}

func TestUniform(t *testing.T) {
	gen := New(42)
	x := make([]float64, 100000)
	for i := range x {
		x[i] = gen.Uniform()
	}

	mean := 0.0
	for i := range x {
		require.True(t, x[i] >= 0 && x[i] < 1, "%d) %g", i, x[i])
		mean += x[i]
	}
	mean /= float64(len(x))
	assert.InDelta(t, 0.5, mean, 0.01)

	// Uniform consumes exactly one draw.
	a, b := New(7), New(7)
	a.Uniform()
	b.Uint32()
	assert.Equal(t, a.Uint32(), b.Uint32())
}

func TestIntn(t *testing.T) {
	tests := []int{1, 2, 3, 7, 10, 1000, 1 << 31}
	gen := New(3)

	for _, n := range tests {
		for i := 0; i < 1000; i++ {
			k := gen.Intn(n)
			require.True(t, k >= 0 && k < n, "Intn(%d) = %d", n, k)
		}
	}

	counts := make([]int, 6)
	for i := 0; i < 60000; i++ {
		counts[gen.Intn(6)]++
	}
	for i := range counts {
		assert.InDelta(t, 10000, counts[i], 500, "face %d", i)
	}

	assert.Panics(t, func() { gen.Intn(0) })
	assert.Panics(t, func() { gen.Intn(-1) })
}

func TestShuffle(t *testing.T) {
	x := make([]int, 100)
	for i := range x {
		x[i] = i
	}

	y := append([]int{}, x...)
	New(9).Shuffle(len(y), func(i, j int) { y[i], y[j] = y[j], y[i] })
	assert.NotEqual(t, x, y)

	z := append([]int{}, x...)
	New(9).Shuffle(len(z), func(i, j int) { z[i], z[j] = z[j], z[i] })
	assert.Equal(t, y, z, "same seed, same permutation")

	sort.Ints(y)
	assert.Equal(t, x, y, "shuffling is a permutation")

	// Every permutation of three elements shows up about equally often.
	counts := map[[3]int]int{}
	gen := New(11)
	for i := 0; i < 60000; i++ {
		p := [3]int{0, 1, 2}
		gen.Shuffle(3, func(i, j int) { p[i], p[j] = p[j], p[i] })
		counts[p]++
	}
	assert.Len(t, counts, 6)
	for p, n := range counts {
		assert.InDelta(t, 10000, n, 500, "permutation %v", p)
	}
}
