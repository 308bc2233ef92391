package core

import (
	"math/rand/v2"

	icore "hashlife/internal/core"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic
// seeding of test soups.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Cell returns a random cell value in [0, n).
func (r *RNG) Cell(n int) icore.Cell {
	if n <= 0 {
		return 0
	}
	return icore.Cell(r.r.IntN(n))
}

// FillBinary fills the buffer with 0/1 cells.
func FillBinary(r *rand.Rand, buf []icore.Cell) {
	for i := range buf {
		buf[i] = icore.Cell(r.IntN(2))
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
