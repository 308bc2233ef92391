// Package life is a naive bounded simulator for outer-totalistic rules.
// It exists as the reference oracle the engine is tested against: every
// cell is recomputed every generation, no sharing, no cleverness.
package life

import (
	"hashlife/internal/core"
	"hashlife/internal/rule"
)

// Sim simulates a window of the plane. Cells outside the window are dead;
// callers size the window with enough margin that the pattern under test
// never reaches the edge.
type Sim struct {
	grid *core.CellGrid
	next *core.CellGrid
	tbl  *rule.Table
}

// New returns a simulator over the window [x0, x0+w) x [y0, y0+h).
func New(tbl *rule.Table, x0, y0 int64, w, h int) *Sim {
	return &Sim{
		grid: core.NewCellGrid(x0, y0, w, h),
		next: core.NewCellGrid(x0, y0, w, h),
		tbl:  tbl,
	}
}

// Set writes a cell at world coordinates.
func (s *Sim) Set(x, y int64, c core.Cell) {
	s.grid.Set(x, y, c)
}

// At reads a cell at world coordinates.
func (s *Sim) At(x, y int64) core.Cell {
	return s.grid.At(x, y)
}

// Step advances one generation.
func (s *Sim) Step() {
	x0, y0 := s.grid.X0, s.grid.Y0
	for y := int64(0); y < int64(s.grid.H); y++ {
		for x := int64(0); x < int64(s.grid.W); x++ {
			wx, wy := x0+x, y0+y
			var n [8]core.Cell
			n[0] = s.grid.At(wx-1, wy-1)
			n[1] = s.grid.At(wx, wy-1)
			n[2] = s.grid.At(wx+1, wy-1)
			n[3] = s.grid.At(wx-1, wy)
			n[4] = s.grid.At(wx+1, wy)
			n[5] = s.grid.At(wx-1, wy+1)
			n[6] = s.grid.At(wx, wy+1)
			n[7] = s.grid.At(wx+1, wy+1)
			s.next.Set(wx, wy, s.tbl.Eval(s.grid.At(wx, wy), n))
		}
	}
	s.grid, s.next = s.next, s.grid
}

// StepN advances n generations.
func (s *Sim) StepN(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Population counts live cells in the window.
func (s *Sim) Population() uint64 {
	var count uint64
	for _, c := range s.grid.Cells() {
		if c != 0 {
			count++
		}
	}
	return count
}
