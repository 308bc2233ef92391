package universe

import (
	"fmt"
	"strings"

	"hashlife/internal/core"
	"hashlife/internal/store"
)

// maxDumpLevel bounds String output; a level-5 root is already a 64x64
// grid.
const maxDumpLevel = 5

// String renders the root as a text grid for debugging, one character per
// cell. Deep roots render as a summary line instead.
func (u *Universe) String() string {
	if u.root.Level() > maxDumpLevel {
		return fmt.Sprintf("universe{level=%d population=%d background=%d}",
			u.root.Level(), u.Population(), u.background)
	}
	grid := nodeGrid(u.root)
	var b strings.Builder
	for _, row := range grid {
		for i, c := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			if c != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('-')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// nodeGrid flattens a subtree into rows of cells.
func nodeGrid(n *store.Node) [][]core.Cell {
	if n.Level() == 0 {
		return [][]core.Cell{
			{n.CellNW(), n.CellNE()},
			{n.CellSW(), n.CellSE()},
		}
	}
	nw := nodeGrid(n.NW())
	ne := nodeGrid(n.NE())
	sw := nodeGrid(n.SW())
	se := nodeGrid(n.SE())
	half := 1 << uint(n.Level())
	rows := make([][]core.Cell, 0, 2*half)
	for y := 0; y < half; y++ {
		rows = append(rows, append(nw[y], ne[y]...))
	}
	for y := 0; y < half; y++ {
		rows = append(rows, append(sw[y], se[y]...))
	}
	return rows
}
