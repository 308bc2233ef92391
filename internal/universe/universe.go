// Package universe ties a quadtree root to the infinite plane it
// represents: cell access, root growth and contraction, and the step
// operation that advances the world by powers of two.
package universe

import (
	"hashlife/internal/core"
	"hashlife/internal/store"
)

// Universe is a root node plus the background cell filling the infinite
// sea outside it. The root of level L covers coordinates [-2^L, 2^L) on
// both axes.
type Universe struct {
	store      *store.Store
	root       *store.Node
	background core.Cell
}

// New creates an empty universe over the given store, using the store's
// rule table.
func New(st *store.Store) *Universe {
	return &Universe{
		store: st,
		root:  st.NullNode(0, 0),
	}
}

// Store returns the backing node store.
func (u *Universe) Store() *store.Store { return u.store }

// Root returns the current root node. The universe keeps its reference;
// callers that hold on to it across a Step must Retain it.
func (u *Universe) Root() *store.Node { return u.root }

// Background returns the cell type of the infinite sea outside the root.
func (u *Universe) Background() core.Cell { return u.background }

// Finalize marks the end of pattern loading. It is a no-op, present for
// API symmetry with readers that buffer.
func (u *Universe) Finalize() {}

// inBounds reports whether (x, y) lies inside the root's square.
func (u *Universe) inBounds(x, y int64) bool {
	level := u.root.Level()
	if level >= 63 {
		return true
	}
	size := int64(1) << uint(level)
	return x >= -size && x < size && y >= -size && y < size
}

// SetCell writes one cell, growing the root until the coordinate is
// covered and rebuilding the path down to it.
func (u *Universe) SetCell(x, y int64, c core.Cell) {
	for !u.inBounds(x, y) {
		u.expandRoot()
	}
	newRoot := u.setCellRec(u.root, 0, 0, x, y, c)
	u.root.Release()
	u.root = newRoot
}

func (u *Universe) setCellRec(n *store.Node, cx, cy, x, y int64, c core.Cell) *store.Node {
	if n.Level() == 0 {
		nw, ne, sw, se := n.CellNW(), n.CellNE(), n.CellSW(), n.CellSE()
		switch {
		case x == cx-1 && y == cy-1:
			nw = c
		case x == cx && y == cy-1:
			ne = c
		case x == cx-1 && y == cy:
			sw = c
		case x == cx && y == cy:
			se = c
		default:
			panic("universe: cell outside leaf bounds")
		}
		return u.store.FindOrInsertLeaf(nw, ne, sw, se)
	}
	half := int64(1) << uint(n.Level()-1)
	nw, ne, sw, se := n.NW(), n.NE(), n.SW(), n.SE()
	var child *store.Node
	if x < cx {
		if y < cy {
			child = u.setCellRec(nw, cx-half, cy-half, x, y, c)
			nw = child
		} else {
			child = u.setCellRec(sw, cx-half, cy+half, x, y, c)
			sw = child
		}
	} else {
		if y < cy {
			child = u.setCellRec(ne, cx+half, cy-half, x, y, c)
			ne = child
		} else {
			child = u.setCellRec(se, cx+half, cy+half, x, y, c)
			se = child
		}
	}
	result := u.store.FindOrInsertNonleaf(nw, ne, sw, se)
	child.Release()
	return result
}

// GetCell reads one cell; coordinates outside the root read as the
// background.
func (u *Universe) GetCell(x, y int64) core.Cell {
	if !u.inBounds(x, y) {
		return u.background
	}
	return getCellRec(u.root, 0, 0, x, y)
}

func getCellRec(n *store.Node, cx, cy, x, y int64) core.Cell {
	if n.Level() == 0 {
		switch {
		case x == cx-1 && y == cy-1:
			return n.CellNW()
		case x == cx && y == cy-1:
			return n.CellNE()
		case x == cx-1 && y == cy:
			return n.CellSW()
		default:
			return n.CellSE()
		}
	}
	half := int64(1) << uint(n.Level()-1)
	if x < cx {
		if y < cy {
			return getCellRec(n.NW(), cx-half, cy-half, x, y)
		}
		return getCellRec(n.SW(), cx-half, cy+half, x, y)
	}
	if y < cy {
		return getCellRec(n.NE(), cx+half, cy-half, x, y)
	}
	return getCellRec(n.SE(), cx+half, cy+half, x, y)
}

// expandRoot replaces the root with a node one level larger, the old
// children pushed to the inner corners of the new ones and background
// filling the rest.
func (u *Universe) expandRoot() {
	st := u.store
	old := u.root
	var newRoot *store.Node
	if old.Level() == 0 {
		bg := u.background
		nw := st.FindOrInsertLeaf(bg, bg, bg, old.CellNW())
		ne := st.FindOrInsertLeaf(bg, bg, old.CellNE(), bg)
		sw := st.FindOrInsertLeaf(bg, old.CellSW(), bg, bg)
		se := st.FindOrInsertLeaf(old.CellSE(), bg, bg, bg)
		newRoot = st.FindOrInsertNonleaf(nw, ne, sw, se)
		releaseNodes(nw, ne, sw, se)
	} else {
		null := st.NullNode(old.Level()-1, u.background)
		nw := st.FindOrInsertNonleaf(null, null, null, old.NW())
		ne := st.FindOrInsertNonleaf(null, null, old.NE(), null)
		sw := st.FindOrInsertNonleaf(null, old.SW(), null, null)
		se := st.FindOrInsertNonleaf(old.SE(), null, null, null)
		newRoot = st.FindOrInsertNonleaf(nw, ne, sw, se)
		releaseNodes(nw, ne, sw, se, null)
	}
	old.Release()
	u.root = newRoot
}

// Step advances the universe by 2^logStep generations. The root is grown
// so the live region cannot reach the outer ring, the background is
// advanced through the null node (rules with B0 alternate it), and the
// root is replaced by its stepped center, then contracted while the rim
// is empty.
func (u *Universe) Step(logStep int) {
	if logStep < 0 {
		panic("universe: negative log step")
	}
	st := u.store
	u.expandRoot()
	u.expandRoot()
	for u.root.Level() < logStep+1 {
		u.expandRoot()
	}

	null := st.NullNode(u.root.Level(), u.background)
	nextNull := null.NextState(st, logStep)
	u.background = getCellRec(nextNull, 0, 0, 0, 0)
	null.Release()
	nextNull.Release()

	newRoot := u.root.NextState(st, logStep)
	u.root.Release()
	u.root = newRoot

	u.contractRoot()
}

// contractRoot shrinks the root to its center while all twelve outer
// grand-quadrants hold only background.
func (u *Universe) contractRoot() {
	st := u.store
	for u.root.Level() >= 2 {
		null := st.NullNode(u.root.Level()-2, u.background)
		nw, ne, sw, se := u.root.NW(), u.root.NE(), u.root.SW(), u.root.SE()
		rimEmpty := nw.NW() == null && nw.NE() == null && nw.SW() == null &&
			ne.NW() == null && ne.NE() == null && ne.SE() == null &&
			sw.NW() == null && sw.SW() == null && sw.SE() == null &&
			se.NE() == null && se.SW() == null && se.SE() == null
		null.Release()
		if !rimEmpty {
			return
		}
		center := u.root.Center(st)
		u.root.Release()
		u.root = center
	}
}

// Population counts live cells under the root. Structural sharing makes
// the walk proportional to distinct subtrees, not area.
func (u *Universe) Population() uint64 {
	memo := map[*store.Node]uint64{}
	return countLive(u.root, memo)
}

func countLive(n *store.Node, memo map[*store.Node]uint64) uint64 {
	if v, ok := memo[n]; ok {
		return v
	}
	var v uint64
	if n.Level() == 0 {
		for _, c := range []core.Cell{n.CellNW(), n.CellNE(), n.CellSW(), n.CellSE()} {
			if c != 0 {
				v++
			}
		}
	} else {
		v = countLive(n.NW(), memo) + countLive(n.NE(), memo) +
			countLive(n.SW(), memo) + countLive(n.SE(), memo)
	}
	memo[n] = v
	return v
}

func releaseNodes(nodes ...*store.Node) {
	for _, n := range nodes {
		n.Release()
	}
}
