package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"hashlife/internal/core"
	"hashlife/internal/rule"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(0, rule.Life())
	s.oom = func(nodeCount, maxNodes int64) {
		t.Fatalf("store out of memory: %d nodes, ceiling %d", nodeCount, maxNodes)
	}
	return s
}

func TestLeafHashConsing(t *testing.T) {
	s := newTestStore(t)
	a := s.FindOrInsertLeaf(0, 1, 0, 1)
	b := s.FindOrInsertLeaf(0, 1, 0, 1)
	c := s.FindOrInsertLeaf(1, 0, 1, 0)
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 0, a.Level())
	a.Release()
	b.Release()
	c.Release()
}

func TestNonleafHashConsing(t *testing.T) {
	s := newTestStore(t)
	l1 := s.FindOrInsertLeaf(1, 0, 0, 0)
	l2 := s.FindOrInsertLeaf(0, 0, 0, 1)
	a := s.FindOrInsertNonleaf(l1, l2, l2, l1)
	b := s.FindOrInsertNonleaf(l1, l2, l2, l1)
	assert.Same(t, a, b)
	assert.Equal(t, 1, a.Level())
	assert.Same(t, l1, a.NW())
	assert.Same(t, l1, a.SE())
	releaseAll([]*Node{l1, l2, a, b})
}

func TestNonleafRejectsUnequalLevels(t *testing.T) {
	s := newTestStore(t)
	leaf := s.FindOrInsertLeaf(0, 0, 0, 0)
	mid := s.FindOrInsertNonleaf(leaf, leaf, leaf, leaf)
	assert.Panics(t, func() { s.FindOrInsertNonleaf(leaf, leaf, leaf, mid) })
	leaf.Release()
	mid.Release()
}

func TestNullNode(t *testing.T) {
	s := newTestStore(t)
	n3 := s.NullNode(3, 0)
	assert.Equal(t, 3, n3.Level())
	assert.Same(t, n3.NW(), n3.SE())
	again := s.NullNode(3, 0)
	assert.Same(t, n3, again)

	// a different background builds a distinct tower
	b3 := s.NullNode(3, 2)
	assert.NotSame(t, n3, b3)
	releaseAll([]*Node{n3, again, b3})
}

func TestMake4x4RowMajor(t *testing.T) {
	s := newTestStore(t)
	var cells [16]core.Cell
	cells[1] = 7  // row 0, col 1
	cells[14] = 3 // row 3, col 2
	n := s.Make4x4(cells)
	require.Equal(t, 1, n.Level())
	assert.Equal(t, core.Cell(7), n.NW().CellNE())
	assert.Equal(t, core.Cell(3), n.SE().CellSW())
	assert.Equal(t, core.Cell(0), n.NE().CellNW())
	n.Release()
}

func TestCenter(t *testing.T) {
	s := newTestStore(t)
	var cells [16]core.Cell
	cells[5], cells[6], cells[9], cells[10] = 1, 2, 3, 4
	n := s.Make4x4(cells)
	c := n.Center(s)
	require.Equal(t, 0, c.Level())
	assert.Equal(t, core.Cell(1), c.CellNW())
	assert.Equal(t, core.Cell(2), c.CellNE())
	assert.Equal(t, core.Cell(3), c.CellSW())
	assert.Equal(t, core.Cell(4), c.CellSE())
	n.Release()
	c.Release()
}

func TestNextStateBlockStill(t *testing.T) {
	s := newTestStore(t)
	var cells [16]core.Cell
	cells[5], cells[6], cells[9], cells[10] = 1, 1, 1, 1
	n := s.Make4x4(cells)
	next := n.NextState(s, 0)
	center := n.Center(s)
	assert.Same(t, center, next, "a block is a still life")
	releaseAll([]*Node{n, next, center})
}

func TestNextStateDeterminism(t *testing.T) {
	s := newTestStore(t)
	var cells [16]core.Cell
	cells[5], cells[6], cells[7] = 1, 1, 1 // horizontal triple
	n := s.Make4x4(cells)
	a := n.NextState(s, 0)
	b := n.NextState(s, 0)
	assert.Same(t, a, b)
	releaseAll([]*Node{n, a, b})
}

func TestNextStateLevelZeroPanics(t *testing.T) {
	s := newTestStore(t)
	leaf := s.FindOrInsertLeaf(1, 1, 1, 1)
	assert.Panics(t, func() { leaf.NextState(s, 0) })
	assert.Panics(t, func() { leaf.Center(s) })
	leaf.Release()
}

func TestNextStateLogStepRange(t *testing.T) {
	s := newTestStore(t)
	n := s.NullNode(2, 0)
	assert.Panics(t, func() { n.NextState(s, 2) })
	assert.Panics(t, func() { n.NextState(s, -1) })
	n.Release()
}

func TestWeakHandleTracksCollection(t *testing.T) {
	s := newTestStore(t)
	n := s.FindOrInsertLeaf(4, 4, 4, 4)
	w := NewWeak(n)

	got := w.Get()
	require.Same(t, n, got)
	got.Release()

	// still referenced: survives a collection
	s.Collect()
	got = w.Get()
	require.Same(t, n, got)
	got.Release()

	// unreferenced: the sweep nulls the handle
	n.Release()
	s.Collect()
	assert.Nil(t, w.Get())
}

func TestWeakSetRelinks(t *testing.T) {
	s := newTestStore(t)
	a := s.FindOrInsertLeaf(1, 2, 3, 4)
	b := s.FindOrInsertLeaf(5, 6, 7, 8)
	w := NewWeak(a)
	w.Set(b)
	got := w.Get()
	require.Same(t, b, got)
	got.Release()

	a.Release()
	b.Release()
	s.Collect()
	assert.Nil(t, w.Get())
	assert.Equal(t, 0, s.NodeCount())
}

func TestCollectPreservesReachableTree(t *testing.T) {
	s := newTestStore(t)
	l := s.FindOrInsertLeaf(1, 0, 0, 1)
	root := s.FindOrInsertNonleaf(l, l, l, l)
	l.Release() // root keeps the leaf alive through the child link

	garbage := s.FindOrInsertLeaf(9, 9, 9, 9)
	garbage.Release()

	before := s.NodeCount()
	s.Collect()
	assert.Equal(t, before-1, s.NodeCount(), "only the garbage leaf goes")

	again := s.FindOrInsertNonleaf(root.NW(), root.NE(), root.SW(), root.SE())
	assert.Same(t, root, again)
	root.Release()
	again.Release()
}

func TestCollectEvictsNextStateCache(t *testing.T) {
	s := newTestStore(t)
	var cells [16]core.Cell
	cells[5], cells[6], cells[9], cells[10] = 1, 1, 1, 1
	n := s.Make4x4(cells)
	first := n.NextState(s, 0)
	first.Release() // cache holds only a weak handle

	s.Collect()

	// recomputing after eviction yields the same canonical node
	second := n.NextState(s, 0)
	var want [16]core.Cell
	want[5], want[6], want[9], want[10] = 1, 1, 1, 1
	block := s.Make4x4(want)
	center := block.Center(s)
	assert.Same(t, center, second)
	releaseAll([]*Node{n, second, block, center})
}

func TestAllocationTriggersCollection(t *testing.T) {
	s := New(70, rule.Life())
	oomCalls := 0
	s.oom = func(nodeCount, maxNodes int64) { oomCalls++ }

	// churn garbage leaves; each drops its reference immediately, so the
	// collections triggered past the threshold keep the count bounded
	for i := 0; i < 1000; i++ {
		n := s.FindOrInsertLeaf(core.Cell(i), 0, 0, core.Cell(i%7))
		n.Release()
	}
	assert.Zero(t, oomCalls)
	assert.LessOrEqual(t, s.NodeCount(), 70)
}

func TestOOMWhenEverythingReachable(t *testing.T) {
	s := New(35, rule.Life())
	oomCalls := 0
	s.oom = func(nodeCount, maxNodes int64) { oomCalls++ }

	var held []*Node
	for i := 0; i < 200 && oomCalls == 0; i++ {
		held = append(held, s.FindOrInsertLeaf(core.Cell(i), 1, 2, 3))
	}
	assert.Positive(t, oomCalls, "pinned nodes cannot be reclaimed")
	releaseAll(held)
}

func TestConcurrentInternSameTuple(t *testing.T) {
	s := newTestStore(t)
	results := make([]*Node, 16)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			results[i] = s.FindOrInsertLeaf(1, 2, 3, 4)
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, n := range results[1:] {
		assert.Same(t, results[0], n)
	}
	releaseAll(results)
}

func TestConcurrentChurnWithCollections(t *testing.T) {
	s := New(500, rule.Life())
	s.oom = func(nodeCount, maxNodes int64) {
		t.Errorf("unexpected OOM at %d nodes", nodeCount)
	}
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 5000; i++ {
				n := s.FindOrInsertLeaf(core.Cell(w), core.Cell(i%31), 0, 1)
				m := s.FindOrInsertNonleaf(n, n, n, n)
				m.Release()
				n.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.LessOrEqual(t, s.NodeCount(), 500)
}
