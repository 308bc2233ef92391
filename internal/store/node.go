package store

import (
	"sync/atomic"

	"hashlife/internal/core"
)

// Node is one hash-consed quadtree node. A node of level L covers a
// 2^(L+1) x 2^(L+1) square of cells. Level-0 children are cells; deeper
// nodes hold four child nodes of level L-1. Structure is immutable after
// construction; only the housekeeping fields and the next-state cache
// mutate.
type Node struct {
	refcount     atomic.Int32
	used         bool  // GC mark bit, read and written only by the collector
	hashNext     *Node // bucket chain
	gcNext       *Node // transient roots list during mark
	weakHead     *Weak
	weakHeadLk   spin
	removing     atomic.Bool
	testingForRm atomic.Bool
	weakGetCount atomic.Int64

	id    uint64
	level int
	color core.Color

	// level 0 children
	cnw, cne, csw, cse core.Cell
	// level > 0 children
	nw, ne, sw, se *Node

	// memoized successor: weak so that cached futures never pin the tree
	cacheLk      spin
	nextState    Weak
	nextLogStep  int
	hasNextState bool
}

// Level returns the node's level.
func (n *Node) Level() int { return n.level }

// Color returns the aggregate display color of the node's cells.
func (n *Node) Color() core.Color { return n.color }

// NW returns the north-west child of a non-leaf node.
func (n *Node) NW() *Node { return n.nw }

// NE returns the north-east child of a non-leaf node.
func (n *Node) NE() *Node { return n.ne }

// SW returns the south-west child of a non-leaf node.
func (n *Node) SW() *Node { return n.sw }

// SE returns the south-east child of a non-leaf node.
func (n *Node) SE() *Node { return n.se }

// CellNW returns the north-west cell of a leaf node.
func (n *Node) CellNW() core.Cell { return n.cnw }

// CellNE returns the north-east cell of a leaf node.
func (n *Node) CellNE() core.Cell { return n.cne }

// CellSW returns the south-west cell of a leaf node.
func (n *Node) CellSW() core.Cell { return n.csw }

// CellSE returns the south-east cell of a leaf node.
func (n *Node) CellSE() core.Cell { return n.cse }

// Retain adds a strong reference and returns the node for chaining.
func (n *Node) Retain() *Node {
	n.refcount.Add(1)
	return n
}

// Release drops a strong reference. The node stays in the store until a
// collection finds it unreachable.
func (n *Node) Release() {
	n.refcount.Add(-1)
}

// cachedNext returns the retained memoized successor for logStep, or nil.
func (n *Node) cachedNext(logStep int) *Node {
	n.cacheLk.lock()
	ok := n.hasNextState && n.nextLogStep == logStep
	n.cacheLk.unlock()
	if !ok {
		return nil
	}
	next := n.nextState.Get()
	if next != nil {
		cacheHitsTotal.Inc()
	}
	return next
}

// storeNext records the successor computed for logStep. The handle is
// weak; a collection may evict it, after which the result is recomputed.
func (n *Node) storeNext(next *Node, logStep int) {
	n.nextState.Set(next)
	n.cacheLk.lock()
	n.nextLogStep = logStep
	n.hasNextState = true
	n.cacheLk.unlock()
}

// destruct runs while the node is being swept: it unhooks the node's own
// weak handle from its target and nulls every weak handle observing the
// node.
func (n *Node) destruct() {
	n.nextState.Set(nil)
	n.weakHeadLk.lock()
	w := n.weakHead
	for w != nil {
		w.lk.lock()
		next := w.next
		w.node = nil
		w.prev = nil
		w.next = nil
		w.lk.unlock()
		w = next
	}
	n.weakHead = nil
	n.weakHeadLk.unlock()
}
