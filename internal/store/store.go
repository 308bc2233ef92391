// Package store implements the canonical node store of a HashLife engine:
// a hash-consed set of quadtree nodes, the per-node next-state memoization
// and the mark-sweep collector that bounds the set's size.
package store

import (
	"sync"
	"sync/atomic"

	"hashlife/internal/core"
	"hashlife/internal/rule"
)

// hashPrime sizes the bucket array. Chains stay short until well past the
// default node ceiling.
const hashPrime = 1008863

// DefaultMaxNodes is the default store ceiling.
const DefaultMaxNodes = 3_000_000

// Store is the hash-consed node set. All methods are safe for concurrent
// use; allocation may block while a collection runs.
type Store struct {
	buckets []*Node
	locks   []sync.Mutex

	nodeCount atomic.Int64
	nextID    atomic.Uint64
	runningGC atomic.Bool

	maxNodes int64
	gcStart  int64

	rules *rule.Table

	nullLk    spin
	nullNodes map[core.Cell][]*Node

	// oom runs when a completed collection leaves the store over its
	// ceiling. Replaceable in tests; the default logs and exits.
	oom func(nodeCount, maxNodes int64)
}

// New creates a store with the given node ceiling and rule table. A
// maxNodes of zero or below selects DefaultMaxNodes.
func New(maxNodes int, tbl *rule.Table) *Store {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	s := &Store{
		buckets:   make([]*Node, hashPrime),
		locks:     make([]sync.Mutex, hashPrime),
		maxNodes:  int64(maxNodes),
		gcStart:   6 * int64(maxNodes) / 7,
		rules:     tbl,
		nullNodes: map[core.Cell][]*Node{},
		oom:       defaultOOM,
	}
	if s.rules == nil {
		s.rules = &rule.Table{}
	}
	return s
}

// SetOOMHandler replaces the action taken when a completed collection
// leaves the store over its ceiling. The default logs and exits; tests
// install their own.
func (s *Store) SetOOMHandler(fn func(nodeCount, maxNodes int64)) {
	if fn != nil {
		s.oom = fn
	}
}

// SetRules swaps the rule table. Cached next-state results computed under
// the previous rule are stale; callers swap rules only on a fresh store.
func (s *Store) SetRules(tbl *rule.Table) {
	s.rules = tbl
}

// Rules returns the installed rule table.
func (s *Store) Rules() *rule.Table { return s.rules }

// NodeCount returns the current number of interned nodes.
func (s *Store) NodeCount() int {
	return int(s.nodeCount.Load())
}

// MaxNodes returns the store ceiling.
func (s *Store) MaxNodes() int { return int(s.maxNodes) }

// hashLeaf mixes four cell values into a bucket index.
func hashLeaf(nw, ne, sw, se core.Cell) uint64 {
	return 3 + uint64(nw) + 9*uint64(ne) + 81*uint64(sw) + 729*uint64(se)
}

// hashNonleaf mixes four child identities into a bucket index. Identity is
// the child's creation id, so structurally equal tuples always collide.
func hashNonleaf(nw, ne, sw, se *Node) uint64 {
	return nw.id + 9*ne.id + 81*sw.id + 729*se.id
}

// FindOrInsertLeaf returns the unique level-0 node holding these four
// cells, retained for the caller.
func (s *Store) FindOrInsertLeaf(nw, ne, sw, se core.Cell) *Node {
	s.maybeCollect()
	h := hashLeaf(nw, ne, sw, se) % hashPrime
	s.locks[h].Lock()
	defer s.locks[h].Unlock()
	pnode := &s.buckets[h]
	for n := *pnode; n != nil; n = *pnode {
		if n.level == 0 && n.cnw == nw && n.cne == ne && n.csw == sw && n.cse == se {
			// move to the chain head so hot nodes stay cheap to find
			*pnode = n.hashNext
			n.hashNext = s.buckets[h]
			s.buckets[h] = n
			return n.Retain()
		}
		pnode = &n.hashNext
	}
	n := &Node{
		id:    s.nextID.Add(1),
		level: 0,
		cnw:   nw, cne: ne, csw: sw, cse: se,
		color: core.CombineColors(core.CellColor(nw), core.CellColor(ne),
			core.CellColor(sw), core.CellColor(se)),
	}
	s.nodeCount.Add(1)
	nodeCountGauge.Inc()
	n.hashNext = s.buckets[h]
	s.buckets[h] = n
	return n.Retain()
}

// FindOrInsertNonleaf returns the unique node with these four children,
// retained for the caller. Children must be non-nil and of equal level.
func (s *Store) FindOrInsertNonleaf(nw, ne, sw, se *Node) *Node {
	if nw.level != ne.level || nw.level != sw.level || nw.level != se.level {
		panic("store: children of unequal level")
	}
	s.maybeCollect()
	h := hashNonleaf(nw, ne, sw, se) % hashPrime
	s.locks[h].Lock()
	defer s.locks[h].Unlock()
	pnode := &s.buckets[h]
	for n := *pnode; n != nil; n = *pnode {
		if n.level > 0 && n.nw == nw && n.ne == ne && n.sw == sw && n.se == se {
			*pnode = n.hashNext
			n.hashNext = s.buckets[h]
			s.buckets[h] = n
			return n.Retain()
		}
		pnode = &n.hashNext
	}
	n := &Node{
		id:    s.nextID.Add(1),
		level: nw.level + 1,
		nw:    nw, ne: ne, sw: sw, se: se,
		color: core.CombineColors(nw.color, ne.color, sw.color, se.color),
	}
	s.nodeCount.Add(1)
	nodeCountGauge.Inc()
	n.hashNext = s.buckets[h]
	s.buckets[h] = n
	return n.Retain()
}

// NullNode returns the unique node of the given level whose cells are all
// background, retained for the caller. The table keeps one strong
// reference per entry, so null nodes survive every collection.
func (s *Store) NullNode(level int, background core.Cell) *Node {
	s.nullLk.lock()
	defer s.nullLk.unlock()
	table := s.nullNodes[background]
	if level < len(table) {
		return table[level].Retain()
	}
	for i := len(table); i <= level; i++ {
		var n *Node
		if i == 0 {
			n = s.FindOrInsertLeaf(background, background, background, background)
		} else {
			prev := table[i-1]
			n = s.FindOrInsertNonleaf(prev, prev, prev, prev)
		}
		table = append(table, n)
	}
	s.nullNodes[background] = table
	return table[level].Retain()
}

// Make4x4 builds the level-1 node for 16 cells given in row-major order.
func (s *Store) Make4x4(cells [16]core.Cell) *Node {
	nw := s.FindOrInsertLeaf(cells[0], cells[1], cells[4], cells[5])
	ne := s.FindOrInsertLeaf(cells[2], cells[3], cells[6], cells[7])
	sw := s.FindOrInsertLeaf(cells[8], cells[9], cells[12], cells[13])
	se := s.FindOrInsertLeaf(cells[10], cells[11], cells[14], cells[15])
	n := s.FindOrInsertNonleaf(nw, ne, sw, se)
	nw.Release()
	ne.Release()
	sw.Release()
	se.Release()
	return n
}
