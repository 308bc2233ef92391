package store

import (
	"log/slog"
	"os"
	"runtime"
	"time"
)

func defaultOOM(nodeCount, maxNodes int64) {
	slog.Error("out of memory", "nodes", nodeCount, "max_nodes", maxNodes)
	os.Exit(1)
}

// maybeCollect is consulted before every allocation. The first allocator
// past the threshold runs a collection; the rest wait until the count
// drops back under the ceiling. A completed collection that leaves the
// store over its ceiling is fatal: recovering partially would corrupt the
// universe.
func (s *Store) maybeCollect() {
	if s.nodeCount.Load() <= s.gcStart {
		return
	}
	if s.runningGC.CompareAndSwap(false, true) {
		s.Collect()
		s.runningGC.Store(false)
	} else {
		for s.nodeCount.Load() > s.maxNodes && s.runningGC.Load() {
			runtime.Gosched()
		}
	}
	if s.nodeCount.Load() > s.maxNodes {
		s.oom(s.nodeCount.Load(), s.maxNodes)
	}
}

// Collect runs one mark-sweep cycle: clear all mark bits while gathering
// nodes with live refcounts, mark everything reachable from them, then
// sweep the rest. Next-state caches are weak and deliberately not traced;
// evicted successors are recomputed on demand.
func (s *Store) Collect() {
	start := time.Now()
	before := s.nodeCount.Load()
	s.mark(s.clear())
	s.sweep()
	reclaimed := before - s.nodeCount.Load()
	gcRunsTotal.Inc()
	gcReclaimedTotal.Add(float64(reclaimed))
	gcDuration.Observe(time.Since(start).Seconds())
	slog.Debug("gc cycle",
		"reclaimed", reclaimed,
		"remaining", s.nodeCount.Load(),
		"elapsed", time.Since(start))
}

// clear resets every mark bit to the node's root status and returns the
// list of roots threaded through gcNext.
func (s *Store) clear() *Node {
	var roots *Node
	for i := range s.buckets {
		s.locks[i].Lock()
		for n := s.buckets[i]; n != nil; n = n.hashNext {
			used := n.refcount.Load() > 0
			n.used = used
			if used {
				n.gcNext = roots
				roots = n
			}
		}
		s.locks[i].Unlock()
	}
	return roots
}

// mark walks the roots list and marks everything reachable through child
// links.
func (s *Store) mark(roots *Node) {
	for n := roots; n != nil; {
		next := n.gcNext
		n.gcNext = nil
		n.used = true
		if n.level > 0 {
			markNode(n.nw)
			markNode(n.ne)
			markNode(n.sw)
			markNode(n.se)
		}
		n = next
	}
}

func markNode(n *Node) {
	if n.used {
		return
	}
	n.used = true
	if n.level > 0 {
		markNode(n.nw)
		markNode(n.ne)
		markNode(n.sw)
		markNode(n.se)
	}
}

// sweep removes every unmarked node. The testing/removing flag pair fences
// against a concurrent weak-handle upgrade: a get that raced in revives
// the node for this cycle; otherwise the node is unlinked and its weak
// handles nulled.
func (s *Store) sweep() {
	for i := range s.buckets {
		s.locks[i].Lock()
		pnode := &s.buckets[i]
		for n := *pnode; n != nil; n = *pnode {
			used := n.used
			if !used {
				n.testingForRm.Store(true)
				for n.weakGetCount.Load() > 0 {
					runtime.Gosched()
				}
				if n.refcount.Load() > 0 {
					used = true
				} else {
					n.removing.Store(true)
				}
				n.testingForRm.Store(false)
			}
			if used {
				pnode = &n.hashNext
				continue
			}
			*pnode = n.hashNext
			s.nodeCount.Add(-1)
			nodeCountGauge.Dec()
			n.destruct()
		}
		s.locks[i].Unlock()
	}
}
