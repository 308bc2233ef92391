package store

import "hashlife/internal/core"

// Center returns the level-(L-1) node formed by the four grandchildren
// nearest the node's center, retained for the caller. Requires level >= 1.
func (n *Node) Center(s *Store) *Node {
	if n.level == 0 {
		panic("store: center of a level-0 node")
	}
	if n.level == 1 {
		return s.FindOrInsertLeaf(n.nw.cse, n.ne.csw, n.sw.cne, n.se.cnw)
	}
	return s.FindOrInsertNonleaf(n.nw.se, n.ne.sw, n.sw.ne, n.se.nw)
}

// NextState returns the center-sized node representing n advanced by
// 2^logStep generations, retained for the caller. logStep must lie in
// [0, level-1]; logStep == level-1 doubles the step at every level of the
// recursion, which is what makes HashLife sublinear in generations.
func (n *Node) NextState(s *Store, logStep int) *Node {
	if n.level == 0 {
		panic("store: next state of a level-0 node")
	}
	if logStep < 0 || logStep >= n.level {
		panic("store: log step out of range")
	}
	if logStep == n.level-1 {
		return n.nextStateMax(s)
	}
	if r := n.cachedNext(logStep); r != nil {
		return r
	}
	cacheMissesTotal.Inc()

	nine := n.nineStep(s, logStep)
	tnw := s.FindOrInsertNonleaf(nine[0], nine[1], nine[3], nine[4])
	tne := s.FindOrInsertNonleaf(nine[1], nine[2], nine[4], nine[5])
	tsw := s.FindOrInsertNonleaf(nine[3], nine[4], nine[6], nine[7])
	tse := s.FindOrInsertNonleaf(nine[4], nine[5], nine[7], nine[8])
	releaseAll(nine[:])

	// below the maximum step the second pass only narrows, keeping the
	// advance at 2^logStep
	fnw := tnw.Center(s)
	fne := tne.Center(s)
	fsw := tsw.Center(s)
	fse := tse.Center(s)
	tnw.Release()
	tne.Release()
	tsw.Release()
	tse.Release()

	result := s.FindOrInsertNonleaf(fnw, fne, fsw, fse)
	fnw.Release()
	fne.Release()
	fsw.Release()
	fse.Release()

	n.storeNext(result, logStep)
	return result
}

// nextStateMax advances n by 2^(level-1) generations, the classic
// recursion.
func (n *Node) nextStateMax(s *Store) *Node {
	if r := n.cachedNext(n.level - 1); r != nil {
		return r
	}
	cacheMissesTotal.Inc()

	var result *Node
	if n.level == 1 {
		result = n.evalLeafCenters(s)
	} else {
		nine := n.nineStep(s, n.level-2)
		tnw := s.FindOrInsertNonleaf(nine[0], nine[1], nine[3], nine[4])
		tne := s.FindOrInsertNonleaf(nine[1], nine[2], nine[4], nine[5])
		tsw := s.FindOrInsertNonleaf(nine[3], nine[4], nine[6], nine[7])
		tse := s.FindOrInsertNonleaf(nine[4], nine[5], nine[7], nine[8])
		releaseAll(nine[:])

		// at the maximum step the second pass advances again, doubling
		// the effective step
		fnw := tnw.nextStateMax(s)
		fne := tne.nextStateMax(s)
		fsw := tsw.nextStateMax(s)
		fse := tse.nextStateMax(s)
		tnw.Release()
		tne.Release()
		tsw.Release()
		tse.Release()

		result = s.FindOrInsertNonleaf(fnw, fne, fsw, fse)
		fnw.Release()
		fne.Release()
		fsw.Release()
		fse.Release()
	}

	n.storeNext(result, n.level-1)
	return result
}

// nineStep composes the nine overlapping level-(L-1) subnodes covering n
// in a 3x3 grid and advances each by 2^logStep generations. Results come
// back retained in row-major order: nw n ne / w c e / sw s se. At the
// maximum step logStep is level-2 (the subnodes' own maximum).
func (n *Node) nineStep(s *Store, logStep int) [9]*Node {
	step := func(sub *Node) *Node {
		return sub.NextState(s, logStep)
	}
	edge := func(nw, ne, sw, se *Node) *Node {
		t := s.FindOrInsertNonleaf(nw, ne, sw, se)
		r := step(t)
		t.Release()
		return r
	}

	var nine [9]*Node
	nine[0] = step(n.nw)
	nine[2] = step(n.ne)
	nine[6] = step(n.sw)
	nine[8] = step(n.se)
	nine[1] = edge(n.nw.ne, n.ne.nw, n.nw.se, n.ne.sw) // north
	nine[7] = edge(n.sw.ne, n.se.nw, n.sw.se, n.se.sw) // south
	nine[3] = edge(n.nw.sw, n.nw.se, n.sw.nw, n.sw.ne) // west
	nine[5] = edge(n.ne.sw, n.ne.se, n.se.nw, n.se.ne) // east
	nine[4] = edge(n.nw.se, n.ne.sw, n.sw.ne, n.se.nw) // center
	return nine
}

// evalLeafCenters computes the four center cells of a 4x4 node directly
// from the rule table.
func (n *Node) evalLeafCenters(s *Store) *Node {
	a, b, c, d := n.nw, n.ne, n.sw, n.se
	tbl := s.rules
	nw := tbl.Eval(a.cse, [8]core.Cell{a.cnw, a.cne, b.cnw, a.csw, b.csw, c.cnw, c.cne, d.cnw})
	ne := tbl.Eval(b.csw, [8]core.Cell{a.cne, b.cnw, b.cne, a.cse, b.cse, c.cne, d.cnw, d.cne})
	sw := tbl.Eval(c.cne, [8]core.Cell{a.csw, a.cse, b.csw, c.cnw, d.cnw, c.csw, c.cse, d.csw})
	se := tbl.Eval(d.cnw, [8]core.Cell{a.cse, b.csw, b.cse, c.cne, d.cne, c.cse, d.csw, d.cse})
	return s.FindOrInsertLeaf(nw, ne, sw, se)
}

func releaseAll(nodes []*Node) {
	for _, n := range nodes {
		n.Release()
	}
}
