package store

import "runtime"

// Weak observes a node without contributing to its refcount. Every weak
// handle links into a per-node doubly-linked list; when the node is swept
// the list is walked and each handle is nulled. The zero value is an empty
// handle.
type Weak struct {
	node       *Node
	prev, next *Weak
	lk         spin
}

// NewWeak returns a weak handle observing n (which may be nil).
func NewWeak(n *Node) *Weak {
	w := &Weak{}
	w.Set(n)
	return w
}

// add links the handle at the head of its target's weak list. The list
// head lock is acquired before the handle lock, matching the order used
// everywhere else.
func (w *Weak) add(n *Node) {
	if n == nil {
		w.lk.lock()
		w.node = nil
		w.prev = nil
		w.next = nil
		w.lk.unlock()
		return
	}
	n.weakHeadLk.lock()
	if head := n.weakHead; head != nil {
		head.lk.lock()
		head.prev = w
		head.lk.unlock()
	}
	w.lk.lock()
	w.node = n
	w.prev = nil
	w.next = n.weakHead
	n.weakHead = w
	w.lk.unlock()
	n.weakHeadLk.unlock()
}

// remove unlinks the handle from its current target's list, if any.
// Locks are taken predecessor-first; if the predecessor changes while
// unlocked the walk restarts.
func (w *Weak) remove() {
	w.lk.lock()
	n := w.node
	if n == nil {
		w.lk.unlock()
		return
	}
	prev := w.prev
	w.lk.unlock()
	for {
		var prevLk *spin
		if prev == nil {
			prevLk = &n.weakHeadLk
		} else {
			prevLk = &prev.lk
		}
		prevLk.lock()
		w.lk.lock()
		if w.node != n {
			// the node was swept meanwhile and nulled this handle
			w.lk.unlock()
			prevLk.unlock()
			return
		}
		if prev != w.prev {
			p := w.prev
			w.lk.unlock()
			prevLk.unlock()
			prev = p
			continue
		}
		if w.prev != nil {
			w.prev.next = w.next
		} else {
			n.weakHead = w.next
		}
		if w.next != nil {
			w.next.lk.lock()
			w.next.prev = w.prev
			w.next.lk.unlock()
		}
		w.node = nil
		w.prev = nil
		w.next = nil
		w.lk.unlock()
		prevLk.unlock()
		return
	}
}

// Set repoints the handle at a new target, unlinking from the old list and
// relinking into the new one.
func (w *Weak) Set(n *Node) {
	w.lk.lock()
	if w.node == n {
		w.lk.unlock()
		return
	}
	w.lk.unlock()
	w.remove()
	w.add(n)
}

// Get upgrades the handle to a strong reference, or returns nil if the
// target is gone or mid-removal. The weakGetCount fence keeps the sweeper
// from freeing a node between the observation and the refcount bump.
func (w *Weak) Get() *Node {
	w.lk.lock()
	n := w.node
	if n == nil {
		w.lk.unlock()
		return nil
	}
	n.weakGetCount.Add(1)
	for n.testingForRm.Load() {
		n.weakGetCount.Add(-1)
		for n.testingForRm.Load() {
			runtime.Gosched()
		}
		n.weakGetCount.Add(1)
	}
	n.refcount.Add(1)
	n.weakGetCount.Add(-1)
	if n.removing.Load() {
		n.refcount.Add(-1)
		w.lk.unlock()
		return nil
	}
	w.lk.unlock()
	return n
}
