package store

import (
	"runtime"
	"sync/atomic"
)

// spinStartDelay is how many failed acquisition attempts run before the
// spinner starts yielding its thread.
const spinStartDelay = 10000

// spin is a test-and-set spinlock. Weak-handle operations hold it for a
// handful of instructions, so spinning beats parking.
type spin struct {
	v atomic.Bool
}

func (s *spin) lock() {
	for i := 0; ; i++ {
		if !s.v.Load() && !s.v.Swap(true) {
			return
		}
		if i >= spinStartDelay {
			runtime.Gosched()
		}
	}
}

func (s *spin) unlock() {
	s.v.Store(false)
}
