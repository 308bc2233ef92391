package core

import "time"

// FixedStep paces universe steps at a steady steps-per-second rate while
// the viewer free-runs.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given SPS.
func NewFixedStep(sps int) *FixedStep {
	if sps <= 0 {
		sps = 10
	}
	fs := &FixedStep{}
	fs.SetSPS(sps)
	fs.accumulator = fs.step
	return fs
}

// SetSPS changes the pacing rate. Safe to call from the main loop.
func (f *FixedStep) SetSPS(sps int) {
	if sps <= 0 {
		sps = 10
	}
	f.step = time.Second / time.Duration(sps)
}

// Reset discards accumulated time, so the next ShouldStep fires
// immediately.
func (f *FixedStep) Reset() {
	f.accumulator = f.step
	f.last = time.Time{}
}

// ShouldStep reports whether the universe should advance by one step.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
