package session

import "time"

// FixedStep paces engine ticks inside a frame loop such as a game
// window's update callback, for hosts that cannot run a ticker goroutine.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep targets one step per interval. Non-positive intervals fall
// back to 150ms.
func NewFixedStep(interval time.Duration) *FixedStep {
	if interval <= 0 {
		interval = 150 * time.Millisecond
	}
	return &FixedStep{step: interval, now: time.Now}
}

// Reset drops accumulated time, e.g. when a new game starts.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether a step is due. At most one step is reported
// per call; a long stall does not cause a burst.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator = (f.accumulator - f.step) % f.step
		return true
	}
	return false
}
