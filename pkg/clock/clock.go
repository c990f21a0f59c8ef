// Package clock is the monotonic time source for the transmit and capture loops.
package clock

import (
	"sync"
	"time"
)

// Clock returns monotonic timestamps as the elapsed time since an origin.
type Clock interface {
	// Now returns the elapsed time since the clock origin.
	Now() time.Duration
	// Sleep pauses the current goroutine. It must not be used for bit timing.
	Sleep(time.Duration)
}

// Monotonic is the Clock backed by the runtime monotonic clock.
type Monotonic struct {
	origin time.Time
}

// New returns a Monotonic clock with the origin set to now.
func New() *Monotonic {
	return &Monotonic{origin: time.Now()}
}

// Now returns the monotonic time elapsed since the origin.
func (m *Monotonic) Now() time.Duration {
	return time.Since(m.origin)
}

// Sleep calls time.Sleep.
func (m *Monotonic) Sleep(d time.Duration) {
	time.Sleep(d)
}

// SpinUntil busy-waits until the clock reaches deadline.
func SpinUntil(c Clock, deadline time.Duration) {
	for c.Now() < deadline {
	}
}

// Fake is a deterministic Clock.
// Every call of Now advances the time by Step, so busy-wait loops terminate.
type Fake struct {
	mu   sync.Mutex
	now  time.Duration
	Step time.Duration
}

// NewFake returns a Fake clock starting at zero.
func NewFake(step time.Duration) *Fake {
	return &Fake{Step: step}
}

// Now returns the current fake time and advances it by Step.
func (f *Fake) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.now
	f.now += f.Step
	return t
}

// Sleep advances the fake time by d.
func (f *Fake) Sleep(d time.Duration) {
	f.mu.Lock()
	f.now += d
	f.mu.Unlock()
}

// Peek returns the current fake time without advancing it.
func (f *Fake) Peek() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}
