// Package capture reconstructs pulse trains from a sampled input line.
//
// A capture session starts with the first level change of the line. From then
// on the line is sampled continuously and the time between two level changes
// is appended to the train. The session ends if the line is idle for longer
// than the idle timeout; the next level change opens a new session.
package capture

import (
	"context"
	"fmt"
	"time"

	"necir/pkg/clock"
	"necir/pkg/port"
	"necir/pkg/pulse"

	"github.com/womat/debug"
)

const (
	// DefaultPollInterval is the sampling interval while waiting for a session to start.
	DefaultPollInterval = 10 * time.Microsecond
	// DefaultIdleTimeout finalizes a session: a NEC frame never has a gap this long.
	DefaultIdleTimeout = 100 * time.Millisecond
)

// Capturer samples a claimed input line.
type Capturer struct {
	// line is the claimed input line
	line port.Line
	// clock is the monotonic time source of the measured durations
	clock clock.Clock
	// pollInterval is the sleep between two samples while the line is idle
	pollInterval time.Duration
	// idleTimeout is the time without level change that ends a session
	idleTimeout time.Duration
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithClock replaces the monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(cp *Capturer) { cp.clock = c }
}

// WithPollInterval sets the sampling interval while waiting for the first edge.
func WithPollInterval(d time.Duration) Option {
	return func(cp *Capturer) { cp.pollInterval = d }
}

// WithIdleTimeout sets the idle time which ends a session.
func WithIdleTimeout(d time.Duration) Option {
	return func(cp *Capturer) { cp.idleTimeout = d }
}

// New returns a Capturer for line.
func New(line port.Line, opts ...Option) *Capturer {
	cp := &Capturer{
		line:         line,
		clock:        clock.New(),
		pollInterval: DefaultPollInterval,
		idleTimeout:  DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(cp)
	}
	return cp
}

// Next blocks until a session has been captured and returns its train.
// The durations are rounded to microseconds.
func (cp *Capturer) Next(ctx context.Context) (pulse.Train, error) {
	done := ctx.Done()

	last, err := cp.line.Read()
	if err != nil {
		return nil, fmt.Errorf("can't read pin %d: %w", cp.line.Pin(), err)
	}

	// wait for the first level change
	for {
		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}

		level, err := cp.line.Read()
		if err != nil {
			return nil, fmt.Errorf("can't read pin %d: %w", cp.line.Pin(), err)
		}
		if level != last {
			last = level
			break
		}
		cp.clock.Sleep(cp.pollInterval)
	}

	anchor := cp.clock.Now()
	train := pulse.Train{}

	for {
		select {
		case <-done:
			return nil, ctx.Err()
		default:
		}

		level, err := cp.line.Read()
		if err != nil {
			return nil, fmt.Errorf("can't read pin %d: %w", cp.line.Pin(), err)
		}

		now := cp.clock.Now()
		if level != last {
			train = append(train, (now - anchor).Round(time.Microsecond))
			anchor = now
			last = level
			continue
		}

		if now-anchor > cp.idleTimeout {
			debug.TraceLog.Printf("captured %d elements on pin %d", len(train), cp.line.Pin())
			return train, nil
		}
	}
}

// Run captures sessions until ctx is done and passes every train to handler.
// Run returns nil if ctx has been cancelled, otherwise the read error.
func (cp *Capturer) Run(ctx context.Context, handler func(pulse.Train)) error {
	for {
		t, err := cp.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		handler(t)
	}
}
