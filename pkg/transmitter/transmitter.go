// Package transmitter drives a pulse train onto an output line in real time.
//
// The timing of the carrier (26.3us periods at 38kHz) is far below the
// resolution of time.Sleep, therefore every deadline is reached by busy waiting
// on the monotonic clock. All deadlines of a train are derived from a single
// anchor taken at the start of the transmission, so the error of one write
// never shifts the following elements.
package transmitter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"necir/pkg/carrier"
	"necir/pkg/clock"
	"necir/pkg/port"
	"necir/pkg/pulse"

	"github.com/womat/debug"
)

// ErrTransmission is returned if the line failed during a transmission.
// The line has been forced low before the error is returned.
var ErrTransmission = errors.New("transmission fault")

// Transmitter sends pulse trains on a claimed output line.
type Transmitter struct {
	// line is the claimed output line
	line port.Line
	// modulator splits marks into carrier cycles
	modulator carrier.Modulator
	// clock is the monotonic time source of all deadlines
	clock clock.Clock
	// priority requests a raised scheduling priority before each transmission
	priority bool
}

// Option configures a Transmitter.
type Option func(*Transmitter)

// WithClock replaces the monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(t *Transmitter) { t.clock = c }
}

// WithPriority enables the request for a raised scheduling priority.
func WithPriority(enabled bool) Option {
	return func(t *Transmitter) { t.priority = enabled }
}

// New returns a Transmitter for line.
func New(line port.Line, m carrier.Modulator, opts ...Option) *Transmitter {
	t := &Transmitter{
		line:      line,
		modulator: m,
		clock:     clock.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send transmits the train. Marks are modulated with the carrier, spaces keep the line low.
// Send returns after the last element; the line is low on every return path.
func (t *Transmitter) Send(ctx context.Context, train pulse.Train) (err error) {
	defer func() {
		if e := t.line.Write(port.Low); e != nil {
			debug.ErrorLog.Printf("can't force pin %d low: %v", t.line.Pin(), e)
			if err == nil {
				err = fmt.Errorf("%w: %v", ErrTransmission, e)
			}
		}
	}()

	if t.priority {
		if e := raisePriority(); e != nil {
			debug.DebugLog.Printf("can't raise scheduling priority: %v", e)
		}
	}

	done := ctx.Done()
	ends := train.Ends()
	anchor := t.clock.Now()

	for i, d := range train {
		select {
		case <-done:
			return ctx.Err()
		default:
		}

		end := anchor + ends[i]
		if !pulse.IsMark(i) {
			if err = t.space(end); err != nil {
				return err
			}
			continue
		}

		if d <= 0 {
			continue
		}
		if err = t.mark(end-d, end, d); err != nil {
			return err
		}
	}

	debug.TraceLog.Printf("sent %d elements (%v) on pin %d", len(train), train.Duration(), t.line.Pin())
	return nil
}

// SendAll sends the trains one after another and waits gap between the end
// of a train and the start of the next one.
func (t *Transmitter) SendAll(ctx context.Context, gap time.Duration, trains ...pulse.Train) error {
	for i, train := range trains {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(gap):
			}
		}

		if err := t.Send(ctx, train); err != nil {
			return err
		}
	}
	return nil
}

// mark modulates the carrier between start and end.
func (t *Transmitter) mark(start, end, d time.Duration) error {
	active := t.modulator.Active()

	for k, n := 0, t.modulator.Cycles(d); k < n; k++ {
		cycle := start + t.modulator.CycleStart(k)

		if err := t.line.Write(port.High); err != nil {
			return fmt.Errorf("%w: %v", ErrTransmission, err)
		}
		clock.SpinUntil(t.clock, cycle+active)

		if err := t.line.Write(port.Low); err != nil {
			return fmt.Errorf("%w: %v", ErrTransmission, err)
		}
		clock.SpinUntil(t.clock, start+t.modulator.CycleStart(k+1))
	}

	// the remainder of an incomplete cycle stays low
	clock.SpinUntil(t.clock, end)
	return nil
}

// space keeps the line low until end.
func (t *Transmitter) space(end time.Duration) error {
	if err := t.line.Write(port.Low); err != nil {
		return fmt.Errorf("%w: %v", ErrTransmission, err)
	}
	clock.SpinUntil(t.clock, end)
	return nil
}
