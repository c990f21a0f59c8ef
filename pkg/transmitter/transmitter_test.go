package transmitter

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"necir/pkg/carrier"
	"necir/pkg/clock"
	"necir/pkg/nec"
	"necir/pkg/port"
	"necir/pkg/pulse"
)

type write struct {
	at    time.Duration
	level port.Level
}

// recorder is an output line that records every write with the fake time.
type recorder struct {
	clock  *clock.Fake
	writes []write
	// failHigh fails every high write after the given number of high writes (-1 never)
	failHigh int
	highs    int
}

func (r *recorder) Pin() int                  { return 18 }
func (r *recorder) Read() (port.Level, error) { return port.Low, nil }
func (r *recorder) Close() error              { return nil }

func (r *recorder) Write(l port.Level) error {
	if l == port.High {
		if r.failHigh >= 0 && r.highs >= r.failHigh {
			return errors.New("line gone")
		}
		r.highs++
	}
	r.writes = append(r.writes, write{at: r.clock.Peek(), level: l})
	return nil
}

func (r *recorder) high() []write {
	var w []write
	for _, x := range r.writes {
		if x.level == port.High {
			w = append(w, x)
		}
	}
	return w
}

func newTestTransmitter() (*Transmitter, *recorder, *clock.Fake) {
	f := clock.NewFake(100 * time.Nanosecond)
	r := &recorder{clock: f, failHigh: -1}
	return New(r, carrier.Default(), WithClock(f)), r, f
}

func TestSendRepeat(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()

	c.Assert(tx.Send(context.Background(), nec.Repeat()), qt.IsNil)

	m := carrier.Default()
	highs := r.high()
	c.Assert(highs, qt.HasLen, m.Cycles(nec.LeadMark)+m.Cycles(nec.StopMark))
	c.Assert(r.writes[len(r.writes)-1].level, qt.Equals, port.Low)

	// the stop mark starts at the absolute offset of the lead mark and the repeat space
	anchor := highs[0].at
	stop := highs[m.Cycles(nec.LeadMark)].at - anchor
	c.Assert(stop >= nec.LeadMark+nec.RepeatSpace, qt.IsTrue, qt.Commentf("stop mark at %v", stop))
	c.Assert(stop < nec.LeadMark+nec.RepeatSpace+time.Microsecond, qt.IsTrue, qt.Commentf("stop mark at %v", stop))
}

func TestSendCarrierTiming(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()

	c.Assert(tx.Send(context.Background(), pulse.Train{nec.LeadMark}), qt.IsNil)

	m := carrier.Default()
	c.Assert(r.writes, qt.HasLen, 2*m.Cycles(nec.LeadMark)+1)

	anchor := r.writes[0].at
	for k := 0; k < m.Cycles(nec.LeadMark); k++ {
		on, off := r.writes[2*k], r.writes[2*k+1]
		c.Assert(on.level, qt.Equals, port.High)
		c.Assert(off.level, qt.Equals, port.Low)

		// every cycle starts at its absolute offset from the anchor
		drift := on.at - anchor - m.CycleStart(k)
		c.Assert(drift >= 0 && drift < time.Microsecond, qt.IsTrue, qt.Commentf("cycle %d drift %v", k, drift))

		width := off.at - on.at - m.Active()
		c.Assert(width > -time.Microsecond && width < time.Microsecond, qt.IsTrue, qt.Commentf("cycle %d width error %v", k, width))
	}
}

func TestSendZeroMark(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()

	c.Assert(tx.Send(context.Background(), pulse.Train{0, time.Millisecond, nec.StopMark}), qt.IsNil)
	c.Assert(r.high(), qt.HasLen, carrier.Default().Cycles(nec.StopMark))
	c.Assert(r.high()[0].at >= time.Millisecond, qt.IsTrue)
	c.Assert(r.writes[len(r.writes)-1].level, qt.Equals, port.Low)
}

func TestSendCancelled(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr, err := nec.Encode(0x78, 0x1E)
	c.Assert(err, qt.IsNil)

	err = tx.Send(ctx, tr)
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(r.high(), qt.HasLen, 0)
	c.Assert(r.writes, qt.HasLen, 1)
	c.Assert(r.writes[0].level, qt.Equals, port.Low)
}

func TestSendFault(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()
	r.failHigh = 10

	tr, err := nec.Encode(0x00, 0x07)
	c.Assert(err, qt.IsNil)

	err = tx.Send(context.Background(), tr)
	c.Assert(err, qt.ErrorIs, ErrTransmission)
	c.Assert(r.high(), qt.HasLen, 10)
	c.Assert(r.writes[len(r.writes)-1].level, qt.Equals, port.Low)
}

func TestSendAll(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()

	err := tx.SendAll(context.Background(), time.Millisecond, nec.Repeat(), nec.Repeat())
	c.Assert(err, qt.IsNil)

	m := carrier.Default()
	c.Assert(r.high(), qt.HasLen, 2*(m.Cycles(nec.LeadMark)+m.Cycles(nec.StopMark)))
	c.Assert(r.writes[len(r.writes)-1].level, qt.Equals, port.Low)
}

func TestSendAllCancelled(t *testing.T) {
	c := qt.New(t)
	tx, r, _ := newTestTransmitter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := tx.SendAll(ctx, time.Hour, pulse.Train{}, nec.Repeat())
	c.Assert(err, qt.ErrorIs, context.Canceled)
	c.Assert(r.high(), qt.HasLen, 0)
}
