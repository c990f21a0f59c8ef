package raspberry

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"necir/pkg/port"
)

func TestOpen(t *testing.T) {
	c := qt.New(t)

	g, err := Open(DriverEmu, "")
	c.Assert(err, qt.IsNil)
	c.Assert(g.Close(), qt.IsNil)

	_, err = Open("lgpio", "")
	c.Assert(err, qt.ErrorIs, ErrInvalidParam)
}

func TestEmuOutput(t *testing.T) {
	c := qt.New(t)
	e := NewEmu()

	l, err := e.Output(18)
	c.Assert(err, qt.IsNil)
	c.Assert(l.Pin(), qt.Equals, 18)

	lvl, err := l.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(lvl, qt.Equals, port.Low)

	c.Assert(l.Write(port.High), qt.IsNil)
	c.Assert(e.Line(18).Level(), qt.Equals, port.High)

	// the pin is owned by l until it is closed
	_, err = e.Output(18)
	c.Assert(err, qt.ErrorIs, ErrPinInUse)
	_, err = e.Input(18, port.PullUp)
	c.Assert(err, qt.ErrorIs, ErrPinInUse)

	// closing forces the line low
	c.Assert(l.Close(), qt.IsNil)
	c.Assert(e.Line(18).Level(), qt.Equals, port.Low)
	c.Assert(e.Line(18).Closed(), qt.IsTrue)
	c.Assert(l.Write(port.High), qt.IsNotNil)
	c.Assert(l.Close(), qt.IsNil)

	l, err = e.Output(18)
	c.Assert(err, qt.IsNil)
	c.Assert(l.Close(), qt.IsNil)
}

func TestEmuInput(t *testing.T) {
	c := qt.New(t)
	e := NewEmu()

	l, err := e.Input(11, port.PullUp)
	c.Assert(err, qt.IsNil)

	lvl, err := l.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(lvl, qt.Equals, port.High)

	e.Line(11).Set(port.Low)
	lvl, err = l.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(lvl, qt.Equals, port.Low)

	c.Assert(l.Write(port.High), qt.ErrorIs, ErrInvalidParam)
	c.Assert(l.Close(), qt.IsNil)

	_, err = l.Read()
	c.Assert(err, qt.IsNotNil)
}

func TestInvalidParams(t *testing.T) {
	c := qt.New(t)
	e := NewEmu()

	_, err := e.Output(-1)
	c.Assert(err, qt.ErrorIs, ErrInvalidParam)
	_, err = e.Output(maxPin + 1)
	c.Assert(err, qt.ErrorIs, ErrInvalidParam)
	_, err = e.Input(11, "floating")
	c.Assert(err, qt.ErrorIs, ErrInvalidParam)

	// a rejected request doesn't claim the pin
	l, err := e.Input(11, port.PullNone)
	c.Assert(err, qt.IsNil)
	c.Assert(l.Close(), qt.IsNil)
}
