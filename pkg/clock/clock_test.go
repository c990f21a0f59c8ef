package clock

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestFake(t *testing.T) {
	c := qt.New(t)

	f := NewFake(time.Microsecond)
	c.Assert(f.Now(), qt.Equals, time.Duration(0))
	c.Assert(f.Now(), qt.Equals, time.Microsecond)
	f.Sleep(10 * time.Microsecond)
	c.Assert(f.Peek(), qt.Equals, 12*time.Microsecond)

	SpinUntil(f, 50*time.Microsecond)
	c.Assert(f.Peek() >= 50*time.Microsecond, qt.IsTrue)
}

func TestMonotonic(t *testing.T) {
	c := qt.New(t)

	m := New()
	start := m.Now()
	SpinUntil(m, start+200*time.Microsecond)
	c.Assert(m.Now()-start >= 200*time.Microsecond, qt.IsTrue)
}
