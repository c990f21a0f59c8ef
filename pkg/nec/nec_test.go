package nec

import (
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"necir/pkg/pulse"
)

const us = time.Microsecond

// yamahaVolUp returns the train of address 0x78, command 0x1E.
func yamahaVolUp(c *qt.C) pulse.Train {
	t, err := Encode(0x78, 0x1E)
	c.Assert(err, qt.IsNil)
	return t
}

func TestEncode(t *testing.T) {
	c := qt.New(t)

	tr := yamahaVolUp(c)
	c.Assert(tr, qt.HasLen, FrameLength+1)
	c.Assert(tr[0], qt.Equals, LeadMark)
	c.Assert(tr[1], qt.Equals, LeadSpace)
	c.Assert(tr[len(tr)-1], qt.Equals, StopMark)

	// 0x78 LSB first: 0 0 0 1 1 1 1 0
	want := []time.Duration{ZeroSpace, ZeroSpace, ZeroSpace, OneSpace, OneSpace, OneSpace, OneSpace, ZeroSpace}
	for i, space := range want {
		c.Assert(tr[2+i*2], qt.Equals, BitMark)
		c.Assert(tr[3+i*2], qt.Equals, space, qt.Commentf("bit %d", i))
	}
}

func TestEncodeInputRange(t *testing.T) {
	c := qt.New(t)

	for _, in := range [][2]int{{-1, 0}, {256, 0}, {0, -1}, {0, 256}} {
		tr, err := Encode(in[0], in[1])
		c.Assert(err, qt.ErrorIs, ErrEncodingInput)
		c.Assert(tr, qt.IsNil)
	}
}

func TestEncodePadding(t *testing.T) {
	c := qt.New(t)

	tr, err := Encoder{MinLength: 71}.Encode(0x00, 0x07)
	c.Assert(err, qt.IsNil)
	c.Assert(tr, qt.HasLen, 71)
	for _, d := range tr[FrameLength+1:] {
		c.Assert(d, qt.Equals, FillerLength)
	}

	// padding does not change the decoded frame
	f, err := Decode(tr)
	c.Assert(err, qt.IsNil)
	c.Assert(f.Command, qt.Equals, uint8(0x07))

	// a minimum below the natural length has no effect
	tr, err = Encoder{MinLength: 10}.Encode(0x00, 0x07)
	c.Assert(err, qt.IsNil)
	c.Assert(tr, qt.HasLen, FrameLength+1)
}

func TestRoundTrip(t *testing.T) {
	c := qt.New(t)

	for address := 0; address <= 0xff; address++ {
		for command := 0; command <= 0xff; command++ {
			tr, err := Encode(address, command)
			c.Assert(err, qt.IsNil)

			f, err := Decode(tr)
			if err != nil || int(f.Address) != address || int(f.Command) != command {
				c.Fatalf("address %#x command %#x: got %+v, %v", address, command, f, err)
			}
			if f.Address^f.AddressInv != 0xff || f.Command^f.CommandInv != 0xff {
				c.Fatalf("complement violated for %v", f)
			}
		}
	}
}

func TestDecode(t *testing.T) {
	c := qt.New(t)

	f, err := Decode(yamahaVolUp(c))
	c.Assert(err, qt.IsNil)
	c.Assert(f.Address, qt.Equals, uint8(0x78))
	c.Assert(f.AddressInv, qt.Equals, uint8(0x87))
	c.Assert(f.Command, qt.Equals, uint8(0x1E))
	c.Assert(f.CommandInv, qt.Equals, uint8(0xE1))
	c.Assert(f.Code(), qt.Equals, uint32(0x78871EE1))
	c.Assert(f.String(), qt.Equals, "0x78871EE1")
	c.Assert(f.Bits[:8], qt.DeepEquals, []uint8{0, 0, 0, 1, 1, 1, 1, 0})
}

func TestDecodeLength(t *testing.T) {
	c := qt.New(t)

	tr := yamahaVolUp(c)

	// without the stop mark
	f, err := Decode(tr[:FrameLength])
	c.Assert(err, qt.IsNil)
	c.Assert(f.Code(), qt.Equals, uint32(0x78871EE1))

	_, err = Decode(tr[:FrameLength-1])
	c.Assert(err, qt.ErrorIs, ErrFrameTooShort)
	c.Assert(err, qt.ErrorIs, ErrDecode)

	_, err = Decode(nil)
	c.Assert(err, qt.ErrorIs, ErrFrameTooShort)
}

func TestDecodeBoundaries(t *testing.T) {
	// element 9 is the space of bit 3 (a one), element 2 the mark of bit 0
	tests := []struct {
		index int
		value time.Duration
		err   error
	}{
		{0, 8500 * us, nil},
		{0, 9499 * us, nil},
		{0, 9500 * us, nil},
		{0, 8499 * us, ErrInvalidLeadIn},
		{0, 9501 * us, ErrInvalidLeadIn},
		{1, 3999 * us, ErrInvalidLeadIn},
		{1, 5001 * us, ErrInvalidLeadIn},
		{9, 1500 * us, nil},
		{9, 1799 * us, nil},
		{9, 1801 * us, ErrInvalidSpaceWidth},
		{9, 1000 * us, ErrInvalidSpaceWidth},
		{2, 699 * us, nil},
		{2, 400 * us, nil},
		{2, 701 * us, ErrInvalidMarkWidth},
		{2, 399 * us, ErrInvalidMarkWidth},
	}

	c := qt.New(t)
	for _, test := range tests {
		test := test
		c.Run(fmt.Sprintf("element %d = %v", test.index, test.value), func(c *qt.C) {
			tr := yamahaVolUp(c)
			tr[test.index] = test.value

			f, err := Decode(tr)
			if test.err == nil {
				c.Assert(err, qt.IsNil)
				c.Assert(f.Code(), qt.Equals, uint32(0x78871EE1))
				return
			}
			c.Assert(err, qt.ErrorIs, test.err)
		})
	}
}

func TestDecodeOrder(t *testing.T) {
	c := qt.New(t)

	// the lead-in is checked before the bits
	tr := yamahaVolUp(c)
	tr[0] = 100 * us
	tr[2] = 100 * us
	_, err := Decode(tr)
	c.Assert(err, qt.ErrorIs, ErrInvalidLeadIn)

	// the mark of a pair is checked before its space
	tr = yamahaVolUp(c)
	tr[2] = 100 * us
	tr[3] = 100 * us
	_, err = Decode(tr)
	c.Assert(err, qt.ErrorIs, ErrInvalidMarkWidth)
}

func TestDecodeComplementMismatch(t *testing.T) {
	c := qt.New(t)

	// element 19 is the space of bit 8, the LSB of the inverted address (0x87)
	tr := yamahaVolUp(c)
	tr[19] = ZeroSpace
	_, err := Decode(tr)
	c.Assert(err, qt.ErrorIs, ErrComplementMismatch)

	// element 51 is the space of bit 24, the LSB of the inverted command (0xE1)
	tr = yamahaVolUp(c)
	tr[51] = ZeroSpace
	_, err = Decode(tr)
	c.Assert(err, qt.ErrorIs, ErrComplementMismatch)
}

func TestRepeat(t *testing.T) {
	c := qt.New(t)

	r := Repeat()
	c.Assert(r.Micros(), qt.DeepEquals, []int64{9000, 2250, 560})
	c.Assert(IsRepeat(r), qt.IsTrue)
	c.Assert(IsRepeat(pulse.FromMicros(8950, 2210, 590)), qt.IsTrue)
	c.Assert(IsRepeat(pulse.FromMicros(9000, 4500, 560)), qt.IsFalse)
	c.Assert(IsRepeat(pulse.FromMicros(9000, 2250)), qt.IsFalse)
	c.Assert(IsRepeat(yamahaVolUp(c)), qt.IsFalse)

	// plain decoding reports a repeat frame as too short
	_, err := Decode(r)
	c.Assert(err, qt.ErrorIs, ErrFrameTooShort)
}

func TestClassify(t *testing.T) {
	c := qt.New(t)

	m, err := Classify(Repeat())
	c.Assert(err, qt.IsNil)
	c.Assert(m.Repeat, qt.IsTrue)

	m, err = Classify(yamahaVolUp(c))
	c.Assert(err, qt.IsNil)
	c.Assert(m.Repeat, qt.IsFalse)
	c.Assert(m.Frame.Code(), qt.Equals, uint32(0x78871EE1))

	_, err = Classify(pulse.FromMicros(9000, 4500, 560))
	c.Assert(err, qt.ErrorIs, ErrFrameTooShort)
}
