package nec

import (
	"fmt"

	"necir/pkg/pulse"
)

// Encoder builds NEC pulse trains.
type Encoder struct {
	// MinLength pads the train with filler elements until it holds at least
	// MinLength elements. Zero disables padding. Some receivers only accept
	// frames with a fixed element count (e.g. Osram bulbs expect 71).
	MinLength int
}

// Encode returns the pulse train of a standard (unpadded) NEC frame.
func Encode(address, command int) (pulse.Train, error) {
	return Encoder{}.Encode(address, command)
}

// Encode returns the pulse train of address and command.
func (e Encoder) Encode(address, command int) (pulse.Train, error) {
	if address < 0 || address > 0xff || command < 0 || command > 0xff {
		return nil, fmt.Errorf("%w: address %d, command %d", ErrEncodingInput, address, command)
	}

	n := FrameLength + 1
	if e.MinLength > n {
		n = e.MinLength
	}
	t := make(pulse.Train, 0, n)

	t = append(t, LeadMark, LeadSpace)
	for _, b := range [4]uint8{uint8(address), ^uint8(address), uint8(command), ^uint8(command)} {
		// bits are sent LSB first
		for i := 0; i < 8; i++ {
			if b&(1<<i) == 0 {
				t = append(t, BitMark, ZeroSpace)
			} else {
				t = append(t, BitMark, OneSpace)
			}
		}
	}
	t = append(t, StopMark)

	for len(t) < e.MinLength {
		t = append(t, FillerLength)
	}

	return t, nil
}
