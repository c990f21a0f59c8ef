package nec

import (
	"fmt"

	"necir/pkg/pulse"
)

// Decode validates a captured train and returns the NEC frame.
// The first failing rule determines the error:
//  * less than FrameLength elements: ErrFrameTooShort
//  * lead mark or lead space out of range: ErrInvalidLeadIn
//  * a bit mark out of range: ErrInvalidMarkWidth
//  * a bit space neither a 0 nor a 1: ErrInvalidSpaceWidth
//  * address or command does not match its inverse: ErrComplementMismatch
// Elements after the 32 data bits (stop mark, filler) are ignored.
func Decode(t pulse.Train) (Frame, error) {
	var f Frame

	if len(t) < FrameLength {
		return f, fmt.Errorf("%w: %d elements", ErrFrameTooShort, len(t))
	}

	if !leadMarkWindow.contains(t[0]) || !leadSpaceWindow.contains(t[1]) {
		return f, fmt.Errorf("%w: mark %v, space %v", ErrInvalidLeadIn, t[0], t[1])
	}

	var bytes [4]uint8
	for bit := 0; bit < 32; bit++ {
		i := 2 + bit*2
		mark, space := t[i], t[i+1]

		if !bitMarkWindow.contains(mark) {
			return f, fmt.Errorf("%w: bit %d mark %v", ErrInvalidMarkWidth, bit, mark)
		}

		switch {
		case zeroSpaceWindow.contains(space):
		case oneSpaceWindow.contains(space):
			f.Bits[bit] = 1
			bytes[bit/8] |= 1 << (bit % 8)
		default:
			return f, fmt.Errorf("%w: bit %d space %v", ErrInvalidSpaceWidth, bit, space)
		}
	}

	f.Address, f.AddressInv, f.Command, f.CommandInv = bytes[0], bytes[1], bytes[2], bytes[3]
	if f.Address^f.AddressInv != 0xff || f.Command^f.CommandInv != 0xff {
		return f, fmt.Errorf("%w: code %v", ErrComplementMismatch, f)
	}

	return f, nil
}
