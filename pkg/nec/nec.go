// Package nec is the encoder and decoder of the NEC infrared protocol.
//
// A NEC frame consists of a 9ms lead mark and a 4.5ms lead space followed by
// 32 bits: address, inverted address, command and inverted command, each sent
// LSB first. Every bit starts with a 560us mark; the following space is 560us
// for a logical 0 and 1690us for a logical 1. A 560us stop mark terminates
// the frame.
//
// References:
//  https://www.sbprojects.net/knowledge/ir/nec.php
//  https://techdocs.altium.com/display/FPGA/NEC+Infrared+Transmission+Protocol
package nec

import (
	"errors"
	"fmt"
	"time"
)

const (
	LeadMark     = 9000 * time.Microsecond
	LeadSpace    = 4500 * time.Microsecond
	RepeatSpace  = 2250 * time.Microsecond
	BitMark      = 560 * time.Microsecond
	ZeroSpace    = 560 * time.Microsecond
	OneSpace     = 1690 * time.Microsecond
	StopMark     = 560 * time.Microsecond
	FillerLength = 560 * time.Microsecond

	// RepeatPeriod is the gap between the start of two consecutive frames.
	RepeatPeriod = 108 * time.Millisecond

	// FrameLength is the minimum element count of a decodable frame:
	// lead mark, lead space and 32 mark/space pairs. The stop mark is optional.
	FrameLength = 2 + 32*2
)

var (
	// ErrEncodingInput is returned if address or command exceeds 8 bits.
	ErrEncodingInput = errors.New("address and command must be within 0..255")

	// ErrDecode is wrapped by every decoding error.
	ErrDecode             = errors.New("nec decode")
	ErrFrameTooShort      = fmt.Errorf("%w: frame too short", ErrDecode)
	ErrInvalidLeadIn      = fmt.Errorf("%w: invalid lead-in", ErrDecode)
	ErrInvalidMarkWidth   = fmt.Errorf("%w: invalid mark width", ErrDecode)
	ErrInvalidSpaceWidth  = fmt.Errorf("%w: invalid space width", ErrDecode)
	ErrComplementMismatch = fmt.Errorf("%w: complement mismatch", ErrDecode)
)

// window is an inclusive acceptance range of a received duration.
type window struct {
	min, max time.Duration
}

func (w window) contains(d time.Duration) bool {
	return d >= w.min && d <= w.max
}

var (
	leadMarkWindow    = window{8500 * time.Microsecond, 9500 * time.Microsecond}
	leadSpaceWindow   = window{4000 * time.Microsecond, 5000 * time.Microsecond}
	repeatSpaceWindow = window{2000 * time.Microsecond, 2500 * time.Microsecond}
	bitMarkWindow     = window{400 * time.Microsecond, 700 * time.Microsecond}
	zeroSpaceWindow   = window{400 * time.Microsecond, 700 * time.Microsecond}
	oneSpaceWindow    = window{1500 * time.Microsecond, 1800 * time.Microsecond}
)

// Frame is a decoded NEC frame.
type Frame struct {
	Address    uint8     `json:"address"`
	AddressInv uint8     `json:"addressInv"`
	Command    uint8     `json:"command"`
	CommandInv uint8     `json:"commandInv"`
	Bits       [32]uint8 `json:"bits"`
}

// Code returns the packed 32 bit code address<<24 | ^address<<16 | command<<8 | ^command.
func (f Frame) Code() uint32 {
	return uint32(f.Address)<<24 | uint32(f.AddressInv)<<16 | uint32(f.Command)<<8 | uint32(f.CommandInv)
}

// String returns the packed code in hex, e.g. 0x78871EE1.
func (f Frame) String() string {
	return fmt.Sprintf("0x%08X", f.Code())
}
