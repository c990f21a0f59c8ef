// Package raspberry claims gpio lines of a raspberry pi as port.Line.
//
// Three drivers are available:
//  * gpiod: the GPIO character device (/dev/gpiochipN), works on every pi incl. pi 5
//  * gpiomem: memory mapped registers (/dev/gpiomem), fastest writes, pi 1-4 only
//  * emu: in memory lines, for tests and dry runs
package raspberry

import (
	"errors"
	"fmt"
	"sync"

	"necir/pkg/port"
)

const (
	DriverGpiod   = "gpiod"
	DriverGpiomem = "gpiomem"
	DriverEmu     = "emu"

	// DefaultChip is the gpio chip of the 40 pin header.
	DefaultChip = "gpiochip0"
	// consumer is the label of requested lines.
	consumer = "necir"
	// maxPin is the highest BCM gpio of the memory mapped driver.
	maxPin = 53
)

var (
	ErrInvalidParam = errors.New("invalid parameters")
	ErrPinInUse     = errors.New("pin already used")
	ErrUnsupported  = errors.New("driver not supported on this platform")
)

// GPIO claims lines of a gpio chip.
type GPIO interface {
	// Output claims pin as output, initially low.
	Output(pin int) (port.Line, error)
	// Input claims pin as input with the given bias.
	Input(pin int, bias port.Bias) (port.Line, error)
	// Close releases the chip. Claimed lines must be closed independently.
	Close() error
}

// Open opens the gpio chip with the given driver.
// The chip name is only used by the gpiod driver.
func Open(driver, chip string) (GPIO, error) {
	switch driver {
	case DriverGpiod:
		if chip == "" {
			chip = DefaultChip
		}
		return openChip(chip)
	case DriverGpiomem:
		return openMem()
	case DriverEmu:
		return NewEmu(), nil
	default:
		return nil, fmt.Errorf("%w: driver %q", ErrInvalidParam, driver)
	}
}

// claims tracks the pins in use of a driver.
type claims struct {
	mu   sync.Mutex
	pins map[int]bool
}

// claim marks pin as used.
func (c *claims) claim(pin int) error {
	if pin < 0 {
		return fmt.Errorf("%w: pin %d", ErrInvalidParam, pin)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pins == nil {
		c.pins = map[int]bool{}
	}
	if c.pins[pin] {
		return fmt.Errorf("%w: pin %d", ErrPinInUse, pin)
	}
	c.pins[pin] = true
	return nil
}

// release marks pin as unused.
func (c *claims) release(pin int) {
	c.mu.Lock()
	delete(c.pins, pin)
	c.mu.Unlock()
}

// checkBias validates the bias of an input line.
func checkBias(bias port.Bias) error {
	switch bias {
	case port.PullUp, port.PullDown, port.PullNone:
		return nil
	default:
		return fmt.Errorf("%w: bias %q", ErrInvalidParam, bias)
	}
}
