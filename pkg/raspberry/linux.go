//go:build linux
// +build linux

package raspberry

import (
	"fmt"

	"necir/pkg/port"

	"github.com/warthog618/gpio"
	"github.com/warthog618/gpiod"
	"github.com/womat/debug"
)

// Chip represents a single GPIO chip that controls a set of lines.
type Chip struct {
	gpiodChip *gpiod.Chip
	claims
}

// ChipLine represents a single requested line.
type ChipLine struct {
	gpiodLine *gpiod.Line
	pin       int
	output    bool
	release   func(int)
}

// openChip opens a GPIO character device.
func openChip(name string) (GPIO, error) {
	c, err := gpiod.NewChip(name, gpiod.WithConsumer(consumer))
	if err != nil {
		return nil, fmt.Errorf("can't open chip %q: %w", name, err)
	}
	return &Chip{gpiodChip: c}, nil
}

// Output requests control of a single line as output, initially low.
// If granted, control is maintained until the line is closed.
func (c *Chip) Output(pin int) (port.Line, error) {
	if err := c.claim(pin); err != nil {
		return nil, err
	}

	l, err := c.gpiodChip.RequestLine(pin, gpiod.AsOutput(0))
	if err != nil {
		c.release(pin)
		return nil, fmt.Errorf("can't request pin %d as output: %w", pin, err)
	}

	return &ChipLine{gpiodLine: l, pin: pin, output: true, release: c.release}, nil
}

// Input requests control of a single line as input.
// The bias selects the pull resistor (pullup, pulldown or none).
func (c *Chip) Input(pin int, bias port.Bias) (port.Line, error) {
	if err := checkBias(bias); err != nil {
		return nil, err
	}
	if err := c.claim(pin); err != nil {
		return nil, err
	}

	var l *gpiod.Line
	var err error

	switch bias {
	case port.PullUp:
		l, err = c.gpiodChip.RequestLine(pin, gpiod.AsInput, gpiod.WithPullUp)
	case port.PullDown:
		l, err = c.gpiodChip.RequestLine(pin, gpiod.AsInput, gpiod.WithPullDown)
	case port.PullNone:
		l, err = c.gpiodChip.RequestLine(pin, gpiod.AsInput)
	}
	if err != nil {
		c.release(pin)
		return nil, fmt.Errorf("can't request pin %d as input: %w", pin, err)
	}

	return &ChipLine{gpiodLine: l, pin: pin, release: c.release}, nil
}

// Close releases the Chip.
//
// It does not release any lines which may be requested - they must be closed
// independently.
func (c *Chip) Close() error {
	return c.gpiodChip.Close()
}

// Pin returns the line offset.
func (l *ChipLine) Pin() int {
	return l.pin
}

// Read the line value.
func (l *ChipLine) Read() (port.Level, error) {
	v, err := l.gpiodLine.Value()
	if err != nil {
		return port.Low, err
	}
	if v == 0 {
		return port.Low, nil
	}
	return port.High, nil
}

// Write sets the line value.
func (l *ChipLine) Write(level port.Level) error {
	return l.gpiodLine.SetValue(int(level))
}

// Close releases all resources held by the requested line.
// An output line is set low before it is released.
func (l *ChipLine) Close() error {
	defer l.release(l.pin)

	if l.output {
		if err := l.gpiodLine.SetValue(0); err != nil {
			debug.ErrorLog.Printf("can't set pin %d low: %v", l.pin, err)
		}
	}
	return l.gpiodLine.Close()
}

// Mem represents the memory mapped gpio registers (/dev/gpiomem).
type Mem struct {
	claims
}

// MemLine represents a single memory mapped pin.
type MemLine struct {
	gpioPin *gpio.Pin
	output  bool
	release func(int)
}

// openMem maps the GPIO memory range from /dev/gpiomem.
func openMem() (GPIO, error) {
	if err := gpio.Open(); err != nil {
		return nil, fmt.Errorf("can't open gpiomem: %w", err)
	}
	return &Mem{}, nil
}

// Output sets pin as output, initially low.
// The pin number provided is the BCM GPIO number.
func (m *Mem) Output(pin int) (port.Line, error) {
	if pin > maxPin {
		return nil, fmt.Errorf("%w: pin %d", ErrInvalidParam, pin)
	}
	if err := m.claim(pin); err != nil {
		return nil, err
	}

	p := gpio.NewPin(pin)
	p.Low()
	p.Output()
	return &MemLine{gpioPin: p, output: true, release: m.release}, nil
}

// Input sets pin as input and sets the pull state.
func (m *Mem) Input(pin int, bias port.Bias) (port.Line, error) {
	if pin > maxPin {
		return nil, fmt.Errorf("%w: pin %d", ErrInvalidParam, pin)
	}
	if err := checkBias(bias); err != nil {
		return nil, err
	}
	if err := m.claim(pin); err != nil {
		return nil, err
	}

	p := gpio.NewPin(pin)
	p.Input()
	switch bias {
	case port.PullUp:
		p.PullUp()
	case port.PullDown:
		p.PullDown()
	case port.PullNone:
		p.PullNone()
	}
	return &MemLine{gpioPin: p, release: m.release}, nil
}

// Close unmaps GPIO memory.
func (m *Mem) Close() error {
	return gpio.Close()
}

// Pin returns the pin number that this Pin represents.
func (l *MemLine) Pin() int {
	return l.gpioPin.Pin()
}

// Read pin state (high/low).
func (l *MemLine) Read() (port.Level, error) {
	if l.gpioPin.Read() {
		return port.High, nil
	}
	return port.Low, nil
}

// Write sets the pin state.
func (l *MemLine) Write(level port.Level) error {
	if level == port.High {
		l.gpioPin.High()
	} else {
		l.gpioPin.Low()
	}
	return nil
}

// Close sets an output pin low and switches it back to input.
func (l *MemLine) Close() error {
	if l.output {
		l.gpioPin.Low()
		l.gpioPin.Input()
	}
	l.release(l.gpioPin.Pin())
	return nil
}
