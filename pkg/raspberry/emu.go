package raspberry

import (
	"fmt"
	"sync"

	"necir/pkg/port"
)

// Emu is an in memory gpio chip. It is used for dry runs without hardware and in tests.
type Emu struct {
	claims

	linesMu sync.Mutex
	// lines holds the last line claimed for every pin, also after it has been closed
	lines map[int]*EmuLine
}

// EmuLine is an emulated line.
type EmuLine struct {
	mu     sync.Mutex
	pin    int
	level  port.Level
	output bool
	closed bool
	writes int
	owner  *Emu
}

// NewEmu returns an emulated gpio chip.
func NewEmu() *Emu {
	return &Emu{lines: map[int]*EmuLine{}}
}

// Output claims pin as emulated output, initially low.
func (e *Emu) Output(pin int) (port.Line, error) {
	return e.newLine(pin, true)
}

// Input claims pin as emulated input. An input with pullup bias idles high.
func (e *Emu) Input(pin int, bias port.Bias) (port.Line, error) {
	if err := checkBias(bias); err != nil {
		return nil, err
	}

	l, err := e.newLine(pin, false)
	if err != nil {
		return nil, err
	}
	if bias == port.PullUp {
		l.level = port.High
	}
	return l, nil
}

func (e *Emu) newLine(pin int, output bool) (*EmuLine, error) {
	if pin > maxPin {
		return nil, fmt.Errorf("%w: pin %d", ErrInvalidParam, pin)
	}
	if err := e.claim(pin); err != nil {
		return nil, err
	}

	l := &EmuLine{pin: pin, output: output, owner: e}

	e.linesMu.Lock()
	e.lines[pin] = l
	e.linesMu.Unlock()
	return l, nil
}

// Line returns the last line claimed for pin or nil.
func (e *Emu) Line(pin int) *EmuLine {
	e.linesMu.Lock()
	defer e.linesMu.Unlock()
	return e.lines[pin]
}

// Close releases the emulated chip.
func (e *Emu) Close() error {
	return nil
}

// Pin returns the pin number.
func (l *EmuLine) Pin() int {
	return l.pin
}

// Read returns the emulated level.
func (l *EmuLine) Read() (port.Level, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return port.Low, fmt.Errorf("pin %d closed", l.pin)
	}
	return l.level, nil
}

// Write sets the emulated level of an output line.
func (l *EmuLine) Write(level port.Level) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("pin %d closed", l.pin)
	}
	if !l.output {
		return fmt.Errorf("%w: pin %d is an input", ErrInvalidParam, l.pin)
	}
	l.level = level
	l.writes++
	return nil
}

// Set emulates a level change of an input line.
func (l *EmuLine) Set(level port.Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current emulated level without checks.
func (l *EmuLine) Level() port.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Writes returns the number of writes to the line.
func (l *EmuLine) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}

// Closed reports whether the line has been released.
func (l *EmuLine) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Close sets an output line low and releases it.
func (l *EmuLine) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	if l.output {
		l.level = port.Low
	}
	l.closed = true
	l.mu.Unlock()

	l.owner.release(l.pin)
	return nil
}
