// Package carrier computes the sub-cycles of a modulated infrared mark.
package carrier

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultFrequency is the most commonly used carrier frequency of IR remotes.
	DefaultFrequency = 38000
	// DefaultDutyCycle is the share of a carrier period the LED is on.
	DefaultDutyCycle = 0.33
)

var ErrInvalidCarrier = errors.New("invalid carrier parameters")

// Modulator splits a mark into carrier sub-cycles.
type Modulator struct {
	frequency int
	dutyCycle float64
}

// New returns a Modulator for frequency (Hz) and duty cycle (0..1, exclusive).
func New(frequency int, dutyCycle float64) (Modulator, error) {
	if frequency <= 0 || dutyCycle <= 0 || dutyCycle >= 1 {
		return Modulator{}, fmt.Errorf("%w: frequency %d Hz, duty cycle %v", ErrInvalidCarrier, frequency, dutyCycle)
	}
	return Modulator{frequency: frequency, dutyCycle: dutyCycle}, nil
}

// Default returns the 38kHz / 33% Modulator.
func Default() Modulator {
	return Modulator{frequency: DefaultFrequency, dutyCycle: DefaultDutyCycle}
}

// Frequency returns the carrier frequency in Hz.
func (m Modulator) Frequency() int { return m.frequency }

// DutyCycle returns the duty cycle.
func (m Modulator) DutyCycle() float64 { return m.dutyCycle }

// Period returns the duration of one carrier cycle, e.g. 26.3us at 38kHz.
func (m Modulator) Period() time.Duration {
	return time.Second / time.Duration(m.frequency)
}

// Active returns the on time of a carrier cycle, e.g. 8.7us at 38kHz/33%.
func (m Modulator) Active() time.Duration {
	return time.Duration(float64(time.Second) * m.dutyCycle / float64(m.frequency))
}

// Inactive returns the off time of a carrier cycle, e.g. 17.6us at 38kHz/33%.
func (m Modulator) Inactive() time.Duration {
	return m.Period() - m.Active()
}

// Cycles returns the number of complete carrier cycles within a mark of duration d.
func (m Modulator) Cycles(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(int64(d) * int64(m.frequency) / int64(time.Second))
}

// CycleStart returns the offset of cycle k from the start of the mark.
// It is computed from k directly, so rounding errors don't accumulate.
func (m Modulator) CycleStart(k int) time.Duration {
	return time.Duration(int64(k) * int64(time.Second) / int64(m.frequency))
}
