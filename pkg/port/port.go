// Package port holds the definition of a physical port
package port

// Level is the logical state of a digital line.
type Level int

const (
	// Low indicates the inactive level (IR LED off).
	Low Level = 0
	// High indicates the active level (IR LED on).
	High Level = 1
)

// String returns "high" or "low".
func (l Level) String() string {
	if l == High {
		return "high"
	}
	return "low"
}

// Bias defines the pull resistor configuration of an input line.
type Bias string

const (
	PullUp   Bias = "pullup"
	PullDown Bias = "pulldown"
	PullNone Bias = "none"
)

// Line is a single claimed digital line.
//
// A line is exclusively owned by whoever claimed it. Close releases the line;
// for output lines the level is forced Low before the release.
type Line interface {
	// Pin returns the line offset (BCM number) this Line represents.
	Pin() int
	// Read the current level of the line.
	Read() (Level, error)
	// Write sets the level of an output line.
	Write(Level) error
	// Close releases the line.
	Close() error
}
