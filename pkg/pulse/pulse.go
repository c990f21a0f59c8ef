// Package pulse holds the mark/space representation of an infrared signal.
package pulse

import (
	"strconv"
	"strings"
	"time"
)

// Train is an ordered sequence of durations.
// Even indices (0, 2, ...) are marks (carrier active), odd indices are spaces.
// A train may end on a mark.
type Train []time.Duration

// IsMark reports whether element i is a mark.
func IsMark(i int) bool {
	return i%2 == 0
}

// Duration returns the total duration of the train.
func (t Train) Duration() time.Duration {
	var sum time.Duration
	for _, d := range t {
		sum += d
	}
	return sum
}

// Ends returns the cumulative end offset of every element relative to the
// start of the train.
func (t Train) Ends() []time.Duration {
	ends := make([]time.Duration, len(t))
	var sum time.Duration
	for i, d := range t {
		sum += d
		ends[i] = sum
	}
	return ends
}

// Micros returns the durations in whole microseconds.
func (t Train) Micros() []int64 {
	us := make([]int64, len(t))
	for i, d := range t {
		us[i] = d.Microseconds()
	}
	return us
}

// FromMicros builds a train from microsecond values.
func FromMicros(us ...int64) Train {
	t := make(Train, len(us))
	for i, v := range us {
		t[i] = time.Duration(v) * time.Microsecond
	}
	return t
}

// String returns the microsecond values, e.g. [9000 4500 560].
func (t Train) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, us := range t.Micros() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatInt(us, 10))
	}
	b.WriteByte(']')
	return b.String()
}
