package nec

import "necir/pkg/pulse"

// Message is a classified capture: either a repeat signal or a full frame.
type Message struct {
	Repeat bool
	Frame  Frame
}

// Repeat returns the repeat frame: lead mark, 2.25ms space and a stop mark.
// A receiver repeats the previously received command.
func Repeat() pulse.Train {
	return pulse.Train{LeadMark, RepeatSpace, StopMark}
}

// IsRepeat reports whether t has the shape of a repeat frame.
func IsRepeat(t pulse.Train) bool {
	return len(t) == 3 &&
		leadMarkWindow.contains(t[0]) &&
		repeatSpaceWindow.contains(t[1]) &&
		bitMarkWindow.contains(t[2])
}

// Classify recognizes repeat frames before decoding, so they never
// fail with ErrFrameTooShort. Any other train is passed to Decode.
func Classify(t pulse.Train) (Message, error) {
	if IsRepeat(t) {
		return Message{Repeat: true}, nil
	}

	f, err := Decode(t)
	if err != nil {
		return Message{}, err
	}
	return Message{Frame: f}, nil
}
