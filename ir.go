package irkit

import "time"

const (
	// Freq38Khz is the most commonly used frequency for IR remotes
	Freq38Khz = 38000

	// TickPeriod is the resolution receive timings are measured in, half a period of
	// a 38.222kHz carrier.
	TickPeriod = 13 * time.Microsecond
)

// Level is the logic level of the demodulated IR signal. High means the
// carrier is present (a burst), Low means a space.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// TimePair encodes two durations used to encode an on-off or off-on amount of time.
// For frames produced by this module it is always burst then space; a zero space
// marks the end of a frame.
type TimePair [2]time.Duration

// Burst is the carrier-on half of the pair.
func (p TimePair) Burst() time.Duration { return p[0] }

// Space is the carrier-off half of the pair.
func (p TimePair) Space() time.Duration { return p[1] }

// FrameMarshaller defines an interface for marshalling data to slice of TimePairs
type FrameMarshaller interface {
	MarshalFrame() []TimePair
}

// Duration sums every burst and space in pairs.
func Duration(pairs []TimePair) (d time.Duration) {
	for _, p := range pairs {
		d += p[0] + p[1]
	}
	return
}
