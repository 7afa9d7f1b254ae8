package protocol

import (
	"time"

	"github.com/sparques/irkit"
)

// Window is an inclusive range of tick counts.
type Window struct {
	Min, Max uint16
}

// Contains reports whether ticks falls inside the window. A disabled window contains
// nothing.
func (w Window) Contains(ticks uint32) bool {
	return w.Enabled() && ticks >= uint32(w.Min) && ticks <= uint32(w.Max)
}

// Enabled reports whether the window is defined for its protocol.
func (w Window) Enabled() bool {
	return w.Max != 0
}

// Overlaps reports whether w and o share any tick count.
func (w Window) Overlaps(o Window) bool {
	if !w.Enabled() || !o.Enabled() {
		return false
	}
	return w.Min <= o.Max && o.Min <= w.Max
}

// Timing holds the receive-side classification windows of a protocol, in ticks.
type Timing struct {
	StartBurst  Window
	StartSpace  Window
	RepeatSpace Window
	BitBurst    Window
	ZeroSpace   Window
	OneSpace    Window
	StopBurst   Window

	// Bits is the number of data bits in a frame.
	Bits uint8
	// Timeout is the countdown, in ticks, armed once a leader burst is seen.
	Timeout uint16
	// BitThreshold separates a zero space (below) from a one space.
	BitThreshold uint16
	// Carrier is the modulation frequency in Hz.
	Carrier uint32
}

// HasRepeat reports whether the protocol has a repeat burst.
func (t Timing) HasRepeat() bool {
	return t.RepeatSpace.Enabled()
}

// TxTiming holds the transmit-side durations of a protocol, in microseconds.
type TxTiming struct {
	StartBurst  uint16
	StartSpace  uint16
	RepeatSpace uint16 // 0 if the protocol has no repeat burst
	BitBurst    uint16
	ZeroSpace   uint16
	OneSpace    uint16
	StopBurst   uint16 // 0 if the protocol has no stop burst

	Bits uint8
	// Repeats is how many extra copies of a frame Send emits.
	Repeats uint8
	// FramePeriod is the start-to-start spacing of repeated frames, in microseconds.
	FramePeriod uint32
	Carrier     uint32
}

// Ticks converts a duration to receive ticks, rounding to nearest.
func Ticks(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32((d + TickPeriod/2) / TickPeriod)
}

func us(v uint16) time.Duration {
	return time.Duration(v) * time.Microsecond
}

// Pairs returns the burst/space sequence of a frame carrying raw: the leader, one
// pair per bit sent least-significant first, and the stop burst. The last pair has a
// zero space.
func Pairs(id ID, raw uint64) []irkit.TimePair {
	tx := TxTimingFor(id)
	out := make([]irkit.TimePair, 0, int(tx.Bits)+2)
	out = append(out, irkit.TimePair{us(tx.StartBurst), us(tx.StartSpace)})
	for bit := uint8(0); bit < tx.Bits; bit++ {
		space := tx.ZeroSpace
		if (raw>>bit)&1 == 1 {
			space = tx.OneSpace
		}
		out = append(out, irkit.TimePair{us(tx.BitBurst), us(space)})
	}
	if tx.StopBurst > 0 {
		out = append(out, irkit.TimePair{us(tx.StopBurst), 0})
	} else {
		// nothing closes the last space
		out[len(out)-1][1] = 0
	}
	return out
}

// RepeatPairs returns the repeat burst of id, or nil if it has none.
func RepeatPairs(id ID) []irkit.TimePair {
	tx := TxTimingFor(id)
	if tx.RepeatSpace == 0 {
		return nil
	}
	return []irkit.TimePair{
		{us(tx.StartBurst), us(tx.RepeatSpace)},
		{us(tx.StopBurst), 0},
	}
}

// Frame is a raw bitfield bound to its protocol. It implements
// irkit.FrameMarshaller.
type Frame struct {
	Protocol ID
	Raw      uint64
}

// MarshalFrame implements irkit.FrameMarshaller.
func (f Frame) MarshalFrame() []irkit.TimePair {
	return Pairs(f.Protocol, f.Raw)
}
