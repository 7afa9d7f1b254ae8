package decoder

import (
	"fmt"

	"github.com/sparques/irkit"
	"github.com/sparques/irkit/protocol"
)

// Frame is a completed decode.
type Frame struct {
	Raw      uint64
	Address  uint8
	Command  uint16
	Protocol protocol.ID

	// Valid is set only on a fully received frame.
	Valid bool
	// Repeat marks a frame produced by a repeat burst. Raw is then the last frame the
	// decoder saw, or zero if there was none.
	Repeat bool
}

func newFrame(id protocol.ID, raw uint64, repeat bool) Frame {
	a, c := protocol.Decode(id, raw)
	return Frame{
		Raw:      raw,
		Address:  a,
		Command:  c,
		Protocol: id,
		Valid:    true,
		Repeat:   repeat,
	}
}

// Checked reports whether the redundancy embedded in Raw (complements, checksums,
// parity) is consistent.
func (f Frame) Checked() bool {
	return protocol.Validate(f.Protocol, f.Raw)
}

// MarshalFrame re-encodes the frame as burst/space pairs, so a received Frame can be
// handed straight to a transmitter device.
func (f Frame) MarshalFrame() []irkit.TimePair {
	if f.Repeat {
		if pairs := protocol.RepeatPairs(f.Protocol); pairs != nil {
			return pairs
		}
	}
	return protocol.Pairs(f.Protocol, f.Raw)
}

func (f Frame) String() string {
	s := fmt.Sprintf("%s addr=%#02x cmd=%#02x raw=%#x", f.Protocol, f.Address, f.Command, f.Raw)
	if f.Repeat {
		s += " repeat"
	}
	return s
}
