package decoder

import "github.com/sparques/irkit"

// HAL is the hardware a Decoder needs: a free-running tick counter advanced by a
// periodic interrupt and the demodulated receiver pin.
//
// ticks.Counter provides the timer half.
type HAL interface {
	TimerStart()
	TimerStop()
	TimerCount() uint32
	TimerResetCount()
	PinRead() irkit.Level
}

// TickSampler is implemented by timers that can read and zero their count in one
// atomic step. Decoders prefer it over TimerCount followed by TimerResetCount.
type TickSampler interface {
	SampleAndReset() uint32
}

type sampler struct {
	hal HAL
	ts  TickSampler
}

func newSampler(hal HAL) sampler {
	ts, _ := hal.(TickSampler)
	return sampler{hal: hal, ts: ts}
}

// sample returns the ticks since the previous edge and restarts the measurement.
func (s sampler) sample() uint32 {
	if s.ts != nil {
		return s.ts.SampleAndReset()
	}
	n := s.hal.TimerCount()
	s.hal.TimerResetCount()
	return n
}
