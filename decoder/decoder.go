// Package decoder turns the edge stream of a demodulating IR receiver into frames.
//
// A Decoder is driven from two interrupt contexts: Process on every level change of
// the receiver pin, and TimeoutTick from the same periodic timer that advances the
// tick counter. A third context polls Data for finished frames. All three may run
// concurrently.
//
//	counter := new(ticks.Counter)
//	dec := decoder.New(protocol.NEC, rxHAL{counter, pin})
//	pin.SetInterrupt(machine.PinFalling|machine.PinRising, func(p machine.Pin) { dec.Process(irkit.Level(!p.Get())) })
//	...
//	if f, ok := dec.Data(); ok {
//		println(f.Address, f.Command)
//	}
package decoder

import (
	"github.com/sparques/irkit"
	"github.com/sparques/irkit/protocol"
)

// IdleCeiling is the tick count past which the channel is considered idle and any
// frame in progress is dropped.
const IdleCeiling = 10000

// State is the top level receive state.
type State uint8

const (
	Idle State = iota
	Init
	Process
	// Finish is transient: a decoder resolves it to Idle before returning.
	Finish
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Init:
		return "init"
	case Process:
		return "process"
	case Finish:
		return "finish"
	}
	return "invalid"
}

// Event is the data sub-state while in Process.
type Event uint8

const (
	DataInit Event = iota
	Data
	Hook
	DataFinish
)

func (e Event) String() string {
	switch e {
	case DataInit:
		return "data-init"
	case Data:
		return "data"
	case Hook:
		return "hook"
	case DataFinish:
		return "data-finish"
	}
	return "invalid"
}

// Decoder receives frames of a single protocol.
type Decoder struct {
	guard   guard
	hal     HAL
	sampler sampler

	id     protocol.ID
	timing protocol.Timing

	state     State
	event     Event
	bit       uint8
	acc       uint64
	countdown uint16

	// last is the raw value of the last data frame, re-emitted by repeat bursts.
	// primed is set once there is one.
	last   uint64
	primed bool
	frame  Frame
}

// New returns a Decoder for id and starts the HAL timer. Unknown ids decode NEC.
func New(id protocol.ID, hal HAL) *Decoder {
	d := newDecoder(id, hal)
	hal.TimerStart()
	return d
}

func newDecoder(id protocol.ID, hal HAL) *Decoder {
	if !id.Valid() {
		id = protocol.NEC
	}
	d := &Decoder{
		hal:    hal,
		id:     id,
		timing: protocol.TimingFor(id),
	}
	if hal != nil {
		d.sampler = newSampler(hal)
	}
	return d
}

// Process feeds one edge. level is the pin level after the edge, so High is a
// rising edge: the carrier just came on.
func (d *Decoder) Process(level irkit.Level) {
	d.guard.lock()
	d.step(level, d.sampler.sample())
	d.guard.unlock()
}

// TimeoutTick runs the watchdogs for one tick period. Call it from the tick interrupt.
func (d *Decoder) TimeoutTick() {
	d.Elapse(1)
}

// Elapse runs the watchdogs for n tick periods at once, for hosts whose periodic
// timer is coarser than a tick.
func (d *Decoder) Elapse(n uint32) {
	d.guard.lock()
	d.elapse(n, d.hal.TimerCount() > IdleCeiling)
	d.guard.unlock()
}

// Data returns the pending frame, if any, and clears it. Each frame is returned once;
// a frame not collected before the next one completes is overwritten.
func (d *Decoder) Data() (Frame, bool) {
	d.guard.lock()
	f := d.take()
	d.guard.unlock()
	return f, f.Valid
}

// Reset drops any frame in progress or pending and returns to Idle.
func (d *Decoder) Reset() {
	d.guard.lock()
	d.reset()
	d.guard.unlock()
}

func (d *Decoder) State() State {
	d.guard.lock()
	defer d.guard.unlock()
	return d.state
}

func (d *Decoder) Event() Event {
	d.guard.lock()
	defer d.guard.unlock()
	return d.event
}

func (d *Decoder) Protocol() protocol.ID { return d.id }

func (d *Decoder) Timing() protocol.Timing { return d.timing }

// step advances the state machine by one edge seen elapsed ticks after the previous
// one. It reports whether a frame was committed.
func (d *Decoder) step(level irkit.Level, elapsed uint32) bool {
	t := &d.timing
	switch d.state {
	case Idle:
		if level == irkit.High {
			d.state = Init
		}
		return false

	case Init:
		if level == irkit.Low {
			// end of the leader burst
			if t.StartBurst.Contains(elapsed) {
				d.countdown = t.Timeout
				return false
			}
			d.state = Finish
			break
		}
		// end of the leader space
		switch {
		case t.StartSpace.Contains(elapsed):
			d.state = Process
			d.event = DataInit
			d.bit, d.acc = 0, 0
			return false
		case t.RepeatSpace.Contains(elapsed):
			if !d.primed {
				// nothing to repeat yet
				d.finish()
				return false
			}
			d.event = DataFinish
			d.frame = newFrame(d.id, d.last, true)
			d.finish()
			return true
		}
		d.state = Finish

	case Process:
		if d.data(level, elapsed) {
			return true
		}
	}

	if d.state == Finish {
		d.finish()
	}
	return false
}

// data runs the data sub-machine. It sets Finish on a malformed edge.
func (d *Decoder) data(level irkit.Level, elapsed uint32) bool {
	t := &d.timing
	switch d.event {
	case DataInit:
		d.bit, d.acc = 0, 0
		d.event = Data
		fallthrough

	case Data:
		if level == irkit.Low {
			if !t.BitBurst.Contains(elapsed) {
				d.state = Finish
			}
			return false
		}
		if !t.ZeroSpace.Contains(elapsed) && !t.OneSpace.Contains(elapsed) {
			d.state = Finish
			return false
		}
		if elapsed >= uint32(t.BitThreshold) {
			d.acc |= 1 << d.bit
		}
		d.bit++
		if d.bit >= t.Bits {
			d.event = Hook
		}
		return false

	case Hook:
		if level == irkit.Low && t.StopBurst.Contains(elapsed) {
			d.event = DataFinish
			d.last, d.primed = d.acc, true
			d.frame = newFrame(d.id, d.acc, false)
			d.finish()
			return true
		}
	}
	d.state = Finish
	return false
}

func (d *Decoder) elapse(n uint32, idle bool) {
	if idle {
		if d.state != Idle {
			d.finish()
		}
		return
	}
	if d.countdown == 0 {
		return
	}
	if n >= uint32(d.countdown) {
		d.finish()
		return
	}
	d.countdown -= uint16(n)
}

// finish resolves the Finish state.
func (d *Decoder) finish() {
	d.state = Idle
	d.event = DataInit
	d.countdown = 0
}

func (d *Decoder) take() Frame {
	f := d.frame
	d.frame = Frame{}
	return f
}

func (d *Decoder) reset() {
	d.finish()
	d.bit, d.acc = 0, 0
	d.last, d.primed = 0, false
	d.frame = Frame{}
}
