// Package transmitter frames raw protocol words as carrier bursts and spaces.
//
// Framing is synchronous: Send blocks for the whole frame, a few to a hundred
// milliseconds depending on the protocol and its repeat count.
package transmitter

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sparques/irkit/protocol"
)

var (
	// ErrBusy is returned when a send is requested while another is in flight.
	ErrBusy = errors.New("transmitter busy")
	// ErrRepeatUnsupported is returned by SendRepeat for protocols without a repeat burst.
	ErrRepeatUnsupported = errors.New("protocol has no repeat burst")
	// ErrStopped is returned by a send that Stop cut short.
	ErrStopped = errors.New("transmission stopped")
)

// HAL drives the IR LED. CarrierOn and CarrierOff gate the modulated carrier; the
// delays block for the given time.
type HAL interface {
	CarrierOn()
	CarrierOff()
	DelayUS(us uint16)
	DelayMS(ms uint16)
}

type State uint8

const (
	Idle State = iota
	Busy
)

func (s State) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// Transmitter sends frames of one protocol.
type Transmitter struct {
	hal    HAL
	id     protocol.ID
	timing protocol.TxTiming

	data atomic.Uint64
	// busy holds the token of the send in flight, 0 when idle. Only its owner or
	// Stop clears it.
	busy uint32
	seq  uint32
	// gen is bumped by Stop; a send that sees it change gives up.
	gen uint32

	// carrier serialises carrier switching with Stop.
	carrier sync.Mutex
}

// New returns a Transmitter for id with the carrier off. Unknown ids send NEC.
func New(id protocol.ID, hal HAL) *Transmitter {
	if !id.Valid() {
		id = protocol.NEC
	}
	hal.CarrierOff()
	return &Transmitter{
		hal:    hal,
		id:     id,
		timing: protocol.TxTimingFor(id),
	}
}

// Send encodes address and command and sends the result.
func (t *Transmitter) Send(address uint8, command uint16) error {
	return t.SendRaw(protocol.Encode(t.id, address, command))
}

// SendRaw sends raw as-is, followed by the protocol's extra copies spaced one frame
// period apart.
func (t *Transmitter) SendRaw(raw uint64) error {
	token, gen, err := t.acquire()
	if err != nil {
		return err
	}
	defer t.release(token)
	t.data.Store(raw)

	for i := 0; i <= int(t.timing.Repeats); i++ {
		if i > 0 {
			t.gap(t.frameMicros(raw))
		}
		if !t.frame(gen, raw) {
			return ErrStopped
		}
	}
	return nil
}

// SendRepeat sends the protocol's repeat burst.
func (t *Transmitter) SendRepeat() error {
	if t.timing.RepeatSpace == 0 {
		return ErrRepeatUnsupported
	}
	token, gen, err := t.acquire()
	if err != nil {
		return err
	}
	defer t.release(token)

	tx := &t.timing
	if !t.mark(gen, tx.StartBurst) {
		return ErrStopped
	}
	t.space(tx.RepeatSpace)
	if tx.StopBurst > 0 && !t.mark(gen, tx.StopBurst) {
		return ErrStopped
	}
	return nil
}

// acquire claims the transmitter for one send.
func (t *Transmitter) acquire() (token, gen uint32, err error) {
	token = atomic.AddUint32(&t.seq, 1)
	if token == 0 {
		token = atomic.AddUint32(&t.seq, 1)
	}
	gen = atomic.LoadUint32(&t.gen)
	if !atomic.CompareAndSwapUint32(&t.busy, 0, token) {
		return 0, 0, ErrBusy
	}
	if atomic.LoadUint32(&t.gen) != gen {
		// stopped before the send began
		t.release(token)
		return 0, 0, ErrStopped
	}
	return token, gen, nil
}

// release clears busy unless Stop already handed it to a newer send.
func (t *Transmitter) release(token uint32) {
	atomic.CompareAndSwapUint32(&t.busy, token, 0)
}

// IsBusy reports whether a send is in flight.
func (t *Transmitter) IsBusy() bool {
	return atomic.LoadUint32(&t.busy) != 0
}

func (t *Transmitter) State() State {
	if t.IsBusy() {
		return Busy
	}
	return Idle
}

// Stop forces the carrier off and returns to Idle. A send in flight gives up at its
// next burst and never touches the carrier again, so a new send may start at once.
func (t *Transmitter) Stop() {
	owner := atomic.LoadUint32(&t.busy)
	t.carrier.Lock()
	atomic.AddUint32(&t.gen, 1)
	t.hal.CarrierOff()
	t.carrier.Unlock()
	if owner != 0 {
		atomic.CompareAndSwapUint32(&t.busy, owner, 0)
	}
}

func (t *Transmitter) Protocol() protocol.ID { return t.id }

// Data returns the last raw word passed to SendRaw. It is safe to call while a send
// is in flight.
func (t *Transmitter) Data() uint64 { return t.data.Load() }

// FrameDuration returns how long one frame carrying raw keeps the transmitter busy,
// not counting extra copies.
func (t *Transmitter) FrameDuration(raw uint64) time.Duration {
	return time.Duration(t.frameMicros(raw)) * time.Microsecond
}

// Duration returns how long SendRaw(raw) blocks, extra copies included.
func (t *Transmitter) Duration(raw uint64) time.Duration {
	d := t.FrameDuration(raw)
	if n := time.Duration(t.timing.Repeats); n > 0 {
		period := time.Duration(t.timing.FramePeriod) * time.Microsecond
		if period > d {
			d = period*n + d
		} else {
			d = d * (n + 1)
		}
	}
	return d
}

func (t *Transmitter) frame(gen uint32, raw uint64) bool {
	tx := &t.timing
	if !t.mark(gen, tx.StartBurst) {
		return false
	}
	t.space(tx.StartSpace)
	for bit := uint8(0); bit < tx.Bits; bit++ {
		if !t.mark(gen, tx.BitBurst) {
			return false
		}
		if (raw>>bit)&1 == 1 {
			t.space(tx.OneSpace)
		} else {
			t.space(tx.ZeroSpace)
		}
	}
	if tx.StopBurst > 0 {
		return t.mark(gen, tx.StopBurst)
	}
	return true
}

// mark sends one burst unless Stop was called since gen was taken. A Stop during the
// burst has already switched the carrier off; the carrier may belong to a newer send
// by then and is left alone.
func (t *Transmitter) mark(gen uint32, us uint16) bool {
	if !t.switchCarrier(gen, true) {
		return false
	}
	t.hal.DelayUS(us)
	return t.switchCarrier(gen, false)
}

func (t *Transmitter) switchCarrier(gen uint32, on bool) bool {
	t.carrier.Lock()
	defer t.carrier.Unlock()
	if atomic.LoadUint32(&t.gen) != gen {
		return false
	}
	if on {
		t.hal.CarrierOn()
	} else {
		t.hal.CarrierOff()
	}
	return true
}

func (t *Transmitter) space(us uint16) {
	if us > 0 {
		t.hal.DelayUS(us)
	}
}

// gap waits out the rest of a frame period after a frame of length us.
func (t *Transmitter) gap(us uint32) {
	if t.timing.FramePeriod <= us {
		return
	}
	rest := t.timing.FramePeriod - us
	if ms := rest / 1000; ms > 0 {
		t.hal.DelayMS(uint16(ms))
	}
	if r := rest % 1000; r > 0 {
		t.hal.DelayUS(uint16(r))
	}
}

func (t *Transmitter) frameMicros(raw uint64) uint32 {
	tx := &t.timing
	us := uint32(tx.StartBurst) + uint32(tx.StartSpace) + uint32(tx.StopBurst)
	for bit := uint8(0); bit < tx.Bits; bit++ {
		us += uint32(tx.BitBurst)
		if (raw>>bit)&1 == 1 {
			us += uint32(tx.OneSpace)
		} else {
			us += uint32(tx.ZeroSpace)
		}
	}
	return us
}
