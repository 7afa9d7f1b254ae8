//go:build tinygo

package irkit

import (
	. "machine"
	"sync/atomic"
	"time"
)

// watchdogPeriod is how often RxDevice runs the state machine's watchdogs.
const watchdogPeriod = time.Millisecond

// maxTicks is where TimerCount saturates, the range of a 16-bit hardware timer.
const maxTicks = 0xFFFF

// RxStateMachine is a receive engine an RxDevice can drive. *decoder.Decoder and
// *decoder.Multi implement it.
type RxStateMachine interface {
	Process(Level)
	Elapse(ticks uint32)
}

// RxDevice connects the output of a demodulating IR receiver to an RxStateMachine.
// It also serves as the state machine's timer: ticks are derived from the system
// clock instead of a tick interrupt.
//
//	rx := irkit.NewRxDevice(machine.GPIO15)
//	dec := decoder.New(protocol.NEC, rx)
//	rx.StartInverted(dec)
type RxDevice struct {
	pin          Pin
	inverted     bool
	lastEdge     time.Time
	running      uint32
	gen          uint32
	stateMachine RxStateMachine
}

func NewRxDevice(pin Pin) *RxDevice {
	// the most common receivers have a pull up pin builtin
	// but in the future, may want to add the option to use PinPullupInput
	pin.Configure(PinConfig{Mode: PinInput})
	return &RxDevice{
		pin:      pin,
		lastEdge: time.Now(),
	}
}

func (rx *RxDevice) interruptHandler(interruptPin Pin) {
	rx.stateMachine.Process(rx.PinRead())
}

// Start sets the interrupt handler and thus starts processing signals.
// Use Start if the receiver drives its output high while the carrier is present.
func (rx *RxDevice) Start(rsm RxStateMachine) {
	rx.start(rsm, false)
}

// StartInverted sets the interrupt handler and thus starts processing signals.
// Use StartInverted for the usual active-low receivers, e.g. the TSOP38 family.
func (rx *RxDevice) StartInverted(rsm RxStateMachine) {
	rx.start(rsm, true)
}

func (rx *RxDevice) start(rsm RxStateMachine, inverted bool) {
	rx.stateMachine = rsm
	rx.inverted = inverted
	rx.TimerStart()
	rx.pin.SetInterrupt(PinFalling|PinRising, rx.interruptHandler)
	go rx.watchdog(atomic.AddUint32(&rx.gen, 1))
}

// watchdog exits once the device is stopped or restarted.
func (rx *RxDevice) watchdog(gen uint32) {
	for {
		time.Sleep(watchdogPeriod)
		if atomic.LoadUint32(&rx.running) == 0 || atomic.LoadUint32(&rx.gen) != gen {
			return
		}
		rx.stateMachine.Elapse(uint32(watchdogPeriod / TickPeriod))
	}
}

// Stop disables the interrupt handler.
func (rx *RxDevice) Stop() {
	rx.pin.SetInterrupt(PinFalling|PinRising, nil)
	rx.TimerStop()
}

// TimerStart implements decoder.HAL.
func (rx *RxDevice) TimerStart() {
	rx.lastEdge = time.Now()
	atomic.StoreUint32(&rx.running, 1)
}

// TimerStop implements decoder.HAL.
func (rx *RxDevice) TimerStop() {
	atomic.StoreUint32(&rx.running, 0)
}

// TimerCount implements decoder.HAL: the ticks since the last reset.
func (rx *RxDevice) TimerCount() uint32 {
	n := time.Since(rx.lastEdge) / TickPeriod
	if n > maxTicks {
		return maxTicks
	}
	return uint32(n)
}

// TimerResetCount implements decoder.HAL.
func (rx *RxDevice) TimerResetCount() {
	rx.lastEdge = time.Now()
}

// PinRead implements decoder.HAL.
func (rx *RxDevice) PinRead() Level {
	return Level(rx.pin.Get() != rx.inverted)
}
