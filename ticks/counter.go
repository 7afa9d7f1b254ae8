// Package ticks provides the free-running tick counter the receive engine measures
// edge intervals with.
package ticks

import "sync/atomic"

// Ceiling is the value the counter saturates at, the range of a 16-bit hardware timer.
const Ceiling = 0xFFFF

// Counter counts periodic timer interrupts. Tick is called from the interrupt; the
// decoder reads it with SampleAndReset on every edge.
//
// The zero value is a stopped counter at zero.
type Counter struct {
	count   uint32
	running uint32
}

// Tick advances the counter by one if it is running. It never wraps.
func (c *Counter) Tick() {
	if atomic.LoadUint32(&c.running) == 0 {
		return
	}
	for {
		old := atomic.LoadUint32(&c.count)
		if old >= Ceiling {
			return
		}
		if atomic.CompareAndSwapUint32(&c.count, old, old+1) {
			return
		}
	}
}

// TimerStart enables counting.
func (c *Counter) TimerStart() {
	atomic.StoreUint32(&c.running, 1)
}

// TimerStop disables counting. The current value is kept.
func (c *Counter) TimerStop() {
	atomic.StoreUint32(&c.running, 0)
}

// Running reports whether Tick advances the counter.
func (c *Counter) Running() bool {
	return atomic.LoadUint32(&c.running) == 1
}

// TimerCount returns the ticks since the last reset.
func (c *Counter) TimerCount() uint32 {
	return atomic.LoadUint32(&c.count)
}

// TimerResetCount zeroes the counter.
func (c *Counter) TimerResetCount() {
	atomic.StoreUint32(&c.count, 0)
}

// SampleAndReset returns the ticks since the last reset and zeroes the counter in one
// step, so no tick lands between the read and the reset.
func (c *Counter) SampleAndReset() uint32 {
	return atomic.SwapUint32(&c.count, 0)
}
