// Package sim provides software receive and transmit HALs so the engines can run on a
// host: captures are replayed as timed edges and transmissions are recorded as
// burst/space pairs.
package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/sparques/irkit"
	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/ticks"
	"github.com/sparques/irkit/transmitter"
)

// Sink is a receive engine: a *decoder.Decoder or a *decoder.Multi.
type Sink interface {
	Process(irkit.Level)
	TimeoutTick()
	Data() (decoder.Frame, bool)
}

// Receiver implements decoder.HAL. Its counter only advances while Feed or Wait
// replay time.
type Receiver struct {
	ticks.Counter
	level irkit.Level
}

// PinRead implements decoder.HAL.
func (r *Receiver) PinRead() irkit.Level {
	return r.level
}

// Wait advances n ticks, running the sink's watchdogs on each.
func (r *Receiver) Wait(s Sink, n uint32) {
	for i := uint32(0); i < n; i++ {
		r.Tick()
		s.TimeoutTick()
	}
}

// Edge changes the pin level and reports the edge to s.
func (r *Receiver) Edge(s Sink, level irkit.Level) {
	r.level = level
	s.Process(level)
}

// Feed replays pairs as one burst/space train and returns the frames s produced. The
// carrier is off before the first burst and after a pair with a zero space; a later
// pair starts a new burst.
func (r *Receiver) Feed(s Sink, pairs []irkit.TimePair) []decoder.Frame {
	var frames []decoder.Frame
	poll := func() {
		if f, ok := s.Data(); ok {
			glog.V(2).Infof("sim: decoded %v", f)
			frames = append(frames, f)
		}
	}
	for _, p := range pairs {
		if r.level == irkit.Low {
			r.Edge(s, irkit.High)
			poll()
		}
		r.Wait(s, protocol.Ticks(p.Burst()))
		r.Edge(s, irkit.Low)
		poll()
		if p.Space() == 0 {
			continue
		}
		r.Wait(s, protocol.Ticks(p.Space()))
		r.Edge(s, irkit.High)
		poll()
	}
	if r.level == irkit.High {
		// a train that ends mid burst is cut here
		r.Edge(s, irkit.Low)
		poll()
	}
	return frames
}

// Flush lets the channel go idle long enough for every decoder to give up on a
// partial frame, and returns a frame that was held meanwhile.
func (r *Receiver) Flush(s Sink) []decoder.Frame {
	r.Wait(s, decoder.IdleCeiling+1)
	if f, ok := s.Data(); ok {
		return []decoder.Frame{f}
	}
	return nil
}

// Carrier implements transmitter.HAL by recording what would have been emitted.
type Carrier struct {
	mu    sync.Mutex
	on    bool
	pairs []irkit.TimePair
}

func (c *Carrier) CarrierOn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on = true
	c.pairs = append(c.pairs, irkit.TimePair{})
}

func (c *Carrier) CarrierOff() {
	c.mu.Lock()
	c.on = false
	c.mu.Unlock()
}

func (c *Carrier) DelayUS(us uint16) {
	c.delay(time.Duration(us) * time.Microsecond)
}

func (c *Carrier) DelayMS(ms uint16) {
	c.delay(time.Duration(ms) * time.Millisecond)
}

func (c *Carrier) delay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pairs) == 0 {
		return
	}
	if c.on {
		c.pairs[len(c.pairs)-1][0] += d
	} else {
		c.pairs[len(c.pairs)-1][1] += d
	}
}

// Pairs returns a copy of everything recorded so far.
func (c *Carrier) Pairs() []irkit.TimePair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]irkit.TimePair(nil), c.pairs...)
}

// Take returns what was recorded and clears the recording.
func (c *Carrier) Take() []irkit.TimePair {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.pairs
	c.pairs = nil
	return p
}

// Loopback sends raw with a transmitter for id and decodes the recording with a
// decoder for the same protocol. It returns one frame per copy sent.
func Loopback(id protocol.ID, raw uint64) ([]decoder.Frame, error) {
	carrier := new(Carrier)
	tx := transmitter.New(id, carrier)
	if err := tx.SendRaw(raw); err != nil {
		return nil, fmt.Errorf("loopback send: %w", err)
	}

	rx := new(Receiver)
	dec := decoder.New(id, rx)
	pairs := carrier.Pairs()
	frames := rx.Feed(dec, pairs)
	glog.V(2).Infof("sim: loopback %s raw=%#x: %d pairs, %d frames", id, raw, len(pairs), len(frames))
	return frames, nil
}
