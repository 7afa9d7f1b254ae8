package decoder

import (
	"github.com/sparques/irkit"
	"github.com/sparques/irkit/protocol"
)

// Multi decodes several protocols from one receiver. Every edge is measured once and
// offered to one Decoder per protocol.
//
// Protocols that share a leader, such as NEC, LG and JVC, all follow the same frame for
// a while and the shorter ones may finish on a bit burst of a longer one. A finished
// frame is therefore held until no other decoder is still inside a frame: if a longer
// one completes it replaces the held frame, otherwise the held frame is published once
// the others abort or time out.
type Multi struct {
	guard   guard
	hal     HAL
	sampler sampler

	decoders []*Decoder

	pending Frame
	last    Frame
	frame   Frame
}

// NewMulti returns a Multi for ids, or for every registered protocol if ids is empty,
// and starts the HAL timer. When two decoders finish on the same edge the one listed
// first wins.
func NewMulti(hal HAL, ids ...protocol.ID) *Multi {
	if len(ids) == 0 {
		ids = protocol.All()
	}
	m := &Multi{
		hal:     hal,
		sampler: newSampler(hal),
	}
	for _, id := range ids {
		m.decoders = append(m.decoders, newDecoder(id, nil))
	}
	hal.TimerStart()
	return m
}

// Process feeds one edge to every decoder.
func (m *Multi) Process(level irkit.Level) {
	m.guard.lock()
	elapsed := m.sampler.sample()
	var won Frame
	for _, d := range m.decoders {
		if !d.step(level, elapsed) {
			continue
		}
		f := d.take()
		if !won.Valid || (f.Repeat && m.last.Valid && f.Protocol == m.last.Protocol) {
			won = f
		}
	}
	if won.Valid {
		m.claim(won)
	}
	m.settle()
	m.guard.unlock()
}

// TimeoutTick runs every decoder's watchdogs for one tick period.
func (m *Multi) TimeoutTick() {
	m.Elapse(1)
}

// Elapse runs every decoder's watchdogs for n tick periods.
func (m *Multi) Elapse(n uint32) {
	m.guard.lock()
	idle := m.hal.TimerCount() > IdleCeiling
	for _, d := range m.decoders {
		d.elapse(n, idle)
	}
	m.settle()
	m.guard.unlock()
}

// Data returns the pending frame, if any, and clears it.
func (m *Multi) Data() (Frame, bool) {
	m.guard.lock()
	f := m.frame
	m.frame = Frame{}
	m.guard.unlock()
	return f, f.Valid
}

// Reset returns every decoder to Idle and drops all frames.
func (m *Multi) Reset() {
	m.guard.lock()
	for _, d := range m.decoders {
		d.reset()
	}
	m.pending, m.last, m.frame = Frame{}, Frame{}, Frame{}
	m.guard.unlock()
}

// Protocols lists the protocols m decodes, in priority order.
func (m *Multi) Protocols() []protocol.ID {
	ids := make([]protocol.ID, len(m.decoders))
	for i, d := range m.decoders {
		ids[i] = d.id
	}
	return ids
}

// claim holds f until settle can publish it. A repeat burst of the protocol last
// published repeats that frame.
func (m *Multi) claim(f Frame) {
	if f.Repeat && m.last.Valid && f.Protocol == m.last.Protocol {
		f = newFrame(m.last.Protocol, m.last.Raw, true)
	}
	m.pending = f
}

// settle publishes the held frame once no decoder is inside a frame. Decoders that
// lost have aborted or timed out by then.
func (m *Multi) settle() {
	if !m.pending.Valid {
		return
	}
	for _, d := range m.decoders {
		if d.state == Process {
			return
		}
	}
	m.frame = m.pending
	if !m.pending.Repeat {
		m.last = m.pending
	}
	m.pending = Frame{}
}
