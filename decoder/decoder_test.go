package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparques/irkit"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/ticks"
)

type testHAL struct {
	ticks.Counter
	level irkit.Level
}

func (h *testHAL) PinRead() irkit.Level { return h.level }

type receiver interface {
	Process(irkit.Level)
	TimeoutTick()
}

func (h *testHAL) wait(r receiver, n uint32) {
	for i := uint32(0); i < n; i++ {
		h.Tick()
		r.TimeoutTick()
	}
}

func (h *testHAL) edge(r receiver, level irkit.Level) {
	h.level = level
	r.Process(level)
}

// send plays burst/space pairs into r, starting and ending with the carrier off.
func (h *testHAL) send(r receiver, pairs []irkit.TimePair) {
	h.edge(r, irkit.High)
	for _, p := range pairs {
		h.wait(r, protocol.Ticks(p.Burst()))
		h.edge(r, irkit.Low)
		if p.Space() == 0 {
			return
		}
		h.wait(r, protocol.Ticks(p.Space()))
		h.edge(r, irkit.High)
	}
}

func TestDecodeEveryProtocol(t *testing.T) {
	for _, id := range protocol.All() {
		t.Run(id.String(), func(t *testing.T) {
			hal := new(testHAL)
			dec := New(id, hal)
			require.True(t, hal.Running())

			raw := protocol.Encode(id, 0x15, 0x2A)
			hal.send(dec, protocol.Pairs(id, raw))

			f, ok := dec.Data()
			require.True(t, ok)
			require.Equal(t, raw, f.Raw)
			require.Equal(t, uint8(0x15), f.Address)
			require.Equal(t, uint16(0x2A), f.Command)
			require.Equal(t, id, f.Protocol)
			require.True(t, f.Valid)
			require.False(t, f.Repeat)
			require.True(t, f.Checked())
			require.Equal(t, Idle, dec.State())

			_, ok = dec.Data()
			require.False(t, ok)
		})
	}
}

// edgeCounter notes the edge at which a frame becomes available.
type edgeCounter struct {
	*Decoder
	edges int
	at    int
	frame Frame
}

func (e *edgeCounter) Process(level irkit.Level) {
	e.Decoder.Process(level)
	e.edges++
	if f, ok := e.Decoder.Data(); ok {
		e.at, e.frame = e.edges, f
	}
}

func TestFrameCompletesOnLastEdge(t *testing.T) {
	for _, id := range protocol.All() {
		hal := new(testHAL)
		ec := &edgeCounter{Decoder: New(id, hal)}
		pairs := protocol.Pairs(id, protocol.Encode(id, 3, 4))
		hal.send(ec, pairs)

		require.Equal(t, 2*len(pairs), ec.edges, id.String())
		require.Equal(t, ec.edges, ec.at, id.String())
		require.Equal(t, uint8(3), ec.frame.Address, id.String())
	}
}

func TestDecodeAllOnesAndZeros(t *testing.T) {
	for _, id := range protocol.All() {
		bits := protocol.TimingFor(id).Bits
		for _, raw := range []uint64{0, 1<<bits - 1} {
			hal := new(testHAL)
			dec := New(id, hal)
			hal.send(dec, protocol.Pairs(id, raw))
			f, ok := dec.Data()
			require.True(t, ok, "%s %#x", id, raw)
			require.Equal(t, raw, f.Raw)
		}
	}
}

func TestEventProgression(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.NEC, hal)
	tx := protocol.TxTimingFor(protocol.NEC)

	hal.edge(dec, irkit.High)
	require.Equal(t, Init, dec.State())
	hal.wait(dec, 692)
	hal.edge(dec, irkit.Low)
	require.Equal(t, Init, dec.State())
	require.Equal(t, tx.Bits, dec.Timing().Bits)
	require.NotZero(t, dec.countdown)

	hal.wait(dec, 346)
	hal.edge(dec, irkit.High)
	require.Equal(t, Process, dec.State())
	require.Equal(t, DataInit, dec.Event())

	for i := 0; i < 32; i++ {
		hal.wait(dec, 43)
		hal.edge(dec, irkit.Low)
		require.Equal(t, Data, dec.Event())
		hal.wait(dec, 130)
		hal.edge(dec, irkit.High)
	}
	require.Equal(t, Hook, dec.Event())
	require.Equal(t, Process, dec.State())

	hal.wait(dec, 43)
	hal.edge(dec, irkit.Low)
	require.Equal(t, Idle, dec.State())
	require.Zero(t, dec.countdown)

	f, ok := dec.Data()
	require.True(t, ok)
	require.Equal(t, uint64(0xFFFFFFFF), f.Raw)
	require.False(t, f.Checked())
}

func TestRepeat(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.NEC, hal)

	raw := protocol.Encode(protocol.NEC, 0x04, 0x08)
	hal.send(dec, protocol.Pairs(protocol.NEC, raw))
	f, ok := dec.Data()
	require.True(t, ok)
	require.False(t, f.Repeat)

	hal.wait(dec, 3000)
	hal.send(dec, protocol.RepeatPairs(protocol.NEC))
	f, ok = dec.Data()
	require.True(t, ok)
	require.True(t, f.Repeat)
	require.Equal(t, raw, f.Raw)
	require.Equal(t, uint8(0x04), f.Address)
	require.Equal(t, uint16(0x08), f.Command)
	require.Equal(t, Idle, dec.State())
}

func TestRepeatBeforeAnyFrameIsDropped(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.NEC, hal)

	hal.send(dec, protocol.RepeatPairs(protocol.NEC))
	require.Equal(t, Idle, dec.State())
	_, ok := dec.Data()
	require.False(t, ok)

	raw := protocol.Encode(protocol.NEC, 0x04, 0x08)
	hal.send(dec, protocol.Pairs(protocol.NEC, raw))
	_, ok = dec.Data()
	require.True(t, ok)

	// Reset forgets the frame a repeat would refer to.
	dec.Reset()
	hal.wait(dec, 3000)
	hal.send(dec, protocol.RepeatPairs(protocol.NEC))
	_, ok = dec.Data()
	require.False(t, ok)
}

func TestRepeatSpaceIgnoredWithoutRepeat(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.JVC, hal)
	hal.edge(dec, irkit.High)
	hal.wait(dec, 646)
	hal.edge(dec, irkit.Low)
	hal.wait(dec, 160)
	hal.edge(dec, irkit.High)
	require.Equal(t, Idle, dec.State())
	_, ok := dec.Data()
	require.False(t, ok)
}

func TestMalformedAbortsInOneStep(t *testing.T) {
	tests := []struct {
		name  string
		burst uint32
		space uint32
	}{
		{"leader burst too short", 620, 0},
		{"leader burst too long", 900, 0},
		{"between repeat and start space", 692, 250},
		{"leader space too long", 692, 400},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			hal := new(testHAL)
			dec := New(protocol.NEC, hal)
			hal.edge(dec, irkit.High)
			hal.wait(dec, test.burst)
			hal.edge(dec, irkit.Low)
			if test.space != 0 {
				require.Equal(t, Init, dec.State())
				hal.wait(dec, test.space)
				hal.edge(dec, irkit.High)
			}
			require.Equal(t, Idle, dec.State())
			require.Zero(t, dec.countdown)
			_, ok := dec.Data()
			require.False(t, ok)
		})
	}
}

func TestMalformedBit(t *testing.T) {
	leader := func() (*testHAL, *Decoder) {
		hal := new(testHAL)
		dec := New(protocol.NEC, hal)
		hal.edge(dec, irkit.High)
		hal.wait(dec, 692)
		hal.edge(dec, irkit.Low)
		return hal, dec
	}

	t.Run("space between zero and one", func(t *testing.T) {
		hal, dec := leader()
		hal.wait(dec, 346)
		hal.edge(dec, irkit.High)
		require.Equal(t, Process, dec.State())
		hal.wait(dec, 43)
		hal.edge(dec, irkit.Low)
		hal.wait(dec, 80)
		hal.edge(dec, irkit.High)
		require.Equal(t, Idle, dec.State())
	})

	t.Run("bit burst too long", func(t *testing.T) {
		hal, dec := leader()
		hal.wait(dec, 346)
		hal.edge(dec, irkit.High)
		hal.wait(dec, 100)
		hal.edge(dec, irkit.Low)
		require.Equal(t, Idle, dec.State())
	})

	t.Run("missing stop burst", func(t *testing.T) {
		hal := new(testHAL)
		dec := New(protocol.NEC, hal)
		pairs := protocol.Pairs(protocol.NEC, 0)
		pairs[len(pairs)-1][0] *= 6
		hal.send(dec, pairs)
		require.Equal(t, Idle, dec.State())
		_, ok := dec.Data()
		require.False(t, ok)
	})
}

func TestTimeout(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.NEC, hal)
	timeout := uint32(dec.Timing().Timeout)

	hal.edge(dec, irkit.High)
	hal.wait(dec, 692)
	hal.edge(dec, irkit.Low)
	hal.wait(dec, 346)
	hal.edge(dec, irkit.High)
	require.Equal(t, Process, dec.State())

	remaining := timeout - 346
	hal.wait(dec, remaining-1)
	require.Equal(t, Process, dec.State())
	hal.wait(dec, 1)
	require.Equal(t, Idle, dec.State())
	require.Zero(t, dec.countdown)

	// a late edge does not resurrect the frame
	hal.edge(dec, irkit.Low)
	_, ok := dec.Data()
	require.False(t, ok)
}

func TestIdleCeiling(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.NEC, hal)
	hal.edge(dec, irkit.High)
	require.Equal(t, Init, dec.State())
	require.Zero(t, dec.countdown)

	hal.wait(dec, IdleCeiling)
	require.Equal(t, Init, dec.State())
	hal.wait(dec, 1)
	require.Equal(t, Idle, dec.State())
}

func TestElapse(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.Sony, hal)
	hal.edge(dec, irkit.High)
	hal.wait(dec, 185)
	hal.edge(dec, irkit.Low)
	require.Equal(t, uint16(2200), dec.countdown)

	dec.Elapse(1000)
	require.Equal(t, uint16(1200), dec.countdown)
	require.Equal(t, Init, dec.State())
	dec.Elapse(5000)
	require.Equal(t, Idle, dec.State())
	require.Zero(t, dec.countdown)
}

func TestMailboxOverwrite(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.Samsung, hal)
	first := protocol.Encode(protocol.Samsung, 1, 2)
	second := protocol.Encode(protocol.Samsung, 3, 4)
	hal.send(dec, protocol.Pairs(protocol.Samsung, first))
	hal.wait(dec, 2000)
	hal.send(dec, protocol.Pairs(protocol.Samsung, second))

	f, ok := dec.Data()
	require.True(t, ok)
	require.Equal(t, second, f.Raw)
	_, ok = dec.Data()
	require.False(t, ok)
}

func TestReset(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.JVC, hal)
	hal.send(dec, protocol.Pairs(protocol.JVC, 0x1234))
	hal.edge(dec, irkit.High)
	require.Equal(t, Init, dec.State())

	dec.Reset()
	require.Equal(t, Idle, dec.State())
	_, ok := dec.Data()
	require.False(t, ok)
}

func TestUnknownProtocolDecodesNEC(t *testing.T) {
	hal := new(testHAL)
	dec := New(protocol.ID(99), hal)
	require.Equal(t, protocol.NEC, dec.Protocol())
	require.Equal(t, protocol.TimingFor(protocol.NEC), dec.Timing())

	raw := protocol.Encode(protocol.NEC, 1, 0)
	hal.send(dec, protocol.Pairs(protocol.NEC, raw))
	f, ok := dec.Data()
	require.True(t, ok)
	require.Equal(t, uint64(0xFF00FE01), f.Raw)
}

// plainHAL hides SampleAndReset, forcing the count-then-reset path.
type plainHAL struct {
	c     ticks.Counter
	level irkit.Level
}

func (h *plainHAL) TimerStart() { h.c.TimerStart() }
func (h *plainHAL) TimerStop() { h.c.TimerStop() }
func (h *plainHAL) TimerCount() uint32 { return h.c.TimerCount() }
func (h *plainHAL) TimerResetCount() { h.c.TimerResetCount() }
func (h *plainHAL) PinRead() irkit.Level { return h.level }

func TestHALWithoutSampler(t *testing.T) {
	hal := new(plainHAL)
	_, ok := HAL(hal).(TickSampler)
	require.False(t, ok)

	dec := New(protocol.RC6, hal)
	raw := protocol.Encode(protocol.RC6, 0x80, 0x0C)
	for i, p := range protocol.Pairs(protocol.RC6, raw) {
		if i == 0 {
			dec.Process(irkit.High)
		}
		for n := protocol.Ticks(p.Burst()); n > 0; n-- {
			hal.c.Tick()
		}
		dec.Process(irkit.Low)
		if p.Space() == 0 {
			break
		}
		for n := protocol.Ticks(p.Space()); n > 0; n-- {
			hal.c.Tick()
		}
		dec.Process(irkit.High)
	}
	f, ok := dec.Data()
	require.True(t, ok)
	require.Equal(t, raw, f.Raw)
	require.Equal(t, uint8(0x80), f.Address)
}

func TestFrameMarshal(t *testing.T) {
	f := newFrame(protocol.NEC, protocol.Encode(protocol.NEC, 1, 2), false)
	require.Equal(t, protocol.Pairs(protocol.NEC, f.Raw), f.MarshalFrame())
	require.Contains(t, f.String(), "NEC")

	f.Repeat = true
	require.Equal(t, protocol.RepeatPairs(protocol.NEC), f.MarshalFrame())
	require.Contains(t, f.String(), "repeat")

	f = newFrame(protocol.Sony, 0x95, true)
	require.Equal(t, protocol.Pairs(protocol.Sony, 0x95), f.MarshalFrame())
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "finish", Finish.String())
	require.Equal(t, "hook", Hook.String())
	require.Equal(t, "invalid", State(9).String())
}
