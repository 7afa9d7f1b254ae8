package decoder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparques/irkit/protocol"
)

// settleTicks is enough quiet time for every decoder still inside a frame to time out.
const settleTicks = IdleCeiling + 1

func TestMultiDecodesEveryProtocol(t *testing.T) {
	hal := new(testHAL)
	m := NewMulti(hal)
	require.Equal(t, protocol.All(), m.Protocols())

	for _, id := range protocol.All() {
		raw := protocol.Encode(id, 0x11, 0x22)
		hal.send(m, protocol.Pairs(id, raw))
		hal.wait(m, settleTicks)

		f, ok := m.Data()
		require.True(t, ok, id.String())
		require.Equal(t, id, f.Protocol)
		require.Equal(t, raw, f.Raw)
		require.Equal(t, uint8(0x11), f.Address)
		require.Equal(t, uint16(0x22), f.Command)

		_, ok = m.Data()
		require.False(t, ok)
	}
}

func TestMultiPrefersLongerFrame(t *testing.T) {
	hal := new(testHAL)
	m := NewMulti(hal, protocol.LG, protocol.JVC, protocol.NEC)

	raw := protocol.Encode(protocol.NEC, 0xA0, 0x05)
	hal.send(m, protocol.Pairs(protocol.NEC, raw))

	// nothing is left inside a frame, so NEC is published on its stop burst
	f, ok := m.Data()
	require.True(t, ok)
	require.Equal(t, protocol.NEC, f.Protocol)
	require.Equal(t, raw, f.Raw)
}

func TestMultiHoldsShorterFrame(t *testing.T) {
	hal := new(testHAL)
	m := NewMulti(hal, protocol.NEC, protocol.LG)

	raw := protocol.Encode(protocol.LG, 0x0C, 0x31)
	hal.send(m, protocol.Pairs(protocol.LG, raw))

	// NEC is still expecting bits
	_, ok := m.Data()
	require.False(t, ok)

	hal.wait(m, settleTicks)
	f, ok := m.Data()
	require.True(t, ok)
	require.Equal(t, protocol.LG, f.Protocol)
	require.Equal(t, raw, f.Raw)
	require.True(t, f.Checked())
}

func TestMultiRepeatFollowsLastFrame(t *testing.T) {
	hal := new(testHAL)
	m := NewMulti(hal, protocol.NEC, protocol.LG)

	raw := protocol.Encode(protocol.LG, 0x01, 0x02)
	hal.send(m, protocol.Pairs(protocol.LG, raw))
	hal.wait(m, settleTicks)
	_, ok := m.Data()
	require.True(t, ok)

	hal.send(m, protocol.RepeatPairs(protocol.LG))
	f, ok := m.Data()
	require.True(t, ok)
	require.True(t, f.Repeat)
	require.Equal(t, protocol.LG, f.Protocol)
	require.Equal(t, raw, f.Raw)
}

func TestMultiRepeatBeforeAnyFrame(t *testing.T) {
	hal := new(testHAL)
	m := NewMulti(hal, protocol.NEC, protocol.Samsung)

	hal.send(m, protocol.RepeatPairs(protocol.NEC))
	hal.wait(m, settleTicks)
	_, ok := m.Data()
	require.False(t, ok)
}

func TestMultiReset(t *testing.T) {
	hal := new(testHAL)
	m := NewMulti(hal, protocol.Sony, protocol.RC6)
	hal.send(m, protocol.Pairs(protocol.Sony, protocol.Encode(protocol.Sony, 1, 1)))
	m.Reset()
	_, ok := m.Data()
	require.False(t, ok)
	for _, d := range m.decoders {
		require.Equal(t, Idle, d.state)
	}
}
