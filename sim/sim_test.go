package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/transmitter"
)

func TestLoopbackEveryProtocol(t *testing.T) {
	for _, id := range protocol.All() {
		t.Run(id.String(), func(t *testing.T) {
			raw := protocol.Encode(id, 0x0B, 0x1E)
			frames, err := Loopback(id, raw)
			require.NoError(t, err)
			require.Len(t, frames, 1+int(protocol.TxTimingFor(id).Repeats))
			for _, f := range frames {
				require.Equal(t, raw, f.Raw)
				require.Equal(t, uint8(0x0B), f.Address)
				require.Equal(t, uint16(0x1E), f.Command)
				require.Equal(t, id, f.Protocol)
			}
		})
	}
}

func TestCarrierRecordsRepeat(t *testing.T) {
	carrier := new(Carrier)
	tx := transmitter.New(protocol.NEC, carrier)
	require.NoError(t, tx.Send(0x20, 0x40))
	require.NoError(t, tx.SendRepeat())

	pairs := carrier.Take()
	require.Len(t, pairs, 34+2)
	require.Empty(t, carrier.Pairs())

	rx := new(Receiver)
	dec := decoder.New(protocol.NEC, rx)
	frames := rx.Feed(dec, pairs)
	require.Len(t, frames, 2)
	require.False(t, frames[0].Repeat)
	require.True(t, frames[1].Repeat)
	require.Equal(t, frames[0].Raw, frames[1].Raw)
}

func TestFeedMulti(t *testing.T) {
	rx := new(Receiver)
	m := decoder.NewMulti(rx, protocol.NEC, protocol.LG)
	raw := protocol.Encode(protocol.LG, 0x03, 0x09)

	frames := rx.Feed(m, protocol.Pairs(protocol.LG, raw))
	require.Empty(t, frames)
	frames = rx.Flush(m)
	require.Len(t, frames, 1)
	require.Equal(t, protocol.LG, frames[0].Protocol)
	require.Equal(t, raw, frames[0].Raw)
}

func TestFeedCutsOpenBurst(t *testing.T) {
	rx := new(Receiver)
	dec := decoder.New(protocol.NEC, rx)
	pairs := protocol.Pairs(protocol.NEC, 0)
	// drop the stop burst so the train ends on a rising edge
	pairs = pairs[:len(pairs)-1]
	require.Empty(t, rx.Feed(dec, pairs))
	require.Equal(t, decoder.Idle, dec.State())
}
