package msgs

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/sim"
)

func TestFrameWire(t *testing.T) {
	frames, err := sim.Loopback(protocol.Samsung, protocol.Encode(protocol.Samsung, 0x07, 0x02))
	require.NoError(t, err)
	require.Len(t, frames, 1)

	ts := time.Unix(1700000000, 42)
	msg := NewFrame(frames[0], ts)
	require.Equal(t, "Samsung", msg.Protocol)
	require.True(t, msg.Checked)

	data, err := proto.Marshal(msg)
	require.NoError(t, err)
	var got Frame
	require.NoError(t, proto.Unmarshal(data, &got))
	require.Equal(t, *msg, got)
	require.Equal(t, uint32(0x07), got.Address)
	require.Equal(t, uint32(0x02), got.Command)
	require.Equal(t, ts.UnixNano(), got.Timestamp)
	require.Contains(t, got.String(), "Samsung")
}

func TestSendRequest(t *testing.T) {
	req := &SendRequest{Protocol: "nec", Address: 1, Command: 0}
	id, err := req.ProtocolID()
	require.NoError(t, err)
	require.Equal(t, protocol.NEC, id)
	require.Equal(t, uint64(0xFF00FE01), req.Word(id))

	req = &SendRequest{Protocol: "JVC", Raw: 0x1234, UseRaw: true}
	id, err = req.ProtocolID()
	require.NoError(t, err)
	require.Equal(t, uint64(0x1234), req.Word(id))

	_, err = (&SendRequest{Protocol: "bogus"}).ProtocolID()
	require.ErrorIs(t, err, protocol.ErrUnknownProtocol)
}

func TestSendResult(t *testing.T) {
	r := NewSendResult(nil, time.Millisecond)
	require.True(t, r.Ok)
	require.Empty(t, r.Error)

	r = NewSendResult(errors.New("busy"), 0)
	require.False(t, r.Ok)
	require.Equal(t, "busy", r.Error)

	data, err := proto.Marshal(r)
	require.NoError(t, err)
	var got SendResult
	require.NoError(t, proto.Unmarshal(data, &got))
	require.Equal(t, *r, got)
}

func TestRepeatFrame(t *testing.T) {
	f := decoder.Frame{Protocol: protocol.NEC, Valid: true, Repeat: true}
	msg := NewFrame(f, time.Time{})
	require.True(t, msg.Repeat)
	require.Equal(t, "NEC", msg.Protocol)
}
