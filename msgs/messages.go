// Package msgs defines the protobuf payloads the bridge exchanges over MQTT.
package msgs

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
)

// Frame is a decoded frame, published on <prefix>rx.
type Frame struct {
	Protocol  string `protobuf:"bytes,1,opt,name=protocol,proto3" json:"protocol,omitempty"`
	Raw       uint64 `protobuf:"varint,2,opt,name=raw,proto3" json:"raw,omitempty"`
	Address   uint32 `protobuf:"varint,3,opt,name=address,proto3" json:"address,omitempty"`
	Command   uint32 `protobuf:"varint,4,opt,name=command,proto3" json:"command,omitempty"`
	Repeat    bool   `protobuf:"varint,5,opt,name=repeat,proto3" json:"repeat,omitempty"`
	Checked   bool   `protobuf:"varint,6,opt,name=checked,proto3" json:"checked,omitempty"`
	Timestamp int64  `protobuf:"varint,7,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewFrame converts a decoded frame received at ts.
func NewFrame(f decoder.Frame, ts time.Time) *Frame {
	return &Frame{
		Protocol:  f.Protocol.String(),
		Raw:       f.Raw,
		Address:   uint32(f.Address),
		Command:   uint32(f.Command),
		Repeat:    f.Repeat,
		Checked:   f.Checked(),
		Timestamp: ts.UnixNano(),
	}
}

// ProtoMessage implements proto.Message.
func (m *Frame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Frame) Reset() { *m = Frame{} }

// String implements proto.Message.
func (m *Frame) String() string { return proto.CompactTextString(m) }

// SendRequest asks the bridge to transmit, received on <prefix>tx.
type SendRequest struct {
	Protocol string `protobuf:"bytes,1,opt,name=protocol,proto3" json:"protocol,omitempty"`
	Address  uint32 `protobuf:"varint,2,opt,name=address,proto3" json:"address,omitempty"`
	Command  uint32 `protobuf:"varint,3,opt,name=command,proto3" json:"command,omitempty"`
	// Raw is sent as-is when UseRaw is set, bypassing Address and Command.
	Raw    uint64 `protobuf:"varint,4,opt,name=raw,proto3" json:"raw,omitempty"`
	UseRaw bool   `protobuf:"varint,5,opt,name=use_raw,proto3" json:"use_raw,omitempty"`
	// Repeat sends the protocol's repeat burst instead of a frame.
	Repeat bool `protobuf:"varint,6,opt,name=repeat,proto3" json:"repeat,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *SendRequest) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SendRequest) Reset() { *m = SendRequest{} }

// String implements proto.Message.
func (m *SendRequest) String() string { return proto.CompactTextString(m) }

// ProtocolID resolves the protocol name.
func (m *SendRequest) ProtocolID() (protocol.ID, error) {
	id, err := protocol.ParseID(m.Protocol)
	if err != nil {
		return 0, fmt.Errorf("send request %q: %w", m.Protocol, err)
	}
	return id, nil
}

// Word returns the raw word the request asks to send.
func (m *SendRequest) Word(id protocol.ID) uint64 {
	if m.UseRaw {
		return m.Raw
	}
	return protocol.Encode(id, uint8(m.Address), uint16(m.Command))
}

// SendResult reports the outcome of a SendRequest, published on <prefix>tx/result.
type SendResult struct {
	Ok bool `protobuf:"varint,1,opt,name=ok,proto3" json:"ok,omitempty"`
	// Error is the failure message when Ok is false.
	Error    string `protobuf:"bytes,2,opt,name=error,proto3" json:"error,omitempty"`
	Duration int64  `protobuf:"varint,3,opt,name=duration,proto3" json:"duration,omitempty"`
}

// NewSendResult builds the result of a send that took d.
func NewSendResult(err error, d time.Duration) *SendResult {
	r := &SendResult{Ok: err == nil, Duration: int64(d)}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// ProtoMessage implements proto.Message.
func (m *SendResult) ProtoMessage() {}

// Reset implements proto.Message.
func (m *SendResult) Reset() { *m = SendResult{} }

// String implements proto.Message.
func (m *SendResult) String() string { return proto.CompactTextString(m) }
