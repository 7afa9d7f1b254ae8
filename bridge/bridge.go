// Package bridge connects an IR board on a serial line to an MQTT broker: captured
// frames are decoded and published, and send requests are framed and written back to
// the board.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	"github.com/sparques/irkit"
	"github.com/sparques/irkit/capture"
	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/host/serial"
	"github.com/sparques/irkit/msgs"
	"github.com/sparques/irkit/protocol"
	"github.com/sparques/irkit/sim"
	"github.com/sparques/irkit/transmitter"
)

// Topics, relative to the queue's prefix.
const (
	TopicRx       = "rx"
	TopicTx       = "tx"
	TopicTxResult = "tx/result"
)

// Publisher sends a payload to a topic. *Queue implements it.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Bridge moves frames between a serial port and a publisher.
type Bridge struct {
	port serial.Port
	pub  Publisher

	rx  *sim.Receiver
	dec *decoder.Multi

	txLock sync.Mutex
	wave   *serial.WaveformWriter
	txs    map[protocol.ID]*transmitter.Transmitter

	now     func() time.Time
	marshal func(proto.Message) ([]byte, error)
}

// New creates a Bridge decoding ids from port.
func New(port serial.Port, pub Publisher, ids ...protocol.ID) *Bridge {
	rx := new(sim.Receiver)
	return &Bridge{
		port: port,
		pub:  pub,
		rx:   rx,
		dec:  decoder.NewMulti(rx, ids...),
		wave: serial.NewWaveformWriter(port),
		txs:  make(map[protocol.ID]*transmitter.Transmitter),
		now:  time.Now,

		marshal: proto.Marshal,
	}
}

// Protocols lists the protocols the bridge decodes.
func (b *Bridge) Protocols() []protocol.ID {
	return b.dec.Protocols()
}

// Receive reads captures from the port until it is closed or ctx is done, publishing
// every decoded frame.
func (b *Bridge) Receive(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.port.Close()
		case <-done:
		}
	}()

	sc := capture.NewScanner(b.port)
	for sc.Scan() {
		for _, f := range capture.Replay(b.rx, b.dec, [][]irkit.TimePair{sc.Frame()}) {
			if err := b.publishFrame(f); err != nil {
				glog.Errorf("publish %v: %v", f, err)
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read captures: %w", err)
	}
	return nil
}

func (b *Bridge) publishFrame(f decoder.Frame) error {
	glog.V(2).Infof("RX %v", f)
	payload, err := b.marshal(msgs.NewFrame(f, b.now()))
	if err != nil {
		return err
	}
	return b.pub.Publish(TopicRx, payload)
}

// HandleSendRequest is the Handler for TopicTx.
func (b *Bridge) HandleSendRequest(topic string, payload []byte) {
	start := b.now()
	err := b.send(payload)
	if err != nil {
		glog.Warningf("send: %v", err)
	}
	result, err := b.marshal(msgs.NewSendResult(err, b.now().Sub(start)))
	if err != nil {
		glog.Errorf("marshal result: %v", err)
		return
	}
	if err := b.pub.Publish(TopicTxResult, result); err != nil {
		glog.Errorf("publish result: %v", err)
	}
}

func (b *Bridge) send(payload []byte) error {
	var req msgs.SendRequest
	if err := proto.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("decode send request: %w", err)
	}
	id, err := req.ProtocolID()
	if err != nil {
		return err
	}

	b.txLock.Lock()
	defer b.txLock.Unlock()
	tx := b.txs[id]
	if tx == nil {
		tx = transmitter.New(id, b.wave)
		b.txs[id] = tx
	}
	if req.Repeat {
		err = tx.SendRepeat()
	} else {
		err = tx.SendRaw(req.Word(id))
	}
	if err != nil {
		b.wave.Take()
		return fmt.Errorf("send %s: %w", id, err)
	}
	glog.V(2).Infof("TX %s raw=%#x repeat=%v", id, req.Word(id), req.Repeat)
	return b.wave.Flush()
}
