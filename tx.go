//go:build tinygo

package irkit

import (
	. "machine"
	"time"

	"github.com/sparques/pwm"
)

// TxDevice drives an IR LED from a PWM channel. It implements transmitter.HAL.
type TxDevice struct {
	pin    Pin
	pgroup pwm.Group
	ch     uint8
	duty   uint32
	freq   uint32
}

// NewTxDevice configures pin for a carrier of freq Hz, e.g. protocol.CarrierFrequency
// of the protocol to send.
func NewTxDevice(pin Pin, freq uint32) *TxDevice {
	pin.Configure(PinConfig{Mode: PinPWM})
	tx := &TxDevice{
		pin:    pin,
		pgroup: pwm.Get(pin),
	}
	tx.ch, _ = tx.pgroup.Channel(pin)
	tx.SetCarrier(freq)
	return tx
}

// SetCarrier changes the carrier frequency. The carrier is left off.
func (tx *TxDevice) SetCarrier(freq uint32) {
	if freq == 0 {
		freq = Freq38Khz
	}
	tx.pgroup.Configure(PWMConfig{Period: uint64(1e9) / uint64(freq)})
	tx.pgroup.Set(tx.ch, 0)
	tx.duty = tx.pgroup.Top() / 2
	tx.freq = freq
}

func (tx *TxDevice) Carrier() uint32 {
	return tx.freq
}

// CarrierOn implements transmitter.HAL.
func (tx *TxDevice) CarrierOn() {
	tx.pgroup.Set(tx.ch, tx.duty)
}

// CarrierOff implements transmitter.HAL.
func (tx *TxDevice) CarrierOff() {
	tx.pgroup.Set(tx.ch, 0)
}

// DelayUS implements transmitter.HAL.
func (tx *TxDevice) DelayUS(us uint16) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}

// DelayMS implements transmitter.HAL.
func (tx *TxDevice) DelayMS(ms uint16) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (tx *TxDevice) SendPair(pair TimePair) {
	tx.CarrierOn()
	time.Sleep(pair.Burst())
	tx.CarrierOff()
	time.Sleep(pair.Space())
}

func (tx *TxDevice) SendPairs(pairs ...TimePair) {
	for _, p := range pairs {
		tx.SendPair(p)
	}
}

// SendFrame plays a marshalled frame, such as a decoder.Frame captured earlier.
func (tx *TxDevice) SendFrame(fm FrameMarshaller) {
	tx.SendPairs(fm.MarshalFrame()...)
}
