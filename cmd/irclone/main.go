//go:build tinygo && rp2040

// irclone is a four-slot learning remote for RP2040 boards.
//
// Point a remote at the receiver, hold the learn button and press a slot button to
// store the last frame received. Press a slot button alone to send what it holds.
package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/sparques/irkit"
	"github.com/sparques/irkit/clone"
	"github.com/sparques/irkit/decoder"
	"github.com/sparques/irkit/protocol"
)

const (
	rxPin    = machine.GPIO15
	txPin    = machine.GPIO14
	learnPin = machine.GPIO6
)

var slotPins = [clone.Slots]machine.Pin{machine.GPIO2, machine.GPIO3, machine.GPIO4, machine.GPIO5}

func main() {
	rx := irkit.NewRxDevice(rxPin)
	dec := decoder.NewMulti(rx)
	rx.StartInverted(dec)

	tx := irkit.NewTxDevice(txPin, protocol.CarrierFrequency(protocol.NEC))

	learnPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	for _, p := range slotPins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}

	var (
		store   clone.Store
		last    decoder.Frame
		haveOne bool
		pressed [clone.Slots]bool
	)
	for {
		if f, ok := dec.Data(); ok {
			fmt.Printf("rx %s\r\n", f)
			if !f.Repeat && f.Checked() {
				last, haveOne = f, true
			}
		}

		for slot, p := range slotPins {
			down := !p.Get()
			if down == pressed[slot] {
				continue
			}
			pressed[slot] = down
			if !down {
				continue
			}
			if !learnPin.Get() {
				if !haveOne {
					fmt.Printf("slot %d: nothing received yet\r\n", slot)
					continue
				}
				if err := store.Learn(slot, last); err != nil {
					fmt.Printf("slot %d: %v\r\n", slot, err)
					continue
				}
				fmt.Printf("slot %d learned %s\r\n", slot, last)
				continue
			}
			e, err := store.Get(slot)
			if err != nil {
				fmt.Printf("slot %d: %v\r\n", slot, err)
				continue
			}
			if tx.Carrier() != protocol.CarrierFrequency(e.Protocol) {
				tx.SetCarrier(protocol.CarrierFrequency(e.Protocol))
			}
			// our own LED would otherwise be learned back
			rx.Stop()
			err = store.Send(slot, tx)
			rx.StartInverted(dec)
			if err != nil {
				fmt.Printf("slot %d: %v\r\n", slot, err)
			} else {
				fmt.Printf("tx %s\r\n", e)
			}
		}

		time.Sleep(10 * time.Millisecond)
	}
}
