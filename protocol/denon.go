package protocol

// Denon (Sharp family): 5 address bits and a 10 bit command field.
var denonInfo = Info{
	ID:          Denon,
	Name:        "Denon",
	AddressBits: 5,
	CommandBits: 10,
	Timing: Timing{
		StartBurst:   Window{225, 270}, // 3.2ms
		StartSpace:   Window{110, 140}, // 1.6ms
		BitBurst:     Window{16, 26},   // 275us
		ZeroSpace:    Window{50, 72},   // 775us
		OneSpace:     Window{125, 170}, // 1.9ms
		StopBurst:    Window{16, 26},
		Bits:         15,
		Timeout:      5500,
		BitThreshold: 100,
		Carrier:      38000,
	},
	Tx: TxTiming{
		StartBurst:  3200,
		StartSpace:  1600,
		BitBurst:    275,
		ZeroSpace:   775,
		OneSpace:    1900,
		StopBurst:   275,
		Bits:        15,
		Repeats:     1,
		FramePeriod: 65000,
		Carrier:     38000,
	},
	encode: encodeDenon,
	decode: decodeDenon,
}

func encodeDenon(address uint8, command uint16) uint64 {
	return uint64(address)&mask(5) | (uint64(command)&mask(10))<<5
}

func decodeDenon(raw uint64) (uint8, uint16) {
	return uint8(raw) & 0x1F, uint16(raw>>5) & 0x3FF
}
