package protocol

var jvcInfo = Info{
	ID:          JVC,
	Name:        "JVC",
	AddressBits: 8,
	CommandBits: 8,
	Timing: Timing{
		StartBurst:   Window{615, 680}, // 8.4ms
		StartSpace:   Window{305, 340}, // 4.2ms
		BitBurst:     Window{32, 48},   // 525us
		ZeroSpace:    Window{32, 48},   // 525us
		OneSpace:     Window{105, 140}, // 1.575ms
		StopBurst:    Window{32, 48},
		Bits:         16,
		Timeout:      6000,
		BitThreshold: 80,
		Carrier:      38000,
	},
	Tx: TxTiming{
		StartBurst:  8400,
		StartSpace:  4200,
		BitBurst:    525,
		ZeroSpace:   525,
		OneSpace:    1575,
		StopBurst:   525,
		Bits:        16,
		FramePeriod: 55000,
		Carrier:     38000,
	},
	encode: encodeJVC,
	decode: decodeJVC,
}

func encodeJVC(address uint8, command uint16) uint64 {
	return uint64(address) | uint64(uint8(command))<<8
}

func decodeJVC(raw uint64) (uint8, uint16) {
	return uint8(raw), uint16(uint8(raw >> 8))
}
