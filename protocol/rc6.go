package protocol

// rc6Marker is the leading start bit of the 21 bit mode 0 frame.
const rc6Marker = 1 << 20

var rc6Info = Info{
	ID:          RC6,
	Name:        "RC6",
	AddressBits: 8,
	CommandBits: 8,
	Timing: Timing{
		StartBurst:   Window{180, 230}, // 2.666ms
		StartSpace:   Window{58, 80},   // 889us
		BitBurst:     Window{28, 41},   // 444us
		ZeroSpace:    Window{28, 41},   // 444us
		OneSpace:     Window{58, 80},   // 889us
		StopBurst:    Window{28, 41},
		Bits:         21,
		Timeout:      2800,
		BitThreshold: 50,
		Carrier:      36000,
	},
	Tx: TxTiming{
		StartBurst:  2666,
		StartSpace:  889,
		BitBurst:    444,
		ZeroSpace:   444,
		OneSpace:    889,
		StopBurst:   444,
		Bits:        21,
		FramePeriod: 107000,
		Carrier:     36000,
	},
	encode: encodeRC6,
	decode: decodeRC6,
}

func encodeRC6(address uint8, command uint16) uint64 {
	return rc6Marker | uint64(address)<<8 | uint64(uint8(command))
}

func decodeRC6(raw uint64) (uint8, uint16) {
	return uint8(raw >> 8), uint16(uint8(raw))
}
