package protocol

// Sony SIRC, 12 bit variant: 7 command bits then 5 address bits. Remotes send every
// frame three times on a 45ms period.
var sonyInfo = Info{
	ID:          Sony,
	Name:        "Sony",
	AddressBits: 5,
	CommandBits: 7,
	Timing: Timing{
		StartBurst:   Window{160, 210}, // 2.4ms
		StartSpace:   Window{38, 56},   // 600us
		BitBurst:     Window{38, 56},   // 600us
		ZeroSpace:    Window{38, 56},   // 600us
		OneSpace:     Window{78, 108},  // 1.2ms
		StopBurst:    Window{38, 56},
		Bits:         12,
		Timeout:      2200,
		BitThreshold: 67,
		Carrier:      40000,
	},
	Tx: TxTiming{
		StartBurst:  2400,
		StartSpace:  600,
		BitBurst:    600,
		ZeroSpace:   600,
		OneSpace:    1200,
		StopBurst:   600,
		Bits:        12,
		Repeats:     2,
		FramePeriod: 45000,
		Carrier:     40000,
	},
	encode: encodeSony,
	decode: decodeSony,
}

func encodeSony(address uint8, command uint16) uint64 {
	return uint64(command)&mask(7) | (uint64(address)&mask(5))<<7
}

func decodeSony(raw uint64) (uint8, uint16) {
	return uint8(raw>>7) & 0x1F, uint16(raw & 0x7F)
}
