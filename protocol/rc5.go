package protocol

// rc5Marker sets the two start bits at the top of the 14 bit frame.
const rc5Marker = 0x3000

// RC5 is bi-phase on the air. The engine frames it as pulse distance with a one space
// of two half-bit periods so the space classifier can tell the values apart.
var rc5Info = Info{
	ID:          RC5,
	Name:        "RC5",
	AddressBits: 5,
	CommandBits: 6,
	Timing: Timing{
		StartBurst:   Window{55, 82},   // 889us
		StartSpace:   Window{55, 82},   // 889us
		BitBurst:     Window{55, 82},   // 889us
		ZeroSpace:    Window{55, 82},   // 889us
		OneSpace:     Window{120, 155}, // 1.778ms
		StopBurst:    Window{55, 82},
		Bits:         14,
		Timeout:      3400,
		BitThreshold: 100,
		Carrier:      36000,
	},
	Tx: TxTiming{
		StartBurst:  889,
		StartSpace:  889,
		BitBurst:    889,
		ZeroSpace:   889,
		OneSpace:    1778,
		StopBurst:   889,
		Bits:        14,
		FramePeriod: 114000,
		Carrier:     36000,
	},
	encode: encodeRC5,
	decode: decodeRC5,
}

func encodeRC5(address uint8, command uint16) uint64 {
	return (uint64(address)&mask(5))<<6 | uint64(command)&mask(6) | rc5Marker
}

func decodeRC5(raw uint64) (uint8, uint16) {
	return uint8(raw>>6) & 0x1F, uint16(raw & 0x3F)
}
