package protocol

// LG carries a 4 bit checksum after the address and command bytes.
var lgInfo = Info{
	ID:          LG,
	Name:        "LG",
	AddressBits: 8,
	CommandBits: 8,
	Timing: Timing{
		StartBurst:   Window{655, 815}, // 9ms
		StartSpace:   Window{330, 360}, // 4.5ms
		RepeatSpace:  Window{155, 185}, // 2.25ms
		BitBurst:     Window{32, 56},   // 560us
		ZeroSpace:    Window{32, 56},   // 560us
		OneSpace:     Window{110, 150}, // 1.69ms
		StopBurst:    Window{32, 56},
		Bits:         28,
		Timeout:      7000,
		BitThreshold: 85,
		Carrier:      38000,
	},
	Tx: TxTiming{
		StartBurst:  9000,
		StartSpace:  4500,
		RepeatSpace: 2250,
		BitBurst:    560,
		ZeroSpace:   560,
		OneSpace:    1690,
		StopBurst:   560,
		Bits:        28,
		FramePeriod: 108000,
		Carrier:     38000,
	},
	encode:   encodeLG,
	decode:   decodeLG,
	validate: validateLG,
}

func lgChecksum(v uint32) uint64 {
	return uint64(Checksum(v) & 0x0F)
}

func encodeLG(address uint8, command uint16) uint64 {
	v := uint32(address) | uint32(uint8(command))<<8
	return uint64(v) | lgChecksum(v)<<16
}

func decodeLG(raw uint64) (uint8, uint16) {
	return uint8(raw), uint16(uint8(raw >> 8))
}

func validateLG(raw uint64) bool {
	return (raw>>16)&0x0F == lgChecksum(uint32(raw&0xFFFF))
}
