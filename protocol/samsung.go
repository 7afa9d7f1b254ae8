package protocol

// Samsung is NEC framing with a shorter leader and the address sent twice instead of
// with its complement.
var samsungInfo = Info{
	ID:          Samsung,
	Name:        "Samsung",
	AddressBits: 8,
	CommandBits: 8,
	Timing: Timing{
		StartBurst:   Window{320, 375}, // 4.5ms
		StartSpace:   Window{320, 375}, // 4.5ms
		RepeatSpace:  Window{155, 185}, // 2.25ms
		BitBurst:     Window{32, 56},   // 560us
		ZeroSpace:    Window{32, 56},   // 560us
		OneSpace:     Window{110, 150}, // 1.69ms
		StopBurst:    Window{32, 56},
		Bits:         32,
		Timeout:      7500,
		BitThreshold: 90,
		Carrier:      38000,
	},
	Tx: TxTiming{
		StartBurst:  4500,
		StartSpace:  4500,
		RepeatSpace: 2250,
		BitBurst:    560,
		ZeroSpace:   560,
		OneSpace:    1690,
		StopBurst:   560,
		Bits:        32,
		FramePeriod: 108000,
		Carrier:     38000,
	},
	encode:   encodeSamsung,
	decode:   decodeSamsung,
	validate: validateSamsung,
}

func encodeSamsung(address uint8, command uint16) uint64 {
	cmd := uint8(command)
	return uint64(address) |
		uint64(address)<<8 |
		uint64(cmd)<<16 |
		uint64(^cmd)<<24
}

func decodeSamsung(raw uint64) (uint8, uint16) {
	return uint8(raw), uint16(uint8(raw >> 16))
}

func validateSamsung(raw uint64) bool {
	return uint8(raw>>16) == ^uint8(raw>>24)
}
