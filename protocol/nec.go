package protocol

// NEC protocol references
// https://www.sbprojects.net/knowledge/ir/nec.php
// https://techdocs.altium.com/display/FPGA/NEC+Infrared+Transmission+Protocol

var necInfo = Info{
	ID:          NEC,
	Name:        "NEC",
	AddressBits: 8,
	CommandBits: 8,
	Timing: Timing{
		StartBurst:   Window{655, 815}, // 9ms
		StartSpace:   Window{330, 360}, // 4.5ms
		RepeatSpace:  Window{155, 185}, // 2.25ms
		BitBurst:     Window{32, 56},   // 562.5us
		ZeroSpace:    Window{32, 56},   // 562.5us
		OneSpace:     Window{110, 150}, // 1.6875ms
		StopBurst:    Window{32, 56},   // 562.5us
		Bits:         32,
		Timeout:      7400,
		BitThreshold: 90,
		Carrier:      38000,
	},
	Tx: TxTiming{
		StartBurst:  9000,
		StartSpace:  4500,
		RepeatSpace: 2250,
		BitBurst:    562,
		ZeroSpace:   562,
		OneSpace:    1687,
		StopBurst:   562,
		Bits:        32,
		FramePeriod: 108000,
		Carrier:     38000,
	},
	encode:   encodeNEC,
	decode:   decodeNEC,
	validate: validateNEC,
}

// encodeNEC sends address and command each followed by its one's complement.
// LSB -> MSB: { address, ^address, command, ^command }
func encodeNEC(address uint8, command uint16) uint64 {
	cmd := uint8(command)
	return uint64(address) |
		uint64(^address)<<8 |
		uint64(cmd)<<16 |
		uint64(^cmd)<<24
}

func decodeNEC(raw uint64) (uint8, uint16) {
	return uint8(raw), uint16(uint8(raw >> 16))
}

func validateNEC(raw uint64) bool {
	return uint8(raw) == ^uint8(raw>>8) && uint8(raw>>16) == ^uint8(raw>>24)
}
