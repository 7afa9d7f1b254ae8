package protocol

// Panasonic uses the 48 bit Kaseikyo layout:
//
//	bits  0-15  vendor id 0x2002
//	bits 16-23  vendor parity and genre, zero here
//	bits 24-31  address
//	bits 32-39  command
//	bits 40-47  XOR of bytes 2, 3 and 4
const panasonicVendor = 0x2002

var panasonicInfo = Info{
	ID:          Panasonic,
	Name:        "Panasonic",
	AddressBits: 8,
	CommandBits: 8,
	Timing: Timing{
		StartBurst:   Window{245, 295}, // 3.5ms
		StartSpace:   Window{120, 150}, // 1.75ms
		BitBurst:     Window{31, 47},   // 502us
		ZeroSpace:    Window{24, 38},   // 400us
		OneSpace:     Window{84, 110},  // 1.244ms
		StopBurst:    Window{31, 47},
		Bits:         48,
		Timeout:      9000,
		BitThreshold: 60,
		Carrier:      37000,
	},
	Tx: TxTiming{
		StartBurst:  3502,
		StartSpace:  1750,
		BitBurst:    502,
		ZeroSpace:   400,
		OneSpace:    1244,
		StopBurst:   502,
		Bits:        48,
		FramePeriod: 130000,
		Carrier:     37000,
	},
	encode:   encodePanasonic,
	decode:   decodePanasonic,
	validate: validatePanasonic,
}

func panasonicParity(raw uint64) uint64 {
	return uint64(uint8(raw>>16) ^ uint8(raw>>24) ^ uint8(raw>>32))
}

func encodePanasonic(address uint8, command uint16) uint64 {
	raw := uint64(panasonicVendor) | uint64(address)<<24 | uint64(uint8(command))<<32
	return raw | panasonicParity(raw)<<40
}

func decodePanasonic(raw uint64) (uint8, uint16) {
	return uint8(raw >> 24), uint16(uint8(raw >> 32))
}

func validatePanasonic(raw uint64) bool {
	return raw&0xFFFF == panasonicVendor && (raw>>40)&0xFF == panasonicParity(raw)
}
