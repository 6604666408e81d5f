package internal

// SignExtend16 reads imm as a two's-complement 16-bit value.
func SignExtend16(imm uint16) int32 {
	if imm&0x8000 == 0 {
		return int32(imm)
	}
	return int32(imm) - 0x10000
}
