package cpu

const (
	ADDRESS_MASK = 0xF_FFFF // 20-bit real-mode physical address space.

	CODE_SEGMENT  = 0x0000 // Default code segment for loaded programs.
	CODE_ORIGIN   = 0x2000 // Default offset of the first instruction.
	STACK_SEGMENT = 0x9000 // Default stack segment.
	STACK_POINTER = 0xFFFE // Default initial stack pointer.
)

// Physical translates a segment:offset pair into a physical address,
// wrapping at 1MiB as the 8086 does.
func Physical(segment, offset uint16) uint32 {
	return (uint32(segment)<<4 + uint32(offset)) & ADDRESS_MASK
}

// read16 reads the little-endian word at segment:offset. The high byte comes
// from offset+1 within the same segment.
func read16(mem Reader, segment, offset uint16) (value uint16, err error) {
	lo, hi := Physical(segment, offset), Physical(segment, offset+1)
	if hi == lo+1 {
		value, err = mem.Read16(lo)
		return
	}

	low, err := mem.Read8(lo)
	if err != nil {
		return
	}

	high, err := mem.Read8(hi)
	if err != nil {
		return
	}

	value = uint16(low) | uint16(high)<<8
	return
}

// write16 stores the little-endian word at segment:offset, wrapping the high
// byte within the segment. Neither byte is written if either is out of range.
func write16(mem Memory, segment, offset uint16, value uint16) (err error) {
	lo, hi := Physical(segment, offset), Physical(segment, offset+1)
	if hi == lo+1 {
		err = mem.Write16(lo, value)
		return
	}

	_, err = mem.Read8(hi)
	if err != nil {
		return
	}

	err = mem.Write8(lo, byte(value&0xff))
	if err != nil {
		return
	}

	err = mem.Write8(hi, byte(value>>8))
	return
}
