package cpu

import (
	"iter"
)

// Disassemble decodes the size bytes of code starting at cs:ip, yielding
// each instruction with its offset. It stops at the first byte that does
// not decode.
func Disassemble(mem Reader, cs, ip uint16, size int) iter.Seq2[uint16, Instruction] {
	return func(yield func(ip uint16, inst Instruction) bool) {
		for offset := 0; offset < size; {
			here := ip + uint16(offset)
			inst, err := Decode(mem, cs, here)
			if err != nil {
				return
			}
			if !yield(here, inst) {
				return
			}
			offset += int(inst.Length)
		}
	}
}
