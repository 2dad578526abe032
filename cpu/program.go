package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int      // Source line number.
	Ip        int      // Offset of the first byte within the code segment.
	Words     []string // Source words after equate expansion.
	Bytes     []byte   // Machine code.
	LinkLabel string   // Branch target label, if any.
}

// Program is an assembled program listing.
type Program struct {
	Origin  uint16 // Offset of the first byte within the code segment.
	Opcodes []Opcode
}

// Debug locates the opcode covering an offset.
type Debug struct {
	*Opcode
	Index int // Byte index within the opcode.
}

// Debug returns the listing entry that contains ip.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the program image, starting at the origin.
func (prog *Program) Binary() (bins []byte) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Size returns the number of bytes in the program image.
func (prog *Program) Size() (size int) {
	for _, op := range prog.Opcodes {
		size += len(op.Bytes)
	}

	return
}

// Codes iterates over every program byte and its offset.
func (prog *Program) Codes() iter.Seq2[uint16, byte] {
	return func(yield func(ip uint16, code byte) bool) {
		for _, op := range prog.Opcodes {
			ip := uint16(op.Ip)
			for n, code := range op.Bytes {
				if !yield(ip+uint16(n), code) {
					return
				}
			}
		}
	}
}

// MakeProgram wraps a raw machine code image as a single-entry program.
func MakeProgram(origin uint16, code []byte) (prog *Program) {
	prog = &Program{
		Origin: origin,
	}

	if len(code) > 0 {
		prog.Opcodes = []Opcode{
			{Ip: int(origin), Words: []string{".db"}, Bytes: code},
		}
	}

	return
}
