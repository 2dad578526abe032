// Package cpu implements the interpreter and assembler for a simplified
// 16-bit real-mode processor.
//
// The CPU consists of four data registers (AX, BX, CX, DX), four offset
// registers (SI, DI, BP, SP), an instruction pointer (IP), four segment
// registers (CS, DS, ES, SS) and a FLAGS word of which only the carry, zero,
// sign and overflow bits are defined. Memory is a flat byte image addressed
// through segment*16+offset translation. A single BIOS hook, the INT 0x10
// teletype service, emits characters to an attached sink.
//
// Instructions are decoded into an Instruction value before execution, so
// the decoder can be examined independently of the executor.
//
// The assembler provides a small Intel-flavoured assembly language for the
// supported instruction subset, with labels, equates, macros, and
// compile-time expression evaluation.
package cpu
