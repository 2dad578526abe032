package cpu

import (
	"errors"
)

// Push16 pushes a word onto the SS:SP stack. Both bytes stay within SS.
// SP is decremented before the write, and stays decremented if the write fails.
func (cpu *Cpu) Push16(value uint16) (err error) {
	cpu.SP -= 2

	err = write16(cpu.Memory, cpu.SS, cpu.SP, value)
	if err != nil {
		err = errors.Join(ErrStackPush, err)
		return
	}

	return
}

// Pop16 pops a word from the SS:SP stack.
// SP is only incremented after a successful read.
func (cpu *Cpu) Pop16() (value uint16, err error) {
	value, err = read16(cpu.Memory, cpu.SS, cpu.SP)
	if err != nil {
		err = errors.Join(ErrStackPop, err)
		return
	}

	cpu.SP += 2

	return
}

// Peek16 returns the word on the top of the stack without popping it.
func (cpu *Cpu) Peek16() (value uint16, err error) {
	value, err = read16(cpu.Memory, cpu.SS, cpu.SP)
	return
}

// StackWindow returns count bytes of memory starting at SS:SP.
func (cpu *Cpu) StackWindow(count int) (window []byte, err error) {
	window, err = cpu.Memory.Window(Physical(cpu.SS, cpu.SP), count)
	return
}
