package cpu

import (
	"log"
)

// Observer is notified after each instruction completes.
type Observer interface {
	Step(cpu *Cpu, inst Instruction)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(cpu *Cpu, inst Instruction)

// Step calls the function.
func (fn ObserverFunc) Step(cpu *Cpu, inst Instruction) {
	fn(cpu, inst)
}

// LogObserver logs every executed instruction and the resulting flags.
type LogObserver struct {
	Logger *log.Logger // If nil, the standard logger is used.
}

// Step logs the instruction.
func (lo *LogObserver) Step(cpu *Cpu, inst Instruction) {
	logf := log.Printf
	if lo.Logger != nil {
		logf = lo.Logger.Printf
	}

	logf("cpu: %04x:%04x %-16v ax=%04x cx=%04x sp=%04x flags=%v",
		cpu.CS, cpu.IP, inst, cpu.AX, cpu.CX, cpu.SP, cpu.FLAGS)
}
