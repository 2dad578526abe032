// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rm16/io"
)

// Memory is the memory image the CPU executes against.
type Memory interface {
	Reader
	Write8(addr uint32, value byte) error
	Write16(addr uint32, value uint16) error
	Window(addr uint32, count int) ([]byte, error)
}

// Status is the execution state of the CPU.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_RUNNING = Status(0) // running
	STATUS_HALTED  = Status(1) // halted
	STATUS_FAULTED = Status(2) // faulted
)

// BIOS service numbers.
const (
	INT_VIDEO         = 0x10 // BIOS video services vector.
	VIDEO_TELETYPE_AH = 0x0E // AH selector for teletype output.
)

var _cpu_defines = map[string]string{
	"ADDRESS_MASK":      fmt.Sprintf("0x%x", ADDRESS_MASK),
	"CODE_SEGMENT":      fmt.Sprintf("0x%x", CODE_SEGMENT),
	"CODE_ORIGIN":       fmt.Sprintf("0x%x", CODE_ORIGIN),
	"STACK_SEGMENT":     fmt.Sprintf("0x%x", STACK_SEGMENT),
	"STACK_POINTER":     fmt.Sprintf("0x%x", STACK_POINTER),
	"INT_VIDEO":         fmt.Sprintf("0x%x", INT_VIDEO),
	"VIDEO_TELETYPE_AH": fmt.Sprintf("0x%x", VIDEO_TELETYPE_AH),
}

// State is a point-in-time copy of the CPU registers and status.
type State struct {
	Registers
	Status Status
}

// Running returns true if the state was captured while running.
func (st State) Running() bool {
	return st.Status == STATUS_RUNNING
}

// Cpu is the simulation context for the 16-bit real-mode processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers        // Register file.
	Status    Status // Current execution state.

	Memory   Memory   // Memory image.
	Teletype io.Sink  // Receives INT 0x10 / AH=0x0E characters.
	Observer Observer // Notified after each instruction.

	Ticks int // Instructions executed since Reset.
}

// NewCpu creates a new CPU attached to a memory image and teletype sink.
func NewCpu(mem Memory, tty io.Sink) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:   mem,
		Teletype: tty,
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Running returns true while instructions may be executed.
func (cpu *Cpu) Running() bool {
	return cpu.Status == STATUS_RUNNING
}

// Snapshot returns a copy of the register file and status.
func (cpu *Cpu) Snapshot() State {
	return State{
		Registers: cpu.Registers,
		Status:    cpu.Status,
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"ax", "bx", "cx", "dx",
		"si", "di", "bp", "sp",
		"cs", "ip", "ds", "es", "ss",
		"flags", "stack", "status",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "ax":
			strval = fmt.Sprintf("%04X (ah %02X al %02X)", cpu.AX, cpu.AH(), cpu.AL())
		case "bx":
			strval = fmt.Sprintf("%04X", cpu.BX)
		case "cx":
			strval = fmt.Sprintf("%04X", cpu.CX)
		case "dx":
			strval = fmt.Sprintf("%04X", cpu.DX)
		case "si":
			strval = fmt.Sprintf("%04X", cpu.SI)
		case "di":
			strval = fmt.Sprintf("%04X", cpu.DI)
		case "bp":
			strval = fmt.Sprintf("%04X", cpu.BP)
		case "sp":
			strval = fmt.Sprintf("%04X", cpu.SP)
		case "cs":
			strval = fmt.Sprintf("%04X", cpu.CS)
		case "ip":
			strval = fmt.Sprintf("%04X (%05X)", cpu.IP, Physical(cpu.CS, cpu.IP))
		case "ds":
			strval = fmt.Sprintf("%04X", cpu.DS)
		case "es":
			strval = fmt.Sprintf("%04X", cpu.ES)
		case "ss":
			strval = fmt.Sprintf("%04X", cpu.SS)
		case "flags":
			strval = fmt.Sprintf("%04X [%v]", uint16(cpu.FLAGS), cpu.FLAGS)
		case "stack":
			strval = "----"
			if cpu.Memory != nil {
				val, err := cpu.Peek16()
				if err == nil {
					strval = fmt.Sprintf("%04X", val)
				}
			}
		case "status":
			strval = cpu.Status.String()
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Reset the CPU state.
// - Clears all registers and flags.
// - Zeros the tick counter.
// - Sets the CPU running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.Status = STATUS_RUNNING
	cpu.Ticks = 0
}

// fault stops the CPU with an error.
func (cpu *Cpu) fault(err error) error {
	cpu.Status = STATUS_FAULTED
	if cpu.Verbose {
		log.Printf("cpu: fault: %v", err)
	}
	return err
}

// Tick fetches, decodes, and executes a single instruction.
func (cpu *Cpu) Tick() (err error) {
	if cpu.Status != STATUS_RUNNING {
		err = ErrHalted
		return
	}

	if cpu.Memory == nil {
		err = cpu.fault(ErrMemoryNone)
		return
	}

	inst, err := Decode(cpu.Memory, cpu.CS, cpu.IP)
	if err != nil {
		err = cpu.fault(err)
		return
	}

	err = cpu.Execute(inst)
	return
}

// Execute applies a decoded instruction located at CS:IP.
// IP is advanced past the instruction before its effects are applied.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = cpu.fault(err)
			return
		}
		cpu.Ticks++
		if cpu.Observer != nil {
			cpu.Observer.Step(cpu, inst)
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu: %05x: %v", Physical(cpu.CS, cpu.IP), inst)
	}

	cpu.IP += inst.Length

	switch inst.Op {
	case OP_MOV_IMM16, OP_MOV_IMM8:
		cpu.Set(inst.Reg, inst.Imm)
	case OP_INT:
		err = cpu.interrupt(byte(inst.Imm))
	case OP_PUSH:
		err = cpu.Push16(cpu.Get(inst.Reg))
	case OP_POP:
		var value uint16
		value, err = cpu.Pop16()
		if err == nil {
			cpu.Set(inst.Reg, value)
		}
	case OP_CALL:
		err = cpu.Push16(cpu.IP)
		if err == nil {
			cpu.IP += uint16(inst.Disp)
		}
	case OP_RET:
		var value uint16
		value, err = cpu.Pop16()
		if err == nil {
			cpu.IP = value
		}
	case OP_HLT:
		cpu.Status = STATUS_HALTED
		if cpu.Verbose {
			log.Printf("cpu: halted")
		}
	case OP_CMP:
		cpu.FLAGS = CompareFlags(cpu.FLAGS, cpu.Get(inst.Reg), inst.Imm)
	case OP_JE, OP_JNE, OP_JMP, OP_JL, OP_JG:
		if cpu.taken(inst.Op) {
			cpu.IP += uint16(inst.Disp)
		}
	case OP_DEC:
		value := cpu.Get(inst.Reg) - 1
		cpu.Set(inst.Reg, value)
		cpu.FLAGS = DecrementFlags(cpu.FLAGS, value)
	default:
		err = &ErrOpcode{Opcode: inst.Opcode, Address: Physical(cpu.CS, cpu.IP-inst.Length)}
	}

	return
}

// taken evaluates a branch condition against the current flags.
func (cpu *Cpu) taken(op Op) bool {
	switch op {
	case OP_JE:
		return cpu.FLAGS.Zero()
	case OP_JNE:
		return !cpu.FLAGS.Zero()
	case OP_JL:
		return cpu.FLAGS.Less()
	case OP_JG:
		return cpu.FLAGS.Greater()
	}

	return true
}

// interrupt services a software interrupt.
// Only the BIOS teletype service is implemented; everything else is ignored.
func (cpu *Cpu) interrupt(vector byte) (err error) {
	if vector != INT_VIDEO || cpu.AH() != VIDEO_TELETYPE_AH {
		if cpu.Verbose {
			log.Printf("cpu: int 0x%02x ah=0x%02x ignored", vector, cpu.AH())
		}
		return
	}

	if cpu.Teletype == nil {
		return
	}

	err = cpu.Teletype.Putc(cpu.AL())
	if err != nil {
		err = errors.Join(ErrTeletype, err)
		return
	}

	return
}
