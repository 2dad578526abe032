// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator binds a CPU, its memory image, and a teletype console into
// a runnable machine.
package emulator

import (
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rm16/cpu"
	"github.com/ezrec/rm16/internal"
	"github.com/ezrec/rm16/io"
	"github.com/ezrec/rm16/memory"
)

const (
	MEMORY_SIZE = memory.DEFAULT_SIZE // Default memory image size.
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
}

// Emulator state. CPU + memory + teletype console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Image   *memory.Memory // Memory image the CPU executes from.
	Console io.Teletype    // Teletype console, discarding output by default.
}

// NewEmulator creates a new emulator with size bytes of memory.
// A size of 0 selects MEMORY_SIZE.
func NewEmulator(size int) (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{Origin: cpu.CODE_ORIGIN},
		Image:   memory.NewMemory(size),
	}

	emu.Console.Output = goio.Discard
	emu.Cpu = cpu.NewCpu(emu.Image, &emu.Console)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset clears memory and the CPU, loads the program image at
// CODE_SEGMENT:Origin, and sets up the default stack.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Image.Verbose = emu.Verbose

	emu.Image.Reset()
	emu.Cpu.Reset()
	emu.Console.Rewind()

	if emu.Verbose {
		emu.Cpu.Observer = &cpu.LogObserver{}
	} else {
		emu.Cpu.Observer = nil
	}

	origin := emu.Program.Origin
	code := emu.Program.Binary()

	err = emu.Image.Load(cpu.Physical(cpu.CODE_SEGMENT, origin), code)
	if err != nil {
		return
	}

	emu.Cpu.CS = cpu.CODE_SEGMENT
	emu.Cpu.IP = origin
	emu.Cpu.SS = cpu.STACK_SEGMENT
	emu.Cpu.SP = cpu.STACK_POINTER

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes at %04x:%04x", len(code), cpu.CODE_SEGMENT, origin)
	}

	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Cpu.CS != cpu.CODE_SEGMENT {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.IP)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set once the CPU has halted normally.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Status == cpu.STATUS_HALTED {
		done = true
		return
	}

	lineno := emu.LineNo()
	address := cpu.Physical(emu.Cpu.CS, emu.Cpu.IP)
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Address: address, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Status == cpu.STATUS_HALTED

	return
}

// Run ticks until the CPU halts or faults.
// If limit is positive, ErrStepLimit is returned after limit instructions
// with the CPU still running.
func (emu *Emulator) Run(limit int) (err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: stopped after %d steps at %04x:%04x", limit, emu.Cpu.CS, emu.Cpu.IP)
	}

	err = ErrStepLimit
	return
}
