package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rm16/cpu"
	"github.com/ezrec/rm16/memory"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(MEMORY_SIZE, emu.Image.Size())
	assert.Equal(uint16(cpu.CODE_ORIGIN), emu.Program.Origin)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x100000", defines["MEMORY_SIZE"])
	assert.Equal("0x2000", defines["CODE_ORIGIN"])
	assert.Equal("0x9000", defines["STACK_SEGMENT"])
}

// assemble parses program with the emulator defines, and resets the emulator.
func assemble(t *testing.T, emu *Emulator, program []string, predefine map[string]string) (output *bytes.Buffer) {
	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	for key, value := range predefine {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}

	output = &bytes.Buffer{}
	emu.Console.Output = output

	return
}

func TestEmulatorHello(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	output := assemble(t, emu, []string{
		"mov ah, VIDEO_TELETYPE_AH",
		"mov al, 'H'",
		"int INT_VIDEO",
		"hlt",
	}, nil)

	for lineno := 1; lineno <= 4; lineno++ {
		assert.Equal(lineno, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(lineno == 4, done)
	}

	assert.Equal("H", output.String())
	assert.Equal(1, emu.Console.Count)
	assert.Equal(byte('H'), emu.Console.Last)
	assert.False(emu.Running())
	assert.Equal(cpu.STATUS_HALTED, emu.Status)
	assert.Equal(4, emu.Ticks)

	// Halted stays done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(4, emu.Ticks)
}

func TestEmulatorBinary(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	emu.Program = cpu.MakeProgram(0x7c00, []byte{0xB4, 0x0E, 0xB0, 0x48, 0xCD, 0x10, 0xF4})
	assert.NoError(emu.Reset())

	output := &bytes.Buffer{}
	emu.Console.Output = output

	assert.Equal(uint16(0x7c00), emu.IP)
	assert.Equal(uint16(cpu.STACK_SEGMENT), emu.SS)
	assert.Equal(uint16(cpu.STACK_POINTER), emu.SP)

	assert.NoError(emu.Run(100))
	assert.Equal("H", output.String())
	assert.Equal(cpu.STATUS_HALTED, emu.Status)
}

func TestEmulatorLoop(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	output := assemble(t, emu, []string{
		"        mov ah, 0x0e",
		"        mov cx, 3",
		"loop:   mov al, '*'",
		"        int 0x10",
		"        dec cx",
		"        jne loop",
		"        call newline",
		"        hlt",
		"newline:",
		"        mov al, '\\n'",
		"        int 0x10",
		"        ret",
	}, nil)

	assert.NoError(emu.Run(100))
	assert.Equal("***\n", output.String())
	assert.Equal(uint16(0), emu.CX)
	assert.Equal(uint16(cpu.STACK_POINTER), emu.SP)
	assert.Equal(2+3*4+1+3+1, emu.Ticks)
}

func TestEmulatorCompare(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"        mov ax, VALUE",
		"        cmp ax, 5",
		"        jl less",
		"        jg greater",
		"        mov ax, $(0x0e00 + 'E')",
		"        jmp out",
		"less:   mov ax, 0x0e4c ; 'L'",
		"        jmp out",
		"greater:",
		"        mov ax, 0x0e47 ; 'G'",
		"out:    int 0x10",
		"        hlt",
	}

	table := [](struct {
		value  string
		expect string
	}){
		{"3", "L"},
		{"5", "E"},
		{"7", "G"},
		{"-1", "L"},
		{"0x8000", "L"},
		{"0x7fff", "G"},
	}

	for _, entry := range table {
		emu := NewEmulator(0)
		output := assemble(t, emu, program, map[string]string{"VALUE": entry.value})

		assert.NoError(emu.Run(100), entry.value)
		assert.Equal(entry.expect, output.String(), entry.value)
	}
}

func TestEmulatorStack(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	output := assemble(t, emu, []string{
		"mov ax, 0x0e41",
		"push ax",
		"mov ax, 0x0e42",
		"int 0x10",
		"pop ax",
		"int 0x10",
		"hlt",
	}, nil)

	assert.NoError(emu.Run(0))
	assert.Equal("BA", output.String())
	assert.Equal(uint16(cpu.STACK_POINTER), emu.SP)
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	assemble(t, emu, []string{
		"spin: jmp spin",
	}, nil)

	err := emu.Run(10)
	assert.ErrorIs(err, ErrStepLimit)
	assert.True(emu.Running())
	assert.Equal(10, emu.Ticks)

	// Resumable.
	err = emu.Run(5)
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(15, emu.Ticks)
	assert.Equal(uint16(cpu.CODE_ORIGIN), emu.IP)
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	assemble(t, emu, []string{
		"mov ax, 1",
		".db 0xff",
	}, nil)

	err := emu.Run(10)
	assert.ErrorIs(err, cpu.ErrOpcodeDecode)
	assert.Equal(cpu.STATUS_FAULTED, emu.Status)
	assert.False(emu.Running())

	var er *ErrRuntime
	if assert.True(errors.As(err, &er)) {
		assert.Equal(2, er.LineNo)
		assert.Equal(uint32(0x2003), er.Address)
		assert.Contains(er.Error(), "line 2")
	}

	var eo *cpu.ErrOpcode
	if assert.True(errors.As(err, &eo)) {
		assert.Equal(byte(0xff), eo.Opcode)
	}

	// Faulted is not done.
	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, cpu.ErrHalted)
}

func TestEmulatorStackFault(t *testing.T) {
	assert := assert.New(t)

	// Only the code arena exists; the stack segment is unmapped.
	emu := NewEmulator(0x10000)
	assemble(t, emu, []string{
		"mov ax, 1",
		"push ax",
		"hlt",
	}, nil)

	err := emu.Run(10)
	assert.ErrorIs(err, cpu.ErrStackPush)
	assert.ErrorIs(err, memory.ErrAddressRange)
	assert.Equal(cpu.STATUS_FAULTED, emu.Status)

	var er *ErrRuntime
	if assert.True(errors.As(err, &er)) {
		assert.Equal(2, er.LineNo)
	}
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write(data []byte) (int, error) {
	return 0, errWrite
}

func TestEmulatorTeletypeFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	assemble(t, emu, []string{
		"mov ax, 0x0e41",
		"int 0x10",
		"hlt",
	}, nil)
	emu.Console.Output = failWriter{}

	err := emu.Run(10)
	assert.ErrorIs(err, cpu.ErrTeletype)
	assert.ErrorIs(err, errWrite)
	assert.Equal(cpu.STATUS_FAULTED, emu.Status)
	assert.Equal(0, emu.Console.Count)
}

func TestEmulatorLoadFault(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0x1000)
	emu.Program = cpu.MakeProgram(cpu.CODE_ORIGIN, []byte{0xF4})

	err := emu.Reset()
	assert.ErrorIs(err, memory.ErrAddressRange)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	output := assemble(t, emu, []string{
		"mov ax, 0x0e21",
		"int 0x10",
		"hlt",
	}, nil)

	assert.NoError(emu.Run(10))
	assert.Equal("!", output.String())

	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Ticks)
	assert.Equal(0, emu.Console.Count)
	assert.Equal(uint16(0), emu.AX)
	assert.True(emu.Running())

	assert.NoError(emu.Run(10))
	assert.Equal("!!", output.String())
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(0)
	emu.Verbose = true
	assert.NoError(emu.Reset())
	assert.NotNil(emu.Cpu.Observer)
	assert.True(emu.Cpu.Verbose)

	emu.Verbose = false
	assert.NoError(emu.Reset())
	assert.Nil(emu.Cpu.Observer)
}
