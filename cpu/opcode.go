package cpu

import (
	"errors"
	"fmt"
)

// Op is a decoded operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_MOV_IMM16 = Op(0)  // mov
	OP_MOV_IMM8  = Op(1)  // mov
	OP_INT       = Op(2)  // int
	OP_PUSH      = Op(3)  // push
	OP_POP       = Op(4)  // pop
	OP_CALL      = Op(5)  // call
	OP_RET       = Op(6)  // ret
	OP_HLT       = Op(7)  // hlt
	OP_CMP       = Op(8)  // cmp
	OP_JE        = Op(9)  // je
	OP_JNE       = Op(10) // jne
	OP_JMP       = Op(11) // jmp
	OP_JL        = Op(12) // jl
	OP_JG        = Op(13) // jg
	OP_DEC       = Op(14) // dec
)

// Branch returns true for the rel8 jump family.
func (op Op) Branch() bool {
	return op >= OP_JE && op <= OP_JG
}

// CodeArg is the kind of operand that follows an opcode byte.
type CodeArg int

const (
	ARG_NONE  = CodeArg(0) // No operand.
	ARG_IMM8  = CodeArg(1) // 8-bit immediate.
	ARG_IMM16 = CodeArg(2) // 16-bit little-endian immediate.
	ARG_REL8  = CodeArg(3) // Signed 8-bit displacement.
	ARG_REL16 = CodeArg(4) // Signed 16-bit little-endian displacement.
)

// Size returns the encoded operand size in bytes.
func (arg CodeArg) Size() uint16 {
	switch arg {
	case ARG_IMM8, ARG_REL8:
		return 1
	case ARG_IMM16, ARG_REL16:
		return 2
	}
	return 0
}

// Opcode bytes of the supported instruction subset.
const (
	OPCODE_MOV_AX_IMM16 = 0xB8 // Through 0xBF, one per register.
	OPCODE_MOV_AH_IMM8  = 0xB4
	OPCODE_MOV_AL_IMM8  = 0xB0
	OPCODE_INT          = 0xCD
	OPCODE_PUSH_AX      = 0x50
	OPCODE_POP_AX       = 0x58
	OPCODE_CALL         = 0xE8
	OPCODE_RET          = 0xC3
	OPCODE_HLT          = 0xF4
	OPCODE_CMP_AX_IMM16 = 0x3D
	OPCODE_JE           = 0x74
	OPCODE_JNE          = 0x75
	OPCODE_JMP          = 0xEB
	OPCODE_JL           = 0x7C
	OPCODE_JG           = 0x7F
	OPCODE_DEC_CX       = 0x49
)

// encoding describes how an opcode byte decodes.
type encoding struct {
	Op  Op
	Reg Reg
	Arg CodeArg
}

// opcodeMap maps the fixed opcode bytes. MOV r16, imm16 is handled as a range.
var opcodeMap = map[byte]encoding{
	OPCODE_MOV_AH_IMM8:  {OP_MOV_IMM8, REG_AH, ARG_IMM8},
	OPCODE_MOV_AL_IMM8:  {OP_MOV_IMM8, REG_AL, ARG_IMM8},
	OPCODE_INT:          {OP_INT, REG_AX, ARG_IMM8},
	OPCODE_PUSH_AX:      {OP_PUSH, REG_AX, ARG_NONE},
	OPCODE_POP_AX:       {OP_POP, REG_AX, ARG_NONE},
	OPCODE_CALL:         {OP_CALL, REG_AX, ARG_REL16},
	OPCODE_RET:          {OP_RET, REG_AX, ARG_NONE},
	OPCODE_HLT:          {OP_HLT, REG_AX, ARG_NONE},
	OPCODE_CMP_AX_IMM16: {OP_CMP, REG_AX, ARG_IMM16},
	OPCODE_JE:           {OP_JE, REG_AX, ARG_REL8},
	OPCODE_JNE:          {OP_JNE, REG_AX, ARG_REL8},
	OPCODE_JMP:          {OP_JMP, REG_AX, ARG_REL8},
	OPCODE_JL:           {OP_JL, REG_AX, ARG_REL8},
	OPCODE_JG:           {OP_JG, REG_AX, ARG_REL8},
	OPCODE_DEC_CX:       {OP_DEC, REG_CX, ARG_NONE},
}

// lookup finds the encoding of an opcode byte.
func lookup(opcode byte) (enc encoding, ok bool) {
	if opcode >= OPCODE_MOV_AX_IMM16 && opcode <= OPCODE_MOV_AX_IMM16+7 {
		enc = encoding{OP_MOV_IMM16, Reg(opcode - OPCODE_MOV_AX_IMM16), ARG_IMM16}
		ok = true
		return
	}

	enc, ok = opcodeMap[opcode]
	return
}

// Instruction is a fully decoded instruction.
type Instruction struct {
	Op     Op     // Operation.
	Opcode byte   // Opcode byte as fetched.
	Reg    Reg    // Register operand (destination, source, or implied).
	Imm    uint16 // Immediate operand; imm8 values are zero extended.
	Disp   int16  // Branch displacement; rel8 values are sign extended.
	Length uint16 // Encoded length in bytes, including the opcode.
}

// Reader is the read side of the memory image.
type Reader interface {
	Read8(addr uint32) (byte, error)
	Read16(addr uint32) (uint16, error)
}

// Decode fetches and decodes the instruction at cs:ip.
// Operands are read from the bytes following the opcode, wrapping within
// the code segment.
func Decode(mem Reader, cs, ip uint16) (inst Instruction, err error) {
	addr := Physical(cs, ip)

	opcode, err := mem.Read8(addr)
	if err != nil {
		err = errors.Join(ErrFetch, err)
		return
	}

	enc, ok := lookup(opcode)
	if !ok {
		err = &ErrOpcode{Opcode: opcode, Address: addr}
		return
	}

	inst = Instruction{
		Op:     enc.Op,
		Opcode: opcode,
		Reg:    enc.Reg,
		Length: 1 + enc.Arg.Size(),
	}

	switch enc.Arg {
	case ARG_IMM8, ARG_REL8:
		var value byte
		value, err = mem.Read8(Physical(cs, ip+1))
		if err != nil {
			break
		}
		if enc.Arg == ARG_REL8 {
			inst.Disp = int16(int8(value))
		} else {
			inst.Imm = uint16(value)
		}
	case ARG_IMM16, ARG_REL16:
		var value uint16
		value, err = read16(mem, cs, ip+1)
		if err != nil {
			break
		}
		if enc.Arg == ARG_REL16 {
			inst.Disp = int16(value)
		} else {
			inst.Imm = value
		}
	}

	if err != nil {
		err = errors.Join(ErrFetch, err)
		inst = Instruction{}
	}

	return
}

// Arg returns the operand kind of the instruction.
func (inst Instruction) Arg() CodeArg {
	enc, ok := lookup(inst.Opcode)
	if !ok {
		return ARG_NONE
	}
	return enc.Arg
}

// Encode returns the machine code bytes of the instruction.
func (inst Instruction) Encode() (code []byte) {
	code = []byte{inst.Opcode}

	switch inst.Arg() {
	case ARG_IMM8:
		code = append(code, byte(inst.Imm))
	case ARG_REL8:
		code = append(code, byte(int8(inst.Disp)))
	case ARG_IMM16:
		code = append(code, byte(inst.Imm&0xff), byte(inst.Imm>>8))
	case ARG_REL16:
		disp := uint16(inst.Disp)
		code = append(code, byte(disp&0xff), byte(disp>>8))
	}

	return
}

// String returns the assembly language representation of this instruction.
func (inst Instruction) String() (out string) {
	switch inst.Op {
	case OP_MOV_IMM16, OP_CMP:
		out = fmt.Sprintf("%v %v, 0x%04x", inst.Op, inst.Reg, inst.Imm)
	case OP_MOV_IMM8:
		out = fmt.Sprintf("%v %v, 0x%02x", inst.Op, inst.Reg, inst.Imm)
	case OP_INT:
		out = fmt.Sprintf("%v 0x%02x", inst.Op, inst.Imm)
	case OP_PUSH, OP_POP, OP_DEC:
		out = fmt.Sprintf("%v %v", inst.Op, inst.Reg)
	case OP_CALL, OP_JE, OP_JNE, OP_JMP, OP_JL, OP_JG:
		out = fmt.Sprintf("%v %+d", inst.Op, inst.Disp)
	default:
		out = inst.Op.String()
	}

	return
}

// makeInst builds an instruction from its opcode byte.
func makeInst(opcode byte, imm uint16, disp int16) Instruction {
	enc, ok := lookup(opcode)
	if !ok {
		panic("unknown opcode")
	}

	return Instruction{
		Op:     enc.Op,
		Opcode: opcode,
		Reg:    enc.Reg,
		Imm:    imm,
		Disp:   disp,
		Length: 1 + enc.Arg.Size(),
	}
}

// MakeMov creates a MOV reg, imm instruction.
// Byte registers (ah, al) take the low 8 bits of value.
func MakeMov(reg Reg, value uint16) Instruction {
	switch reg {
	case REG_AH:
		return makeInst(OPCODE_MOV_AH_IMM8, value&0xff, 0)
	case REG_AL:
		return makeInst(OPCODE_MOV_AL_IMM8, value&0xff, 0)
	}

	return makeInst(OPCODE_MOV_AX_IMM16+byte(reg), value, 0)
}

// MakeInt creates an INT vector instruction.
func MakeInt(vector byte) Instruction {
	return makeInst(OPCODE_INT, uint16(vector), 0)
}

// MakePush creates a PUSH AX instruction.
func MakePush() Instruction {
	return makeInst(OPCODE_PUSH_AX, 0, 0)
}

// MakePop creates a POP AX instruction.
func MakePop() Instruction {
	return makeInst(OPCODE_POP_AX, 0, 0)
}

// MakeCall creates a CALL rel16 instruction.
func MakeCall(disp int16) Instruction {
	return makeInst(OPCODE_CALL, 0, disp)
}

// MakeRet creates a RET instruction.
func MakeRet() Instruction {
	return makeInst(OPCODE_RET, 0, 0)
}

// MakeHlt creates a HLT instruction.
func MakeHlt() Instruction {
	return makeInst(OPCODE_HLT, 0, 0)
}

// MakeCmp creates a CMP AX, imm16 instruction.
func MakeCmp(value uint16) Instruction {
	return makeInst(OPCODE_CMP_AX_IMM16, value, 0)
}

// MakeDec creates a DEC CX instruction.
func MakeDec() Instruction {
	return makeInst(OPCODE_DEC_CX, 0, 0)
}

// branchOpcode maps the jump family to opcode bytes.
var branchOpcode = map[Op]byte{
	OP_JE:  OPCODE_JE,
	OP_JNE: OPCODE_JNE,
	OP_JMP: OPCODE_JMP,
	OP_JL:  OPCODE_JL,
	OP_JG:  OPCODE_JG,
}

// MakeBranch creates a rel8 jump. The displacement is truncated to 8 bits.
func MakeBranch(op Op, disp int8) Instruction {
	opcode, ok := branchOpcode[op]
	if !ok {
		panic("not a branch")
	}

	return makeInst(opcode, 0, int16(disp))
}
