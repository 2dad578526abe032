package cpu

// Reg is a register operand selector.
// The first eight follow the encoding order of the MOV r16, imm16 opcodes.
type Reg int

//go:generate go tool stringer -linecomment -type=Reg
const (
	REG_AX = Reg(0) // ax
	REG_CX = Reg(1) // cx
	REG_DX = Reg(2) // dx
	REG_BX = Reg(3) // bx
	REG_SP = Reg(4) // sp
	REG_BP = Reg(5) // bp
	REG_SI = Reg(6) // si
	REG_DI = Reg(7) // di
	REG_AH = Reg(8) // ah
	REG_AL = Reg(9) // al
)

// Wide returns true for the 16-bit registers.
func (reg Reg) Wide() bool {
	return reg >= REG_AX && reg <= REG_DI
}

// Registers is the register file.
type Registers struct {
	AX, BX, CX, DX uint16 // Data registers.
	SI, DI, BP, SP uint16 // Offset registers.
	IP             uint16 // Instruction pointer, relative to CS.
	CS, DS, ES, SS uint16 // Segment selectors.
	FLAGS          Flags  // Status flags.
}

// word returns a pointer to a 16-bit register.
func (regs *Registers) word(reg Reg) *uint16 {
	switch reg {
	case REG_AX:
		return &regs.AX
	case REG_CX:
		return &regs.CX
	case REG_DX:
		return &regs.DX
	case REG_BX:
		return &regs.BX
	case REG_SP:
		return &regs.SP
	case REG_BP:
		return &regs.BP
	case REG_SI:
		return &regs.SI
	case REG_DI:
		return &regs.DI
	}

	panic("not a 16-bit register")
}

// Get returns the value of a register. Byte registers are zero extended.
func (regs *Registers) Get(reg Reg) uint16 {
	switch reg {
	case REG_AH:
		return uint16(regs.AH())
	case REG_AL:
		return uint16(regs.AL())
	}

	return *regs.word(reg)
}

// Set stores a value in a register. Byte registers use the low 8 bits.
func (regs *Registers) Set(reg Reg, value uint16) {
	switch reg {
	case REG_AH:
		regs.SetAH(byte(value))
	case REG_AL:
		regs.SetAL(byte(value))
	default:
		*regs.word(reg) = value
	}
}

// AH returns the high byte of AX.
func (regs *Registers) AH() byte {
	return byte(regs.AX >> 8)
}

// AL returns the low byte of AX.
func (regs *Registers) AL() byte {
	return byte(regs.AX & 0xff)
}

// SetAH replaces the high byte of AX, keeping AL.
func (regs *Registers) SetAH(value byte) {
	regs.AX = (uint16(value) << 8) | (regs.AX & 0x00ff)
}

// SetAL replaces the low byte of AX, keeping AH.
func (regs *Registers) SetAL(value byte) {
	regs.AX = (regs.AX & 0xff00) | uint16(value)
}
