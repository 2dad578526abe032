package cpu

import (
	"errors"

	"github.com/ezrec/rm16/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted     = errors.New(f("cpu halted"))
	ErrFetch      = errors.New(f("instruction fetch"))
	ErrStackPush  = errors.New(f("stack push"))
	ErrStackPop   = errors.New(f("stack pop"))
	ErrTeletype   = errors.New(f("teletype"))
	ErrMemoryNone = errors.New(f("no memory attached"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOriginSyntax       = errors.New(f(".org syntax"))
	ErrOriginLate         = errors.New(f(".org after code"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrMacroSyntax        = errors.New(f(".macro syntax"))
	ErrMacroNesting       = errors.New(f(".macro in .macro prohibited"))
	ErrMacroDuplicate     = errors.New(f(".macro duplicated"))
	ErrMacroLonely        = errors.New(f(".macro without .endm"))
	ErrMacroLonelyEndm    = errors.New(f(".endm without .macro"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrTargetRange        = errors.New(f("branch target out of range"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrOpcode reports an opcode byte with no known instruction.
type ErrOpcode struct {
	Opcode  byte   // Opcode as fetched.
	Address uint32 // Physical address of the opcode.
}

func (eo *ErrOpcode) Error() string {
	return f("%v: bad opcode 0x%02X at 0x%05X", ErrOpcodeDecode, eo.Opcode, eo.Address)
}

func (eo *ErrOpcode) Is(err error) (ok bool) {
	if err == ErrOpcodeDecode {
		return true
	}
	_, ok = err.(*ErrOpcode)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

type ErrMacro struct {
	Macro string
	Line  int
	Err   error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", err.Macro, err.Line, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
