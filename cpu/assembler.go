// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro is a named block of source lines, expanded with positional
// arguments bound as equates.
type Macro struct {
	LineNo int      // first body line
	Args   []string // parameter names
	Lines  []string // body, comments stripped
}

// sysEquate seeds the equate table of every Parse.
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
	reLabel      = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`)
)

// charEscape maps the escapes accepted inside character literals.
var charEscape = map[byte]byte{
	'\\': '\\',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'0':  0,
	'e':  0x1b,
}

// Assembler is a single pass macro assembler for the rm16 instruction subset.
type Assembler struct {
	Verbose bool     // log each source line
	Opcode  []Opcode // assembled output, in order
	Origin  uint16   // offset of Opcode[0]

	predefine  map[string]string // applied on top of sysEquate
	expansions int               // numbering for '@' local labels
	open       *Macro            // macro whose body is being collected

	Label  map[string]int    // label offsets
	Equate map[string]string // equate text substitutions
	Macro  map[string]*Macro // macro definitions
}

// Predefine sets an equate that every later Parse starts with.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = make(map[string]string)
	}
	asm.predefine[equ] = value
}

// regMap is a map of register names to register selectors.
var regMap = map[string]Reg{
	"ax": REG_AX,
	"cx": REG_CX,
	"dx": REG_DX,
	"bx": REG_BX,
	"sp": REG_SP,
	"bp": REG_BP,
	"si": REG_SI,
	"di": REG_DI,
	"ah": REG_AH,
	"al": REG_AL,
}

// branchMap maps the jump mnemonics, including aliases.
var branchMap = map[string]Op{
	"je":  OP_JE,
	"jz":  OP_JE,
	"jne": OP_JNE,
	"jnz": OP_JNE,
	"jmp": OP_JMP,
	"jl":  OP_JL,
	"jg":  OP_JG,
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	// A quote here means charLiteral could not decode it.
	if strings.HasPrefix(word, "'") {
		err = ErrParseNumber(word)
		return
	}

	value, err = strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
	}

	return
}


// imm16 parses a word as a 16-bit value, allowing signed or unsigned forms.
func (asm *Assembler) imm16(word string) (value uint16, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -0x8000 || v64 > 0xffff {
		err = ErrValueRange
		return
	}

	value = uint16(v64)
	return
}

// imm8 parses a word as an 8-bit value, allowing signed or unsigned forms.
func (asm *Assembler) imm8(word string) (value byte, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	return
}

// parenEval evaluates the body of a $(...) expression. Equates with
// integer values are visible as variables.
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	env := starlark.StringDict{}
	for name, text := range asm.Equate {
		if v, verr := asm.valueOf(text); verr == nil {
			env[name] = starlark.MakeInt64(v)
		}
	}

	thread := &starlark.Thread{Name: "expr"}
	result, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "expr", expr, env)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}

	num, ok := result.(starlark.Int)
	if ok {
		value, ok = num.Int64()
	}
	if !ok {
		err = ErrParseExpression(expr)
	}

	return
}

// charLiteral replaces a quoted character with its decimal value.
// Unknown escapes are returned unchanged, and fail later as numbers.
func charLiteral(lit string) string {
	body := lit[1 : len(lit)-1]
	if body[0] != '\\' {
		if len(body) == 1 {
			return strconv.Itoa(int(body[0]))
		}
		return lit
	}

	if len(body) == 2 {
		if c, ok := charEscape[body[1]]; ok {
			return strconv.Itoa(int(c))
		}
	}

	return lit
}


// stripComment removes a trailing ';' comment, ignoring ';' inside quotes.
func stripComment(text string) string {
	quoted := false
	for n := 0; n < len(text); n++ {
		switch text[n] {
		case '\\':
			if quoted {
				n++
			}
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return text[:n]
			}
		}
	}

	return text
}

// splitWords splits a line on whitespace and operand commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

// parseLine substitutes literals, expressions and equates into a line,
// then consumes any .equ, labels, or macro invocation. The returned
// words are whatever is left for parseWords.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	line = reCharacter.ReplaceAllStringFunc(line, charLiteral)

	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, xerr := asm.parenEval(str[2 : len(str)-1])
		if xerr != nil && err == nil {
			err = xerr
		}
		return strconv.FormatInt(value, 10)
	})
	if err != nil {
		return
	}

	words = splitWords(line)
	if len(words) == 0 {
		return
	}

	if strings.EqualFold(words[0], ".equ") {
		err = asm.equate(words[1:])
		words = nil
		return
	}

	for n, word := range words {
		if text, ok := asm.Equate[word]; ok {
			words[n] = text
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		err = asm.defineLabel(strings.TrimSuffix(words[0], ":"))
		if err != nil {
			return
		}
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	if macro, ok := asm.Macro[words[0]]; ok {
		err = asm.expand(words[0], macro, words[1:])
		words = nil
	}

	return
}

// equate handles the operands of '.equ NAME VALUE'.
func (asm *Assembler) equate(args []string) (err error) {
	if len(args) != 2 {
		err = ErrEquateSyntax
		return
	}

	if _, exists := asm.Equate[args[0]]; exists {
		err = ErrEquateDuplicate
		return
	}

	asm.Equate[args[0]] = args[1]
	return
}

// defineLabel binds a label to the current offset.
func (asm *Assembler) defineLabel(label string) (err error) {
	if !reLabel.MatchString(label) {
		err = ErrLabelInvalid
		return
	}

	if _, exists := asm.Label[label]; exists {
		err = ErrLabelDuplicate
		return
	}

	if asm.Label == nil {
		asm.Label = make(map[string]int, 16)
	}
	asm.Label[label] = asm.currentIp()
	return
}

// expand assembles one invocation of a macro. Arguments are bound as
// equates for the duration of the body, and '@' in the body becomes a
// prefix unique to this invocation.
func (asm *Assembler) expand(name string, macro *Macro, args []string) (err error) {
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}

	saved := maps.Clone(asm.Equate)
	defer func() { asm.Equate = saved }()
	for n, param := range macro.Args {
		asm.Equate[param] = args[n]
	}

	asm.expansions++
	local := fmt.Sprintf("%v_%v_", name, asm.expansions)

	for n, body := range macro.Lines {
		lineno := macro.LineNo + n

		var words []string
		words, err = asm.parseLine(strings.ReplaceAll(body, "@", local), lineno)
		if err == nil {
			err = asm.parseWords(words, lineno)
		}
		if err != nil {
			err = &ErrMacro{Macro: name, Line: lineno, Err: err}
			return
		}
	}

	return
}

// collect handles .macro and .endm, and records lines inside an open
// macro body. It reports whether the line was consumed.
func (asm *Assembler) collect(words []string, line string, lineno int) (used bool, err error) {
	directive := ""
	if len(words) > 0 {
		directive = words[0]
	}

	switch {
	case directive == ".macro":
		used = true
		switch {
		case asm.open != nil:
			err = ErrMacroNesting
		case len(words) < 2:
			err = ErrMacroSyntax
		case asm.Macro[words[1]] != nil:
			err = ErrMacroDuplicate
		default:
			asm.open = &Macro{LineNo: lineno + 1}
			if len(words) > 2 {
				asm.open.Args = words[2:]
			}
			asm.Macro[words[1]] = asm.open
		}
	case directive == ".endm":
		used = true
		if asm.open == nil {
			err = ErrMacroLonelyEndm
			return
		}
		asm.open = nil
	case asm.open != nil:
		used = true
		asm.open.Lines = append(asm.open.Lines, line)
	}

	return
}


// currentIp gets the offset of the next opcode.
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return int(asm.Origin)
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + len(last.Bytes)
}


// reset clears all state left by a previous Parse.
func (asm *Assembler) reset() {
	asm.open = nil
	asm.expansions = 0
	asm.Opcode = asm.Opcode[:0]
	asm.Origin = CODE_ORIGIN
	clear(asm.Label)
	if asm.Macro == nil {
		asm.Macro = make(map[string]*Macro)
	}
	clear(asm.Macro)

	asm.Equate = maps.Clone(sysEquate)
	maps.Copy(asm.Equate, asm.predefine)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.reset()

	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))

		var used bool
		used, err = asm.collect(splitWords(line), line, lineno)
		if err != nil {
			return
		}
		if used {
			continue
		}

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if asm.open != nil {
		err = ErrMacroLonely
		return
	}

	if bad, lerr := asm.link(); lerr != nil {
		lineno = bad.LineNo
		line = strings.Join(bad.Words, " ")
		err = lerr
		return
	}

	prog = &Program{
		Origin:  asm.Origin,
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches branch displacements now that every label is known.
// On failure it returns the opcode that could not be resolved.
func (asm *Assembler) link() (bad *Opcode, err error) {
	for n := range asm.Opcode {
		op := &asm.Opcode[n]
		if op.LinkLabel == "" {
			continue
		}

		target, ok := asm.Label[op.LinkLabel]
		if !ok {
			return op, ErrLabelMissing(op.LinkLabel)
		}

		disp := target - (op.Ip + len(op.Bytes))
		switch len(op.Bytes) {
		case 2: // rel8
			if disp < -0x80 || disp > 0x7f {
				return op, ErrTargetRange
			}
			op.Bytes[1] = byte(int8(disp))
		case 3: // rel16
			rel := uint16(int16(disp))
			op.Bytes[1] = byte(rel)
			op.Bytes[2] = byte(rel >> 8)
		default:
			panic(fmt.Sprintf("cpu: %d byte opcode carries link label %q", len(op.Bytes), op.LinkLabel))
		}
	}

	return
}


// emit appends an opcode at the current offset.
func (asm *Assembler) emit(lineno int, words []string, code []byte, label string) {
	asm.Opcode = append(asm.Opcode, Opcode{
		LineNo:    lineno,
		Ip:        asm.currentIp(),
		Words:     words,
		Bytes:     code,
		LinkLabel: label,
	})
}

// getReg gets the register selector for a word.
func (asm *Assembler) getReg(word string) (reg Reg, err error) {
	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
		return
	}

	return
}

// getTarget parses a branch operand as either a numeric displacement or a label.
func (asm *Assembler) getTarget(word string) (disp int64, label string, err error) {
	disp, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if !reLabel.MatchString(word) {
		return
	}

	err = nil
	label = word
	return
}

// parseWords assembles a single instruction or directive.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	need := func(count int) error {
		switch {
		case len(args) < count:
			return ErrOpcodeValueMissing
		case len(args) > count:
			return ErrOpcodeExtraArgs
		}
		return nil
	}

	var inst Instruction

	switch mnemonic {
	case ".org":
		if len(args) != 1 {
			err = ErrOriginSyntax
			return
		}
		if len(asm.Opcode) != 0 {
			err = ErrOriginLate
			return
		}
		asm.Origin, err = asm.imm16(args[0])
		return
	case ".db":
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		code := make([]byte, len(args))
		for n, arg := range args {
			code[n], err = asm.imm8(arg)
			if err != nil {
				return
			}
		}
		asm.emit(lineno, words, code, "")
		return
	case "mov":
		if err = need(2); err != nil {
			return
		}
		var reg Reg
		reg, err = asm.getReg(args[0])
		if err != nil {
			return
		}
		var value uint16
		if reg.Wide() {
			value, err = asm.imm16(args[1])
		} else {
			var value8 byte
			value8, err = asm.imm8(args[1])
			value = uint16(value8)
		}
		if err != nil {
			return
		}
		inst = MakeMov(reg, value)
	case "int":
		if err = need(1); err != nil {
			return
		}
		var vector byte
		vector, err = asm.imm8(args[0])
		if err != nil {
			return
		}
		inst = MakeInt(vector)
	case "push", "pop":
		if err = need(1); err != nil {
			return
		}
		var reg Reg
		reg, err = asm.getReg(args[0])
		if err != nil {
			return
		}
		if reg != REG_AX {
			err = ErrRegisterInvalid
			return
		}
		if mnemonic == "push" {
			inst = MakePush()
		} else {
			inst = MakePop()
		}
	case "ret":
		if err = need(0); err != nil {
			return
		}
		inst = MakeRet()
	case "hlt":
		if err = need(0); err != nil {
			return
		}
		inst = MakeHlt()
	case "cmp":
		if err = need(2); err != nil {
			return
		}
		var reg Reg
		reg, err = asm.getReg(args[0])
		if err != nil {
			return
		}
		if reg != REG_AX {
			err = ErrRegisterInvalid
			return
		}
		var value uint16
		value, err = asm.imm16(args[1])
		if err != nil {
			return
		}
		inst = MakeCmp(value)
	case "dec":
		if err = need(1); err != nil {
			return
		}
		var reg Reg
		reg, err = asm.getReg(args[0])
		if err != nil {
			return
		}
		if reg != REG_CX {
			err = ErrRegisterInvalid
			return
		}
		inst = MakeDec()
	case "call":
		if err = need(1); err != nil {
			return
		}
		var disp int64
		var label string
		disp, label, err = asm.getTarget(args[0])
		if err != nil {
			return
		}
		if disp < -0x8000 || disp > 0xffff {
			err = ErrTargetRange
			return
		}
		inst = MakeCall(int16(uint16(disp)))
		asm.emit(lineno, words, inst.Encode(), label)
		return
	default:
		op, ok := branchMap[mnemonic]
		if !ok {
			err = ErrOpcodeInvalid
			return
		}
		if err = need(1); err != nil {
			return
		}
		var disp int64
		var label string
		disp, label, err = asm.getTarget(args[0])
		if err != nil {
			return
		}
		if disp < -0x80 || disp > 0x7f {
			err = ErrTargetRange
			return
		}
		inst = MakeBranch(op, int8(disp))
		asm.emit(lineno, words, inst.Encode(), label)
		return
	}

	asm.emit(lineno, words, inst.Encode(), "")

	return
}
