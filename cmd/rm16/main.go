// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/ezrec/rm16/cpu"
	"github.com/ezrec/rm16/emulator"
	"github.com/ezrec/rm16/internal"
	"github.com/ezrec/rm16/translate"
)

// hello is the demonstration program run when no input is given.
const hello = `; BIOS teletype 'H', then stop.
        mov ah, VIDEO_TELETYPE_AH
        mov al, 'H'
        int INT_VIDEO
        hlt
`

// listing prints the assembled program, one opcode per line.
func listing(prog *cpu.Program) {
	for _, op := range prog.Opcodes {
		code := make([]string, len(op.Bytes))
		for n, b := range op.Bytes {
			code[n] = fmt.Sprintf("%02X", b)
		}
		fmt.Printf("%5d %04X: %-12s %v\n", op.LineNo, op.Ip, strings.Join(code, " "), strings.Join(op.Words, " "))
	}
}

// disassemble prints the loaded image of a raw binary program.
func disassemble(emu *emulator.Emulator) {
	origin := emu.Program.Origin
	for ip, inst := range cpu.Disassemble(emu.Image, cpu.CODE_SEGMENT, origin, emu.Program.Size()) {
		code := make([]string, 0, 3)
		for _, b := range inst.Encode() {
			code = append(code, fmt.Sprintf("%02X", b))
		}
		fmt.Printf("%04X: %-12s %v\n", ip, strings.Join(code, " "), inst)
	}
}

func main() {
	var compile string
	var binary string
	var origin uint16 = cpu.CODE_ORIGIN
	var steps int
	var size int
	var verbose bool
	var list bool

	predefine := map[string]string{}

	flag.StringVar(&compile, "c", "", ".asm file to assemble and run")
	flag.StringVar(&binary, "b", "", "raw binary image to run")
	flag.Func("o", "load origin for -b images (default 0x2000)", func(text string) (err error) {
		value, err := strconv.ParseUint(text, 0, 16)
		if err != nil {
			return
		}
		origin = uint16(value)
		return
	})
	flag.IntVar(&steps, "n", 1_000_000, "maximum instructions to run, or 0 for no limit")
	flag.IntVar(&size, "m", emulator.MEMORY_SIZE, "memory size in bytes")
	flag.Func("D", "NAME=VALUE assembler predefine (repeatable)", func(text string) error {
		name, value, ok := strings.Cut(text, "=")
		if !ok || len(name) == 0 {
			return errors.New("expected NAME=VALUE")
		}
		predefine[name] = value
		return nil
	})
	flag.Func("L", "message locale (default from the environment)", translate.SetLocale)
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&list, "l", false, "Print the program listing, do not execute")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator(size)
	emu.Verbose = verbose

	if len(binary) != 0 {
		data, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		emu.Program = cpu.MakeProgram(origin, data)
	} else {
		name := "hello"
		source := strings.NewReader(hello)

		asm := &cpu.Assembler{Verbose: verbose}
		defines := internal.IterSeq2Collect(internal.IterSeq2Concat(emu.Defines(), maps.All(predefine)))
		for key, value := range defines {
			asm.Predefine(key, value)
		}

		var err error
		if len(compile) != 0 {
			var inf *os.File
			inf, err = os.Open(compile)
			if err != nil {
				log.Fatalf("%v: %v", compile, err)
			}
			defer inf.Close()

			name = compile
			emu.Program, err = asm.Parse(inf)
		} else {
			emu.Program, err = asm.Parse(source)
		}
		if err != nil {
			log.Fatalf("%v: %v", name, err)
		}
	}

	err := emu.Reset()
	if err != nil {
		log.Fatalf("%v: load: %v", os.Args[0], err)
	}

	if list {
		if len(binary) != 0 {
			disassemble(emu)
		} else {
			listing(emu.Program)
		}
		return
	}

	emu.Console.Output = os.Stdout

	err = emu.Run(steps)

	if verbose {
		log.Print(translate.From("rm16: %v instructions, %v characters", emu.Ticks, emu.Console.Count))
	}

	if emu.Console.Count > 0 && emu.Console.Last != '\n' && term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println()
	}

	if err != nil {
		if verbose {
			log.Printf("%v", emu.Cpu)
		}
		log.Fatal(err)
	}
}
