// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/emulator"
	"github.com/ezrec/m6502/translate"
)

func main() {
	var compile string
	var binary string
	var origin string
	var steps int
	var defines bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&binary, "b", "", "raw binary image to load")
	flag.StringVar(&origin, "a", "0", "load address for the binary image")
	flag.IntVar(&steps, "n", 0, "Step limit (0 for none)")
	flag.BoolVar(&defines, "d", false, "Print assembler predefines, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if verbose {
		log.Printf("m6502: messages in %v", translate.Language())
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	if defines {
		for name, value := range emu.Defines() {
			fmt.Printf(".equ %v %v\n", name, value)
		}
		return
	}

	switch {
	case len(compile) != 0 && len(binary) != 0:
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	case len(compile) != 0:
		// Compile a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for name, value := range emu.Defines() {
			asm.Predefine(name, value)
		}

		prog, err := asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		emu.Program = prog
		err = emu.Reset()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case len(binary) != 0:
		start, err := strconv.ParseUint(origin, 0, 16)
		if err != nil {
			log.Fatalf("-a %v: %v", origin, err)
		}

		image, err := os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}

		err = emu.Load(uint16(start), image)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	default:
		log.Fatalf("%v: one of -c or -b is required", os.Args[0])
	}

	err := emu.Run(steps)
	if err != nil {
		log.Fatal(err)
	}

	if verbose {
		log.Printf("emulator: %d ticks\n%v", emu.Ticks(), emu.Cpu.String())
	}

	fmt.Printf("A: %02X\n", emu.Cpu.A)
	fmt.Printf("X: %02X\n", emu.Cpu.X)
}
