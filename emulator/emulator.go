// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/m6502/bus"
	"github.com/ezrec/m6502/cpu"
	"github.com/ezrec/m6502/internal"
)

var _emulator_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("0x%x", bus.MEMORY_SIZE),
}

// Emulator state. CPU + memory + the program listing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Memory   *bus.Memory  // Flat 64K memory.
	Program  *cpu.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Memory:  bus.NewMemory(),
		Program: &cpu.Program{},
	}

	emu.Cpu.HaltOnBrk = true

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.MergeDefines(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset memory from the program, and reset the CPU to the program entry.
// A program that writes both bytes of VECTOR_RESET starts at that vector,
// otherwise it starts at its origin.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Memory.Reset()

	start, image := emu.Program.Binary()
	err = emu.Memory.Load(start, image)
	if err != nil {
		err = errors.Join(ErrProgramLoad, err)
		return
	}

	emu.Cpu.Reset()
	emu.Cpu.HaltOnBrk = true
	emu.Cpu.Pc = emu.Program.Origin()
	if emu.writes(cpu.VECTOR_RESET) && emu.writes(cpu.VECTOR_RESET+1) {
		emu.Cpu.Pc = bus.ReadWord(emu.Memory, cpu.VECTOR_RESET)
	}

	if emu.Verbose {
		log.Printf("emulator: %d bytes at $%04X, origin $%04X", len(image), start, emu.Cpu.Pc)
	}

	return
}

// writes reports whether the program listing stores a byte at address.
func (emu *Emulator) writes(address uint16) bool {
	return emu.Program.Debug(address).Opcode != nil
}

// Load a raw binary image at start, and reset to execute from start,
// or from VECTOR_RESET if the image covers it.
// The listing has a single opcode, with no source line.
func (emu *Emulator) Load(start uint16, image []uint8) (err error) {
	if int(start)+len(image) > bus.MEMORY_SIZE {
		err = errors.Join(ErrProgramLoad, &bus.ErrLoadRange{Start: start, Length: len(image)})
		return
	}

	emu.Program = &cpu.Program{
		Opcodes: []cpu.Opcode{
			{Address: start, Words: []string{".byte"}, Bytes: image},
		},
	}

	err = emu.Reset()

	return
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// LineNo returns the source line number for the opcode at the program counter.
func (emu *Emulator) LineNo() int {
	return emu.lineAt(emu.Cpu.Pc)
}

func (emu *Emulator) lineAt(address uint16) (lineno int) {
	dbg := emu.Program.Debug(address)
	if dbg.Opcode != nil {
		lineno = dbg.LineNo
	}

	return
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	address := emu.Cpu.Pc
	defer func() {
		if err != nil {
			// A serviced interrupt moves the fault away from the original Pc.
			var eu *cpu.ErrUnsupportedOpcode
			if errors.As(err, &eu) {
				address = eu.Address
			}
			err = &ErrRuntime{LineNo: emu.lineAt(address), Address: address, Err: err}
		}
	}()

	var b bus.Bus = emu.Memory
	if emu.Verbose {
		b = &bus.Trace{Bus: emu.Memory}
	}

	err = emu.Cpu.Tick(b)
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
	}

	return
}

// Run ticks the emulator until it is done.
// A positive limit bounds the number of ticks, the final halting tick
// included; exceeding it returns ErrStepLimit.
func (emu *Emulator) Run(limit int) (err error) {
	for steps := 0; ; steps++ {
		if limit > 0 && steps >= limit {
			err = &ErrRuntime{LineNo: emu.LineNo(), Address: emu.Cpu.Pc, Err: ErrStepLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if done || err != nil {
			return
		}
	}
}
