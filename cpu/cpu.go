package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/m6502/bus"
)

var _cpu_defines = map[string]string{
	"VECTOR_NMI":     fmt.Sprintf("0x%x", VECTOR_NMI),
	"VECTOR_RESET":   fmt.Sprintf("0x%x", VECTOR_RESET),
	"VECTOR_IRQ":     fmt.Sprintf("0x%x", VECTOR_IRQ),
	"STACK_PAGE":     fmt.Sprintf("0x%x", STACK_PAGE),
	"FLAG_CARRY":     fmt.Sprintf("0x%x", FLAG_CARRY),
	"FLAG_ZERO":      fmt.Sprintf("0x%x", FLAG_ZERO),
	"FLAG_INTERRUPT": fmt.Sprintf("0x%x", FLAG_INTERRUPT),
	"FLAG_BREAK":     fmt.Sprintf("0x%x", FLAG_BREAK),
	"FLAG_NEGATIVE":  fmt.Sprintf("0x%x", FLAG_NEGATIVE),
}

// Cpu is the simulation context for the 6502 subset.
type Cpu struct {
	Verbose   bool // Set to enable verbose logging.
	HaltOnBrk bool // Set to halt, instead of vectoring, when BRK is decoded.
	MaskIrq   bool // Set to hold IRQ requests while FLAG_INTERRUPT is set.

	A      uint8  // Accumulator.
	X      uint8  // Index register.
	Status uint8  // Status flags.
	Pc     uint16 // Program counter.
	Sp     uint8  // Stack pointer, offset into STACK_PAGE.

	Nmi    bool // Latched non-maskable interrupt request.
	Irq    bool // Latched interrupt request.
	Halted bool // Execution stops at the next instruction boundary.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU in the reset state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears A, X, the status register and the program counter.
// - Sets the stack pointer to STACK_RESET.
// - Drops pending interrupt requests and any halt.
// - Zeros the tick counter.
// Configuration (Verbose, HaltOnBrk, MaskIrq) is kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.A = 0
	cpu.X = 0
	cpu.Status = 0
	cpu.Pc = 0
	cpu.Sp = STACK_RESET

	cpu.Nmi = false
	cpu.Irq = false
	cpu.Halted = false

	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{"pc", "a", "x", "sp", "p"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = fmt.Sprintf("%04X", cpu.Pc)
		case "a":
			strval = fmt.Sprintf("%02X", cpu.A)
		case "x":
			strval = fmt.Sprintf("%02X", cpu.X)
		case "sp":
			strval = fmt.Sprintf("%02X", cpu.Sp)
		case "p":
			strval = StatusString(cpu.Status)
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// TriggerNmi latches a non-maskable interrupt request.
func (cpu *Cpu) TriggerNmi() {
	cpu.Nmi = true
}

// TriggerIrq latches an interrupt request.
func (cpu *Cpu) TriggerIrq() {
	cpu.Irq = true
}

// Halt stops execution at the next instruction boundary.
func (cpu *Cpu) Halt() {
	cpu.Halted = true
}

// interrupt pushes the return address and status, and vectors.
func (cpu *Cpu) interrupt(b bus.Bus, vector uint16) {
	if cpu.Verbose {
		log.Printf("cpu: interrupt at $%04X via $%04X", cpu.Pc, vector)
	}

	cpu.PushWord(b, cpu.Pc)
	cpu.PushByte(b, cpu.Status&^FLAG_BREAK)
	cpu.SetFlag(FLAG_INTERRUPT, true)
	cpu.Pc = bus.ReadWord(b, vector)
}

// Run executes instructions until halted, or until an error.
func (cpu *Cpu) Run(b bus.Bus) (err error) {
	for {
		err = cpu.Tick(b)
		if errors.Is(err, ErrHalted) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// Tick services any pending interrupt, then executes a single instruction.
// ErrHalted is returned once the CPU is halted.
func (cpu *Cpu) Tick(b bus.Bus) (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	switch {
	case cpu.Nmi:
		cpu.Nmi = false
		cpu.interrupt(b, VECTOR_NMI)
	case cpu.Irq:
		if cpu.MaskIrq && cpu.Flag(FLAG_INTERRUPT) {
			// Stays latched until interrupts are enabled.
			break
		}
		cpu.Irq = false
		cpu.interrupt(b, VECTOR_IRQ)
	}

	opcode := b.Read(cpu.Pc)

	if inst, ok := Lookup(opcode); ok && inst.Mnemonic == OP_BRK && cpu.HaltOnBrk {
		if cpu.Verbose {
			log.Printf("cpu: halt on BRK at $%04X", cpu.Pc)
		}
		cpu.Halted = true
		err = ErrHalted
		return
	}

	err = cpu.Execute(b, opcode)

	return
}

// branch returns the target of a taken branch, or pc if not taken.
func branch(pc uint16, offset uint8, taken bool) uint16 {
	if !taken {
		return pc
	}

	return pc + uint16(int16(int8(offset)))
}

// Execute executes a single opcode located at the program counter.
// Unsupported opcodes are rejected before any state is changed.
func (cpu *Cpu) Execute(b bus.Bus, opcode uint8) (err error) {
	inst, ok := Lookup(opcode)
	if !ok {
		err = &ErrUnsupportedOpcode{Opcode: opcode, Address: cpu.Pc}
		return
	}

	if cpu.Verbose {
		text, _, _ := Disassemble(b, cpu.Pc)
		log.Printf("cpu: %04X: %v", cpu.Pc, text)
	}

	pc := cpu.Pc
	next_pc := pc + uint16(inst.Mode.Size())

	var operand uint16
	switch inst.Mode {
	case MODE_IMMEDIATE, MODE_RELATIVE:
		operand = uint16(b.Read(pc + 1))
	case MODE_ABSOLUTE:
		operand = bus.ReadWord(b, pc+1)
	}

	switch inst.Mnemonic {
	case OP_LDA:
		if inst.Mode == MODE_IMMEDIATE {
			cpu.A = uint8(operand)
		} else {
			cpu.A = b.Read(operand)
		}
		cpu.updateZeroNegative(cpu.A)
	case OP_STA:
		b.Write(operand, cpu.A)
	case OP_TAX:
		cpu.X = cpu.A
		cpu.updateZeroNegative(cpu.X)
	case OP_INX:
		cpu.X++
		cpu.updateZeroNegative(cpu.X)
	case OP_JMP:
		next_pc = operand
	case OP_BEQ:
		next_pc = branch(next_pc, uint8(operand), cpu.Flag(FLAG_ZERO))
	case OP_BNE:
		next_pc = branch(next_pc, uint8(operand), !cpu.Flag(FLAG_ZERO))
	case OP_BCC:
		next_pc = branch(next_pc, uint8(operand), !cpu.Flag(FLAG_CARRY))
	case OP_BCS:
		next_pc = branch(next_pc, uint8(operand), cpu.Flag(FLAG_CARRY))
	case OP_BMI:
		next_pc = branch(next_pc, uint8(operand), cpu.Flag(FLAG_NEGATIVE))
	case OP_BPL:
		next_pc = branch(next_pc, uint8(operand), !cpu.Flag(FLAG_NEGATIVE))
	case OP_PHA:
		cpu.PushByte(b, cpu.A)
	case OP_PLA:
		cpu.A = cpu.PopByte(b)
		cpu.updateZeroNegative(cpu.A)
	case OP_PHP:
		cpu.PushByte(b, cpu.Status|FLAG_BREAK|FLAG_UNUSED)
	case OP_PLP:
		cpu.Status = cpu.PopByte(b)
	case OP_JSR:
		// The pushed address is the last byte of the JSR; RTS adds one.
		cpu.PushWord(b, next_pc-1)
		next_pc = operand
	case OP_RTS:
		next_pc = cpu.PopWord(b) + 1
	case OP_RTI:
		cpu.Status = cpu.PopByte(b)
		next_pc = cpu.PopWord(b)
	case OP_BRK:
		cpu.PushWord(b, next_pc)
		cpu.PushByte(b, cpu.Status|FLAG_BREAK)
		cpu.SetFlag(FLAG_INTERRUPT, true)
		next_pc = bus.ReadWord(b, VECTOR_IRQ)
	}

	cpu.Pc = next_pc
	cpu.Ticks++

	return
}
