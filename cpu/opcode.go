package cpu

import (
	"iter"
	"maps"
	"slices"
)

// Mnemonic is an instruction name.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	OP_LDA = Mnemonic(0)  // LDA
	OP_STA = Mnemonic(1)  // STA
	OP_TAX = Mnemonic(2)  // TAX
	OP_INX = Mnemonic(3)  // INX
	OP_JMP = Mnemonic(4)  // JMP
	OP_JSR = Mnemonic(5)  // JSR
	OP_RTS = Mnemonic(6)  // RTS
	OP_RTI = Mnemonic(7)  // RTI
	OP_BRK = Mnemonic(8)  // BRK
	OP_BEQ = Mnemonic(9)  // BEQ
	OP_BNE = Mnemonic(10) // BNE
	OP_BCC = Mnemonic(11) // BCC
	OP_BCS = Mnemonic(12) // BCS
	OP_BMI = Mnemonic(13) // BMI
	OP_BPL = Mnemonic(14) // BPL
	OP_PHA = Mnemonic(15) // PHA
	OP_PLA = Mnemonic(16) // PLA
	OP_PHP = Mnemonic(17) // PHP
	OP_PLP = Mnemonic(18) // PLP
)

// Mode is an operand addressing mode.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_IMPLIED   = Mode(0) // imp
	MODE_IMMEDIATE = Mode(1) // imm
	MODE_ABSOLUTE  = Mode(2) // abs
	MODE_RELATIVE  = Mode(3) // rel
)

// Size returns the instruction length, in bytes, for the mode.
func (mode Mode) Size() int {
	switch mode {
	case MODE_IMMEDIATE, MODE_RELATIVE:
		return 2
	case MODE_ABSOLUTE:
		return 3
	}

	return 1
}

// Instruction is a decoded opcode.
type Instruction struct {
	Opcode   uint8
	Mnemonic Mnemonic
	Mode     Mode
}

var instructionTable = map[uint8]Instruction{
	0xa9: {0xa9, OP_LDA, MODE_IMMEDIATE},
	0xad: {0xad, OP_LDA, MODE_ABSOLUTE},
	0x8d: {0x8d, OP_STA, MODE_ABSOLUTE},
	0xaa: {0xaa, OP_TAX, MODE_IMPLIED},
	0xe8: {0xe8, OP_INX, MODE_IMPLIED},
	0x4c: {0x4c, OP_JMP, MODE_ABSOLUTE},
	0x20: {0x20, OP_JSR, MODE_ABSOLUTE},
	0x60: {0x60, OP_RTS, MODE_IMPLIED},
	0x40: {0x40, OP_RTI, MODE_IMPLIED},
	0x00: {0x00, OP_BRK, MODE_IMPLIED},
	0xf0: {0xf0, OP_BEQ, MODE_RELATIVE},
	0xd0: {0xd0, OP_BNE, MODE_RELATIVE},
	0x90: {0x90, OP_BCC, MODE_RELATIVE},
	0xb0: {0xb0, OP_BCS, MODE_RELATIVE},
	0x30: {0x30, OP_BMI, MODE_RELATIVE},
	0x10: {0x10, OP_BPL, MODE_RELATIVE},
	0x48: {0x48, OP_PHA, MODE_IMPLIED},
	0x68: {0x68, OP_PLA, MODE_IMPLIED},
	0x08: {0x08, OP_PHP, MODE_IMPLIED},
	0x28: {0x28, OP_PLP, MODE_IMPLIED},
}

// Lookup decodes an opcode. ok is false for unsupported opcodes.
func Lookup(opcode uint8) (inst Instruction, ok bool) {
	inst, ok = instructionTable[opcode]
	return
}

// Encode finds the opcode for a mnemonic in an addressing mode.
func Encode(mnemonic Mnemonic, mode Mode) (opcode uint8, ok bool) {
	for _, inst := range instructionTable {
		if inst.Mnemonic == mnemonic && inst.Mode == mode {
			return inst.Opcode, true
		}
	}

	return
}

// Modes returns the addressing modes supported by a mnemonic.
func (mnemonic Mnemonic) Modes() (modes []Mode) {
	for _, inst := range instructionTable {
		if inst.Mnemonic == mnemonic {
			modes = append(modes, inst.Mode)
		}
	}
	slices.Sort(modes)

	return
}

// Instructions iterates over the supported instructions, in opcode order.
func Instructions() iter.Seq[Instruction] {
	return func(yield func(inst Instruction) bool) {
		for _, opcode := range slices.Sorted(maps.Keys(instructionTable)) {
			if !yield(instructionTable[opcode]) {
				return
			}
		}
	}
}
