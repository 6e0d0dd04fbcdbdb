package cpu

import (
	"fmt"

	"github.com/ezrec/m6502/bus"
)

// Disassemble the instruction at address into assembler syntax.
// Branch targets are shown as absolute addresses.
func Disassemble(b bus.Bus, address uint16) (text string, size int, err error) {
	opcode := b.Read(address)
	inst, ok := Lookup(opcode)
	if !ok {
		err = &ErrUnsupportedOpcode{Opcode: opcode, Address: address}
		return
	}

	size = inst.Mode.Size()

	switch inst.Mode {
	case MODE_IMPLIED:
		text = inst.Mnemonic.String()
	case MODE_IMMEDIATE:
		text = fmt.Sprintf("%v #$%02X", inst.Mnemonic, b.Read(address+1))
	case MODE_ABSOLUTE:
		text = fmt.Sprintf("%v $%04X", inst.Mnemonic, bus.ReadWord(b, address+1))
	case MODE_RELATIVE:
		target := branch(address+2, b.Read(address+1), true)
		text = fmt.Sprintf("%v $%04X", inst.Mnemonic, target)
	}

	return
}
