package cpu

import (
	"iter"
)

// CodeLink selects how a label address is patched into an opcode's bytes.
type CodeLink int

const (
	LINK_NONE     = CodeLink(0) // No label.
	LINK_ABSOLUTE = CodeLink(1) // Bytes[1:3], little-endian.
	LINK_RELATIVE = CodeLink(2) // Bytes[1], signed offset from the next opcode.
	LINK_LOW      = CodeLink(3) // Bytes[1], low byte.
	LINK_HIGH     = CodeLink(4) // Bytes[1], high byte.
	LINK_WORD     = CodeLink(5) // Bytes[0:2], little-endian.
)

// Opcode represents a line of assembled code with its source location and
// generated bytes.
type Opcode struct {
	LineNo    int
	Address   uint16
	Words     []string
	Bytes     []uint8
	LinkLabel string
	Link      CodeLink
}

// link patches the label's address into the opcode bytes.
func (op *Opcode) link(target uint16) (err error) {
	switch op.Link {
	case LINK_ABSOLUTE:
		op.Bytes[1] = uint8(target & 0xff)
		op.Bytes[2] = uint8(target >> 8)
	case LINK_WORD:
		op.Bytes[0] = uint8(target & 0xff)
		op.Bytes[1] = uint8(target >> 8)
	case LINK_LOW:
		op.Bytes[1] = uint8(target & 0xff)
	case LINK_HIGH:
		op.Bytes[1] = uint8(target >> 8)
	case LINK_RELATIVE:
		op.Bytes[1], err = relative(op.Address, target)
	}

	return
}

// relative returns the branch offset from the branch at address to target.
func relative(address uint16, target uint16) (offset uint8, err error) {
	delta := int(int16(target - (address + 2)))
	if delta < -128 || delta > 127 {
		err = ErrBranchRange
		return
	}

	offset = uint8(int8(delta))
	return
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

func (prog *Program) Debug(address uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(address) >= int(op.Address) && int(address) < int(op.Address)+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(address - op.Address),
			}
			break
		}
	}

	return
}

// Origin is the address of the first opcode, where execution starts.
func (prog *Program) Origin() (origin uint16) {
	if len(prog.Opcodes) > 0 {
		origin = prog.Opcodes[0].Address
	}

	return
}

// Binary returns a contiguous image covering every opcode. Gaps are zero.
// An opcode running past $FFFF extends the image past the address space.
func (prog *Program) Binary() (start uint16, image []uint8) {
	if len(prog.Opcodes) == 0 {
		return
	}

	low := int(prog.Opcodes[0].Address)
	high := low
	for _, op := range prog.Opcodes {
		low = min(low, int(op.Address))
		high = max(high, int(op.Address)+len(op.Bytes))
	}

	start = uint16(low)
	image = make([]uint8, high-low)
	for _, op := range prog.Opcodes {
		copy(image[int(op.Address)-low:], op.Bytes)
	}

	return
}

// Codes iterates over every assembled byte with its address.
func (prog *Program) Codes() iter.Seq2[uint16, uint8] {
	return func(yield func(address uint16, value uint8) bool) {
		for _, op := range prog.Opcodes {
			for n, value := range op.Bytes {
				if !yield(op.Address+uint16(n), value) {
					return
				}
			}
		}
	}
}
