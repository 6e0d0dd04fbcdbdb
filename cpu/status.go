package cpu

// Status register flags.
const (
	FLAG_CARRY     = uint8(1 << 0) // C
	FLAG_ZERO      = uint8(1 << 1) // Z
	FLAG_INTERRUPT = uint8(1 << 2) // I
	FLAG_DECIMAL   = uint8(1 << 3) // D
	FLAG_BREAK     = uint8(1 << 4) // B
	FLAG_UNUSED    = uint8(1 << 5) // -
	FLAG_OVERFLOW  = uint8(1 << 6) // V
	FLAG_NEGATIVE  = uint8(1 << 7) // N
)

// Interrupt vectors. Each holds a little-endian address.
const (
	VECTOR_NMI   = uint16(0xfffa)
	VECTOR_RESET = uint16(0xfffc)
	VECTOR_IRQ   = uint16(0xfffe)
)

const (
	STACK_PAGE  = uint16(0x0100) // Base of the stack page.
	STACK_RESET = uint8(0xfd)    // Stack pointer after reset.
)

// Flag returns true if all bits of flag are set in the status register.
func (cpu *Cpu) Flag(flag uint8) bool {
	return (cpu.Status & flag) == flag
}

// SetFlag sets or clears the flag bits in the status register.
func (cpu *Cpu) SetFlag(flag uint8, on bool) {
	if on {
		cpu.Status |= flag
	} else {
		cpu.Status &^= flag
	}
}

// updateZeroNegative sets Z and N from a result. Other flags are untouched.
func (cpu *Cpu) updateZeroNegative(result uint8) {
	cpu.SetFlag(FLAG_ZERO, result == 0)
	cpu.SetFlag(FLAG_NEGATIVE, (result&0x80) != 0)
}

// StatusString renders the status register as NV-BDIZC, upper case when set.
func StatusString(status uint8) string {
	const letters = "czidb-vn"

	out := make([]byte, 8)
	for n := range 8 {
		c := letters[n]
		if c != '-' && (status&(1<<n)) != 0 {
			c -= 'a' - 'A'
		}
		out[7-n] = c
	}

	return string(out)
}
