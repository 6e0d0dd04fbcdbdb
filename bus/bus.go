// Package bus provides the address bus used by the m6502 CPU.
//
// A Bus moves single bytes over a 16-bit address space. Every address is
// always valid, so reads and writes have no error channel. Memory is the
// flat 64K RAM implementation, and Trace decorates any Bus with access logging.
package bus

// Bus defines the interface between the CPU and storage or devices.
type Bus interface {
	// Read returns the byte at the address.
	Read(address uint16) uint8
	// Write replaces the byte at the address.
	Write(address uint16, value uint8)
}

// ReadWord reads a little-endian 16-bit value. The high byte address wraps
// at 0xFFFF.
func ReadWord(b Bus, address uint16) uint16 {
	lo := uint16(b.Read(address))
	hi := uint16(b.Read(address + 1))

	return (hi << 8) | lo
}

// WriteWord writes a little-endian 16-bit value.
func WriteWord(b Bus, address uint16, value uint16) {
	b.Write(address, uint8(value&0xff))
	b.Write(address+1, uint8(value>>8))
}
