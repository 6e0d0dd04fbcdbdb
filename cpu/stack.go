package cpu

import (
	"github.com/ezrec/m6502/bus"
)

// PushByte writes to the stack page, then decrements the stack pointer.
func (cpu *Cpu) PushByte(b bus.Bus, value uint8) {
	b.Write(STACK_PAGE|uint16(cpu.Sp), value)
	cpu.Sp--
}

// PopByte increments the stack pointer, then reads from the stack page.
func (cpu *Cpu) PopByte(b bus.Bus) (value uint8) {
	cpu.Sp++
	value = b.Read(STACK_PAGE | uint16(cpu.Sp))
	return
}

// PushWord pushes the high byte, then the low byte.
func (cpu *Cpu) PushWord(b bus.Bus, value uint16) {
	cpu.PushByte(b, uint8(value>>8))
	cpu.PushByte(b, uint8(value&0xff))
}

// PopWord pops the low byte, then the high byte.
func (cpu *Cpu) PopWord(b bus.Bus) (value uint16) {
	lo := uint16(cpu.PopByte(b))
	hi := uint16(cpu.PopByte(b))
	value = (hi << 8) | lo
	return
}
