// Package cpu implements a subset of the MOS 6502 and an assembler for it.
//
// The CPU has an accumulator (A), an index register (X), a status register,
// a 16-bit program counter and an 8-bit stack pointer into page one. All
// storage is reached through a bus.Bus handed to each call, so the engine
// owns no memory of its own.
//
// Execution is one instruction per Tick. Interrupt requests are latched and
// serviced at the next instruction boundary. Unsupported opcodes stop
// execution with an ErrUnsupportedOpcode, before any state is changed.
//
// The assembler accepts the supported mnemonics, labels, equates, macros and
// compile-time $(...) expressions, and produces a Program image.
package cpu
