package bus

const (
	MEMORY_SIZE = 0x10000 // Bytes in the 16-bit address space.
)

// Memory is a flat 64K RAM.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

var _ Bus = (*Memory)(nil)

// NewMemory returns zeroed memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{}

	return
}

func (mem *Memory) Read(address uint16) uint8 {
	return mem.Data[address]
}

func (mem *Memory) Write(address uint16, value uint8) {
	mem.Data[address] = value
}

// Load copies an image into memory at start. An image that would run past
// 0xFFFF is rejected before any byte is written.
func (mem *Memory) Load(start uint16, data []uint8) (err error) {
	if int(start)+len(data) > MEMORY_SIZE {
		err = &ErrLoadRange{Start: start, Length: len(data)}
		return
	}

	copy(mem.Data[start:], data)

	return
}

// Reset zeroes all of memory.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
}
