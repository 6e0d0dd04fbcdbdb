package bus

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()

	assert.Equal(uint8(0), mem.Read(0x0000))
	assert.Equal(uint8(0), mem.Read(0xffff))

	mem.Write(0x1234, 0x42)
	assert.Equal(uint8(0x42), mem.Read(0x1234))

	mem.Write(0x1234, 0x24)
	assert.Equal(uint8(0x24), mem.Read(0x1234))

	mem.Reset()
	assert.Equal(uint8(0), mem.Read(0x1234))
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name  string
		start uint16
		data  []uint8
		err   bool
	}){
		{"empty", 0x0000, nil, false},
		{"start", 0x0000, []uint8{0xa9, 0x10, 0xaa, 0xe8, 0x00}, false},
		{"middle", 0x0600, []uint8{0x01, 0x02}, false},
		{"end", 0xfffe, []uint8{0x34, 0x12}, false},
		{"full", 0x0000, make([]uint8, MEMORY_SIZE), false},
		{"overflow", 0xffff, []uint8{0x01, 0x02}, true},
		{"too_big", 0x0000, make([]uint8, MEMORY_SIZE+1), true},
	}

	for _, entry := range table {
		mem := NewMemory()
		mem.Write(0xffff, 0xee)

		err := mem.Load(entry.start, entry.data)
		if entry.err {
			assert.Error(err, entry.name)
			assert.True(errors.Is(err, ErrOutOfRange), entry.name)
			var lr *ErrLoadRange
			assert.True(errors.As(err, &lr), entry.name)
			assert.Equal(entry.start, lr.Start, entry.name)
			assert.Equal(len(entry.data), lr.Length, entry.name)
			// Nothing was written.
			assert.Equal(uint8(0xee), mem.Read(0xffff), entry.name)
			assert.Equal(uint8(0x00), mem.Read(entry.start), entry.name)
			continue
		}

		assert.NoError(err, entry.name)
		for n, value := range entry.data {
			assert.Equal(value, mem.Read(entry.start+uint16(n)), entry.name)
		}
	}
}

func TestReadWord(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory()
	WriteWord(mem, 0x1000, 0xbeef)
	assert.Equal(uint8(0xef), mem.Read(0x1000))
	assert.Equal(uint8(0xbe), mem.Read(0x1001))
	assert.Equal(uint16(0xbeef), ReadWord(mem, 0x1000))

	// High byte wraps to address zero.
	mem.Write(0xffff, 0x34)
	mem.Write(0x0000, 0x12)
	assert.Equal(uint16(0x1234), ReadWord(mem, 0xffff))
}

func TestTrace(t *testing.T) {
	assert := assert.New(t)

	var logged bytes.Buffer
	log.SetOutput(&logged)
	defer log.SetOutput(os.Stderr)
	log.SetFlags(0)
	defer log.SetFlags(log.LstdFlags)

	mem := NewMemory()
	tr := &Trace{Bus: mem}

	tr.Write(0x0200, 0x7f)
	assert.Equal(uint8(0x7f), mem.Read(0x0200))
	assert.Equal(uint8(0x7f), tr.Read(0x0200))

	assert.Equal("bus: write $0200 <- $7F\nbus: read $0200 -> $7F\n", logged.String())
}
