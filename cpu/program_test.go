package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x0200, Words: []string{"lda", "#$10"}, Bytes: []uint8{0xa9, 0x10}},
			{LineNo: 2, Address: 0x0202, Words: []string{"tax"}, Bytes: []uint8{0xaa}},
			{LineNo: 3, Address: 0x0203, Words: []string{"sta", "$1234"}, Bytes: []uint8{0x8d, 0x34, 0x12}},
			{LineNo: 5, Address: 0x0210, Words: []string{".word", "$beef"}, Bytes: []uint8{0xef, 0xbe}},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0x0200)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x0201)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x0205)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(2, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0x0206)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(0x0000)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	start, image := prog.Binary()
	assert.Equal(uint16(0x0200), start)
	assert.Equal(0x12, len(image))
	assert.Equal([]uint8{0xa9, 0x10, 0xaa, 0x8d, 0x34, 0x12}, image[:6])
	assert.Equal(make([]uint8, 10), image[6:0x10])
	assert.Equal([]uint8{0xef, 0xbe}, image[0x10:])
}

func TestProgram_Binary_Empty(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	start, image := prog.Binary()
	assert.Equal(uint16(0), start)
	assert.Nil(image)
	assert.Equal(uint16(0), prog.Origin())
}

func TestProgram_Binary_EndOfMemory(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x0600, Bytes: []uint8{0xe8}},
			{LineNo: 2, Address: 0xfffe, Bytes: []uint8{0x00, 0x06}},
		},
	}

	start, image := prog.Binary()
	assert.Equal(uint16(0x0600), start)
	assert.Equal(0x10000-0x0600, len(image))
	assert.Equal(uint8(0xe8), image[0])
	assert.Equal([]uint8{0x00, 0x06}, image[len(image)-2:])
	assert.Equal(uint16(0x0600), prog.Origin())
}

func TestProgram_Origin(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Address: 0x0800, Bytes: []uint8{0xe8}},
			{LineNo: 2, Address: 0x0200, Bytes: []uint8{0xe8}},
		},
	}

	assert.Equal(uint16(0x0800), prog.Origin())

	start, _ := prog.Binary()
	assert.Equal(uint16(0x0200), start)
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	addresses := []uint16{}
	values := []uint8{}
	for address, value := range prog.Codes() {
		addresses = append(addresses, address)
		values = append(values, value)
		if len(values) == 4 {
			break
		}
	}

	assert.Equal([]uint16{0x0200, 0x0201, 0x0202, 0x0203}, addresses)
	assert.Equal([]uint8{0xa9, 0x10, 0xaa, 0x8d}, values)
}

func TestOpcode_Link(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name   string
		op     Opcode
		target uint16
		bytes  []uint8
		err    error
	}){
		{"absolute", Opcode{Address: 0x0200, Bytes: []uint8{0x4c, 0, 0}, Link: LINK_ABSOLUTE}, 0x1234, []uint8{0x4c, 0x34, 0x12}, nil},
		{"word", Opcode{Address: 0x0200, Bytes: []uint8{0, 0}, Link: LINK_WORD}, 0x1234, []uint8{0x34, 0x12}, nil},
		{"low", Opcode{Address: 0x0200, Bytes: []uint8{0xa9, 0}, Link: LINK_LOW}, 0x1234, []uint8{0xa9, 0x34}, nil},
		{"high", Opcode{Address: 0x0200, Bytes: []uint8{0xa9, 0}, Link: LINK_HIGH}, 0x1234, []uint8{0xa9, 0x12}, nil},
		{"forward", Opcode{Address: 0x0200, Bytes: []uint8{0xd0, 0}, Link: LINK_RELATIVE}, 0x0281, []uint8{0xd0, 0x7f}, nil},
		{"backward", Opcode{Address: 0x0200, Bytes: []uint8{0xd0, 0}, Link: LINK_RELATIVE}, 0x0182, []uint8{0xd0, 0x80}, nil},
		{"wrap", Opcode{Address: 0xfffe, Bytes: []uint8{0xd0, 0}, Link: LINK_RELATIVE}, 0x0004, []uint8{0xd0, 0x04}, nil},
		{"too_far", Opcode{Address: 0x0200, Bytes: []uint8{0xd0, 0}, Link: LINK_RELATIVE}, 0x0282, []uint8{0xd0, 0}, ErrBranchRange},
		{"too_back", Opcode{Address: 0x0200, Bytes: []uint8{0xd0, 0}, Link: LINK_RELATIVE}, 0x0181, []uint8{0xd0, 0}, ErrBranchRange},
	}

	for _, entry := range table {
		op := entry.op
		err := op.link(entry.target)
		if entry.err != nil {
			assert.ErrorIs(err, entry.err, entry.name)
		} else {
			assert.NoError(err, entry.name)
			assert.Equal(entry.bytes, op.Bytes, entry.name)
		}
	}
}
