package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("out of range", From("out of range"))
	assert.Equal("opcode $FF at $0302", From("opcode $%02X at $%04X", 0xff, 0x302))

	var tag language.Tag = Language()
	assert.Equal(tag.String(), Language().String())
}
