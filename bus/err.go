package bus

import (
	"errors"

	"github.com/ezrec/m6502/translate"
)

var f = translate.From

var (
	// Memory errors
	ErrOutOfRange = errors.New(f("out of range"))
)

// ErrLoadRange is returned when an image would run past the end of the
// address space.
type ErrLoadRange struct {
	Start  uint16
	Length int
}

func (err *ErrLoadRange) Error() string {
	return f("load of %d bytes at $%04X exceeds $FFFF", err.Length, err.Start)
}

func (err *ErrLoadRange) Is(target error) bool {
	return target == ErrOutOfRange
}
