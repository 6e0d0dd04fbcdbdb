package bus

import (
	"log"
)

// Trace forwards to another Bus, logging every access.
type Trace struct {
	Bus Bus
}

var _ Bus = (*Trace)(nil)

func (tr *Trace) Read(address uint16) (value uint8) {
	value = tr.Bus.Read(address)
	log.Printf("bus: read $%04X -> $%02X", address, value)
	return
}

func (tr *Trace) Write(address uint16, value uint8) {
	log.Printf("bus: write $%04X <- $%02X", address, value)
	tr.Bus.Write(address, value)
}
