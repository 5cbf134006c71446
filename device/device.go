// Package device provides the peripheral model of the virtual CPU.
// Every peripheral carries a Header with its type and a unique 16-bit id,
// and exposes a read-like primary action and a write-like secondary action.
// Devices are owned by a Bus, which rejects duplicate ids.
package device

import (
	"slices"
)

// Type is the kind of a device.
type Type int

const (
	TYPE_RAM     = Type(0) // ram
	TYPE_CPU     = Type(1) // cpu
	TYPE_DISK    = Type(2) // disk
	TYPE_DISPLAY = Type(3) // display
)

var typeNames = [...]string{"ram", "cpu", "disk", "display"}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return f("type(%d)", int(t))
	}
	return typeNames[t]
}

// Header describes a device.
type Header struct {
	Type Type
	Id   uint16

	// Info holds device specific data, ie the size of a RAM in words.
	Info []uint16
}

// NewHeader creates a new device header.
func NewHeader(kind Type, id uint16, info ...uint16) Header {
	return Header{
		Type: kind,
		Id:   id,
		Info: slices.Clone(info),
	}
}

// Device defines the capability every peripheral implements.
type Device interface {
	// Header returns the device header.
	Header() *Header
	// Primary performs the device's read-like action.
	Primary(arg uint16) (value uint16, err error)
	// Secondary performs the device's write-like action.
	// Actions without a data result return ErrNoOutput.
	Secondary(value uint16, arg uint16) (result uint16, err error)
}

// Worker is implemented by devices that accept a variable argument list.
// args[0] selects the action.
type Worker interface {
	Work(args ...uint16) (results []uint16, err error)
}
