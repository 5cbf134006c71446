package device

import (
	"encoding/binary"
	"fmt"
	"iter"
	"maps"
)

const (
	RAM_SIZE  = 1 << 16      // RAM size in bytes.
	RAM_WORDS = RAM_SIZE / 2 // RAM size in 16-bit words.
)

// RAM work actions.
const (
	RAM_WORK_INVALID = uint16(0)
	RAM_WORK_READ    = uint16(1) // [1, addr] -> [word]
	RAM_WORK_WRITE   = uint16(2) // [2, addr, word] -> []
)

var _ram_defines = map[string]string{
	"RAM_SIZE":  fmt.Sprintf("%#x", RAM_SIZE),
	"RAM_WORDS": fmt.Sprintf("%#x", RAM_WORDS),
}

// Ram is a word addressed memory over the full 16-bit address space.
// Words are stored big-endian, and addresses are rounded down to even.
type Ram struct {
	hdr  Header
	Data [RAM_SIZE]byte
}

var _ Device = (*Ram)(nil)
var _ Worker = (*Ram)(nil)

// NewRam creates a new, zeroed, RAM device.
func NewRam(id uint16) (ram *Ram) {
	ram = &Ram{
		hdr: NewHeader(TYPE_RAM, id, RAM_WORDS),
	}

	return
}

// Defines returns an iter of the RAM defines.
func (ram *Ram) Defines() iter.Seq2[string, string] {
	return maps.All(_ram_defines)
}

// Header returns the device header.
func (ram *Ram) Header() *Header {
	return &ram.hdr
}

// Reset zeroes the memory.
func (ram *Ram) Reset() {
	clear(ram.Data[:])
}

// Bytes returns the backing store.
func (ram *Ram) Bytes() []byte {
	return ram.Data[:]
}

// Read the word at addr.
func (ram *Ram) Read(addr uint16) uint16 {
	addr &^= 1
	return binary.BigEndian.Uint16(ram.Data[addr:])
}

// Write the word value at addr.
func (ram *Ram) Write(value uint16, addr uint16) {
	addr &^= 1
	binary.BigEndian.PutUint16(ram.Data[addr:], value)
}

// Primary reads the word at addr. It never fails.
func (ram *Ram) Primary(addr uint16) (value uint16, err error) {
	value = ram.Read(addr)
	return
}

// Secondary writes value at addr, and always returns ErrNoOutput.
func (ram *Ram) Secondary(value uint16, addr uint16) (result uint16, err error) {
	ram.Write(value, addr)
	err = ErrNoOutput
	return
}

// Work dispatches a RAM_WORK_* action to Primary or Secondary.
func (ram *Ram) Work(args ...uint16) (results []uint16, err error) {
	if len(args) == 0 {
		err = ErrWrongArgumentCount
		return
	}

	switch args[0] {
	case RAM_WORK_READ:
		if len(args) != 2 {
			err = ErrWrongArgumentCount
			return
		}
		var value uint16
		value, err = ram.Primary(args[1])
		if err != nil {
			return
		}
		results = []uint16{value}
	case RAM_WORK_WRITE:
		if len(args) != 3 {
			err = ErrWrongArgumentCount
			return
		}
		_, err = ram.Secondary(args[2], args[1])
	default:
		err = ErrInvalidInput
	}

	return
}
