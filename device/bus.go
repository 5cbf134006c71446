package device

import (
	"iter"
	"slices"
)

const (
	BUS_LIMIT = 1 << 16 // Maximum number of devices, the size of the id space.
)

// busSlot is a connected device, with the id it was connected under.
type busSlot struct {
	id  uint16
	dev Device
}

// Bus owns the set of connected devices.
//
// Ids are recorded at connect time, so later changes to a device's
// header do not change how the bus finds it.
type Bus struct {
	slots []busSlot
}

// Connect adds a device to the bus.
// The bus is unchanged if the device id is already in use, or the bus is full.
func (bus *Bus) Connect(dev Device) (err error) {
	if len(bus.slots) >= BUS_LIMIT {
		err = ErrTooManyDevices
		return
	}

	id := dev.Header().Id
	if _, ok := bus.Lookup(id); ok {
		err = &ErrDevice{Id: id, Err: ErrDeviceIdExists}
		return
	}

	bus.slots = append(bus.slots, busSlot{id: id, dev: dev})

	return
}

// Lookup finds a device by the id it was connected with.
func (bus *Bus) Lookup(id uint16) (dev Device, ok bool) {
	index := slices.IndexFunc(bus.slots, func(slot busSlot) bool {
		return slot.id == id
	})
	if index < 0 {
		return
	}

	return bus.slots[index].dev, true
}

// Len returns the number of connected devices.
func (bus *Bus) Len() int {
	return len(bus.slots)
}

// Ids returns an iterator over the connected device ids, in connection order.
func (bus *Bus) Ids() iter.Seq[uint16] {
	return func(yield func(uint16) bool) {
		for _, slot := range bus.slots {
			if !yield(slot.id) {
				return
			}
		}
	}
}

// Devices returns an iterator over the connected devices, in connection order.
func (bus *Bus) Devices() iter.Seq[Device] {
	return func(yield func(Device) bool) {
		for _, slot := range bus.slots {
			if !yield(slot.dev) {
				return
			}
		}
	}
}
