package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/vcpu/device"
)

// Flag register bits.
const (
	// FLAG_NOP is set by a nop, and causes the next instruction to be skipped.
	FLAG_NOP = uint16(1 << 0)
)

var _cpu_defines = map[string]string{
	"FLAG_NOP": fmt.Sprintf("%#x", FLAG_NOP),
}

// Cpu is the simulation context for the virtual CPU.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [4]uint16 // General purpose registers r0-r3.
	Flags    uint16    // Flags register.
	Ip       uint16    // Instruction pointer, advanced by the driver.

	Bus device.Bus // Connected devices.

	ramId       uint16 // Id of the active RAM device.
	ramSelected bool
}

// NewCpu creates a new CPU with no devices connected.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X\n", fmt.Sprintf("r%d", n), val)
	}
	text += fmt.Sprintf("% 5s: %04X\n", "flags", cpu.Flags)
	text += fmt.Sprintf("% 5s: %04X\n", "ip", cpu.Ip)

	ram := "----"
	if cpu.ramSelected {
		ram = fmt.Sprintf("%04X", cpu.ramId)
	}
	text += fmt.Sprintf("% 5s: %v\n", "ram", ram)

	return
}

// Reset clears the registers, flags and instruction pointer.
// Connected devices and the RAM device selection are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Flags = 0
	cpu.Ip = 0
}

// ConnectDevice connects a device to the CPU's bus.
func (cpu *Cpu) ConnectDevice(dev device.Device) (err error) {
	err = cpu.Bus.Connect(dev)
	if err != nil {
		return
	}

	if cpu.Verbose {
		hdr := dev.Header()
		log.Printf("cpu: connect %v %d", hdr.Type, hdr.Id)
	}

	return
}

// SelectRamDevice makes the device with the id the target of lod and str.
// On failure the prior selection is kept.
func (cpu *Cpu) SelectRamDevice(id uint16) (err error) {
	_, ok := cpu.Bus.Lookup(id)
	if !ok {
		err = &device.ErrDevice{Id: id, Err: device.ErrDeviceDoesNotExist}
		return
	}

	cpu.ramId = id
	cpu.ramSelected = true

	return
}

// RamDevice returns the active RAM device.
// The device is looked up by id on every call.
func (cpu *Cpu) RamDevice() (dev device.Device, err error) {
	if !cpu.ramSelected {
		err = device.ErrDeviceDoesNotExist
		return
	}

	dev, ok := cpu.Bus.Lookup(cpu.ramId)
	if !ok {
		err = &device.ErrDevice{Id: cpu.ramId, Err: device.ErrDeviceDoesNotExist}
		return
	}

	return
}

// srcValue gets the value of the instruction's source operand.
func (cpu *Cpu) srcValue(inst Instruction) (value uint16) {
	src := inst.Src()
	if reg, ok := src.Register(); ok {
		return cpu.Register[reg]
	}
	if src == OPERAND_IMM {
		return inst.Imm()
	}
	return 0
}

// dstRegister gets the register index of the instruction's destination.
func (cpu *Cpu) dstRegister(inst Instruction) (reg int, err error) {
	reg, ok := inst.Dst().Register()
	if !ok {
		err = ErrOpcodeDst
	}
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(inst), err)
		}
	}()

	if (cpu.Flags & FLAG_NOP) != 0 {
		if cpu.Verbose {
			log.Printf("%04x: %v (skipped)", cpu.Ip, inst)
		}
		cpu.Flags &^= FLAG_NOP
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Ip, inst)
	}

	src := cpu.srcValue(inst)

	switch inst.Opcode() {
	case OP_INV:
		err = ErrProgram
	case OP_NOP:
		cpu.Flags |= FLAG_NOP
	case OP_HLT:
		// The driver stops.
	case OP_SET:
		var dst int
		dst, err = cpu.dstRegister(inst)
		if err != nil {
			return
		}
		cpu.Register[dst] = src
	case OP_SRD:
		err = cpu.SelectRamDevice(src)
	case OP_LOD:
		var dst int
		dst, err = cpu.dstRegister(inst)
		if err != nil {
			return
		}
		var ram device.Device
		ram, err = cpu.RamDevice()
		if err != nil {
			return
		}
		var value uint16
		value, err = ram.Primary(src)
		if err != nil {
			return
		}
		cpu.Register[dst] = value
	case OP_STR:
		var addr uint16
		if inst.Dst() == OPERAND_IMM {
			addr = inst.Imm()
		} else {
			var dst int
			dst, err = cpu.dstRegister(inst)
			if err != nil {
				return
			}
			addr = cpu.Register[dst]
		}
		var ram device.Device
		ram, err = cpu.RamDevice()
		if err != nil {
			return
		}
		_, err = ram.Secondary(src, addr)
		if errors.Is(err, device.ErrNoOutput) {
			err = nil
		}
	case OP_ADD:
		var dst int
		dst, err = cpu.dstRegister(inst)
		if err != nil {
			return
		}
		cpu.Register[dst] += src
	}

	return
}
