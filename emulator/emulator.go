// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator drives the CPU through an assembled program.
package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/ezrec/vcpu/cpu"
	"github.com/ezrec/vcpu/device"
	"github.com/ezrec/vcpu/internal"
)

const (
	RAM_ID = 0 // Id of the default RAM device.
)

var _emulator_defines = map[string]string{
	"RAM_ID": fmt.Sprintf("%v", RAM_ID),
}

// Emulator state. CPU + RAM + program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Ram *device.Ram // Default RAM device.
}

// NewEmulator creates a new emulator, with the default RAM selected.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
		Ram:     device.NewRam(RAM_ID),
	}

	// Neither can fail on an empty bus.
	_ = emu.Cpu.ConnectDevice(emu.Ram)
	_ = emu.Cpu.SelectRamDevice(RAM_ID)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Ram.Defines(),
	)
}

// Assembler returns an assembler with the emulator defines predefined.
func (emu *Emulator) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	return
}

// Reset the CPU and default RAM, and reselect the default RAM.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()
	emu.Ram.Reset()

	return emu.Cpu.SelectRamDevice(RAM_ID)
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	line := emu.Program.Debug(emu.Cpu.Ip)
	if line == nil {
		return 0
	}

	return line.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set when the program halts, or runs off its end.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	inst, ok := emu.Program.Fetch(emu.Cpu.Ip)
	if !ok {
		done = true
		return
	}

	skipped := (emu.Cpu.Flags & cpu.FLAG_NOP) != 0

	err = emu.Cpu.Execute(inst)
	if err != nil {
		return
	}

	emu.Cpu.Ip++

	if inst.Opcode() == cpu.OP_HLT && !skipped {
		done = true
	}

	return
}

// Run ticks the emulator until it is done, or fails.
func (emu *Emulator) Run() (err error) {
	for done := false; !done; {
		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
