package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/vcpu/cpu"
	"github.com/ezrec/vcpu/device"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Ram)

	dev, err := emu.Cpu.RamDevice()
	assert.NoError(err)
	assert.Same(emu.Ram, dev)

	// Empty program is done immediately.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func doRun(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	prog, err := emu.Assembler().Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	err = emu.Reset()
	assert.NoError(err)

	var done bool
	for !done {
		line := emu.LineNo()
		done, err = emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("line %d: %v", line, err)
		}
	}
}

func TestEmulatorEndToEnd(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.Cpu.ConnectDevice(device.NewRam(7)))

	program := []string{
		"srd 7",
		"set 10 r1",
		"set 100 r0",
		"str r0 r1",
		"lod 10 r2",
		"hlt",
		"set 0xdead r3", // never reached
	}

	doRun(emu, program, t)

	ram, ok := emu.Cpu.Bus.Lookup(7)
	assert.True(ok)
	assert.Equal([]byte{0, 100}, ram.(*device.Ram).Bytes()[10:12])
	assert.Equal(uint16(100), emu.Cpu.Register[2])
	assert.Equal(uint16(0), emu.Cpu.Register[3])
	assert.Equal(6, emu.Ip())

	// Default RAM untouched.
	assert.Equal(uint16(0), emu.Ram.Read(10))
}

func TestEmulatorNopSkipsHalt(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"nop",
		"hlt", // skipped
		"set 0x42 r0",
		"add ~0 r0", // 0x42 + 0xffff wraps to 0x41
		"str r0 RAM_WORDS",
	}

	doRun(emu, program, t)

	assert.Equal(uint16(0x41), emu.Cpu.Register[0])
	assert.Equal(uint16(0x41), emu.Ram.Read(0x8000))
	assert.Equal(5, emu.Ip())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("0", defines["RAM_ID"])
	assert.Equal("0x1", defines["FLAG_NOP"])
	assert.Equal("0x10000", defines["RAM_SIZE"])
	assert.Equal("0x8000", defines["RAM_WORDS"])
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"set 1 r0",
		"; invalid device",
		"srd 9",
	}

	prog, err := emu.Assembler().Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	emu.Program = prog
	assert.NoError(emu.Reset())

	err = emu.Run()
	assert.ErrorIs(err, device.ErrDeviceDoesNotExist)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(3, runtime.LineNo)
	}

	// Failed instruction does not advance.
	assert.Equal(1, emu.Ip())

	dev, err := emu.Cpu.RamDevice()
	assert.NoError(err)
	assert.Same(emu.Ram, dev)
}

func TestEmulatorInvalid(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Lines: []cpu.Line{
			{LineNo: 1, Ip: 0, Inst: cpu.DecodeWord(0x2a_00_0000)},
		},
	}

	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, cpu.ErrProgram)
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	assert.NoError(emu.Cpu.ConnectDevice(device.NewRam(1)))
	assert.NoError(emu.Cpu.SelectRamDevice(1))
	emu.Ram.Write(0x1234, 0)
	emu.Cpu.Register[0] = 5

	assert.NoError(emu.Reset())
	assert.Equal(uint16(0), emu.Ram.Read(0))
	assert.Equal(uint16(0), emu.Cpu.Register[0])

	dev, err := emu.Cpu.RamDevice()
	assert.NoError(err)
	assert.Same(emu.Ram, dev)
}
