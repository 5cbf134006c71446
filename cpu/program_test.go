package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Lines: []Line{
			{LineNo: 1, Ip: 0, Words: []string{"set", "0x10", "r0"},
				Inst: MakeInstructionImm(OP_SET, OPERAND_IMM, OPERAND_R0, 0x10)},
			{LineNo: 3, Ip: 1, Words: []string{"add", "r0", "r1"},
				Inst: MakeInstruction(OP_ADD, OPERAND_R0, OPERAND_R1)},
			{LineNo: 4, Ip: 2, Words: []string{"hlt"},
				Inst: MakeInstruction(OP_HLT, OPERAND_NONE, OPERAND_NONE)},
		},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	line := prog.Debug(0)
	assert.NotNil(line)
	assert.Equal(1, line.LineNo)

	line = prog.Debug(1)
	assert.NotNil(line)
	assert.Equal(3, line.LineNo)

	line = prog.Debug(2)
	assert.NotNil(line)
	assert.Equal(4, line.LineNo)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Nil(prog.Debug(10))

	empty := &Program{}
	assert.Nil(empty.Debug(0))
}

func TestProgram_Fetch(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	inst, ok := prog.Fetch(1)
	assert.True(ok)
	assert.Equal(OP_ADD, inst.Opcode())

	_, ok = prog.Fetch(3)
	assert.False(ok)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()
	assert.Equal([]uint32{0x03_15_0010, 0x07_21_0000, 0x02_00_0000}, prog.Binary())

	for ip, word := range prog.Binary() {
		inst, _ := prog.Fetch(uint16(ip))
		assert.Equal(inst, DecodeWord(word))
	}
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	var ips []uint16
	for ip := range prog.Codes() {
		ips = append(ips, ip)
		if ip == 1 {
			break
		}
	}
	assert.Equal([]uint16{0, 1}, ips)
}
