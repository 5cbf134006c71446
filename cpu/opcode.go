package cpu

import (
	"fmt"
)

// Opcode is the operation an instruction requests.
type Opcode byte

const (
	OP_INV = Opcode(0) // inv
	OP_NOP = Opcode(1) // nop
	OP_HLT = Opcode(2) // hlt
	OP_SET = Opcode(3) // set
	OP_SRD = Opcode(4) // srd
	OP_LOD = Opcode(5) // lod
	OP_STR = Opcode(6) // str
	OP_ADD = Opcode(7) // add
)

var opcodeNames = [...]string{"inv", "nop", "hlt", "set", "srd", "lod", "str", "add"}

// DecodeOpcode decodes a raw opcode byte. Unknown values decode to OP_INV.
func DecodeOpcode(value byte) Opcode {
	if int(value) >= len(opcodeNames) {
		return OP_INV
	}
	return Opcode(value)
}

func (op Opcode) String() string {
	return opcodeNames[DecodeOpcode(byte(op))]
}

// Operand selects where a value is read from, or written to.
type Operand byte

const (
	OPERAND_NONE = Operand(0) // -
	OPERAND_R0   = Operand(1) // r0
	OPERAND_R1   = Operand(2) // r1
	OPERAND_R2   = Operand(3) // r2
	OPERAND_R3   = Operand(4) // r3
	OPERAND_IMM  = Operand(5) // imm
)

var operandNames = [...]string{"-", "r0", "r1", "r2", "r3", "imm"}

// DecodeOperand decodes a raw operand selector. Unknown values decode to
// OPERAND_NONE.
func DecodeOperand(value byte) Operand {
	if int(value) >= len(operandNames) {
		return OPERAND_NONE
	}
	return Operand(value)
}

func (sel Operand) String() string {
	return operandNames[DecodeOperand(byte(sel))]
}

// Register returns the register index selected, if any.
func (sel Operand) Register() (index int, ok bool) {
	if sel >= OPERAND_R0 && sel <= OPERAND_R3 {
		return int(sel - OPERAND_R0), true
	}
	return
}

// Operand classes used by the legality table.
const (
	opNone = 1 << iota
	opReg
	opImm
)

func (sel Operand) class() int {
	switch sel {
	case OPERAND_NONE:
		return opNone
	case OPERAND_R0, OPERAND_R1, OPERAND_R2, OPERAND_R3:
		return opReg
	case OPERAND_IMM:
		return opImm
	default:
		return 0
	}
}

// Legal source -> destination operand classes per opcode.
var legal = map[Opcode][2]int{
	OP_NOP: {opNone, opNone},
	OP_HLT: {opNone, opNone},
	OP_SET: {opReg | opImm, opReg},
	OP_SRD: {opReg | opImm, opNone},
	OP_LOD: {opReg | opImm, opReg},
	OP_STR: {opReg | opImm, opReg | opImm},
	OP_ADD: {opReg | opImm, opReg},
}

// Legal returns true if the source and destination are permitted for the opcode.
func (op Opcode) Legal(src, dst Operand) bool {
	classes, ok := legal[op]
	if !ok {
		return false
	}

	return (classes[0]&src.class()) != 0 && (classes[1]&dst.class()) != 0
}

// Instruction is a single decoded instruction.
//
// The operand byte holds the source selector in bits 0..4, and the
// destination selector in bits 4..8.
type Instruction struct {
	opcode   byte
	operands byte
	imm      uint16
}

// MakeInstruction creates an instruction without an immediate.
func MakeInstruction(op Opcode, src, dst Operand) Instruction {
	return Instruction{
		opcode:   byte(op),
		operands: (byte(src) & 0xf) | (byte(dst)&0xf)<<4,
	}
}

// MakeInstructionImm creates an instruction with an immediate.
func MakeInstructionImm(op Opcode, src, dst Operand, imm uint16) Instruction {
	inst := MakeInstruction(op, src, dst)
	inst.imm = imm
	return inst
}

// DecodeWord decodes an instruction from its 32-bit word encoding.
func DecodeWord(word uint32) Instruction {
	return Instruction{
		opcode:   byte(word >> 24),
		operands: byte(word >> 16),
		imm:      uint16(word),
	}
}

// Word returns the 32-bit encoding of the instruction:
// opcode in bits 24..32, operands in bits 16..24, immediate in bits 0..16.
func (inst Instruction) Word() uint32 {
	return uint32(inst.opcode)<<24 | uint32(inst.operands)<<16 | uint32(inst.imm)
}

// Opcode returns the decoded opcode.
func (inst Instruction) Opcode() Opcode {
	return DecodeOpcode(inst.opcode)
}

// Src returns the decoded source operand.
func (inst Instruction) Src() Operand {
	return DecodeOperand(inst.operands & 0xf)
}

// Dst returns the decoded destination operand.
func (inst Instruction) Dst() Operand {
	return DecodeOperand(inst.operands >> 4)
}

// Imm returns the immediate value.
func (inst Instruction) Imm() uint16 {
	return inst.imm
}

func (inst Instruction) String() string {
	arg := func(sel Operand) string {
		if sel == OPERAND_IMM {
			return fmt.Sprintf("%#x", inst.imm)
		}
		return sel.String()
	}

	switch inst.Opcode() {
	case OP_INV, OP_NOP, OP_HLT:
		return inst.Opcode().String()
	case OP_SRD:
		return fmt.Sprintf("%v %v", inst.Opcode(), arg(inst.Src()))
	}

	return fmt.Sprintf("%v %v %v", inst.Opcode(), arg(inst.Src()), arg(inst.Dst()))
}
