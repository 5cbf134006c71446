package cpu

import (
	"errors"

	"github.com/ezrec/vcpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrProgram   = errors.New(f("program error"))
	ErrOpcodeDst = errors.New(f("destination is not a register"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOperandInvalid  = errors.New(f("operand invalid"))
	ErrProgramTooLong  = errors.New(f("program too long"))
)

// ErrOpcode tags an execution error with the instruction that caused it.
type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	inst := Instruction(eo)
	return f("bad opcode 0x%08x %v", inst.Word(), inst.String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax is an assembly error at a source line.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
