package cpu

import (
	"iter"
)

// Line is a line of assembled code with its source location and
// generated instruction.
type Line struct {
	LineNo int
	Ip     int
	Words  []string
	Inst   Instruction
}

// Program is an assembled instruction stream.
type Program struct {
	Lines []Line
}

// Debug returns the source line for the instruction at ip, or nil.
func (prog *Program) Debug(ip uint16) (line *Line) {
	for n, op := range prog.Lines {
		if int(ip) == op.Ip {
			line = &prog.Lines[n]
			break
		}
	}

	return
}

// Fetch returns the instruction at ip.
func (prog *Program) Fetch(ip uint16) (inst Instruction, ok bool) {
	line := prog.Debug(ip)
	if line == nil {
		return
	}

	return line.Inst, true
}

// Binary returns the program as a sequence of 32-bit instruction words.
func (prog *Program) Binary() (bins []uint32) {
	for _, inst := range prog.Codes() {
		bins = append(bins, inst.Word())
	}

	return
}

// Codes returns an iterator over the instructions, by ip.
func (prog *Program) Codes() iter.Seq2[uint16, Instruction] {
	return func(yield func(ip uint16, inst Instruction) bool) {
		for _, op := range prog.Lines {
			if !yield(uint16(op.Ip), op.Inst) {
				return
			}
		}
	}
}
