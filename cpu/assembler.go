// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const (
	PROGRAM_LIMIT = 1 << 16 // Maximum instructions addressable by the ip.
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the three letter mnemonics.
//
// Each line is: [label:] mnemonic [src] [dst] ; comment
//
// Sources are r0-r3 or a value, destinations are r0-r3 (or a value for str).
// Values may be numbers, 'c' characters, .equ names, or $(...) expressions.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to ip.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var mnemonicMap = map[string]Opcode{
	"inv": OP_INV,
	"nop": OP_NOP,
	"hlt": OP_HLT,
	"set": OP_SET,
	"srd": OP_SRD,
	"lod": OP_LOD,
	"str": OP_STR,
	"add": OP_ADD,
}

var registerMap = map[string]Operand{
	"r0": OPERAND_R0,
	"r1": OPERAND_R1,
	"r2": OPERAND_R2,
	"r3": OPERAND_R3,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint16, err error) {
	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil || v64 > 0xffff || v64 < -0x8000 {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)
	if invert {
		value = ^value
	}

	return
}

// operand decodes a register or immediate word.
func (asm *Assembler) operand(word string) (sel Operand, imm uint16, err error) {
	sel, ok := registerMap[word]
	if ok {
		return
	}

	imm, err = asm.valueOf(word)
	if err != nil {
		return
	}

	sel = OPERAND_IMM
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates. They may be registers.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 > 0xffff || st_int64 < -0x8000 {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			switch str[1:] {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, is_label := asm.Label[label]
		_, is_equate := asm.Equate[label]
		if is_label || is_equate {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = len(asm.Lines)
		asm.Equate[label] = fmt.Sprintf("%v", len(asm.Lines))
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// parseWords assembles the words of a line into an instruction.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	if len(words) == 0 {
		return
	}

	op, ok := mnemonicMap[strings.ToLower(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	if len(args) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	src := OPERAND_NONE
	dst := OPERAND_NONE
	var imm uint16
	if len(args) > 0 {
		src, imm, err = asm.operand(args[0])
		if err != nil {
			return
		}
	}
	if len(args) > 1 {
		var dst_imm uint16
		dst, dst_imm, err = asm.operand(args[1])
		if err != nil {
			return
		}
		if dst == OPERAND_IMM {
			// There is only one immediate field.
			if src == OPERAND_IMM && imm != dst_imm {
				err = ErrOperandInvalid
				return
			}
			imm = dst_imm
		}
	}

	if op == OP_INV {
		if len(args) != 0 {
			err = ErrOpcodeExtraArgs
			return
		}
	} else if !op.Legal(src, dst) {
		err = ErrOperandInvalid
		return
	}

	if len(asm.Lines) >= PROGRAM_LIMIT {
		err = ErrProgramTooLong
		return
	}

	line := Line{
		LineNo: lineno,
		Ip:     len(asm.Lines),
		Words:  slices.Clone(words),
		Inst:   MakeInstructionImm(op, src, dst, imm),
	}

	if asm.Verbose {
		log.Printf("%04x: %v", line.Ip, line.Inst)
	}

	asm.Lines = append(asm.Lines, line)

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = nil
	asm.Label = make(map[string]int)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(strings.Split(text, ";")[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	prog = &Program{Lines: asm.Lines}

	return
}
