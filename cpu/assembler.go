// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/comp/word"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":       "0",
	"RAM_SIZE":     fmt.Sprintf("%d", word.RAM_SIZE),
	"LAST_ADDRESS": fmt.Sprintf("%d", word.LAST_ADDRESS),
	"MAX_VALUE":    fmt.Sprintf("%d", word.MAX_VALUE),
	"INPUT":        fmt.Sprintf("%d", word.LAST_ADDRESS),
	"OUTPUT":       fmt.Sprintf("%d", word.LAST_ADDRESS),
}

// opMap maps mnemonics to operations.
var opMap = func() (ops map[string]CodeOp) {
	ops = make(map[string]CodeOp, OP_COUNT)
	for n := range OP_COUNT {
		op := CodeOp(n)
		ops[op.String()] = op
	}
	return
}()

// Assembler is a two pass assembler for the comp machine.
//
// Each line holds at most one word, optionally preceded by labels:
//
//	.equ NAME VALUE    ; define an equate
//	.code / .data      ; select the section words are placed in
//	.org INDEX         ; move the placement index of the section
//	label: read n      ; instruction mnemonic with operand
//	word VALUE         ; raw word value, or the index of a label
//	bits **--**--      ; raw word in image notation
//	halt               ; write to the last data address
//
// Operands are numbers, equates, labels, or $(...) expressions.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string       // Predefines
	Label     map[string]word.Address // Map of labels to addresses.
	Equate    map[string]string       // Map of equates.

	space word.Space // Current section.
	index [2]int     // Next placement index, per section.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(text string) (value int, err error) {
	if text[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(text[1 : len(text)-1])
		return
	}
	v64, err := strconv.ParseInt(text, 0, 16)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}

	value = int(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be labels
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	err = nil
	for key, adr := range asm.Label {
		pred[key] = starlark.MakeInt(adr.Int())
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
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(text string) string {
		str := text[1 : len(text)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			default:
				return text
			}
		} else if len(str) != 1 {
			return text
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
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

	for n, text := range words {
		// Check for equate next
		equate, ok := asm.Equate[text]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentAddress gets the placement address in the current section.
func (asm *Assembler) currentAddress() word.Address {
	return word.At(asm.space, asm.index[asm.space])
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Opcode = asm.Opcode[:0]
	asm.Label = make(map[string]word.Address, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.space = word.CODE
	asm.index = [2]int{}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			logrus.WithField("line", lineno).Info(text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

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

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		adr, ok := asm.Label[op.LinkLabel]
		if !ok {
			err = ErrLabelMissing(op.LinkLabel)
			return
		}

		if op.Words[0] == "word" {
			op.Code = Code{Word: word.Word(adr.Index)}
			continue
		}

		if op.Code.FirstOrder()[0].Space != adr.Space {
			err = ErrTargetInvalid
			return
		}
		if adr.Int() > op.Code.MaxOperand() {
			err = ErrOperandRange
			return
		}
		op.Code = op.Code.WithOperand(adr.Index)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// operand parses an operand as a number, or defers it to a label link.
func (asm *Assembler) operand(text string, limit int) (value int, label string, err error) {
	value, err = asm.valueOf(text)
	if err == nil {
		if value < 0 || value > limit {
			err = ErrOperandRange
		}
		return
	}

	if _, isNumber := err.(ErrParseNumber); isNumber && !strings.ContainsAny(text[:1], "0123456789-+") {
		err = nil
		label = text
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".code", ".data":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		asm.space = word.CODE
		if words[0] == ".data" {
			asm.space = word.DATA
		}
		return
	case ".org":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var index int
		index, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if index < 0 || index >= word.RAM_SIZE {
			err = ErrOperandRange
			return
		}
		asm.index[asm.space] = index
		return
	}

	if asm.index[asm.space] >= word.RAM_SIZE {
		err = ErrSectionFull
		return
	}

	opcode := Opcode{
		LineNo:  lineno,
		Address: asm.currentAddress(),
		Words:   slices.Clone(words),
	}

	args := words[1:]

	switch words[0] {
	case "word":
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var value int
		value, opcode.LinkLabel, err = asm.operand(args[0], word.MAX_VALUE)
		if err != nil {
			return
		}
		opcode.Code = Code{Word: word.Word(value)}
	case "bits":
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		opcode.Code = Code{Word: word.Parse(args[0])}
	case "halt":
		if len(args) > 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		opcode.Code = MakeCode(OP_WRITE, word.LAST_ADDRESS)
	default:
		op, ok := opMap[words[0]]
		if !ok {
			err = ErrInstructionInvalid
			return
		}
		code := MakeCode(op, 0)
		if code.OperandWidth() == 0 {
			if len(args) > 0 {
				err = ErrOpcodeExtraArgs
				return
			}
			opcode.Code = code
			break
		}
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var value int
		value, opcode.LinkLabel, err = asm.operand(args[0], code.MaxOperand())
		if err != nil {
			return
		}
		opcode.Code = code.WithOperand(uint8(value))
	}

	asm.Opcode = append(asm.Opcode, opcode)
	asm.index[asm.space]++

	return
}
