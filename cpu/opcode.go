package cpu

import (
	"fmt"

	"github.com/ezrec/comp/word"
)

// CodeClass is the instruction class held in the first nibble.
type CodeClass int

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_READ          = CodeClass(0)  // READ
	CLASS_WRITE         = CodeClass(1)  // WRITE
	CLASS_ADD           = CodeClass(2)  // ADD
	CLASS_SUB           = CodeClass(3)  // SUB
	CLASS_JUMP          = CodeClass(4)  // JUMP
	CLASS_IF_MAX        = CodeClass(5)  // IF MAX
	CLASS_IF_MIN        = CodeClass(6)  // IF MIN
	CLASS_LOGIC         = CodeClass(7)  // LOGIC
	CLASS_READ_POINTER  = CodeClass(8)  // READ *
	CLASS_WRITE_POINTER = CodeClass(9)  // WRITE *
	CLASS_INC_DEC       = CodeClass(10) // INC/DEC
	CLASS_PRINT         = CodeClass(11) // PRINT
	CLASS_IF_NOT_MAX    = CodeClass(12) // IF NOT MAX
	CLASS_IF_NOT_MIN    = CodeClass(13) // IF NOT MIN
	CLASS_UNASSIGNED_14 = CodeClass(14) // READ
	CLASS_UNASSIGNED_15 = CodeClass(15) // READ
)

// CodeOp is a decoded operation variant.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_READ          = CodeOp(0)  // read
	OP_WRITE         = CodeOp(1)  // write
	OP_ADD           = CodeOp(2)  // add
	OP_SUB           = CodeOp(3)  // sub
	OP_JUMP          = CodeOp(4)  // jump
	OP_IF_MAX        = CodeOp(5)  // ifmax
	OP_IF_MIN        = CodeOp(6)  // ifmin
	OP_NOT           = CodeOp(7)  // not
	OP_INIT          = CodeOp(8)  // init
	OP_AND           = CodeOp(9)  // and
	OP_OR            = CodeOp(10) // or
	OP_SHIFT_LEFT    = CodeOp(11) // shl
	OP_SHIFT_RIGHT   = CodeOp(12) // shr
	OP_JUMP_REG      = CodeOp(13) // jumpreg
	OP_READ_REG      = CodeOp(14) // readreg
	OP_XOR           = CodeOp(15) // xor
	OP_READ_POINTER  = CodeOp(16) // read*
	OP_WRITE_POINTER = CodeOp(17) // write*
	OP_INCREASE      = CodeOp(18) // inc
	OP_DECREASE      = CodeOp(19) // dec
	OP_PRINT         = CodeOp(20) // print
	OP_IF_NOT_MAX    = CodeOp(21) // ifnotmax
	OP_IF_NOT_MIN    = CodeOp(22) // ifnotmin

	OP_COUNT = 23 // Number of operation variants.
)

// Logic sub-operations, selected by the operand nibble of CLASS_LOGIC.
// An operand with the high bit set is an XOR with a 3-bit data address.
var logicOps = [8]CodeOp{
	OP_NOT,
	OP_INIT,
	OP_AND,
	OP_OR,
	OP_SHIFT_LEFT,
	OP_SHIFT_RIGHT,
	OP_JUMP_REG,
	OP_READ_REG,
}

// Operations that take their class straight from the first nibble.
var classOps = map[CodeClass]CodeOp{
	CLASS_READ:          OP_READ,
	CLASS_WRITE:         OP_WRITE,
	CLASS_ADD:           OP_ADD,
	CLASS_SUB:           OP_SUB,
	CLASS_JUMP:          OP_JUMP,
	CLASS_IF_MAX:        OP_IF_MAX,
	CLASS_IF_MIN:        OP_IF_MIN,
	CLASS_READ_POINTER:  OP_READ_POINTER,
	CLASS_WRITE_POINTER: OP_WRITE_POINTER,
	CLASS_PRINT:         OP_PRINT,
	CLASS_IF_NOT_MAX:    OP_IF_NOT_MAX,
	CLASS_IF_NOT_MIN:    OP_IF_NOT_MIN,
	CLASS_UNASSIGNED_14: OP_READ,
	CLASS_UNASSIGNED_15: OP_READ,
}

const (
	INIT_OPERAND_INDEX     = uint8(1) // Data bound to OP_INIT.
	AND_OPERAND_INDEX      = uint8(2) // Data bound to OP_AND.
	OR_OPERAND_INDEX       = uint8(3) // Data bound to OP_OR.
	LAST_XOR_OPERAND_INDEX = uint8(7) // Data bound to an XOR of the last 3-bit address.

	INIT_TARGET_INDEX = uint8(0) // Data written by OP_INIT.

	flagHigh = uint8(0x8) // High bit of an operand nibble.
	mask3    = uint8(0x7) // 3-bit operand address.
)

// BoundCodes maps each bound data index to the logic instruction that
// binds it. These data indexes are wired into the instruction encoding and
// cannot be relocated by the editor.
var BoundCodes = map[uint8]Code{
	INIT_OPERAND_INDEX:     MakeCode(OP_INIT, 0),
	AND_OPERAND_INDEX:      MakeCode(OP_AND, 0),
	OR_OPERAND_INDEX:       MakeCode(OP_OR, 0),
	LAST_XOR_OPERAND_INDEX: MakeCode(OP_XOR, LAST_XOR_OPERAND_INDEX),
}

// Code represents a single instruction word.
type Code struct {
	Word word.Word
}

// MakeCode encodes an operation with an operand address index.
// The index is ignored by operations whose operands are fixed, and is
// truncated to the width of the operation's operand field.
func MakeCode(op CodeOp, index uint8) Code {
	makeClass := func(class CodeClass, operand uint8) Code {
		return Code{Word: word.Word(uint8(class)<<word.ADDRESS_SIZE | (operand & 0xf))}
	}

	switch op {
	case OP_INCREASE:
		return makeClass(CLASS_INC_DEC, index&mask3)
	case OP_DECREASE:
		return makeClass(CLASS_INC_DEC, flagHigh|(index&mask3))
	case OP_XOR:
		return makeClass(CLASS_LOGIC, flagHigh|(index&mask3))
	}

	for n, logic := range logicOps {
		if logic == op {
			return makeClass(CLASS_LOGIC, uint8(n))
		}
	}

	for class, classOp := range classOps {
		if classOp == op && class < CLASS_UNASSIGNED_14 {
			return makeClass(class, index)
		}
	}

	panic(fmt.Sprintf("unknown op %v", op))
}

// Class returns the instruction class from the first nibble.
func (code Code) Class() CodeClass {
	return CodeClass(code.Word.FirstNibble())
}

// Operand returns the raw operand nibble.
func (code Code) Operand() uint8 {
	return code.Word.SecondNibble()
}

// Op decodes the operation variant. Every word decodes to exactly one variant.
func (code Code) Op() CodeOp {
	class := code.Class()
	operand := code.Operand()

	switch class {
	case CLASS_LOGIC:
		if operand&flagHigh != 0 {
			return OP_XOR
		}
		return logicOps[operand]
	case CLASS_INC_DEC:
		if operand&flagHigh != 0 {
			return OP_DECREASE
		}
		return OP_INCREASE
	}

	return classOps[class]
}

// FirstOrder returns the statically decodable operand addresses.
// OP_INIT has two: the written target first, then its bound source.
func (code Code) FirstOrder() []word.Address {
	operand := code.Operand()

	switch code.Op() {
	case OP_READ, OP_WRITE, OP_ADD, OP_SUB, OP_READ_POINTER, OP_WRITE_POINTER, OP_PRINT:
		return []word.Address{{Space: word.DATA, Index: operand}}
	case OP_JUMP, OP_IF_MAX, OP_IF_MIN, OP_IF_NOT_MAX, OP_IF_NOT_MIN:
		return []word.Address{{Space: word.CODE, Index: operand}}
	case OP_XOR, OP_INCREASE, OP_DECREASE:
		return []word.Address{{Space: word.DATA, Index: operand & mask3}}
	case OP_AND:
		return []word.Address{{Space: word.DATA, Index: AND_OPERAND_INDEX}}
	case OP_OR:
		return []word.Address{{Space: word.DATA, Index: OR_OPERAND_INDEX}}
	case OP_INIT:
		return []word.Address{
			{Space: word.DATA, Index: INIT_TARGET_INDEX},
			{Space: word.DATA, Index: INIT_OPERAND_INDEX},
		}
	}

	return []word.Address{{Space: word.NONE, Index: word.FIRST_ADDRESS}}
}

// OperandWidth returns the number of relocatable operand bits: 4 for a full
// address nibble, 3 for a 3-bit data address, and 0 for fixed operands.
func (code Code) OperandWidth() int {
	switch code.Op() {
	case OP_XOR, OP_INCREASE, OP_DECREASE:
		return 3
	case OP_NOT, OP_INIT, OP_AND, OP_OR, OP_SHIFT_LEFT, OP_SHIFT_RIGHT, OP_JUMP_REG, OP_READ_REG:
		return 0
	}
	return word.ADDRESS_SIZE
}

// MaxOperand returns the largest index the operand field can encode.
func (code Code) MaxOperand() int {
	return (1 << code.OperandWidth()) - 1
}

// WithOperand splices a new operand index into the relocatable operand
// bits. Codes with fixed operands are returned unchanged.
func (code Code) WithOperand(index uint8) Code {
	switch code.OperandWidth() {
	case word.ADDRESS_SIZE:
		return Code{Word: code.Word.WithSecondNibble(index)}
	case 3:
		return Code{Word: (code.Word &^ word.Word(mask3)) | word.Word(index&mask3)}
	}
	return code
}

// Bound returns the data index bound by a logic instruction.
func (code Code) Bound() (index uint8, ok bool) {
	for index, bound := range BoundCodes {
		if bound == code {
			return index, true
		}
	}
	return
}

// Label returns the visual label of the instruction class.
// Every logic sub-operation shares the LOGIC label.
func (code Code) Label() string {
	return code.Class().String()
}

// String returns the C-like disassembly of the instruction.
func (code Code) String() (text string) {
	n := code.FirstOrder()[0].Index
	last := word.LAST_ADDRESS

	switch code.Op() {
	case OP_READ:
		if n == last {
			return "reg = input();"
		}
		text = fmt.Sprintf("reg = data[%d];", n)
	case OP_WRITE:
		if n == last {
			return "return reg;"
		}
		text = fmt.Sprintf("data[%d] = reg;", n)
	case OP_ADD:
		text = fmt.Sprintf("reg = sadd(reg, data[%d]);", n)
	case OP_SUB:
		text = fmt.Sprintf("reg = ssub(reg, data[%d]);", n)
	case OP_JUMP:
		text = fmt.Sprintf("goto *labels[%d];", n)
	case OP_IF_MAX:
		text = fmt.Sprintf("if (reg == %d) goto *labels[%d];", word.MAX_VALUE, n)
	case OP_IF_MIN:
		text = fmt.Sprintf("if (reg == 0) goto *labels[%d];", n)
	case OP_IF_NOT_MAX:
		text = fmt.Sprintf("if (reg != %d) goto *labels[%d];", word.MAX_VALUE, n)
	case OP_IF_NOT_MIN:
		text = fmt.Sprintf("if (reg != 0) goto *labels[%d];", n)
	case OP_NOT:
		text = "reg = ~reg;"
	case OP_INIT:
		text = fmt.Sprintf("data[%d] = data[%d]; reg = data[%d];",
			INIT_TARGET_INDEX, INIT_OPERAND_INDEX, INIT_TARGET_INDEX)
	case OP_AND:
		text = fmt.Sprintf("reg &= data[%d];", n)
	case OP_OR:
		text = fmt.Sprintf("reg |= data[%d];", n)
	case OP_XOR:
		text = fmt.Sprintf("reg ^= data[%d];", n)
	case OP_SHIFT_LEFT:
		text = "reg <<= 1;"
	case OP_SHIFT_RIGHT:
		text = "reg >>= 1;"
	case OP_JUMP_REG:
		text = fmt.Sprintf("goto *labels[reg&%d];", word.LAST_ADDRESS)
	case OP_READ_REG:
		text = fmt.Sprintf("reg = data[reg&%d];", word.LAST_ADDRESS)
	case OP_READ_POINTER:
		text = fmt.Sprintf("reg = data[data[%d]&%d];", n, word.LAST_ADDRESS)
	case OP_WRITE_POINTER:
		text = fmt.Sprintf("data[data[%d]&%d] = reg;", n, word.LAST_ADDRESS)
	case OP_INCREASE:
		text = fmt.Sprintf("data[%d] = inc(data[%d]); reg = data[%d];", n, n, n)
	case OP_DECREASE:
		text = fmt.Sprintf("data[%d] = dec(data[%d]); reg = data[%d];", n, n, n)
	case OP_PRINT:
		text = fmt.Sprintf("print(data[%d]);", n)
	}

	return
}
