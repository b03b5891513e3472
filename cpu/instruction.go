package cpu

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

// Peeker reads memory without side effects.
type Peeker interface {
	Peek(adr word.Address) word.Word
}

// Bus is the memory view an instruction executes against.
type Bus interface {
	Peeker
	Get(adr word.Address) word.Word
	Set(adr word.Address, value word.Word) error
}

// State is the architectural state threaded through execution.
type State struct {
	Pc       uint8     // Program counter, an index into the code space.
	Register word.Word // Accumulator.
}

// Instruction is the decoded view of a code word.
type Instruction struct {
	Code       Code
	Op         CodeOp
	FirstOrder []word.Address // Statically decoded operand addresses.
}

// Decode decodes an instruction word.
func Decode(value word.Word) (ins Instruction) {
	code := Code{Word: value}
	ins = Instruction{
		Code:       code,
		Op:         code.Op(),
		FirstOrder: code.FirstOrder(),
	}
	return
}

// Resolve returns the effective address of the instruction, following
// pointer and register indirection.
func (ins Instruction) Resolve(reg word.Word, mem Peeker) (adr word.Address) {
	adr = ins.FirstOrder[0]

	switch ins.Op {
	case OP_READ_POINTER, OP_WRITE_POINTER:
		ptr := mem.Peek(adr)
		adr = word.At(word.DATA, int(ptr.SecondNibble()))
	case OP_JUMP_REG:
		adr = word.At(word.CODE, int(reg.SecondNibble()))
	case OP_READ_REG:
		adr = word.At(word.DATA, int(reg.SecondNibble()))
	}

	return
}

// Execute runs the instruction against an effective address.
// The returned halt flag is set by writes to the last data address.
// Errors are port failures; the state transition is always completed.
func (ins Instruction) Execute(adr word.Address, state State, bus Bus) (next State, halt bool, err error) {
	next = State{
		Pc:       (state.Pc + 1) & word.LAST_ADDRESS,
		Register: state.Register,
	}
	reg := state.Register

	branch := func(taken bool) {
		if taken {
			next.Pc = adr.Index
		}
	}

	switch ins.Op {
	case OP_READ, OP_READ_POINTER, OP_READ_REG:
		next.Register = bus.Get(adr)
	case OP_WRITE, OP_WRITE_POINTER:
		err = bus.Set(adr, reg)
		halt = adr.IsLast()
	case OP_ADD:
		next.Register = reg.Add(bus.Get(adr))
	case OP_SUB:
		next.Register = reg.Sub(bus.Get(adr))
	case OP_JUMP, OP_JUMP_REG:
		branch(true)
	case OP_IF_MAX:
		branch(reg == word.MAX_VALUE)
	case OP_IF_NOT_MAX:
		branch(reg != word.MAX_VALUE)
	case OP_IF_MIN:
		branch(reg == word.EMPTY)
	case OP_IF_NOT_MIN:
		branch(reg != word.EMPTY)
	case OP_NOT:
		next.Register = reg.Not()
	case OP_SHIFT_LEFT:
		next.Register = reg.ShiftLeft()
	case OP_SHIFT_RIGHT:
		next.Register = reg.ShiftRight()
	case OP_AND:
		next.Register = reg.And(bus.Get(adr))
	case OP_OR:
		next.Register = reg.Or(bus.Get(adr))
	case OP_XOR:
		next.Register = reg.Xor(bus.Get(adr))
	case OP_INIT:
		value := bus.Get(ins.FirstOrder[1])
		err = bus.Set(ins.FirstOrder[0], value)
		next.Register = value
	case OP_INCREASE:
		value := bus.Get(adr).Inc()
		err = bus.Set(adr, value)
		next.Register = value
	case OP_DECREASE:
		value := bus.Get(adr).Dec()
		err = bus.Set(adr, value)
		next.Register = value
	case OP_PRINT:
		err = bus.Set(word.At(word.DATA, int(word.LAST_ADDRESS)), bus.Peek(adr))
	}

	return
}

// Effective iterates over the effective instructions of a memory: the code
// words up to and including the last non-empty one.
func Effective(mem *ram.Memory) iter.Seq2[word.Address, Instruction] {
	return func(yield func(adr word.Address, ins Instruction) bool) {
		last := mem.LastNonEmpty(word.CODE)
		for adr, value := range mem.Words(word.CODE) {
			if adr.Int() > last {
				return
			}
			if !yield(adr, Decode(value)) {
				return
			}
		}
	}
}

// Disassemble returns a listing of the effective instructions.
func Disassemble(mem *ram.Memory) string {
	var sb strings.Builder
	for adr, ins := range Effective(mem) {
		fmt.Fprintf(&sb, "%2d: %v %-10v %v\n", adr.Index, ins.Code.Word, ins.Code.Label(), ins.Code)
	}
	return sb.String()
}
