package cpu

import (
	"iter"

	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

// Opcode is a single assembled word, with its source line.
type Opcode struct {
	LineNo    int          // Source line number.
	Address   word.Address // Placement of the word.
	Words     []string     // Source words, after equate expansion.
	Code      Code         // Assembled word.
	LinkLabel string       // Label linked into the operand, if any.
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
}

// Debug finds the opcode placed at an address.
func (prog *Program) Debug(adr word.Address) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if op.Address == adr {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Codes iterates over the placed words of the program.
func (prog *Program) Codes() iter.Seq2[word.Address, Code] {
	return func(yield func(adr word.Address, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Address, op.Code) {
				return
			}
		}
	}
}

// Apply replaces the contents of a memory with the program.
func (prog *Program) Apply(mem *ram.Memory) (err error) {
	mem.Clear()
	for adr, code := range prog.Codes() {
		err = mem.Set(adr, code.Word)
		if err != nil {
			return
		}
	}
	return
}
