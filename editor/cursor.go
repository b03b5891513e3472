// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package editor implements the structural editor of the comp machine.
//
// A Cursor tracks one editing position per address space, and edits the
// shared memory at bit and word granularity. Structural edits insert or
// delete a word while patching every instruction operand that referenced
// a moved slot, so that a program keeps its meaning.
package editor

import (
	"github.com/sirupsen/logrus"

	"github.com/ezrec/comp/cpu"
	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

// Direction is a cursor movement.
type Direction int

//go:generate go tool stringer -linecomment -type=Direction
const (
	UP    = Direction(0) // up
	DOWN  = Direction(1) // down
	LEFT  = Direction(2) // left
	RIGHT = Direction(3) // right
)

// Position is a cursor location within one address space.
type Position struct {
	Bit  int // Bit index, 0 is the most significant.
	Word int // Word index.
}

// Cursor is the editing position over a memory.
type Cursor struct {
	Verbose bool // Set to enable verbose logging.

	Memory   *ram.Memory
	Space    word.Space  // Active address space.
	Position [2]Position // Position per address space.
}

// NewCursor creates a cursor at the start of the code space.
func NewCursor(mem *ram.Memory) (cur *Cursor) {
	cur = &Cursor{
		Memory: mem,
		Space:  word.CODE,
	}
	return
}

// At returns the position in the active space.
func (cur *Cursor) At() Position {
	return cur.Position[cur.Space]
}

func (cur *Cursor) at() *Position {
	return &cur.Position[cur.Space]
}

// Address returns the address of the word under the cursor.
func (cur *Cursor) Address() word.Address {
	return word.At(cur.Space, cur.At().Word)
}

// Word returns the word under the cursor.
func (cur *Cursor) Word() word.Word {
	return cur.Memory.Peek(cur.Address())
}

// Move moves the cursor one step, stopping at the edges.
// Returns true if the cursor moved.
func (cur *Cursor) Move(dir Direction) (moved bool) {
	pos := cur.at()
	prior := *pos

	switch dir {
	case UP:
		pos.Word = max(pos.Word-1, 0)
	case DOWN:
		pos.Word = min(pos.Word+1, LAST_SLOT)
	case LEFT:
		pos.Bit = max(pos.Bit-1, 0)
	case RIGHT:
		pos.Bit = min(pos.Bit+1, word.SIZE-1)
	}

	moved = *pos != prior
	return
}

// SwitchSpace toggles the active address space. The position in the other
// space is kept.
func (cur *Cursor) SwitchSpace() {
	if cur.Space == word.CODE {
		cur.Space = word.DATA
	} else {
		cur.Space = word.CODE
	}
}

// ToggleBit flips the bit under the cursor.
func (cur *Cursor) ToggleBit() {
	cur.SetWord(cur.Word().Toggle(cur.At().Bit))
}

// SetWord replaces the word under the cursor.
func (cur *Cursor) SetWord(value word.Word) {
	cur.Memory.Set(cur.Address(), value)
}

// EraseWord empties the word under the cursor.
func (cur *Cursor) EraseWord() {
	cur.SetWord(word.EMPTY)
}

// SetBitAndAdvance sets the bit under the cursor and moves right, wrapping
// to the beginning of the next word after the last bit.
func (cur *Cursor) SetBitAndAdvance(value bool) {
	cur.SetWord(cur.Word().SetBit(cur.At().Bit, value))
	if cur.At().Bit == word.SIZE-1 {
		cur.GoToBeginningOfNextWord()
		return
	}
	cur.Move(RIGHT)
}

// swap exchanges the word under the cursor with a neighbour, and moves the
// cursor along with it.
func (cur *Cursor) swap(dir Direction) (ok bool) {
	from := cur.Address()
	if !cur.Move(dir) {
		return
	}
	to := cur.Address()

	slots := words(cur.Memory, cur.Space)
	slots[from.Index], slots[to.Index] = slots[to.Index], slots[from.Index]

	ok = true
	return
}

// SwapUp exchanges the word under the cursor with the word above it.
func (cur *Cursor) SwapUp() bool {
	return cur.swap(UP)
}

// SwapDown exchanges the word under the cursor with the word below it.
func (cur *Cursor) SwapDown() bool {
	return cur.swap(DOWN)
}

// GoToAddress moves to a word index in the active space, clamped.
func (cur *Cursor) GoToAddress(index int) {
	cur.at().Word = max(0, min(index, LAST_SLOT))
}

// GoToBeginningOfWord moves to bit 0, or to the word above when already
// there.
func (cur *Cursor) GoToBeginningOfWord() {
	if cur.At().Bit == 0 {
		cur.Move(UP)
	}
	cur.at().Bit = 0
}

// GoToEndOfWord moves to the last bit, or to the word below when already
// there.
func (cur *Cursor) GoToEndOfWord() {
	if cur.At().Bit == word.SIZE-1 {
		cur.Move(DOWN)
	}
	cur.at().Bit = word.SIZE - 1
}

// GoToBeginningOfNextWord moves to bit 0 of the next word. On the last word
// it moves to the last bit instead.
func (cur *Cursor) GoToBeginningOfNextWord() {
	if cur.Move(DOWN) {
		cur.at().Bit = 0
	} else {
		cur.at().Bit = word.SIZE - 1
	}
}

// GoToInstructionAddress follows the operand of the instruction under the
// cursor into its address space. Returns false when the cursor is not in
// the code space, or the operand has no stored target.
func (cur *Cursor) GoToInstructionAddress() (ok bool) {
	if cur.Space != word.CODE {
		return
	}

	ref := cpu.Decode(cur.Word()).FirstOrder[0]
	if !ram.InRange(ref) {
		return
	}

	cur.Space = ref.Space
	cur.GoToAddress(ref.Int())
	cur.at().Bit = 0

	ok = true
	return
}

// InsertAt inserts an empty word at an address.
func (cur *Cursor) InsertAt(adr word.Address) (result EditResult) {
	result = Insert(cur.Memory, adr)
	if cur.Verbose {
		logrus.WithFields(logrus.Fields{
			"adr":    adr,
			"result": result,
		}).Info("editor: insert")
	}
	return
}

// DeleteAt deletes the word at an address.
func (cur *Cursor) DeleteAt(adr word.Address) (result EditResult) {
	result = Delete(cur.Memory, adr)
	if cur.Verbose {
		logrus.WithFields(logrus.Fields{
			"adr":    adr,
			"result": result,
		}).Info("editor: delete")
	}
	return
}

// Insert inserts an empty word under the cursor.
func (cur *Cursor) Insert() EditResult {
	return cur.InsertAt(cur.Address())
}

// Delete deletes the word under the cursor.
func (cur *Cursor) Delete() EditResult {
	return cur.DeleteAt(cur.Address())
}
