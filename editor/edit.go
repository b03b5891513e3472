// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package editor

import (
	"github.com/ezrec/comp/cpu"
	"github.com/ezrec/comp/ram"
	"github.com/ezrec/comp/word"
)

// EditResult is the outcome of a structural edit.
type EditResult int

//go:generate go tool stringer -linecomment -type=EditResult
const (
	EDIT_REJECTED = EditResult(0) // rejected
	EDIT_SHIFTED  = EditResult(1) // shifted
	EDIT_CLEARED  = EditResult(2) // cleared
)

// Err returns ErrRejected for a rejected edit, and nil otherwise.
func (er EditResult) Err() (err error) {
	if er == EDIT_REJECTED {
		err = ErrRejected
	}
	return
}

const (
	LAST_SLOT = word.RAM_SIZE - 1 // Index of the last stored slot.
)

// Bound returns true if an effective instruction is the logic operation
// bound to the data index.
func Bound(mem *ram.Memory, index uint8) bool {
	for _, ins := range cpu.Effective(mem) {
		bound, ok := ins.Code.Bound()
		if ok && bound == index {
			return true
		}
	}
	return false
}

// boundWithin returns true if any bound data index in [lo, hi] is bound.
func boundWithin(mem *ram.Memory, lo, hi int) bool {
	for index := range cpu.BoundCodes {
		if int(index) >= lo && int(index) <= hi && Bound(mem, index) {
			return true
		}
	}
	return false
}

// Used returns true if the slot is non-empty, or is referenced by a
// first-order address of an effective instruction.
func Used(mem *ram.Memory, adr word.Address) bool {
	if mem.Peek(adr) != word.EMPTY {
		return true
	}
	for _, ins := range cpu.Effective(mem) {
		for _, ref := range ins.FirstOrder {
			if ref == adr {
				return true
			}
		}
	}
	return false
}

// Redundant finds the highest unused slot below the last slot of a space.
// In the code space the slot must follow a non-empty word.
func Redundant(mem *ram.Memory, space word.Space) (index int, ok bool) {
	for index = LAST_SLOT - 1; index >= 1; index-- {
		adr := word.At(space, index)
		if Used(mem, adr) {
			continue
		}
		if space == word.CODE && mem.Code[index-1] == word.EMPTY {
			continue
		}
		ok = true
		return
	}
	index = -1
	return
}

// words returns the storage of a space.
func words(mem *ram.Memory, space word.Space) *[word.RAM_SIZE]word.Word {
	if space == word.DATA {
		return &mem.Data
	}
	return &mem.Code
}

// patchable returns the relocatable operand of an instruction in a space.
func patchable(ins cpu.Instruction, space word.Space) (ref word.Address, ok bool) {
	ref = ins.FirstOrder[0]
	ok = ref.Space == space && !ref.IsLast() && ins.Code.OperandWidth() > 0
	return
}

// operandLimit is the largest index a patched operand may hold.
func operandLimit(code cpu.Code) int {
	return min(code.MaxOperand(), LAST_SLOT)
}

// relocate moves every relocatable operand in space that satisfies from
// by delta. It returns false, without modifying memory, if any moved
// operand would leave its encodable range.
func relocate(mem *ram.Memory, space word.Space, from func(index int) bool, delta int) bool {
	type patch struct {
		adr  word.Address
		code cpu.Code
	}
	var patches []patch

	for adr, ins := range cpu.Effective(mem) {
		ref, ok := patchable(ins, space)
		if !ok || !from(ref.Int()) {
			continue
		}
		index := ref.Int() + delta
		if index < 0 || index > operandLimit(ins.Code) {
			return false
		}
		patches = append(patches, patch{adr: adr, code: ins.Code.WithOperand(uint8(index))})
	}

	for _, p := range patches {
		mem.Code[p.adr.Index] = p.code.Word
	}

	return true
}

// Insert inserts an empty word at an address, shifting the words after it
// down one slot and patching every operand that referenced them. Memory is
// unchanged unless the result is EDIT_SHIFTED.
func Insert(mem *ram.Memory, adr word.Address) (result EditResult) {
	snapshot := mem.Snapshot()
	result = insert(mem, adr)
	if result == EDIT_REJECTED {
		mem.Restore(snapshot)
	}
	return
}

func insert(mem *ram.Memory, adr word.Address) (result EditResult) {
	if !ram.InRange(adr) {
		return
	}

	at := adr.Int()

	if adr.Space == word.DATA && boundWithin(mem, at, int(cpu.LAST_XOR_OPERAND_INDEX)) {
		return
	}

	if Used(mem, word.At(adr.Space, LAST_SLOT)) {
		r, ok := Redundant(mem, adr.Space)
		if !ok || r <= at {
			return
		}
		if deleteWord(mem, word.At(adr.Space, r)) != EDIT_SHIFTED {
			return
		}
	}

	if !relocate(mem, adr.Space, func(index int) bool { return index >= at }, 1) {
		return
	}

	slots := words(mem, adr.Space)
	copy(slots[at+1:], slots[at:LAST_SLOT])
	slots[at] = word.EMPTY

	result = EDIT_SHIFTED
	return
}

// Delete removes the word at an address, shifting the words after it up
// one slot and patching every operand that referenced them.
//
// A slot that is in use, or whose removal would move a bound data slot, is
// zeroed in place instead and EDIT_CLEARED is returned. Deleting such a
// slot when it is already empty is rejected.
func Delete(mem *ram.Memory, adr word.Address) (result EditResult) {
	snapshot := mem.Snapshot()
	result = deleteWord(mem, adr)
	if result == EDIT_REJECTED {
		mem.Restore(snapshot)
	}
	return
}

func deleteWord(mem *ram.Memory, adr word.Address) (result EditResult) {
	if !ram.InRange(adr) {
		return
	}

	at := adr.Int()

	clearInPlace := func() EditResult {
		if mem.Peek(adr) == word.EMPTY {
			return EDIT_REJECTED
		}
		words(mem, adr.Space)[at] = word.EMPTY
		return EDIT_CLEARED
	}

	if adr.Space == word.DATA && boundWithin(mem, at, int(cpu.LAST_XOR_OPERAND_INDEX)-1) {
		return clearInPlace()
	}

	if Used(mem, adr) {
		return clearInPlace()
	}

	if !relocate(mem, adr.Space, func(index int) bool { return index > at }, -1) {
		return
	}

	slots := words(mem, adr.Space)
	copy(slots[at:], slots[at+1:])
	slots[LAST_SLOT] = word.EMPTY

	result = EDIT_SHIFTED
	return
}
