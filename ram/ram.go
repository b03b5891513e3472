// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package ram implements the two address spaces of the comp machine.
//
// Each space stores RAM_SIZE words. The LAST_ADDRESS index of the data
// space is not stored: reading it consumes a word from the Input port, and
// writing it updates the Output slot and forwards the word to the Printer.
package ram

import (
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/comp/internal"
	"github.com/ezrec/comp/io"
	"github.com/ezrec/comp/word"
)

// Snapshot is a value copy of the memory contents.
type Snapshot struct {
	Code   [word.RAM_SIZE]word.Word
	Data   [word.RAM_SIZE]word.Word
	Output word.Word
}

// Memory is the code and data storage shared by the editor and the engine.
type Memory struct {
	Verbose bool // Set to enable verbose logging.

	Code   [word.RAM_SIZE]word.Word
	Data   [word.RAM_SIZE]word.Word
	Output word.Word // Last word sent to the printer.

	Input   io.Channel // Source for reads of the last data slot.
	Printer io.Channel // Sink for writes to the last data slot.
}

// NewMemory creates an empty memory.
func NewMemory() (mem *Memory) {
	mem = &Memory{}
	return
}

// space returns the storage for an address space, or nil for NONE.
func (mem *Memory) space(space word.Space) *[word.RAM_SIZE]word.Word {
	switch space {
	case word.CODE:
		return &mem.Code
	case word.DATA:
		return &mem.Data
	}
	return nil
}

// InRange returns true if the address names a stored word.
func InRange(adr word.Address) bool {
	return adr.Space != word.NONE && int(adr.Index) < word.RAM_SIZE
}

// Peek reads a word without side effects.
// The last data slot peeks as the Output slot; everything else that is not
// stored reads as the empty word.
func (mem *Memory) Peek(adr word.Address) word.Word {
	if adr.Space == word.DATA && adr.Index == word.LAST_ADDRESS {
		return mem.Output
	}
	if !InRange(adr) {
		return word.EMPTY
	}
	return mem.space(adr.Space)[adr.Index]
}

// Get reads a word. Reading the last data slot consumes a word from Input.
func (mem *Memory) Get(adr word.Address) (value word.Word) {
	if adr.Space == word.DATA && adr.Index == word.LAST_ADDRESS {
		value, _ = io.ReceiveOne(mem.Input)
		if mem.Verbose {
			logrus.WithField("value", value).Info("ram: input")
		}
		return
	}
	return mem.Peek(adr)
}

// Set writes a word. Writing the last data slot prints it.
// Writes to NONE or to the last code slot are dropped.
func (mem *Memory) Set(adr word.Address, value word.Word) (err error) {
	if adr.Space == word.DATA && adr.Index == word.LAST_ADDRESS {
		mem.Output = value
		if mem.Verbose {
			logrus.WithField("value", value).Info("ram: print")
		}
		if mem.Printer != nil {
			err = mem.Printer.Send(value)
		}
		return
	}
	if !InRange(adr) {
		return
	}
	mem.space(adr.Space)[adr.Index] = value
	return
}

// Snapshot captures the memory contents.
func (mem *Memory) Snapshot() Snapshot {
	return Snapshot{Code: mem.Code, Data: mem.Data, Output: mem.Output}
}

// Restore replaces the memory contents with a snapshot.
func (mem *Memory) Restore(snap Snapshot) {
	mem.Code = snap.Code
	mem.Data = snap.Data
	mem.Output = snap.Output
}

// Clear empties both spaces and the Output slot.
func (mem *Memory) Clear() {
	mem.Restore(Snapshot{})
}

// Words iterates over the stored words of a space.
func (mem *Memory) Words(space word.Space) iter.Seq2[word.Address, word.Word] {
	return func(yield func(adr word.Address, value word.Word) bool) {
		words := mem.space(space)
		if words == nil {
			return
		}
		for n, value := range words {
			if !yield(word.At(space, n), value) {
				return
			}
		}
	}
}

// All iterates over the code space, then the data space.
func (mem *Memory) All() iter.Seq2[word.Address, word.Word] {
	return internal.IterSeq2Concat(mem.Words(word.CODE), mem.Words(word.DATA))
}

// LastNonEmpty returns the index of the last non-empty word in a space,
// or -1 if the space is empty.
func (mem *Memory) LastNonEmpty(space word.Space) (index int) {
	index = -1
	for adr, value := range mem.Words(space) {
		if value != word.EMPTY {
			index = adr.Int()
		}
	}
	return
}
