// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package word implements the fixed-width bit vectors of the comp machine.
//
// A Word is eight bits wide. Bit 0 is the most significant bit, which is
// also the leftmost bit when a word is drawn. The first nibble (bits 0-3)
// of an instruction word selects the instruction class, and the second
// nibble (bits 4-7) is its operand address.
package word

import (
	"strings"
)

const (
	SIZE         = 8   // Bits in a word.
	ADDRESS_SIZE = 4   // Bits in an address nibble.
	MAX_VALUE    = 255 // Largest unsigned word value.
	EMPTY        = Word(0)

	TRUE_CHAR  = '*' // Image character for a set bit.
	FALSE_CHAR = '-' // Image character written for a clear bit.
)

// Word is a fixed-width bit vector.
type Word uint8

// Bit returns the bit at index, counting from the most significant bit.
// Out of range indexes read as false.
func (w Word) Bit(index int) bool {
	if index < 0 || index >= SIZE {
		return false
	}
	return (w>>(SIZE-1-index))&1 == 1
}

// SetBit returns a copy of the word with the bit at index replaced.
func (w Word) SetBit(index int, value bool) Word {
	if index < 0 || index >= SIZE {
		return w
	}
	mask := Word(1) << (SIZE - 1 - index)
	if value {
		return w | mask
	}
	return w &^ mask
}

// Toggle returns a copy of the word with the bit at index flipped.
func (w Word) Toggle(index int) Word {
	return w.SetBit(index, !w.Bit(index))
}

// Uint returns the unsigned magnitude of the word.
func (w Word) Uint() int {
	return int(w)
}

// FirstNibble returns bits 0-3.
func (w Word) FirstNibble() uint8 {
	return uint8(w>>ADDRESS_SIZE) & 0xf
}

// SecondNibble returns bits 4-7.
func (w Word) SecondNibble() uint8 {
	return uint8(w) & 0xf
}

// WithSecondNibble splices a new operand nibble into the word.
func (w Word) WithSecondNibble(nibble uint8) Word {
	return (w &^ 0xf) | Word(nibble&0xf)
}

// Add returns w + v, clamped to MAX_VALUE.
func (w Word) Add(v Word) Word {
	sum := w.Uint() + v.Uint()
	if sum > MAX_VALUE {
		sum = MAX_VALUE
	}
	return Word(sum)
}

// Sub returns w - v, clamped to zero.
func (w Word) Sub(v Word) Word {
	diff := w.Uint() - v.Uint()
	if diff < 0 {
		diff = 0
	}
	return Word(diff)
}

// Inc returns w + 1, where MAX_VALUE rolls over to zero.
func (w Word) Inc() Word {
	if w.Uint() == MAX_VALUE {
		return EMPTY
	}
	return w + 1
}

// Dec returns w - 1, where zero rolls under to MAX_VALUE.
func (w Word) Dec() Word {
	if w == EMPTY {
		return Word(MAX_VALUE)
	}
	return w - 1
}

// Not returns the bitwise complement.
func (w Word) Not() Word { return ^w }

func (w Word) And(v Word) Word { return w & v }
func (w Word) Or(v Word) Word { return w | v }
func (w Word) Xor(v Word) Word { return w ^ v }

// ShiftLeft moves every bit one place towards bit 0, filling with zero.
func (w Word) ShiftLeft() Word { return w << 1 }

// ShiftRight moves every bit one place away from bit 0, filling with zero.
func (w Word) ShiftRight() Word { return w >> 1 }

// Bits returns the word as a slice of bits, most significant first.
func (w Word) Bits() (bits []bool) {
	bits = make([]bool, SIZE)
	for n := range SIZE {
		bits[n] = w.Bit(n)
	}
	return
}

// String returns the image representation of the word.
func (w Word) String() string {
	var sb strings.Builder
	for _, bit := range w.Bits() {
		if bit {
			sb.WriteByte(TRUE_CHAR)
		} else {
			sb.WriteByte(FALSE_CHAR)
		}
	}
	return sb.String()
}

// Parse converts an image line into a word.
// Only TRUE_CHAR sets a bit; characters past SIZE are ignored, and a short
// line leaves the trailing bits clear.
func Parse(line string) (w Word) {
	for n, c := range []byte(line) {
		if n >= SIZE {
			break
		}
		w = w.SetBit(n, c == TRUE_CHAR)
	}
	return
}
