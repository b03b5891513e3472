package word

import (
	"fmt"
)

const (
	RAM_SIZE      = 15         // Stored words per address space.
	FIRST_ADDRESS = uint8(0)   // First index of a space.
	LAST_ADDRESS  = uint8(0xf) // Sentinel index: the end of a space.
)

// Space is an address space tag.
type Space int

//go:generate go tool stringer -linecomment -type=Space
const (
	CODE = Space(0) // code
	DATA = Space(1) // data
	NONE = Space(2) // none
)

// Address is a tagged index into one of the address spaces.
// NONE addresses are register-only operands and never dereferenced.
type Address struct {
	Space Space
	Index uint8
}

// At returns the address of index in space, truncated to an address nibble.
func At(space Space, index int) Address {
	return Address{Space: space, Index: uint8(index) & 0xf}
}

// IsLast returns true for the LAST_ADDRESS sentinel.
func (adr Address) IsLast() bool {
	return adr.Space != NONE && adr.Index == LAST_ADDRESS
}

// Next returns the following address, wrapping within the address nibble.
func (adr Address) Next() Address {
	return Address{Space: adr.Space, Index: (adr.Index + 1) & 0xf}
}

// Int returns the index as an int.
func (adr Address) Int() int {
	return int(adr.Index)
}

func (adr Address) String() string {
	if adr.Space == NONE {
		return adr.Space.String()
	}
	return fmt.Sprintf("%v[%d]", adr.Space, adr.Index)
}
