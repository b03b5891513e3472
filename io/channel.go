// Package io provides the word ports of the comp machine.
// The printer receives every word written to the last data slot, and the
// input port supplies a word for every read of it. Implementations cover
// line-oriented text streams (Tape), an in-memory printer buffer
// (Temporary), and a fixed input sequence (Rom).
package io

import (
	"iter"

	"github.com/ezrec/comp/word"
)

// Channel defines the interface for all ports of the comp machine.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields words from the channel.
	Receive() iter.Seq[word.Word]
	// Send writes a single word to the channel.
	Send(value word.Word) error
}

// Feeder is implemented by channels that can separate runs of output.
type Feeder interface {
	Feed() error
}
