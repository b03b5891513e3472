package io

import (
	"iter"

	"github.com/ezrec/comp/word"
)

// Rom replays a fixed sequence of words as input.
type Rom struct {
	Data []word.Word

	index int
}

var _ Channel = (*Rom)(nil)

// Rewind restarts the sequence.
func (rc *Rom) Rewind() {
	rc.index = 0
}

func (rc *Rom) Receive() iter.Seq[word.Word] {
	return func(yield func(value word.Word) bool) {
		for rc.index < len(rc.Data) {
			value := rc.Data[rc.index]
			rc.index++
			if !yield(value) {
				return
			}
		}
	}
}

func (rc *Rom) Send(value word.Word) error {
	return ErrChannelReadOnly
}
