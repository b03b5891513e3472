package io

import (
	"errors"
	"iter"

	"github.com/ezrec/comp/word"
)

// Tee sends every word to all of its channels.
// Input is taken from the first channel.
type Tee struct {
	Channels []Channel
}

var _ Channel = (*Tee)(nil)
var _ Feeder = (*Tee)(nil)

// Rewind rewinds every channel.
func (tee *Tee) Rewind() {
	for _, ch := range tee.Channels {
		ch.Rewind()
	}
}

func (tee *Tee) Receive() iter.Seq[word.Word] {
	if len(tee.Channels) == 0 {
		return func(yield func(value word.Word) bool) {}
	}
	return tee.Channels[0].Receive()
}

// Send sends the word to every channel, even when one fails.
func (tee *Tee) Send(value word.Word) (err error) {
	for _, ch := range tee.Channels {
		err = errors.Join(err, ch.Send(value))
	}
	return
}

// Feed feeds every channel that supports it.
func (tee *Tee) Feed() (err error) {
	for _, ch := range tee.Channels {
		err = errors.Join(err, Feed(ch))
	}
	return
}
