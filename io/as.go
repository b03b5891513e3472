package io

import (
	"github.com/ezrec/comp/word"
)

// ReceiveOne reads a single word from the channel.
// ok is false when the channel is nil or exhausted.
func ReceiveOne(ch Channel) (value word.Word, ok bool) {
	if ch == nil {
		return
	}
	for value = range ch.Receive() {
		ok = true
		break
	}
	return
}

// Feed separates runs of output on channels that support it.
func Feed(ch Channel) (err error) {
	feeder, ok := ch.(Feeder)
	if ok {
		err = feeder.Feed()
	}
	return
}
