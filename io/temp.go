package io

import (
	"iter"
	"slices"

	"github.com/ezrec/comp/word"
)

// Temporary implements a bounded FIFO of words.
// It is the default printer buffer: the renderer reads Data to show what
// has been printed so far.
type Temporary struct {
	Capacity int  // Capacity in words, zero for unbounded.
	Scroll   bool // If set, a full buffer drops its oldest word instead of failing.

	Data  []word.Word
	Feeds []int // Indexes into Data where a feed occurred.
}

var _ Channel = (*Temporary)(nil)

// Rewind empties the buffer.
func (temp *Temporary) Rewind() {
	temp.Data = nil
	temp.Feeds = nil
}

// Receive returns an iterator that drains the buffer.
func (temp *Temporary) Receive() iter.Seq[word.Word] {
	return func(yield func(value word.Word) bool) {
		for len(temp.Data) > 0 {
			value := temp.Data[0]
			temp.Data = temp.Data[1:]
			if !yield(value) {
				return
			}
		}
	}
}

// Send appends a word to the buffer.
// Returns ErrChannelFull if the buffer has reached capacity and does not
// scroll.
func (temp *Temporary) Send(value word.Word) (err error) {
	if temp.Capacity > 0 && len(temp.Data) >= temp.Capacity {
		if !temp.Scroll {
			err = ErrChannelFull
			return
		}
		temp.drop(len(temp.Data) - temp.Capacity + 1)
	}

	temp.Data = append(temp.Data, value)

	return
}

// Feed records a run separator at the current position.
func (temp *Temporary) Feed() (err error) {
	temp.Feeds = append(temp.Feeds, len(temp.Data))
	return
}

// drop discards the oldest words, and the feeds that preceded them.
func (temp *Temporary) drop(count int) {
	temp.Data = slices.Delete(temp.Data, 0, count)

	feeds := temp.Feeds[:0]
	for _, feed := range temp.Feeds {
		if feed >= count {
			feeds = append(feeds, feed-count)
		}
	}
	temp.Feeds = feeds
}
