package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/comp/internal"
	"github.com/ezrec/comp/word"
)

// Tape provides line-oriented I/O over text streams.
// Input lines use the memory image notation ('*' for a set bit), and only
// their first word.SIZE characters count; empty lines and '#' comments are
// skipped. Output lines carry the bits and the unsigned value of each word
// sent.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Channel = (*Tape)(nil)

// Rewind drops any buffered input. A tape itself cannot rewind.
func (tc *Tape) Rewind() {
	tc.reader = nil
}

// Receive returns an iterator that yields one word per input line.
func (tc *Tape) Receive() iter.Seq[word.Word] {
	return func(yield func(value word.Word) bool) {
		if tc.Input == nil {
			return
		}
		if tc.reader == nil {
			tc.reader = bufio.NewReader(tc.Input)
		}
		for {
			line, err := internal.ReadLine(tc.reader, word.SIZE)
			if len(strings.TrimSpace(line)) != 0 && line[0] != '#' {
				if !yield(word.Parse(line)) {
					return
				}
			}
			if err != nil {
				return
			}
		}
	}
}

// Send writes a word as a printer line.
func (tc *Tape) Send(value word.Word) (err error) {
	if tc.Output == nil {
		return
	}
	_, err = fmt.Fprintf(tc.Output, "%v %3d\n", value, value.Uint())
	return
}

// Feed writes an empty line.
func (tc *Tape) Feed() (err error) {
	if tc.Output == nil {
		return
	}
	_, err = io.WriteString(tc.Output, "\n")
	return
}
