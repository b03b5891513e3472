package ram

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezrec/comp/internal"
	"github.com/ezrec/comp/word"
)

const (
	COMMENT_CHAR = '#' // Image lines starting with this are skipped.
)

// Load replaces the memory contents with an image.
// Each non-empty, non-comment line fills one word, code space first and
// then data space. Only the first word.SIZE characters of a line count.
// Loading stops when both spaces are full or the input ends; words not
// reached are left empty. On error the memory is unchanged.
func (mem *Memory) Load(input io.Reader) (err error) {
	var image Snapshot

	reader := bufio.NewReader(input)

	n := 0
	for n < 2*word.RAM_SIZE {
		line, rerr := internal.ReadLine(reader, word.SIZE)
		if len(line) != 0 && line[0] != COMMENT_CHAR {
			value := word.Parse(line)
			if n < word.RAM_SIZE {
				image.Code[n] = value
			} else {
				image.Data[n-word.RAM_SIZE] = value
			}
			n++
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			err = rerr
			return
		}
	}

	mem.Restore(image)

	return
}

// Save writes the memory contents as an image of 2*RAM_SIZE lines.
func (mem *Memory) Save(output io.Writer) (err error) {
	w := bufio.NewWriter(output)
	for _, value := range mem.All() {
		_, err = fmt.Fprintln(w, value.String())
		if err != nil {
			return
		}
	}
	err = w.Flush()
	return
}

// LoadFile loads an image from a file.
func (mem *Memory) LoadFile(path string) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
		return
	}
	defer inf.Close()

	err = mem.Load(inf)
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
	}
	return
}

// SaveFile saves an image to a file.
func (mem *Memory) SaveFile(path string) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = mem.Save(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	err = ouf.Close()
	return
}

// String returns the image text.
func (mem *Memory) String() string {
	var sb strings.Builder
	mem.Save(&sb)
	return sb.String()
}
