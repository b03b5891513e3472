package internal

import (
	"bufio"
	"strings"
)

// ReadLine reads one line, keeping at most limit bytes of it. The rest of
// the line is discarded, however long. Trailing CR/LF are removed.
// err is io.EOF at the end of input, possibly with a final partial line.
func ReadLine(r *bufio.Reader, limit int) (line string, err error) {
	var buf []byte
	for {
		var chunk []byte
		chunk, err = r.ReadSlice('\n')
		if room := limit - len(buf); room > 0 {
			buf = append(buf, chunk[:min(room, len(chunk))]...)
		}
		if err != bufio.ErrBufferFull {
			break
		}
	}

	line = strings.TrimRight(string(buf), "\r\n")
	return
}
