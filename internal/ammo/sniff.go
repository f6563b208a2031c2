package ammo

import (
	"bufio"
	"errors"
	"io"
	"os"
)

// SniffChunked inspects the first character of the first line of the file
// and reports whether it looks like the chunked binary format (a decimal
// digit). Only the first line is read; the reader reopens the file
// independently afterwards. An empty file counts as chunked and is left to
// the reader to reject.
func SniffChunked(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	if len(line) == 0 {
		return true, nil
	}
	c := line[0]
	return c >= '0' && c <= '9', nil
}
