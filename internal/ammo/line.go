package ammo

import (
	"context"
	"io"
	"strings"
)

// LineReader treats every line of the file as one record, trailing line
// terminators stripped, marker always absent.
type LineReader struct {
	fileSource
}

// NewLineReader creates a one-line-one-record reader.
func NewLineReader(path string, opt Options) *LineReader {
	opt = opt.normalize()
	return &LineReader{fileSource: newFileSource(path, opt)}
}

// Next returns the next line as a record.
func (r *LineReader) Next(ctx context.Context) (Record, error) {
	if err := r.ready(ctx); err != nil {
		return Record{}, err
	}
	for {
		line, err := r.readLine()
		if err == io.EOF {
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		if err != nil {
			return Record{}, r.fail(err)
		}
		r.progressed = true
		r.board.SetFilePosition(r.pos)
		return Record{Payload: []byte(strings.TrimRight(line, "\r\n"))}, nil
	}
}
