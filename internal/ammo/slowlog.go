package ammo

import (
	"context"
	"io"
	"strings"
)

// slowLogComment is the marker prefix that delimits slow-log records.
const slowLogComment = "#"

// SlowLogReader reads free-text logs where records are delimited by comment
// lines. Lines accumulate into a pending request; a line starting with the
// comment marker flushes the buffer as one record when non-empty. A request
// still buffered at end-of-file is dropped, never emitted.
type SlowLogReader struct {
	fileSource
	pending strings.Builder
}

// NewSlowLogReader creates a slow-log reader.
func NewSlowLogReader(path string, opt Options) *SlowLogReader {
	opt = opt.normalize()
	return &SlowLogReader{fileSource: newFileSource(path, opt)}
}

// Next returns the next delimited request.
func (r *SlowLogReader) Next(ctx context.Context) (Record, error) {
	if err := r.ready(ctx); err != nil {
		return Record{}, err
	}
	for {
		line, err := r.readLine()
		if err == io.EOF {
			r.pending.Reset()
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		if err != nil {
			return Record{}, r.fail(err)
		}
		r.board.SetFilePosition(r.pos)
		if strings.HasPrefix(line, slowLogComment) {
			if r.pending.Len() > 0 {
				payload := []byte(r.pending.String())
				r.pending.Reset()
				r.progressed = true
				return Record{Payload: payload}, nil
			}
			continue
		}
		r.pending.WriteString(line)
	}
}
