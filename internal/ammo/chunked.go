package ammo

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ChunkReader reads the length-prefixed binary ammo format: each chunk is a
// text header line "<byte-length> [marker]" followed by exactly that many
// raw payload bytes. A zero-length header is an explicit end-of-stream
// sentinel and restarts the file, as does physical end-of-file.
type ChunkReader struct {
	fileSource
}

// NewChunkReader creates a reader over the chunked binary format.
func NewChunkReader(path string, opt Options) *ChunkReader {
	opt = opt.normalize()
	opt.Logger.Info("loading ammo", zap.String("file", path), zap.String("format", string(FormatChunked)))
	return &ChunkReader{fileSource: newFileSource(path, opt)}
}

// Next returns the next chunk payload and marker.
func (r *ChunkReader) Next(ctx context.Context) (Record, error) {
	if err := r.ready(ctx); err != nil {
		return Record{}, err
	}
	for {
		line, err := r.readLine()
		if err == io.EOF {
			r.log.Debug("reached the end of ammo file, starting over", zap.String("file", r.path))
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		if err != nil {
			return Record{}, r.fail(err)
		}
		header := strings.TrimRight(line, "\r\n")
		if header == "" {
			continue
		}
		size, marker, err := parseChunkHeader(header)
		if err != nil {
			return Record{}, r.fail(&FormatError{Path: r.path, Offset: r.pos, Header: header, Err: err})
		}
		if size == 0 {
			r.log.Info("zero-sized chunk in ammo file, starting over",
				zap.String("file", r.path), zap.Int64("position", r.pos))
			if err := r.restart(); err != nil {
				return Record{}, r.fail(err)
			}
			continue
		}
		payload, err := r.readChunk(header, size)
		if err != nil {
			return Record{}, err
		}
		r.progressed = true
		r.board.SetFilePosition(r.pos)
		return Record{Payload: payload, Marker: marker}, nil
	}
}

// readChunk reads exactly size payload bytes, failing fatally on truncation.
func (r *ChunkReader) readChunk(header string, size int64) ([]byte, error) {
	payload := make([]byte, size)
	n, err := io.ReadFull(r.rd, payload)
	r.pos += int64(n)
	if err != nil {
		return nil, r.fail(&FormatError{
			Path:   r.path,
			Offset: r.pos,
			Header: header,
			Err:    fmt.Errorf("unexpected end of file: read %d bytes instead of %d", n, size),
		})
	}
	return payload, nil
}

// parseChunkHeader splits "<byte-length> [marker]" into its fields. The
// length must be a non-negative decimal integer.
func parseChunkHeader(header string) (int64, string, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("chunk header is missing the byte length")
	}
	size, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("bad chunk size: %w", err)
	}
	if size < 0 {
		return 0, "", fmt.Errorf("negative chunk size %d", size)
	}
	marker := ""
	if len(fields) > 1 {
		marker = fields[1]
	}
	return size, marker, nil
}
