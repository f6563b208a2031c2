package ammo

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"beltfeed/internal/status"
)

// Record is a single unit of ammunition: one wire-ready request payload and
// an optional routing marker. Records are immutable once yielded.
type Record struct {
	Payload []byte
	Marker  string // empty when the source supplies none
}

// Generator provides a lazy, infinite, restartable sequence of records.
// Sources are reopened internally when exhausted; callers never reconstruct
// a generator to loop. A generator is owned by exactly one consumer.
type Generator interface {
	// Next returns the next record. A malformed source returns a fatal
	// *FormatError and poisons the generator; a source that yields no
	// records in a full pass returns ErrExhausted.
	Next(ctx context.Context) (Record, error)

	// Close releases the underlying file handle. Idempotent.
	Close() error
}

// ErrExhausted is returned when a source produces no records in a full pass,
// so restarting would loop forever without yielding anything.
var ErrExhausted = fmt.Errorf("ammo source exhausted: no records available")

// Format identifies an on-disk ammo file format.
type Format string

const (
	FormatChunked Format = "binary-chunk"
	FormatSlowLog Format = "slow-log"
	FormatLine    Format = "line"
	FormatURI     Format = "uri"
	FormatURIPost Format = "uri-post"
)

// Options carry the shared construction parameters for file generators.
type Options struct {
	Headers     []string // initial header lines for URI-family formats
	HTTPVersion string   // protocol version label, e.g. "1.1"
	Marker      Marker   // marker derivation for records without one
	Board       *status.Board
	Logger      *zap.Logger
}

func (o Options) normalize() Options {
	if o.HTTPVersion == "" {
		o.HTTPVersion = "1.1"
	}
	if o.Board == nil {
		o.Board = status.NewBoard()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Marker == nil {
		o.Marker = NoMarker
	}
	return o
}

var fileFormats = map[Format]func(path string, opt Options) Generator{
	FormatChunked: func(path string, opt Options) Generator { return NewChunkReader(path, opt) },
	FormatSlowLog: func(path string, opt Options) Generator { return NewSlowLogReader(path, opt) },
	FormatLine:    func(path string, opt Options) Generator { return NewLineReader(path, opt) },
	FormatURI:     func(path string, opt Options) Generator { return NewURIReader(path, opt) },
	FormatURIPost: func(path string, opt Options) Generator { return NewURIPostReader(path, opt) },
}

// NewFileGenerator constructs the reader registered for format, or an
// *UnsupportedFormatError when the format has no registered reader.
func NewFileGenerator(format Format, path string, opt Options) (Generator, error) {
	construct, ok := fileFormats[format]
	if !ok {
		return nil, &UnsupportedFormatError{Format: format}
	}
	return construct(path, opt), nil
}

// Registered reports whether a reader exists for the format identifier.
// Lookup is by exact value equality.
func Registered(format Format) bool {
	_, ok := fileFormats[format]
	return ok
}

// Formats lists the registered file format identifiers.
func Formats() []Format {
	out := make([]Format, 0, len(fileFormats))
	for f := range fileFormats {
		out = append(out, f)
	}
	return out
}
