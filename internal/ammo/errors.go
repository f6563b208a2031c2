package ammo

import "fmt"

// FormatError is a fatal mid-stream error: a malformed chunk header or a
// truncated payload. It carries the byte offset and the raw header text so
// the broken spot can be located in the source file.
type FormatError struct {
	Path   string
	Offset int64  // post-read byte offset where the failure was detected
	Header string // raw header line, without line terminators
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ammo file %s: position %d, header %q: %v", e.Path, e.Offset, e.Header, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports a requested format with no registered reader.
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("no such ammo format implemented: %q", string(e.Format))
}
