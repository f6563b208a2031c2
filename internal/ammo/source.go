package ammo

import (
	"bufio"
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"beltfeed/internal/status"
)

// fileSource carries the shared state of the file-backed readers: lazy
// opening, byte position tracking, restart-on-exhaustion and fatal-error
// poisoning. The file handle is held only between the first Next and Close
// (or a fatal error).
type fileSource struct {
	path  string
	board *status.Board
	log   *zap.Logger

	file *os.File
	rd   *bufio.Reader
	pos  int64 // bytes consumed so far, post-read
	err  error // sticky fatal error

	// progressed is reset on restart; a restart without any record emitted
	// since the previous one means the source cannot produce records and
	// the sequence ends with ErrExhausted instead of spinning.
	progressed bool
}

func newFileSource(path string, opt Options) fileSource {
	return fileSource{
		path:  path,
		board: opt.Board,
		log:   opt.Logger,
	}
}

// ready checks the context, the sticky error, and opens the file on the
// first pull.
func (s *fileSource) ready(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if s.err != nil {
		return s.err
	}
	if s.file == nil {
		return s.open()
	}
	return nil
}

func (s *fileSource) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		s.err = err
		return err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		s.err = err
		return err
	}
	s.file = f
	s.rd = bufio.NewReader(f)
	s.pos = 0
	s.board.SetFileSize(info.Size())
	return nil
}

// readLine returns the next raw line including its terminator, advancing
// the position counter. io.EOF is returned only for an empty read; a final
// line without a terminator is still a line.
func (s *fileSource) readLine() (string, error) {
	line, err := s.rd.ReadString('\n')
	s.pos += int64(len(line))
	if err != nil && err != io.EOF {
		return "", err
	}
	if line == "" {
		return "", io.EOF
	}
	return line, nil
}

// restart seeks the file back to offset zero and counts one completed loop.
// When the completed loop meets the board's loop limit the sequence ends
// instead of starting a pass past the limit.
func (s *fileSource) restart() error {
	if !s.progressed {
		return ErrExhausted
	}
	s.progressed = false
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	s.rd.Reset(s.file)
	s.pos = 0
	s.board.SetFilePosition(0)
	s.board.IncLoopCount()
	if s.board.LoopLimitReached() {
		return ErrExhausted
	}
	return nil
}

// fail records a fatal error, releases the file handle and returns the
// error. Every later Next returns the same error.
func (s *fileSource) fail(err error) error {
	s.err = err
	if s.file != nil {
		s.file.Close()
		s.file = nil
	}
	return err
}

// Close releases the file handle. Safe to call at any time, repeatedly.
func (s *fileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
