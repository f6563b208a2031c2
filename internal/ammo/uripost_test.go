package ammo

import (
	"context"
	"errors"
	"testing"

	"beltfeed/internal/status"
)

func TestURIPostReaderRendersPOSTRequests(t *testing.T) {
	// "5 /upload tagA\n" + "hello" + "7 /submit\n" + "payload"
	content := "[Connection: close]\n5 /upload tagA\nhello7 /submit\npayload"
	path := writeAmmoFile(t, content)
	r := NewURIPostReader(path, Options{})
	defer r.Close()
	ctx := context.Background()

	rec := mustNext(t, r, ctx)
	line, headers, body := splitRequest(t, rec.Payload)
	if line != "POST /upload HTTP/1.1" {
		t.Errorf("request line = %q, want POST /upload", line)
	}
	if !containsHeader(headers, "Connection: close") {
		t.Errorf("headers = %v, want the bracket-accumulated Connection header", headers)
	}
	if !containsHeader(headers, "Content-Length: 5") {
		t.Errorf("headers = %v, want Content-Length: 5", headers)
	}
	if body != "hello" {
		t.Errorf("body = %q, want hello", body)
	}
	if rec.Marker != "tagA" {
		t.Errorf("marker = %q, want tagA", rec.Marker)
	}

	rec = mustNext(t, r, ctx)
	line, _, body = splitRequest(t, rec.Payload)
	if line != "POST /submit HTTP/1.1" {
		t.Errorf("second request line = %q, want POST /submit", line)
	}
	if body != "payload" {
		t.Errorf("second body = %q, want payload", body)
	}
	if rec.Marker != "" {
		t.Errorf("second marker = %q, want none", rec.Marker)
	}
}

func TestURIPostReaderHeaderLinesBetweenChunks(t *testing.T) {
	content := "2 /a\nhi[X-Later: yes]\n2 /b\nok"
	path := writeAmmoFile(t, content)
	r := NewURIPostReader(path, Options{})
	defer r.Close()
	ctx := context.Background()

	_, headers, _ := splitRequest(t, mustNext(t, r, ctx).Payload)
	if containsHeader(headers, "X-Later: yes") {
		t.Errorf("first request headers = %v, must not include a header defined later", headers)
	}
	_, headers, _ = splitRequest(t, mustNext(t, r, ctx).Payload)
	if !containsHeader(headers, "X-Later: yes") {
		t.Errorf("second request headers = %v, want X-Later", headers)
	}
}

func TestURIPostReaderZeroChunkRestarts(t *testing.T) {
	content := "2 /a\nhi0\n"
	path := writeAmmoFile(t, content)
	board := status.NewBoard()
	r := NewURIPostReader(path, Options{Board: board})
	defer r.Close()
	ctx := context.Background()

	mustNext(t, r, ctx)
	rec := mustNext(t, r, ctx)
	line, _, _ := splitRequest(t, rec.Payload)
	if line != "POST /a HTTP/1.1" {
		t.Errorf("record after sentinel = %q, want the first chunk again", line)
	}
	if got := board.LoopCount(); got != 1 {
		t.Errorf("LoopCount() = %v, want 1", got)
	}
}

func TestURIPostReaderWhitespaceHeaderIsFatal(t *testing.T) {
	path := writeAmmoFile(t, "\t \n2 /a\nhi")
	r := NewURIPostReader(path, Options{})
	defer r.Close()

	var ferr *FormatError
	if _, err := r.Next(context.Background()); !errors.As(err, &ferr) {
		t.Fatalf("Next() error = %v, want *FormatError for a whitespace-only header", err)
	}
}

func TestURIPostReaderStopsAtLoopLimit(t *testing.T) {
	path := writeAmmoFile(t, "2 /a\nhi")
	board := status.NewBoard()
	board.LoopLimit = 1
	r := NewURIPostReader(path, Options{Board: board})
	defer r.Close()
	ctx := context.Background()

	if _, err := r.Next(ctx); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if _, err := r.Next(ctx); !errors.Is(err, ErrExhausted) {
		t.Errorf("Next() past the loop limit error = %v, want ErrExhausted", err)
	}
	if got := board.FilePosition(); got != 0 {
		t.Errorf("FilePosition() after restart = %d, want 0", got)
	}
}

func TestURIPostReaderMissingURIIsFatal(t *testing.T) {
	path := writeAmmoFile(t, "5\nhello")
	r := NewURIPostReader(path, Options{})
	defer r.Close()

	var ferr *FormatError
	if _, err := r.Next(context.Background()); !errors.As(err, &ferr) {
		t.Fatalf("Next() error = %v, want *FormatError for a header without URI", err)
	}
}

func TestURIPostReaderTruncatedBodyIsFatal(t *testing.T) {
	path := writeAmmoFile(t, "10 /a\nshort")
	r := NewURIPostReader(path, Options{})
	defer r.Close()

	var ferr *FormatError
	if _, err := r.Next(context.Background()); !errors.As(err, &ferr) {
		t.Fatalf("Next() error = %v, want *FormatError", err)
	}
	if ferr.Header != "10 /a" {
		t.Errorf("FormatError.Header = %q, want %q", ferr.Header, "10 /a")
	}
}
