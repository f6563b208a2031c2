package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"beltfeed/internal/ammo"
	"beltfeed/internal/plan"
	"beltfeed/internal/status"
)

func TestFeedWritesSteppedStream(t *testing.T) {
	loadPlan, err := plan.NewRPS("const(2, 1s)")
	if err != nil {
		t.Fatalf("NewRPS() error = %v", err)
	}
	board := status.NewBoard()
	gen := ammo.NewURIListGenerator([]string{"/a", "/b"}, nil, "1.1", nil, board)
	defer gen.Close()

	var buf bytes.Buffer
	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() error = %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	// Two shots: "<size> 0" then "<size> 500", each followed by the payload
	// and a blank separator line.
	if !strings.HasSuffix(lines[0], " 0") {
		t.Errorf("first header = %q, want offset 0", lines[0])
	}
	if !strings.Contains(buf.String(), "GET /a HTTP/1.1") || !strings.Contains(buf.String(), "GET /b HTTP/1.1") {
		t.Errorf("stream missing rendered requests:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), " 500\n") {
		t.Errorf("stream missing the 500ms offset header:\n%s", buf.String())
	}
	if board.AmmoCount() != 2 {
		t.Errorf("AmmoCount() = %d, want 2 (the plan is exhausted after two shots)", board.AmmoCount())
	}
}

func TestFeedStopsAtAmmoLimit(t *testing.T) {
	loadPlan, err := plan.NewInstances("")
	if err != nil {
		t.Fatalf("NewInstances() error = %v", err)
	}
	board := status.NewBoard()
	board.AmmoLimit = 3
	gen := ammo.NewURIListGenerator([]string{"/a"}, nil, "1.1", nil, board)
	defer gen.Close()

	var buf bytes.Buffer
	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	if board.AmmoCount() != 3 {
		t.Errorf("AmmoCount() = %d, want the unlimited plan cut off at 3", board.AmmoCount())
	}
}

func TestFeedStopsAtLoopLimit(t *testing.T) {
	loadPlan, err := plan.NewInstances("")
	if err != nil {
		t.Fatalf("NewInstances() error = %v", err)
	}
	board := status.NewBoard()
	board.LoopLimit = 1
	gen := ammo.NewURIListGenerator([]string{"/a", "/b"}, nil, "1.1", nil, board)
	defer gen.Close()

	var buf bytes.Buffer
	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	if board.AmmoCount() != 2 {
		t.Errorf("AmmoCount() = %d, want exactly one pass over the two URIs", board.AmmoCount())
	}
}

func TestFeedFileSourceRunsOnceThroughAtLoopLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ammo.txt")
	if err := os.WriteFile(path, []byte("1\na1\nb"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	loadPlan, err := plan.NewInstances("")
	if err != nil {
		t.Fatalf("NewInstances() error = %v", err)
	}
	board := status.NewBoard()
	board.LoopLimit = 1
	gen := ammo.NewChunkReader(path, ammo.Options{Board: board})
	defer gen.Close()

	var buf bytes.Buffer
	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	// Exactly one pass: the restarting pull must not leak the first record
	// of a second loop into the stream.
	if board.AmmoCount() != 2 {
		t.Errorf("AmmoCount() = %d, want 2 for one pass over a 2-record file", board.AmmoCount())
	}
	want := "1 0\na\n1 0\nb\n"
	if got := buf.String(); got != want {
		t.Errorf("stream = %q, want %q", got, want)
	}
}

func TestFeedMarkerInChunkHeader(t *testing.T) {
	loadPlan, err := plan.NewRPS("const(1, 1s)")
	if err != nil {
		t.Fatalf("NewRPS() error = %v", err)
	}
	marker, err := ammo.NewMarker("uri")
	if err != nil {
		t.Fatalf("NewMarker() error = %v", err)
	}
	board := status.NewBoard()
	gen := ammo.NewURIListGenerator([]string{"/users/42"}, nil, "1.1", marker, board)
	defer gen.Close()

	var buf bytes.Buffer
	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	header, _, _ := strings.Cut(buf.String(), "\n")
	if !strings.HasSuffix(header, " 0 _users_42") {
		t.Errorf("header = %q, want it to end with the derived marker", header)
	}
}

func TestFeedEmptySourceIsClean(t *testing.T) {
	loadPlan, err := plan.NewInstances("")
	if err != nil {
		t.Fatalf("NewInstances() error = %v", err)
	}
	board := status.NewBoard()
	gen := ammo.NewURIListGenerator(nil, nil, "1.1", nil, board)
	defer gen.Close()

	var buf bytes.Buffer
	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() over an empty source error = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("feed() over an empty source wrote %q, want nothing", buf.String())
	}
}

func TestFeedCancelledContext(t *testing.T) {
	loadPlan, err := plan.NewInstances("")
	if err != nil {
		t.Fatalf("NewInstances() error = %v", err)
	}
	board := status.NewBoard()
	gen := ammo.NewURIListGenerator([]string{"/a"}, nil, "1.1", nil, board)
	defer gen.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := feed(ctx, &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() with cancelled context error = %v, want a clean stop", err)
	}
}

func TestWriteChunkFormat(t *testing.T) {
	var buf bytes.Buffer
	loadPlan, err := plan.NewRPS("const(1, 1s)")
	if err != nil {
		t.Fatalf("NewRPS() error = %v", err)
	}
	board := status.NewBoard()
	gen := ammo.NewURIListGenerator([]string{"/x"}, nil, "1.1", nil, board)
	defer gen.Close()

	if err := feed(context.Background(), &buf, loadPlan, gen, board, nil); err != nil {
		t.Fatalf("feed() error = %v", err)
	}
	want := "GET /x HTTP/1.1\r\n\r\n"
	wantStream := "19 0\n" + want + "\n"
	if got := buf.String(); got != wantStream {
		t.Errorf("stream = %q, want %q", got, wantStream)
	}
}
