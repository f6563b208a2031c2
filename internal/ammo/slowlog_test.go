package ammo

import (
	"context"
	"errors"
	"testing"

	"beltfeed/internal/status"
)

func TestSlowLogReaderDelimitsOnCommentLines(t *testing.T) {
	content := "# start\nSELECT 1;\nSELECT 2;\n# next\nSELECT 3;\n# done\n"
	path := writeAmmoFile(t, content)
	r := NewSlowLogReader(path, Options{})
	defer r.Close()
	ctx := context.Background()

	rec, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(rec.Payload) != "SELECT 1;\nSELECT 2;\n" {
		t.Errorf("first record = %q, want the two buffered lines", rec.Payload)
	}

	rec, err = r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(rec.Payload) != "SELECT 3;\n" {
		t.Errorf("second record = %q, want %q", rec.Payload, "SELECT 3;\n")
	}
}

func TestSlowLogReaderDropsTrailingUnflushedRequest(t *testing.T) {
	// "SELECT 3;" is never followed by a comment line, so it is never
	// emitted: each pass yields exactly one record.
	content := "# start\nSELECT 1;\n# next\nSELECT 3;\n"
	path := writeAmmoFile(t, content)
	board := status.NewBoard()
	r := NewSlowLogReader(path, Options{Board: board})
	defer r.Close()
	ctx := context.Background()

	first, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	second, err := r.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if string(first.Payload) != "SELECT 1;\n" || string(second.Payload) != "SELECT 1;\n" {
		t.Errorf("records = (%q, %q), want SELECT 1 both times", first.Payload, second.Payload)
	}
	if got := board.LoopCount(); got != 1 {
		t.Errorf("LoopCount() = %v, want 1", got)
	}
}

func TestSlowLogReaderNoDelimitersIsExhausted(t *testing.T) {
	path := writeAmmoFile(t, "SELECT 1;\nSELECT 2;\n")
	r := NewSlowLogReader(path, Options{})
	defer r.Close()

	if _, err := r.Next(context.Background()); !errors.Is(err, ErrExhausted) {
		t.Errorf("Next() error = %v, want ErrExhausted for a file with no comment lines", err)
	}
}
