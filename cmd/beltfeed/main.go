package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"beltfeed/internal/ammo"
	"beltfeed/internal/config"
	"beltfeed/internal/factory"
	"beltfeed/internal/plan"
	"beltfeed/internal/status"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	board := status.NewBoard()
	fac, err := factory.New(*cfg, board, logger)
	if err != nil {
		return err
	}

	loadPlan, err := fac.LoadPlan()
	if err != nil {
		return err
	}
	gen, err := fac.AmmoSource()
	if err != nil {
		return err
	}
	defer gen.Close()

	out := io.Writer(os.Stdout)
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var pacer *plan.Pacer
	if cfg.Pace {
		pacer = plan.NewPacer(cfg.MaxRPS)
	}

	if err := feed(ctx, out, loadPlan, gen, board, pacer); err != nil {
		return err
	}

	logger.Info("done",
		zap.Int64("ammo", board.AmmoCount()),
		zap.Float64("loops", board.LoopCount()))
	return nil
}

// feed pulls the load plan and the ammo stream in lockstep and writes the
// stepped stream, stopping at the board's loop or ammo limit.
func feed(ctx context.Context, out io.Writer, loadPlan plan.Plan, gen ammo.Generator, board *status.Board, pacer *plan.Pacer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	for {
		if board.LoopLimitReached() || board.AmmoLimitReached() {
			return nil
		}
		offset, ok := loadPlan.Next()
		if !ok {
			return nil
		}
		rec, err := gen.Next(ctx)
		if err != nil {
			if errors.Is(err, ammo.ErrExhausted) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		board.IncAmmoCount()

		if pacer != nil {
			if err := pacer.Wait(ctx, offset); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
		if err := writeChunk(w, offset.Milliseconds(), rec); err != nil {
			return err
		}
	}
}

// writeChunk emits one stepped chunk: "<size> <offset-ms> [marker]" header
// line, the payload, and a trailing line break.
func writeChunk(w *bufio.Writer, offsetMillis int64, rec ammo.Record) error {
	if rec.Marker != "" {
		if _, err := fmt.Fprintf(w, "%d %d %s\n", len(rec.Payload), offsetMillis, rec.Marker); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "%d %d\n", len(rec.Payload), offsetMillis); err != nil {
			return err
		}
	}
	if _, err := w.Write(rec.Payload); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// newLogger builds the process logger. Logs go to stderr so stdout stays
// reserved for the stepped stream.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
