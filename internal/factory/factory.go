// Package factory selects and wires the load plan and the ammunition
// source from one configuration snapshot, enforcing the mutual-exclusion
// rules between them.
package factory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"beltfeed/internal/ammo"
	"beltfeed/internal/config"
	"beltfeed/internal/plan"
	"beltfeed/internal/status"
)

// Configuration errors, raised at selection time before any ammo I/O.
var (
	ErrScheduleConflict   = errors.New("both rps and instances schedules specified, you must specify only one of them")
	ErrAmmoSourceConflict = errors.New("both uris and ammo file specified, you must specify only one of them")
	ErrNoAmmoSource       = errors.New("ammo not found: specify uris or an ammo file")
)

// Factory builds the two sequences the driver consumes in lockstep: the
// load plan and the ammunition stream. Limit defaults are resolved once at
// construction and published to the status board.
type Factory struct {
	cfg    config.Config
	board  *status.Board
	log    *zap.Logger
	marker ammo.Marker
}

// New resolves limits and the marker strategy from the configuration.
// A limit of -1 means unbounded; when neither limit nor an rps schedule is
// given, the loop limit defaults to 1 so a bare URI or file list runs
// exactly once through.
func New(cfg config.Config, board *status.Board, log *zap.Logger) (*Factory, error) {
	if board == nil {
		board = status.NewBoard()
	}
	if log == nil {
		log = zap.NewNop()
	}
	marker, err := ammo.NewMarker(cfg.Autocases)
	if err != nil {
		return nil, err
	}

	loopLimit := cfg.LoopLimit
	ammoLimit := cfg.AmmoLimit
	if loopLimit == status.Unbounded && ammoLimit == status.Unbounded && cfg.RPSSchedule == "" {
		loopLimit = 1
	}
	board.LoopLimit = loopLimit
	board.AmmoLimit = ammoLimit
	board.Publish("instances", cfg.Instances)
	if len(cfg.URIs) > 0 && loopLimit != status.Unbounded {
		board.AmmoLimit = int64(len(cfg.URIs)) * loopLimit
	}

	return &Factory{cfg: cfg, board: board, log: log, marker: marker}, nil
}

// Board returns the status board the factory and its generators report to.
func (f *Factory) Board() *status.Board { return f.board }

// LoadPlan returns the timestamp sequence for the configured schedule.
// With no schedule at all it falls back to an empty instances schedule.
func (f *Factory) LoadPlan() (plan.Plan, error) {
	switch {
	case f.cfg.RPSSchedule != "" && f.cfg.InstancesSchedule != "":
		return nil, ErrScheduleConflict
	case f.cfg.RPSSchedule != "":
		f.board.Publish("loadscheme", f.cfg.RPSSchedule)
		return plan.NewRPS(f.cfg.RPSSchedule)
	default:
		f.board.Publish("loadscheme", f.cfg.InstancesSchedule)
		return plan.NewInstances(f.cfg.InstancesSchedule)
	}
}

// AmmoSource returns the ammunition generator for the configured source.
// For the default binary format the first line of the file is sniffed: when
// it does not start with a digit the plain URI format is substituted.
func (f *Factory) AmmoSource() (ammo.Generator, error) {
	switch {
	case len(f.cfg.URIs) > 0 && f.cfg.AmmoFile != "":
		return nil, ErrAmmoSourceConflict
	case len(f.cfg.URIs) > 0:
		return ammo.NewURIListGenerator(f.cfg.URIs, f.cfg.Headers, f.cfg.HTTPVersion, f.marker, f.board), nil
	case f.cfg.AmmoFile != "":
		format, err := f.resolveFormat()
		if err != nil {
			return nil, err
		}
		return ammo.NewFileGenerator(format, f.cfg.AmmoFile, ammo.Options{
			Headers:     f.cfg.Headers,
			HTTPVersion: f.cfg.HTTPVersion,
			Marker:      f.marker,
			Board:       f.board,
			Logger:      f.log,
		})
	default:
		return nil, ErrNoAmmoSource
	}
}

// resolveFormat validates the requested format name and applies first-line
// sniffing for the default binary format.
func (f *Factory) resolveFormat() (ammo.Format, error) {
	format := ammo.Format(f.cfg.AmmoType)
	if format == "" {
		format = ammo.FormatChunked
	}
	if !ammo.Registered(format) {
		return "", &ammo.UnsupportedFormatError{Format: format}
	}
	if format != ammo.FormatChunked {
		return format, nil
	}
	chunked, err := ammo.SniffChunked(f.cfg.AmmoFile)
	if err != nil {
		return "", fmt.Errorf("sniffing ammo format: %w", err)
	}
	if !chunked {
		f.log.Info("ammo file does not start with a digit, switching format",
			zap.String("file", f.cfg.AmmoFile), zap.String("format", string(ammo.FormatURI)))
		return ammo.FormatURI, nil
	}
	return format, nil
}
