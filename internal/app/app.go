package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/s-show/tripick/internal/config"
	"github.com/s-show/tripick/internal/gather"
	"github.com/s-show/tripick/internal/host"
	"github.com/s-show/tripick/internal/mru"
	"github.com/s-show/tripick/internal/source"
	"github.com/s-show/tripick/internal/ui/picker"
	"github.com/s-show/tripick/internal/walk"
)

// ErrAborted is returned by Run when the picker exits without a selection.
var ErrAborted = errors.New("aborted")

// App wires the configured sources into a gatherer and drives either the
// interactive picker or plain list output.
type App struct {
	cfg      *config.Config
	log      *log.Logger
	logFile  *os.File
	gatherer *gather.Gatherer

	screen tcell.Screen
	view   *picker.View

	selected   string
	accepted   bool
	shouldQuit bool

	lastClickRow  int
	lastClickTime time.Time
}

// New validates the configured sources and builds the app. The walk root is
// checked here so a bad path fails before any terminal setup.
func New(cfg *config.Config) (*App, error) {
	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	producers, err := buildProducers(cfg, logger)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}
	if len(producers) == 0 {
		if logFile != nil {
			logFile.Close()
		}
		return nil, errors.New("no sources enabled")
	}

	registry := gather.NewRegistry(cfg.Dedup.Enabled)
	return &App{
		cfg:          cfg,
		log:          logger,
		logFile:      logFile,
		gatherer:     gather.New(registry, logger, producers...),
		lastClickRow: -1,
	}, nil
}

// Close releases the log file if one was opened.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}

func newLogger(cfg *config.Config) (*log.Logger, *os.File, error) {
	var w io.Writer = io.Discard
	var f *os.File
	if cfg.Log.File != "" {
		var err error
		f, err = os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel(),
		Prefix:          config.AppName,
		ReportTimestamp: true,
	})
	return logger, f, nil
}

// buildProducers assembles the enabled sources in priority order: open
// documents first, then the MRU register, then the filesystem walk.
func buildProducers(cfg *config.Config, logger *log.Logger) ([]gather.Producer, error) {
	var producers []gather.Producer
	if cfg.Sources.Buffers {
		lister := host.NewSnapshotFile(cfg.Buffers.Snapshot)
		producers = append(producers, source.NewBuffers(lister, cfg.Buffers.Sort, cfg.Display.Tags))
	}
	if cfg.Sources.MRU {
		if len(cfg.MRU.Command) == 0 {
			logger.Debug("mru source enabled without a helper command, skipping")
		} else {
			client := mru.NewCommand(cfg.MRU.Command)
			producers = append(producers, source.NewMRU(client, cfg.Variant(), cfg.MRU.Timeout, cfg.Display.Tags))
		}
	}
	if cfg.Sources.Walk {
		walker, err := walk.New(cfg.Walk.Root, walk.Options{
			SkipNames:      cfg.Walk.SkipDirs,
			SkipPatterns:   cfg.Walk.SkipPatterns,
			SkipHidden:     cfg.Walk.SkipHidden,
			FollowSymlinks: cfg.Walk.FollowSymlinks,
			BatchSize:      cfg.Walk.ChunkSize,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
		producers = append(producers, source.NewWalk(walker, cfg.Walk.ChunkSize, cfg.Display.Tags))
	}
	return producers, nil
}
