package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/hdmon/internal/aas"
	"github.com/five82/hdmon/internal/config"
	"github.com/five82/hdmon/internal/logos"
	"github.com/five82/hdmon/internal/logtail"
	"github.com/five82/hdmon/internal/maps"
	"github.com/five82/hdmon/internal/prefs"
	"github.com/five82/hdmon/internal/radio"
	"github.com/five82/hdmon/internal/state"
	"github.com/five82/hdmon/internal/ui"
)

const dashboardLogFile = "hdmon.log"

// Options configure the hdmon application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/hdmon/prefs.toml
	// Replay reads a recorded nrsc5 log instead of stdin.
	Replay string
	// ReplayLines limits a replay to the last N lines; zero replays all.
	ReplayLines int
	// Headless skips the dashboard and returns once the input is exhausted.
	Headless bool

	// Input overrides stdin.
	Input io.Reader
	// LogOutput receives the structured log. By default it is stderr when
	// headless and hdmon.log in the config directory otherwise.
	LogOutput io.Writer
}

// Run wires the pipeline and blocks until the input ends (headless), the
// user quits the dashboard or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, opts)
	if err != nil {
		return err
	}
	defer closeLog()

	input, err := openInput(opts)
	if err != nil {
		return err
	}

	store := &state.Store{}

	registry := logos.New(cfg.LogosPath())
	if err := registry.Load(); err != nil {
		logger.Warn("station logos unavailable", "path", cfg.LogosPath(), "error", err)
	}

	mapState, err := maps.LoadState(cfg.MapStatePath())
	if err != nil {
		logger.Warn("map state unavailable", "path", cfg.MapStatePath(), "error", err)
	}
	composites := maps.New(maps.Options{
		Dir:          cfg.MapDir,
		ReferenceMap: cfg.ReferenceMap,
		State:        mapState,
		Logger:       logger,
		Notify:       store.MapUpdated,
	})

	router := aas.NewRouter(aas.Options{
		Dir:           cfg.AASDir,
		IncludeCovers: cfg.IncludeCovers,
		Logos:         registry,
		Maps:          composites,
		Logger:        logger,
	})

	var recorder radio.LineRecorder
	if cfg.LogFile != "" && opts.Replay == "" {
		rec, err := logtail.OpenRecorder(cfg.LogFile)
		if err != nil {
			logger.Warn("raw line recording disabled", "path", cfg.LogFile, "error", err)
		} else {
			defer func() { _ = rec.Close() }()
			recorder = rec
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stopPlayback func()
	if opts.Headless {
		stopPlayback = cancel
	}

	session := radio.NewSession(radio.Options{
		Protocol:     cfg.Protocol,
		Router:       router,
		Maps:         composites,
		Logos:        registry,
		Store:        store,
		Recorder:     recorder,
		StopPlayback: stopPlayback,
		Logger:       logger,
		Station:      cfg.Station,
		Slot:         cfg.Slot,
	})

	keeper := &housekeeping{maps: composites, logos: registry, statePath: cfg.MapStatePath(), log: logger}
	pruned := StartPruner(runCtx, keeper, cfg.PruneInterval)
	shutdown := func() {
		cancel()
		<-pruned
		keeper.persist()
	}

	commands := make(chan radio.Command)
	exited := make(chan struct{})
	var runErr error
	go func() {
		defer close(exited)
		runErr = session.Run(runCtx, input, commands)
	}()

	if opts.Headless {
		<-exited
		shutdown()
		return producerError(runErr)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)
	send := func(cmd radio.Command) {
		select {
		case commands <- cmd:
		case <-exited:
		case <-runCtx.Done():
		}
	}
	uiErr := ui.Run(ui.Options{
		Context:   runCtx,
		Store:     store,
		ThemeName: userPrefs.Theme,
		MapMode:   userPrefs.MapMode,
		PrefsPath: opts.PrefsPath,
		Send:      send,
		InputTTY:  opts.Replay == "" && opts.Input == nil,
	})
	cancel()
	<-exited
	shutdown()

	if uiErr != nil && ctx.Err() == nil {
		return uiErr
	}
	return producerError(runErr)
}

// producerError drops the error a cancelled producer returns.
func producerError(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newLogger(cfg config.Config, opts Options) (*slog.Logger, func(), error) {
	out := opts.LogOutput
	closeLog := func() {}
	if out == nil {
		if opts.Headless {
			out = os.Stderr
		} else {
			path := filepath.Join(cfg.ConfigDir, dashboardLogFile)
			file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("open log file: %w", err)
			}
			out = file
			closeLog = func() { _ = file.Close() }
		}
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(handler), closeLog, nil
}

func openInput(opts Options) (io.Reader, error) {
	if opts.Input != nil {
		return opts.Input, nil
	}
	if opts.Replay == "" {
		return os.Stdin, nil
	}
	if _, err := os.Stat(opts.Replay); err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	lines, err := logtail.Read(opts.Replay, opts.ReplayLines)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return strings.NewReader(strings.Join(lines, "\n")), nil
}

// housekeeping prunes old weather composites and persists what must
// survive a restart.
type housekeeping struct {
	maps      *maps.Maps
	logos     *logos.Registry
	statePath string
	log       *slog.Logger
}

func (h *housekeeping) Refresh() {
	h.maps.Refresh()
	h.persist()
}

func (h *housekeeping) persist() {
	if err := maps.SaveState(h.statePath, h.maps.State()); err != nil {
		h.log.Warn("save map state failed", "path", h.statePath, "error", err)
	}
	if err := h.logos.Save(); err != nil {
		h.log.Warn("save station logos failed", "error", err)
	}
}
