package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/grocy-tui/internal/config"
	"github.com/five82/grocy-tui/internal/grocy"
	"github.com/five82/grocy-tui/internal/prefs"
	"github.com/five82/grocy-tui/internal/state"
	"github.com/five82/grocy-tui/internal/ui"
)

// Options configure the grocy-tui application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/grocy-tui/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Run boots the TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs := loadPrefs(opts.PrefsPath, logger)

	client, err := grocy.NewClient(cfg.ServerURL, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("init grocy client: %w", err)
	}

	store := state.NewStore(ctx, client, logger.With("component", "store"))

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.Info("grocy-tui starting",
		"server", cfg.ServerURL, "poll", interval, "presentation", cfg.Capabilities.FormPresentation)

	StartPoller(ctx, store, client, interval, logger.With("component", "poller"))

	uiOpts := ui.Options{
		Context:          ctx,
		Store:            store,
		Config:           &cfg,
		Logger:           logger,
		ThemeName:        userPrefs.Theme,
		SidebarCollapsed: userPrefs.SidebarCollapsed,
		PrefsPath:        opts.PrefsPath,
	}
	err = ui.Run(uiOpts)
	store.Wait()
	logger.Info("grocy-tui stopped")
	return err
}

// loadPrefs falls back to the defaults when the preferences file is broken.
func loadPrefs(path string, logger *slog.Logger) prefs.Prefs {
	p, err := prefs.Load(path)
	if err != nil {
		logger.Warn("load preferences failed", "path", path, "error", err)
	}
	return p
}

// Fetch loads the config and reads kinds from Grocy once, bypassing the
// cache. Commands that print data use it instead of the TUI.
func Fetch(ctx context.Context, configPath string, kinds ...grocy.ObjectKind) (state.Snapshot, config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return state.Snapshot{}, cfg, fmt.Errorf("load config: %w", err)
	}
	client, err := grocy.NewClient(cfg.ServerURL, cfg.APIKey)
	if err != nil {
		return state.Snapshot{}, cfg, fmt.Errorf("init grocy client: %w", err)
	}
	store := state.NewStore(ctx, client, nil)
	if err := store.Refresh(ctx, kinds, true); err != nil {
		return state.Snapshot{}, cfg, err
	}
	return store.Snapshot(), cfg, nil
}

// openLogger opens the slog text log named by cfg. The TUI owns the
// terminal, so nothing is written to stderr while it runs.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	handlerOpts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, handlerOpts)), func() { _ = file.Close() }, nil
}
