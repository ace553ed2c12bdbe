package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Clark-Hu/movie-finder/internal/backend"
	"github.com/Clark-Hu/movie-finder/internal/config"
	"github.com/Clark-Hu/movie-finder/internal/logging"
	"github.com/Clark-Hu/movie-finder/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "movie-finder: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// The terminal belongs to the UI; logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, out).WithField("service", "movie-finder-tui")

	b, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.Close()

	app := ui.NewApp(ctx, b.Finder, ui.Options{
		Debounce:      time.Duration(cfg.SearchDebounceMs) * time.Millisecond,
		TrendingLimit: cfg.TrendingLimit,
		ImageBaseURL:  cfg.TMDBImageBaseURL,
		Logger:        logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
