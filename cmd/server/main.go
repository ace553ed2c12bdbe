package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/movie-finder/internal/backend"
	"github.com/Clark-Hu/movie-finder/internal/config"
	httpserver "github.com/Clark-Hu/movie-finder/internal/http"
	"github.com/Clark-Hu/movie-finder/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLog := logging.New("info", "text", os.Stderr)
	cfg, err := config.Load()
	if err != nil {
		bootLog.WithError(err).Fatal("config error")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout).WithField("service", "movie-finder")

	b, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("init backend")
	}
	defer b.Close()

	server := httpserver.New(cfg, b.Health, b.Finder, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("graceful shutdown error")
	}
}
