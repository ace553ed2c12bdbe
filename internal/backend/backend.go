// Package backend assembles the provider client, the trending store and the
// search service from configuration. Both binaries share it.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movie-finder/db"
	"github.com/Clark-Hu/movie-finder/internal/config"
	"github.com/Clark-Hu/movie-finder/internal/discovery"
	"github.com/Clark-Hu/movie-finder/internal/repository"
	"github.com/Clark-Hu/movie-finder/internal/sqlitestore"
	"github.com/Clark-Hu/movie-finder/internal/store"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
	"github.com/Clark-Hu/movie-finder/internal/trending"
)

// HealthChecker reports whether the trending store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Backend holds the wired search service and its resources.
type Backend struct {
	Finder *discovery.Service
	Health HealthChecker

	closers []func()
}

// Open connects the configured trending store, applies its schema and builds
// the search service on top of it.
func Open(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Backend, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	b := &Backend{}
	st, err := b.openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	movies, err := tmdb.NewHTTPClient(tmdb.Options{
		BaseURL:    cfg.TMDBBaseURL,
		APIKey:     cfg.TMDBAPIKey,
		Timeout:    time.Duration(cfg.TMDBTimeoutSecs) * time.Second,
		RatePerSec: cfg.TMDBRatePerSec,
		RateBurst:  cfg.TMDBRateBurst,
		Logger:     logger,
	})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("init tmdb client: %w", err)
	}

	tc := trending.NewClient(st, trending.Options{
		ImageBaseURL: cfg.TMDBImageBaseURL,
		Logger:       logger,
	})
	b.Finder = discovery.NewService(movies, tc, logger)
	return b, nil
}

func (b *Backend) openStore(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (trending.Store, error) {
	switch cfg.TrendingDriver {
	case config.DriverSQLite:
		st, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite trending store: %w", err)
		}
		logger.WithField("path", cfg.SQLitePath).Info("backend: using sqlite trending store")
		b.Health = st
		b.closers = append(b.closers, func() { _ = st.Close() })
		return st, nil

	case config.DriverPostgres:
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if err := st.Migrate(dbCtx, db.Migrations); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		b.Health = st
		b.closers = append(b.closers, func() {
			if stat := st.Stats(); stat != nil {
				logger.WithFields(logrus.Fields{
					"acquired":   stat.AcquireCount(),
					"total_wait": stat.AcquireDuration(),
				}).Info("backend: pool statistics")
			}
			st.Close()
		})
		return repository.New(st).Trending, nil

	default:
		return nil, fmt.Errorf("unknown trending driver %q", cfg.TrendingDriver)
	}
}

// Close releases the store.
func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
