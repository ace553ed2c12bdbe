// Package trending records how often each search term is used and reads back
// the most popular terms. Store failures never reach callers: they are logged
// and the last good trending list is served instead.
package trending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movie-finder/internal/domain"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
)

const (
	// DefaultLimit is the size of the trending strip.
	DefaultLimit = 5
	// MaxLimit caps a single trending read.
	MaxLimit = 20
)

// ErrStore matches every *StoreError.
var ErrStore = errors.New("trending: store failure")

// Store is the persistence contract: a durable per-term increment and a
// top-N read ordered by count.
type Store interface {
	Increment(ctx context.Context, term string, movieID int64, posterURL string) (domain.TrendingEntry, error)
	Top(ctx context.Context, limit int) ([]domain.TrendingEntry, error)
}

// StoreError describes a failed store call.
type StoreError struct {
	Op   string
	Term string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Term != "" {
		return fmt.Sprintf("trending: %s %q: %v", e.Op, e.Term, e.Err)
	}
	return fmt.Sprintf("trending: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStore }

// Options configures a Client.
type Options struct {
	ImageBaseURL string
	Timeout      time.Duration
	Logger       logrus.FieldLogger
}

// Client wraps a Store with the swallow-and-log policy.
type Client struct {
	store     Store
	imageBase string
	timeout   time.Duration
	logger    logrus.FieldLogger

	mu   sync.Mutex
	last []domain.TrendingEntry
}

// NewClient returns a Client over store.
func NewClient(store Store, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		store:     store,
		imageBase: opts.ImageBaseURL,
		timeout:   timeout,
		logger:    logger.WithField("component", "trending"),
	}
}

// RecordSearch counts one more search for term and remembers the poster of
// its first result. Empty terms are ignored. Errors are logged, not returned.
func (c *Client) RecordSearch(ctx context.Context, term string, first domain.Movie) {
	norm := domain.NormalizeTerm(term)
	if norm == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	poster := tmdb.PosterURL(c.imageBase, first.PosterPath)
	entry, err := c.store.Increment(ctx, norm, first.ID, poster)
	if err != nil {
		c.report(&StoreError{Op: "record search", Term: norm, Err: err})
		return
	}
	c.logger.WithFields(logrus.Fields{
		"term":  entry.Term,
		"count": entry.Count,
	}).Debug("trending: search recorded")
}

// ListTopTrending returns up to limit entries ordered by count. limit is
// clamped to [1, MaxLimit]. On failure the previous successful list is
// returned, which may be empty.
func (c *Client) ListTopTrending(ctx context.Context, limit int) []domain.TrendingEntry {
	limit = ClampLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	entries, err := c.store.Top(ctx, limit)
	if err != nil {
		c.report(&StoreError{Op: "list top", Err: err})
		return c.stale(limit)
	}

	c.mu.Lock()
	c.last = append([]domain.TrendingEntry(nil), entries...)
	c.mu.Unlock()
	return entries
}

func (c *Client) stale(limit int) []domain.TrendingEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.last)
	if n > limit {
		n = limit
	}
	return append([]domain.TrendingEntry{}, c.last[:n]...)
}

func (c *Client) report(err *StoreError) {
	entry := c.logger.WithError(err.Err).WithField("op", err.Op)
	if err.Term != "" {
		entry = entry.WithField("term", err.Term)
	}
	entry.Warn("trending: store unavailable, continuing without it")
}

// ClampLimit maps a requested size onto [1, MaxLimit], with DefaultLimit
// for non-positive requests.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}
