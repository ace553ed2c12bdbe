// Package sqlitestore keeps trending search counters in a local SQLite file,
// for single-user runs that have no Postgres available.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Clark-Hu/movie-finder/internal/domain"
)

// ErrNotFound indicates no entry exists for the term.
var ErrNotFound = errors.New("sqlitestore: not found")

// Store is safe for concurrent use; writes are serialized by mu.
type Store struct {
	db        *sql.DB
	mu        sync.RWMutex
	lastStamp int64
	now       func() time.Time
}

// Open opens (or creates) the database at path and ensures the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trending (
		id TEXT PRIMARY KEY,
		term TEXT NOT NULL UNIQUE,
		count INTEGER NOT NULL DEFAULT 1,
		movie_id INTEGER NOT NULL DEFAULT 0,
		poster_url TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trending_rank ON trending(count DESC, updated_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// HealthCheck verifies the database is reachable.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// stamp returns a strictly increasing unix-nano timestamp so recency
// ordering stays total even when two writes land in the same clock tick.
// Callers must hold mu for writing.
func (s *Store) stamp() int64 {
	ts := s.now().UnixNano()
	if ts <= s.lastStamp {
		ts = s.lastStamp + 1
	}
	s.lastStamp = ts
	return ts
}

// Increment bumps the counter for term, creating it with count 1 on first
// use. The poster always tracks the latest search.
func (s *Store) Increment(ctx context.Context, term string, movieID int64, posterURL string) (domain.TrendingEntry, error) {
	term = domain.NormalizeTerm(term)
	if term == "" {
		return domain.TrendingEntry{}, domain.ErrEmptyTerm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.stamp()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO trending (id, term, count, movie_id, poster_url, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?, ?)
		ON CONFLICT(term) DO UPDATE SET
			count = count + 1,
			movie_id = excluded.movie_id,
			poster_url = excluded.poster_url,
			updated_at = excluded.updated_at
		RETURNING id, term, count, movie_id, poster_url, created_at, updated_at
	`, uuid.NewString(), term, movieID, posterURL, ts, ts)

	entry, err := scanEntry(row)
	if err != nil {
		return domain.TrendingEntry{}, fmt.Errorf("increment trending %q: %w", term, err)
	}
	return entry, nil
}

// Top returns up to limit entries, highest count first, ties to the most
// recently updated entry and then to the term.
func (s *Store) Top(ctx context.Context, limit int) ([]domain.TrendingEntry, error) {
	if limit <= 0 {
		return []domain.TrendingEntry{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, term, count, movie_id, poster_url, created_at, updated_at
		FROM trending
		ORDER BY count DESC, updated_at DESC, term ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list trending: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.TrendingEntry, 0, limit)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get fetches the entry for a term.
func (s *Store) Get(ctx context.Context, term string) (domain.TrendingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, term, count, movie_id, poster_url, created_at, updated_at
		FROM trending WHERE term = ?
	`, domain.NormalizeTerm(term))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TrendingEntry{}, ErrNotFound
	}
	return entry, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.TrendingEntry, error) {
	var (
		entry            domain.TrendingEntry
		created, updated int64
	)
	if err := row.Scan(&entry.ID, &entry.Term, &entry.Count, &entry.MovieID, &entry.PosterURL, &created, &updated); err != nil {
		return domain.TrendingEntry{}, err
	}
	entry.CreatedAt = time.Unix(0, created).UTC()
	entry.UpdatedAt = time.Unix(0, updated).UTC()
	return entry, nil
}
