package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-finder/internal/domain"
)

// TrendingRepository persists per-term search counters in Postgres.
type TrendingRepository struct {
	pool *pgxpool.Pool
}

const trendingColumns = `
    id::text,
    term,
    count,
    movie_id,
    poster_url,
    created_at,
    updated_at
`

// Increment bumps the counter for term, creating the entry with count 1 on
// first use. The poster always tracks the latest search.
func (r *TrendingRepository) Increment(ctx context.Context, term string, movieID int64, posterURL string) (domain.TrendingEntry, error) {
	term = domain.NormalizeTerm(term)
	if term == "" {
		return domain.TrendingEntry{}, domain.ErrEmptyTerm
	}

	query := fmt.Sprintf(`
        INSERT INTO trending (id, term, count, movie_id, poster_url)
        VALUES ($1,$2,1,$3,$4)
        ON CONFLICT (term)
        DO UPDATE SET count = trending.count + 1,
                      movie_id = EXCLUDED.movie_id,
                      poster_url = EXCLUDED.poster_url,
                      updated_at = clock_timestamp()
        RETURNING %s
    `, trendingColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), term, movieID, posterURL)
	entry, err := scanTrending(row)
	if err != nil {
		return domain.TrendingEntry{}, fmt.Errorf("increment trending %q: %w", term, err)
	}
	return entry, nil
}

// Top returns up to limit entries, highest count first. Ties go to the most
// recently updated entry, then to the term in lexical order.
func (r *TrendingRepository) Top(ctx context.Context, limit int) ([]domain.TrendingEntry, error) {
	if limit <= 0 {
		return []domain.TrendingEntry{}, nil
	}

	query := fmt.Sprintf(`
        SELECT %s FROM trending
        ORDER BY count DESC, updated_at DESC, term ASC
        LIMIT $1
    `, trendingColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list trending: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.TrendingEntry, 0, limit)
	for rows.Next() {
		entry, err := scanTrending(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Get fetches the entry for a term.
func (r *TrendingRepository) Get(ctx context.Context, term string) (domain.TrendingEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM trending WHERE term = $1`, trendingColumns)
	entry, err := scanTrending(r.pool.QueryRow(ctx, query, domain.NormalizeTerm(term)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TrendingEntry{}, ErrNotFound
		}
		return domain.TrendingEntry{}, err
	}
	return entry, nil
}

func scanTrending(row pgx.Row) (domain.TrendingEntry, error) {
	var entry domain.TrendingEntry
	err := row.Scan(
		&entry.ID,
		&entry.Term,
		&entry.Count,
		&entry.MovieID,
		&entry.PosterURL,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return domain.TrendingEntry{}, err
	}
	return entry, nil
}
