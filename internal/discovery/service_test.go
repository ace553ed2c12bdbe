package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clark-Hu/movie-finder/internal/domain"
	"github.com/Clark-Hu/movie-finder/internal/logging"
	"github.com/Clark-Hu/movie-finder/internal/sqlitestore"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
	"github.com/Clark-Hu/movie-finder/internal/trending"
)

type fakeMovies struct {
	mu        sync.Mutex
	searches  []string
	discovers int
	movies    []domain.Movie
	err       error
}

func (f *fakeMovies) Search(_ context.Context, term string) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, term)
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

func (f *fakeMovies) DiscoverPopular(context.Context) ([]domain.Movie, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.discovers++
	if f.err != nil {
		return nil, f.err
	}
	return f.movies, nil
}

type recorded struct {
	term  string
	first domain.Movie
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recorded
	top     []domain.TrendingEntry
}

func (f *fakeRecorder) RecordSearch(_ context.Context, term string, first domain.Movie) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, recorded{term: term, first: first})
}

func (f *fakeRecorder) ListTopTrending(context.Context, int) []domain.TrendingEntry {
	return f.top
}

var duneResults = []domain.Movie{
	{ID: 438631, Title: "Dune", PosterPath: "/dune.jpg"},
	{ID: 693134, Title: "Dune: Part Two", PosterPath: "/dune2.jpg"},
}

func TestFetch_SearchRecordsFirstResult(t *testing.T) {
	movies := &fakeMovies{movies: duneResults}
	rec := &fakeRecorder{}
	svc := NewService(movies, rec, logging.Discard())

	out := svc.Fetch(context.Background(), "  dune ")
	require.NoError(t, out.Err)
	assert.Equal(t, "dune", out.Term)
	assert.Len(t, out.Movies, 2)
	assert.Equal(t, []string{"dune"}, movies.searches)
	assert.Zero(t, movies.discovers)

	require.Len(t, rec.records, 1)
	assert.Equal(t, "dune", rec.records[0].term)
	assert.Equal(t, int64(438631), rec.records[0].first.ID)
}

func TestFetch_EmptyTermDiscoversWithoutRecording(t *testing.T) {
	movies := &fakeMovies{movies: duneResults}
	rec := &fakeRecorder{}
	svc := NewService(movies, rec, logging.Discard())

	out := svc.Fetch(context.Background(), "   ")
	require.NoError(t, out.Err)
	assert.Equal(t, 1, movies.discovers)
	assert.Empty(t, movies.searches)
	assert.Empty(t, rec.records)
}

func TestFetch_NoResultsIsNotRecorded(t *testing.T) {
	movies := &fakeMovies{}
	rec := &fakeRecorder{}
	svc := NewService(movies, rec, logging.Discard())

	out := svc.Fetch(context.Background(), "zzzz")
	require.NoError(t, out.Err)
	assert.NotNil(t, out.Movies)
	assert.Empty(t, out.Movies)
	assert.Empty(t, rec.records)

	s := State{}.Apply(FetchStarted{Term: out.Term}).Apply(out.Event(1))
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Empty(t, s.Err)
}

func TestFetch_ErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"soft failure verbatim", &tmdb.ProviderSoftError{Endpoint: "/search/movie", Message: "Movie not found!"}, "Movie not found!"},
		{"transport status", &tmdb.TransportError{Endpoint: "/search/movie", StatusCode: 401}, GenericErrorMessage},
		{"transport network", &tmdb.TransportError{Endpoint: "/search/movie", Err: errors.New("connection refused")}, GenericErrorMessage},
		{"cancelled", context.Canceled, GenericErrorMessage},
		{"unknown", errors.New("boom"), GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			svc := NewService(&fakeMovies{err: tt.err}, rec, logging.Discard())

			out := svc.Fetch(context.Background(), "dune")
			require.Error(t, out.Err)
			assert.Equal(t, tt.want, out.Message)
			assert.NotNil(t, out.Movies)
			assert.Empty(t, out.Movies)
			assert.Empty(t, rec.records)

			s := State{}.Apply(FetchStarted{Term: "dune"}).Apply(out.Event(1))
			assert.Equal(t, StatusError, s.Status)
			assert.Equal(t, tt.want, s.Err)
		})
	}
}

func TestTrending_NilRecorder(t *testing.T) {
	svc := NewService(&fakeMovies{}, nil, logging.Discard())
	assert.NotNil(t, svc.Trending(context.Background(), 5))
	out := svc.Fetch(context.Background(), "dune")
	assert.NoError(t, out.Err)
}

func TestFetch_DuneSearchIncrementsOnce(t *testing.T) {
	store, err := sqlitestore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tc := trending.NewClient(store, trending.Options{
		ImageBaseURL: "https://image.tmdb.org/t/p/w500",
		Logger:       logging.Discard(),
	})
	svc := NewService(&fakeMovies{movies: duneResults}, tc, logging.Discard())

	out := svc.Fetch(context.Background(), "Dune")
	require.NoError(t, out.Err)

	top := svc.Trending(context.Background(), trending.DefaultLimit)
	require.Len(t, top, 1)
	assert.Equal(t, "dune", top[0].Term)
	assert.Equal(t, int64(1), top[0].Count)
	assert.Equal(t, int64(438631), top[0].MovieID)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/dune.jpg", top[0].PosterURL)

	svc.Fetch(context.Background(), "dune")
	top = svc.Trending(context.Background(), trending.DefaultLimit)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].Count)
}
