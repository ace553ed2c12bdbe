package discovery

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movie-finder/internal/domain"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
)

// GenericErrorMessage is shown for every failure that is not a provider soft
// failure.
const GenericErrorMessage = "Failed to fetch movies. Please try again later."

// TrendingRecorder is the part of trending.Client the search flow needs.
// Implementations must swallow their own failures.
type TrendingRecorder interface {
	RecordSearch(ctx context.Context, term string, first domain.Movie)
	ListTopTrending(ctx context.Context, limit int) []domain.TrendingEntry
}

// Outcome is the resolved result of one fetch.
type Outcome struct {
	Term    string
	Movies  []domain.Movie
	Message string
	Err     error
}

// Event converts the outcome into the resolution event for cycle gen.
func (o Outcome) Event(gen uint64) Event {
	if o.Err != nil {
		return FetchFailed{Gen: gen, Message: o.Message}
	}
	return FetchSucceeded{Gen: gen, Movies: o.Movies}
}

// Service runs the fetch-then-record sequence.
type Service struct {
	movies   tmdb.Client
	trending TrendingRecorder
	logger   logrus.FieldLogger
}

// NewService wires the provider client and trending recorder together.
func NewService(movies tmdb.Client, trending TrendingRecorder, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		movies:   movies,
		trending: trending,
		logger:   logger.WithField("component", "discovery"),
	}
}

// Fetch discovers popular movies for an empty term and searches otherwise.
// A search that returns at least one movie is recorded as trending.
func (s *Service) Fetch(ctx context.Context, term string) Outcome {
	term = strings.TrimSpace(term)

	var (
		movies []domain.Movie
		err    error
	)
	if term == "" {
		movies, err = s.movies.DiscoverPopular(ctx)
	} else {
		movies, err = s.movies.Search(ctx, term)
	}
	if err != nil {
		return Outcome{Term: term, Movies: []domain.Movie{}, Message: s.describe(term, err), Err: err}
	}
	if movies == nil {
		movies = []domain.Movie{}
	}

	if term != "" && len(movies) > 0 && s.trending != nil {
		s.trending.RecordSearch(ctx, term, movies[0])
	}
	return Outcome{Term: term, Movies: movies}
}

// Trending loads the trending strip. It never fails; see trending.Client.
func (s *Service) Trending(ctx context.Context, limit int) []domain.TrendingEntry {
	if s.trending == nil {
		return []domain.TrendingEntry{}
	}
	return s.trending.ListTopTrending(ctx, limit)
}

// describe picks the user-facing message for err and logs the detail.
func (s *Service) describe(term string, err error) string {
	log := s.logger.WithField("term", term).WithError(err)

	var soft *tmdb.ProviderSoftError
	switch {
	case errors.As(err, &soft):
		log.WithField("kind", "provider_soft").Info("discovery: provider rejected query")
		return soft.Message
	case errors.Is(err, tmdb.ErrTransport):
		log.WithField("kind", "transport").Error("discovery: error fetching movies")
	case errors.Is(err, context.Canceled):
		log.Debug("discovery: fetch cancelled")
	default:
		log.WithField("kind", "unknown").Error("discovery: error fetching movies")
	}
	return GenericErrorMessage
}
