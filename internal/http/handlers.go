package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movie-finder/internal/discovery"
	"github.com/Clark-Hu/movie-finder/internal/domain"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type trendingParams struct {
	Limit int `query:"limit" validate:"min=1,max=20"`
}

type movieSearchResponse struct {
	Status string          `json:"status"`
	Query  string          `json:"query"`
	Movies []movieResponse `json:"movies"`
	Error  string          `json:"error,omitempty"`
}

type movieResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview,omitempty"`
	PosterURL   string  `json:"posterUrl,omitempty"`
	ReleaseYear string  `json:"releaseYear"`
	Language    string  `json:"language"`
	VoteAverage float64 `json:"voteAverage"`
}

type trendingListResponse struct {
	Items []trendingResponse `json:"items"`
}

type trendingResponse struct {
	Term      string    `json:"term"`
	Count     int64     `json:"count"`
	MovieID   int64     `json:"movieId"`
	PosterURL string    `json:"posterUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	state := s.search(r, strings.TrimSpace(r.URL.Query().Get("query")))

	items := make([]movieResponse, 0, len(state.Movies))
	for _, movie := range state.Movies {
		items = append(items, s.toMovieResponse(movie))
	}
	resp := movieSearchResponse{
		Status: state.Status.String(),
		Query:  state.Term,
		Movies: items,
		Error:  state.Err,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	params, err := buildTrendingParams(r.URL.Query().Get("limit"), s.cfg.TrendingLimit)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if err := s.validator.Validate(params); err != nil {
		s.respondValidationError(w, err)
		return
	}

	entries := s.finder.Trending(r.Context(), params.Limit)
	items := make([]trendingResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toTrendingResponse(e))
	}
	s.respondJSON(w, http.StatusOK, trendingListResponse{Items: items})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	data := pageData{
		Term:     term,
		Trending: s.finder.Trending(r.Context(), s.cfg.TrendingLimit),
	}
	state := s.search(r, term)
	data.Error = state.Err
	for _, movie := range state.Movies {
		data.Movies = append(data.Movies, s.toMovieCard(movie))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.WithError(err).Error("http: render page failed")
	}
}

// search runs one settled fetch through the view state machine. Each request
// is its own cycle, so there is nothing to debounce here.
func (s *Server) search(r *http.Request, term string) discovery.State {
	state := discovery.State{}.Apply(discovery.FetchStarted{Term: term})
	out := s.finder.Fetch(r.Context(), term)
	state = state.Apply(out.Event(state.Gen))

	if state.Status == discovery.StatusError {
		s.logger.WithFields(logrus.Fields{
			"term":       term,
			"request_id": requestID(r),
		}).Debug("http: search resolved with error")
	}
	return state
}

func buildTrendingParams(raw string, fallback int) (trendingParams, error) {
	params := trendingParams{Limit: fallback}
	if raw = strings.TrimSpace(raw); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, errors.New("invalid limit value")
		}
		params.Limit = limit
	}
	return params, nil
}

func (s *Server) toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Overview:    movie.Overview,
		PosterURL:   tmdb.PosterURL(s.cfg.TMDBImageBaseURL, movie.PosterPath),
		ReleaseYear: movie.ReleaseYear(),
		Language:    movie.Language(),
		VoteAverage: movie.VoteAverage,
	}
}

func toTrendingResponse(e domain.TrendingEntry) trendingResponse {
	return trendingResponse{
		Term:      e.Term,
		Count:     e.Count,
		MovieID:   e.MovieID,
		PosterURL: e.PosterURL,
		UpdatedAt: e.UpdatedAt,
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.WithError(err).Error("http: failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondValidationError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid query parameters",
			Details: verr.Fields,
		})
		return
	}
	s.logger.WithError(err).Error("http: validator failed")
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to validate request")
}
