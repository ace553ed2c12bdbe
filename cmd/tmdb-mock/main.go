package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movie-finder/internal/logging"
)

type mockMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	Popularity       float64 `json:"popularity"`
}

type mockPage struct {
	Page    int         `json:"page"`
	Results []mockMovie `json:"results"`
}

type mockSoftError struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

type mockServer struct {
	movies       []mockMovie
	apiKey       string
	softNotFound bool
	logger       logrus.FieldLogger
}

func main() {
	var (
		port         = flag.String("port", "9099", "port to listen on")
		data         = flag.String("data", "cmd/tmdb-mock/mock-movies.json", "path to mock data file")
		apiKey       = flag.String("key", "", "require this bearer token when set")
		softNotFound = flag.Bool("soft-not-found", false, `answer empty searches with {"response":"False"}`)
		logLevel     = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.New(*logLevel, "text", os.Stdout).WithField("service", "tmdb-mock")

	file, err := os.ReadFile(*data)
	if err != nil {
		logger.WithError(err).Fatal("read mock data")
	}
	var movies []mockMovie
	if err := json.Unmarshal(file, &movies); err != nil {
		logger.WithError(err).Fatal("parse mock data")
	}

	srv := &mockServer{movies: movies, apiKey: *apiKey, softNotFound: *softNotFound, logger: logger}

	addr := ":" + *port
	logger.WithFields(logrus.Fields{"addr": addr, "movies": len(movies)}).Info("mock tmdb listening")
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

func (s *mockServer) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/3/search/movie", s.authorized(s.handleSearch))
	mux.HandleFunc("/3/discover/movie", s.authorized(s.handleDiscover))
	return mux
}

func (s *mockServer) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success":        false,
				"status_code":    7,
				"status_message": "Invalid API key: You must be granted a valid key.",
			})
			return
		}
		next(w, r)
	}
}

func (s *mockServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	results := []mockMovie{}
	for _, m := range s.movies {
		if query != "" && strings.Contains(strings.ToLower(m.Title), query) {
			results = append(results, m)
		}
	}
	s.logger.WithFields(logrus.Fields{"query": query, "hits": len(results)}).Debug("search")

	if len(results) == 0 && s.softNotFound {
		writeJSON(w, http.StatusOK, mockSoftError{Response: "False", Error: "Movie not found!"})
		return
	}
	writeJSON(w, http.StatusOK, mockPage{Page: 1, Results: results})
}

func (s *mockServer) handleDiscover(w http.ResponseWriter, r *http.Request) {
	results := append([]mockMovie(nil), s.movies...)
	if r.URL.Query().Get("sort_by") == "popularity.desc" {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Popularity > results[j].Popularity
		})
	}
	writeJSON(w, http.StatusOK, mockPage{Page: 1, Results: results})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
