package httpserver

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Clark-Hu/movie-finder/internal/domain"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Term     string
	Trending []domain.TrendingEntry
	Movies   []movieCard
	Error    string
}

type movieCard struct {
	Title     string
	PosterURL string
	Rating    string
	Language  string
	Year      string
}

func (s *Server) toMovieCard(movie domain.Movie) movieCard {
	return movieCard{
		Title:     movie.Title,
		PosterURL: tmdb.PosterURL(s.cfg.TMDBImageBaseURL, movie.PosterPath),
		Rating:    movie.Rating(),
		Language:  movie.Language(),
		Year:      movie.ReleaseYear(),
	}
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}
