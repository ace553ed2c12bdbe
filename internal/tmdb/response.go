package tmdb

import (
	"encoding/json"
	"strings"

	"github.com/Clark-Hu/movie-finder/internal/domain"
)

// apiResponse is the envelope shared by the search and discover endpoints,
// including the fields some providers use to flag a failed lookup inside a
// 200 response.
type apiResponse struct {
	Page          int        `json:"page"`
	Results       []apiMovie `json:"results"`
	Response      *softFlag  `json:"response"`
	Error         string     `json:"error"`
	Success       *bool      `json:"success"`
	StatusMessage string     `json:"status_message"`
}

type apiMovie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	OriginalLanguage string  `json:"original_language"`
	VoteAverage      float64 `json:"vote_average"`
	Popularity       float64 `json:"popularity"`
}

// softFlag accepts both "False"/"True" strings and JSON booleans.
type softFlag bool

func (f *softFlag) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = softFlag(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = softFlag(!strings.EqualFold(strings.TrimSpace(s), "false"))
	return nil
}

// convert splits a decoded envelope into a movie list or a soft failure.
func (p apiResponse) convert(endpoint string) ([]domain.Movie, error) {
	if p.Response != nil && !bool(*p.Response) {
		return nil, &ProviderSoftError{Endpoint: endpoint, Message: softMessage(p.Error)}
	}
	if p.Success != nil && !*p.Success {
		return nil, &ProviderSoftError{Endpoint: endpoint, Message: softMessage(p.StatusMessage)}
	}

	movies := make([]domain.Movie, 0, len(p.Results))
	for _, m := range p.Results {
		movies = append(movies, m.toDomain())
	}
	return movies, nil
}

func (m apiMovie) toDomain() domain.Movie {
	movie := domain.Movie{
		ID:               m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		ReleaseDate:      m.ReleaseDate,
		OriginalLanguage: m.OriginalLanguage,
		VoteAverage:      m.VoteAverage,
		Popularity:       m.Popularity,
	}
	if m.PosterPath != nil {
		movie.PosterPath = *m.PosterPath
	}
	return movie
}

func softMessage(msg string) string {
	if msg = strings.TrimSpace(msg); msg != "" {
		return msg
	}
	return DefaultSoftMessage
}
