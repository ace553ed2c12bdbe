package domain

import (
	"strconv"
	"strings"
)

// Movie is a single result returned by the metadata provider. Values are
// read-only and live for one fetch response.
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Overview         string  `json:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	Popularity       float64 `json:"popularity"`
}

// ReleaseYear returns the four digit year of ReleaseDate, or "N/A".
func (m Movie) ReleaseYear() string {
	if len(m.ReleaseDate) >= 4 {
		return m.ReleaseDate[:4]
	}
	return "N/A"
}

// Language returns the upper-cased original language code.
func (m Movie) Language() string {
	if m.OriginalLanguage == "" {
		return "N/A"
	}
	return strings.ToUpper(m.OriginalLanguage)
}

// Rating formats VoteAverage with one decimal, or "N/A" when unrated.
func (m Movie) Rating() string {
	if m.VoteAverage <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(m.VoteAverage, 'f', 1, 64)
}
