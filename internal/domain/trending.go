package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// TrendingEntry is the persisted search counter for one normalized term.
type TrendingEntry struct {
	ID        string
	Term      string
	Count     int64
	MovieID   int64
	PosterURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeTerm trims a search term, collapses inner whitespace and applies
// Unicode case folding over the NFC form, so "  The  Matrix " and "the matrix"
// share one entry, as do "STRASSE" and "straße".
func NormalizeTerm(term string) string {
	term = strings.Join(strings.Fields(term), " ")
	// A Caser keeps state, so each call gets its own.
	return norm.NFC.String(cases.Fold().String(norm.NFC.String(term)))
}

// ErrEmptyTerm is returned when a term normalizes to nothing.
var ErrEmptyTerm = errors.New("trending: empty search term")
