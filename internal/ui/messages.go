// Package ui provides the Bubble Tea front end for movie-finder.
package ui

import (
	"github.com/Clark-Hu/movie-finder/internal/discovery"
	"github.com/Clark-Hu/movie-finder/internal/domain"
)

// TermSettled is sent when the search input has been stable for the debounce
// delay.
type TermSettled struct {
	Term string
}

// MoviesFetched carries the outcome of fetch cycle Gen.
type MoviesFetched struct {
	Gen     uint64
	Outcome discovery.Outcome
}

// TrendingLoaded is sent once the trending strip has been read.
type TrendingLoaded struct {
	Entries []domain.TrendingEntry
}
