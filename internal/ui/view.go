package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Clark-Hu/movie-finder/internal/discovery"
	"github.com/Clark-Hu/movie-finder/internal/domain"
	"github.com/Clark-Hu/movie-finder/internal/tmdb"
)

// View renders the header, the trending strip (only when non-empty) and the
// movie grid.
func (a App) View() string {
	sections := []string{a.renderHeader()}
	if len(a.trending) > 0 {
		sections = append(sections, a.renderTrending())
	}
	sections = append(sections, a.renderMovies(), HelpStyle.Render("esc quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a App) renderHeader() string {
	hero := HeroStyle.Render("Find " + HeroAccent.Render("Movies") + " You'll Love Without the Hassle")
	return lipgloss.JoinVertical(lipgloss.Left, hero, SearchBox.Render(a.input.View()))
}

func (a App) renderTrending() string {
	var b strings.Builder
	for i, entry := range a.trending {
		b.WriteString(TrendingRank.Render(fmt.Sprintf("%d ", i+1)))
		b.WriteString(TrendingTerm.Render(entry.Term))
	}
	return lipgloss.JoinVertical(lipgloss.Left, SectionTitle.Render("Trending Movies"), b.String())
}

func (a App) renderMovies() string {
	title := SectionTitle.Render("All Movies")

	var body string
	switch a.state.Status {
	case discovery.StatusLoading, discovery.StatusIdle:
		body = a.spinner.View() + " Loading..."
	case discovery.StatusError:
		body = ErrorStyle.Render(a.state.Err)
	default:
		if len(a.state.Movies) == 0 {
			body = MovieMeta.Render("No movies found.")
		} else {
			body = a.renderGrid(a.state.Movies)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func (a App) renderGrid(movies []domain.Movie) string {
	cols := max(1, a.width/cardWidth)
	var rows []string
	for start := 0; start < len(movies); start += cols {
		end := min(start+cols, len(movies))
		cards := make([]string, 0, end-start)
		for _, m := range movies[start:end] {
			cards = append(cards, a.renderCard(m))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (a App) renderCard(m domain.Movie) string {
	poster := tmdb.PosterURL(a.opts.ImageBaseURL, m.PosterPath)
	if poster == "" {
		poster = PosterPlaceholder.Render("[no poster]")
	} else {
		poster = MovieMeta.Render(poster)
	}
	meta := MovieMeta.Render(fmt.Sprintf("★ %s • %s • %s", m.Rating(), m.Language(), m.ReleaseYear()))
	return MovieCard.Render(lipgloss.JoinVertical(lipgloss.Left, MovieTitle.Render(m.Title), meta, poster))
}
