package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("141") // Lavender
	colorSecondary = lipgloss.Color("245")
	colorMuted     = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("212")
	colorError     = lipgloss.Color("196")
)

// cardWidth is the outer width of one movie card, borders included.
const cardWidth = 30

var HeroStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	MarginBottom(1)

var HeroAccent = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

var SearchBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

var SectionTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	MarginTop(1)

var TrendingRank = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary)

var TrendingTerm = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	MarginRight(2)

var MovieCard = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorMuted).
	Padding(0, 1).
	Width(cardWidth - 2)

var MovieTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

var MovieMeta = lipgloss.NewStyle().
	Foreground(colorSecondary)

var PosterPlaceholder = lipgloss.NewStyle().
	Foreground(colorMuted).
	Italic(true)

// ErrorStyle for fetch failures.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	MarginTop(1)
