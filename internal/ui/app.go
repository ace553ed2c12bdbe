package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/movie-finder/internal/debounce"
	"github.com/Clark-Hu/movie-finder/internal/discovery"
	"github.com/Clark-Hu/movie-finder/internal/domain"
)

// Finder is the search flow the App drives. *discovery.Service satisfies it.
type Finder interface {
	Fetch(ctx context.Context, term string) discovery.Outcome
	Trending(ctx context.Context, limit int) []domain.TrendingEntry
}

// Options configures an App.
type Options struct {
	Debounce      time.Duration
	TrendingLimit int
	ImageBaseURL  string
	Logger        logrus.FieldLogger
}

// App is the root Bubble Tea model.
// App never talks to the store directly; results arrive as messages.
type App struct {
	ctx       context.Context
	finder    Finder
	opts      Options
	logger    logrus.FieldLogger
	debouncer *debounce.Debouncer[string]
	settled   chan string

	input    textinput.Model
	spinner  spinner.Model
	state    discovery.State
	lastTerm string
	trending []domain.TrendingEntry
	width    int
}

// NewApp builds the App and starts the initial discover fetch, which Init
// issues.
func NewApp(ctx context.Context, finder Finder, opts Options) App {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "Search through thousands of movies"
	ti.Prompt = "🔍 "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorPrimary)
	ti.CharLimit = 0
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	settled := make(chan string, 1)
	a := App{
		ctx:      ctx,
		finder:   finder,
		opts:     opts,
		logger:   logger.WithField("component", "ui"),
		settled:  settled,
		input:    ti,
		spinner:  sp,
		state:    discovery.State{}.Apply(discovery.FetchStarted{}),
		trending: []domain.TrendingEntry{},
		width:    80,
	}
	a.debouncer = debounce.New(opts.Debounce, func(term string) { publish(settled, term) })
	return a
}

// publish replaces any unread value so the reader always sees the latest
// settled term.
func publish(ch chan string, term string) {
	for {
		select {
		case ch <- term:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Init issues the initial fetch, the one-shot trending load and starts
// listening for settled terms.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		a.spinner.Tick,
		a.fetch(a.state.Gen, a.state.Term),
		a.loadTrending(),
		a.waitForSettled(),
	)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.Width = max(10, msg.Width-8)
		return a, nil

	case TermSettled:
		cmd := a.waitForSettled()
		if msg.Term == a.lastTerm {
			return a, cmd
		}
		a.lastTerm = msg.Term
		a.state = a.state.Apply(discovery.FetchStarted{Term: msg.Term})
		a.logger.WithField("term", msg.Term).Debug("ui: search settled")
		return a, tea.Batch(cmd, a.fetch(a.state.Gen, msg.Term), a.spinner.Tick)

	case MoviesFetched:
		a.state = a.state.Apply(msg.Outcome.Event(msg.Gen))
		return a, nil

	case TrendingLoaded:
		a.trending = msg.Entries
		return a, nil

	case spinner.TickMsg:
		if !a.state.Loading() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		a.debouncer.Stop()
		return a, tea.Quit
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if after := a.input.Value(); after != before {
		a.debouncer.Trigger(after)
	}
	return a, cmd
}

func (a App) fetch(gen uint64, term string) tea.Cmd {
	finder, ctx := a.finder, a.ctx
	return func() tea.Msg {
		return MoviesFetched{Gen: gen, Outcome: finder.Fetch(ctx, term)}
	}
}

func (a App) loadTrending() tea.Cmd {
	finder, ctx, limit := a.finder, a.ctx, a.opts.TrendingLimit
	return func() tea.Msg {
		return TrendingLoaded{Entries: finder.Trending(ctx, limit)}
	}
}

func (a App) waitForSettled() tea.Cmd {
	ch, ctx := a.settled, a.ctx
	return func() tea.Msg {
		select {
		case term := <-ch:
			return TermSettled{Term: term}
		case <-ctx.Done():
			return nil
		}
	}
}

// State returns the current search state (for testing).
func (a App) State() discovery.State {
	return a.state
}

// Trending returns the loaded trending entries (for testing).
func (a App) Trending() []domain.TrendingEntry {
	return a.trending
}
