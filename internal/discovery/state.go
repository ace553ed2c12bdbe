// Package discovery holds the search flow shared by the terminal and web
// front ends: the fetch/record sequence and the view state machine.
package discovery

import "github.com/Clark-Hu/movie-finder/internal/domain"

// Status is the phase of the main search cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event drives State.Apply.
type Event interface {
	isEvent()
}

// FetchStarted begins a new cycle for Term and supersedes any cycle still in
// flight.
type FetchStarted struct {
	Term string
}

// FetchSucceeded resolves cycle Gen with a (possibly empty) result list.
type FetchSucceeded struct {
	Gen    uint64
	Movies []domain.Movie
}

// FetchFailed resolves cycle Gen with a user-facing message.
type FetchFailed struct {
	Gen     uint64
	Message string
}

func (FetchStarted) isEvent()   {}
func (FetchSucceeded) isEvent() {}
func (FetchFailed) isEvent()    {}

// State is the view's search state. The zero value is Idle.
type State struct {
	Status Status
	Gen    uint64
	Term   string
	Movies []domain.Movie
	Err    string
}

// Apply returns the state after ev. Resolutions for any generation other than
// the current one are dropped, so a slow response to an older term can never
// overwrite a newer one.
func (s State) Apply(ev Event) State {
	switch ev := ev.(type) {
	case FetchStarted:
		return State{
			Status: StatusLoading,
			Gen:    s.Gen + 1,
			Term:   ev.Term,
		}
	case FetchSucceeded:
		if !s.accepts(ev.Gen) {
			return s
		}
		movies := ev.Movies
		if movies == nil {
			movies = []domain.Movie{}
		}
		return State{Status: StatusSuccess, Gen: s.Gen, Term: s.Term, Movies: movies}
	case FetchFailed:
		if !s.accepts(ev.Gen) {
			return s
		}
		msg := ev.Message
		if msg == "" {
			msg = GenericErrorMessage
		}
		return State{Status: StatusError, Gen: s.Gen, Term: s.Term, Movies: []domain.Movie{}, Err: msg}
	default:
		return s
	}
}

func (s State) accepts(gen uint64) bool {
	return s.Status == StatusLoading && gen == s.Gen
}

// Loading reports whether a fetch is outstanding.
func (s State) Loading() bool { return s.Status == StatusLoading }
