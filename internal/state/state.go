// Package state holds the list screen's state machine.
//
// Every fetch cycle goes Loading → Loaded | Failed. Each Loading bumps the
// generation, and completions carrying an older generation are dropped, so
// only the most recent fetch ever lands in the state.
package state

import (
	"github.com/idilsaglam/feedpager/internal/model"
	"github.com/idilsaglam/feedpager/internal/pager"
)

// DefaultPerPage is the number of records on one page.
const DefaultPerPage = 10

// Phase is the lifecycle position of the current fetch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ListState is everything the list screen renders from.
type ListState struct {
	Records     []model.Record
	TotalPages  float64 // len(Records) / PerPage, unrounded
	CurrentPage int
	Refreshing  bool

	Phase      Phase
	Generation uint64
	PerPage    int
	Err        error // last applied failure, nil after a success
}

// New returns an idle state.
func New(perPage int) ListState {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return ListState{PerPage: perPage}
}

// Empty reports whether there is nothing to show at all. A list that was
// never fetched and one that fetched zero records look the same.
func (s ListState) Empty() bool { return len(s.Records) == 0 }

// LastPage is the highest page index offered by the page buttons.
func (s ListState) LastPage() int { return pager.LastPage(s.TotalPages) }

// PageRecords returns the records on the current page. A page past the end
// of the data is empty.
func (s ListState) PageRecords() []model.Record {
	if s.CurrentPage < 0 || s.PerPage <= 0 {
		return nil
	}
	// checked before multiplying: CurrentPage comes unbounded from input
	if s.CurrentPage >= (len(s.Records)+s.PerPage-1)/s.PerPage {
		return nil
	}
	from := s.CurrentPage * s.PerPage
	to := min(from+s.PerPage, len(s.Records))
	return s.Records[from:to]
}
