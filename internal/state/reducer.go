package state

import "github.com/idilsaglam/feedpager/internal/model"

// Action is a state transition. Reduce applies it.
type Action interface {
	apply(ListState) ListState
}

// StartLoading begins a new fetch cycle.
type StartLoading struct{}

// Loaded carries the records of a finished fetch.
type Loaded struct {
	Generation uint64
	Records    []model.Record
}

// Failed carries the error of a finished fetch.
type Failed struct {
	Generation uint64
	Err        error
}

// SelectPage is what tapping a page button does.
type SelectPage struct {
	Page int
}

// RefreshExpired clears the refreshing flag after the manual refresh delay,
// whether or not the fetch has finished.
type RefreshExpired struct{}

// Reduce returns the state after applying a. s is not modified.
func Reduce(s ListState, a Action) ListState {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (StartLoading) apply(s ListState) ListState {
	s.Generation++
	s.Phase = PhaseLoading
	s.Refreshing = true
	return s
}

func (a Loaded) apply(s ListState) ListState {
	if a.Generation != s.Generation {
		return s
	}
	recs := make([]model.Record, len(a.Records))
	copy(recs, a.Records)

	s.Records = recs
	s.TotalPages = float64(len(recs)) / float64(s.PerPage)
	s.Phase = PhaseLoaded
	s.Err = nil
	s.Refreshing = false
	return s
}

func (a Failed) apply(s ListState) ListState {
	if a.Generation != s.Generation {
		return s
	}
	s.Phase = PhaseFailed
	s.Err = a.Err
	s.Refreshing = false
	return s
}

func (a SelectPage) apply(s ListState) ListState {
	s.CurrentPage = a.Page
	return s
}

func (RefreshExpired) apply(s ListState) ListState {
	s.Refreshing = false
	return s
}
