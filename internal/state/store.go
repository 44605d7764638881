package state

import "sync"

// Store is the state holder shared by the view and whoever completes fetches.
type Store struct {
	mu    sync.Mutex
	state ListState
}

func NewStore(perPage int) *Store {
	return &Store{state: New(perPage)}
}

// Dispatch applies a and returns the resulting state.
func (s *Store) Dispatch(a Action) ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// State returns a snapshot.
func (s *Store) State() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
