// Package searchstore turns free-typed input into debounced backend search
// calls.  Every keystroke updates the visible query immediately; the backend
// is asked only after a quiet period measured from the last keystroke, and
// only the latest scheduled call may publish its results, so a slow early
// search can never clobber a fast later one.
package searchstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"bezaspace/dbtypes"
)

// DefaultQuietPeriod is how long the input must be idle before a search
// fires.
const DefaultQuietPeriod = 300 * time.Millisecond

// UserSearchFunc runs one user search against the backend.
type UserSearchFunc func(ctx context.Context, query string) ([]*dbtypes.UserSearchResult, error)

// Store holds debounced user-search state for one input box.
type Store struct {
	search UserSearchFunc
	quiet  time.Duration

	mu        sync.Mutex
	gen       uint64
	query     string
	results   []*dbtypes.UserSearchResult
	searching bool
	lastErr   error
	timer     *time.Timer
}

func New(search UserSearchFunc) *Store {
	return NewWithQuietPeriod(search, DefaultQuietPeriod)
}

// NewWithQuietPeriod exists so tests can shrink the debounce window.
func NewWithQuietPeriod(search UserSearchFunc, quiet time.Duration) *Store {
	return &Store{search: search, quiet: quiet}
}

// SetQuery records a keystroke.  The visible query updates synchronously; a
// backend call is scheduled for after the quiet period, cancelling any
// previously scheduled call.  An empty or whitespace-only query empties the
// results without touching the backend.
func (s *Store) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		s.results = nil
		s.searching = false
		s.lastErr = nil
		return
	}

	gen := s.gen
	s.searching = true
	s.timer = time.AfterFunc(s.quiet, func() {
		s.runSearch(ctx, gen, query)
	})
}

func (s *Store) runSearch(ctx context.Context, gen uint64, query string) {
	results, err := s.search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		// A newer keystroke superseded this call while it was in flight.
		return
	}

	s.searching = false
	if err != nil {
		s.results = nil
		s.lastErr = err
		return
	}
	s.results = results
	s.lastErr = nil
}

// Clear resets the store to its idle state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.query = ""
	s.results = nil
	s.searching = false
	s.lastErr = nil
}

// Query returns the query as currently typed.
func (s *Store) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns the results of the most recent completed search.
func (s *Store) Results() []*dbtypes.UserSearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*dbtypes.UserSearchResult(nil), s.results...)
}

// Searching reports whether a search is scheduled or in flight.
func (s *Store) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Err returns the failure of the most recent completed search, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
