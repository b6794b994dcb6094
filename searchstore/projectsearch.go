package searchstore

import (
	"context"
	"sync"
	"time"

	"bezaspace/dbtypes"
)

// ProjectSearchFunc runs one filtered project search against the backend.
type ProjectSearchFunc func(ctx context.Context, filters *dbtypes.ProjectSearchFilters) ([]*dbtypes.Project, error)

// ProjectStore is the filtered-browse counterpart of Store: same debounce
// and latest-wins rules, keyed on a filter set instead of a query string.
type ProjectStore struct {
	search ProjectSearchFunc
	quiet  time.Duration

	mu        sync.Mutex
	gen       uint64
	filters   *dbtypes.ProjectSearchFilters
	results   []*dbtypes.Project
	searching bool
	lastErr   error
	timer     *time.Timer
}

func NewProjectStore(search ProjectSearchFunc) *ProjectStore {
	return NewProjectStoreWithQuietPeriod(search, DefaultQuietPeriod)
}

func NewProjectStoreWithQuietPeriod(search ProjectSearchFunc, quiet time.Duration) *ProjectStore {
	return &ProjectStore{search: search, quiet: quiet}
}

// SetFilters records a filter change and schedules a debounced search.  An
// all-empty filter set empties the results without a backend call.
func (s *ProjectStore) SetFilters(ctx context.Context, filters *dbtypes.ProjectSearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filters
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if filters == nil || filters.IsZero() {
		s.results = nil
		s.searching = false
		s.lastErr = nil
		return
	}

	gen := s.gen
	s.searching = true
	s.timer = time.AfterFunc(s.quiet, func() {
		s.runSearch(ctx, gen, filters)
	})
}

func (s *ProjectStore) runSearch(ctx context.Context, gen uint64, filters *dbtypes.ProjectSearchFilters) {
	results, err := s.search(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
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
func (s *ProjectStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.filters = nil
	s.results = nil
	s.searching = false
	s.lastErr = nil
}

// Filters returns the filter set as currently chosen.
func (s *ProjectStore) Filters() *dbtypes.ProjectSearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Results returns the results of the most recent completed search.
func (s *ProjectStore) Results() []*dbtypes.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*dbtypes.Project(nil), s.results...)
}

// Searching reports whether a search is scheduled or in flight.
func (s *ProjectStore) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

// Err returns the failure of the most recent completed search, if any.
func (s *ProjectStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
