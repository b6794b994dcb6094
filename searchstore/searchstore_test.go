package searchstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"bezaspace/dbtypes"

	"github.com/google/go-cmp/cmp"
)

const testQuiet = 30 * time.Millisecond

type recordingSearch struct {
	mu      sync.Mutex
	queries []string
	block   chan struct{} // if non-nil, the next call blocks until closed
}

func (r *recordingSearch) search(ctx context.Context, query string) ([]*dbtypes.UserSearchResult, error) {
	r.mu.Lock()
	r.queries = append(r.queries, query)
	block := r.block
	r.block = nil
	r.mu.Unlock()

	if block != nil {
		<-block
	}

	return []*dbtypes.UserSearchResult{{UID: "u-" + query, DisplayName: query}}, nil
}

func (r *recordingSearch) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestKeystrokesWithinQuietWindowCoalesce(t *testing.T) {
	rec := &recordingSearch{}
	store := NewWithQuietPeriod(rec.search, testQuiet)
	ctx := context.Background()

	store.SetQuery(ctx, "a")
	store.SetQuery(ctx, "ab")
	store.SetQuery(ctx, "abc")

	waitFor(t, "debounced search", func() bool { return !store.Searching() })

	got := rec.calls()
	want := []string{"abc"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad call sequence; diff (-got +want)\n%s", diff)
	}

	results := store.Results()
	if len(results) != 1 || results[0].UID != "u-abc" {
		t.Errorf("Results = %+v, want the abc result", results)
	}
}

func TestSeparatedKeystrokesSearchTwice(t *testing.T) {
	rec := &recordingSearch{}
	store := NewWithQuietPeriod(rec.search, testQuiet)
	ctx := context.Background()

	store.SetQuery(ctx, "a")
	waitFor(t, "first search", func() bool { return len(rec.calls()) == 1 })

	store.SetQuery(ctx, "b")
	waitFor(t, "second search", func() bool { return len(rec.calls()) == 2 })

	got := rec.calls()
	want := []string{"a", "b"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("Bad call sequence; diff (-got +want)\n%s", diff)
	}
}

func TestEmptyQueryShortCircuits(t *testing.T) {
	rec := &recordingSearch{}
	store := NewWithQuietPeriod(rec.search, testQuiet)
	ctx := context.Background()

	store.SetQuery(ctx, "a")
	waitFor(t, "first search", func() bool { return len(rec.calls()) == 1 })

	store.SetQuery(ctx, "   ")
	time.Sleep(3 * testQuiet)

	if got := rec.calls(); len(got) != 1 {
		t.Errorf("Calls = %v, want no search for a blank query", got)
	}
	if got := store.Results(); len(got) != 0 {
		t.Errorf("Results = %+v, want empty for a blank query", got)
	}
	if store.Searching() {
		t.Errorf("Store should not report searching for a blank query")
	}
}

func TestQueryUpdatesSynchronously(t *testing.T) {
	rec := &recordingSearch{}
	store := NewWithQuietPeriod(rec.search, testQuiet)

	store.SetQuery(context.Background(), "abc")
	if got := store.Query(); got != "abc" {
		t.Errorf("Query() = %q immediately after the keystroke, want %q", got, "abc")
	}
}

func TestStaleInFlightResultIsDropped(t *testing.T) {
	rec := &recordingSearch{}
	block := make(chan struct{})
	rec.block = block

	store := NewWithQuietPeriod(rec.search, testQuiet)
	ctx := context.Background()

	// First search fires and blocks inside the backend.
	store.SetQuery(ctx, "slow")
	waitFor(t, "slow search to start", func() bool { return len(rec.calls()) == 1 })

	// A later keystroke fires its own search, which completes first.
	store.SetQuery(ctx, "fast")
	waitFor(t, "fast search to finish", func() bool {
		for _, r := range store.Results() {
			if r.UID == "u-fast" {
				return true
			}
		}
		return false
	})

	// Now let the superseded slow search resolve; it must not publish.
	close(block)
	time.Sleep(3 * testQuiet)

	results := store.Results()
	if len(results) != 1 || results[0].UID != "u-fast" {
		t.Errorf("Results = %+v, want only the fast result", results)
	}
}

func TestClearResetsState(t *testing.T) {
	rec := &recordingSearch{}
	store := NewWithQuietPeriod(rec.search, testQuiet)
	ctx := context.Background()

	store.SetQuery(ctx, "a")
	waitFor(t, "search", func() bool { return len(store.Results()) == 1 })

	store.Clear()

	if store.Query() != "" || len(store.Results()) != 0 || store.Searching() {
		t.Errorf("Clear left state behind: query=%q results=%d searching=%v",
			store.Query(), len(store.Results()), store.Searching())
	}
}

func TestProjectStoreDebouncesAndFilters(t *testing.T) {
	var mu sync.Mutex
	var calls []*dbtypes.ProjectSearchFilters

	search := func(ctx context.Context, filters *dbtypes.ProjectSearchFilters) ([]*dbtypes.Project, error) {
		mu.Lock()
		calls = append(calls, filters)
		mu.Unlock()
		return []*dbtypes.Project{{ID: "p1", Category: filters.Category}}, nil
	}

	store := NewProjectStoreWithQuietPeriod(search, testQuiet)
	ctx := context.Background()

	store.SetFilters(ctx, &dbtypes.ProjectSearchFilters{Category: "Arts"})
	store.SetFilters(ctx, &dbtypes.ProjectSearchFilters{Category: "AI/ML"})

	waitFor(t, "debounced project search", func() bool { return !store.Searching() })

	mu.Lock()
	n := len(calls)
	last := calls[n-1]
	mu.Unlock()

	if n != 1 {
		t.Errorf("Backend called %d times, want 1", n)
	}
	if last.Category != "AI/ML" {
		t.Errorf("Searched category %q, want the last filter set", last.Category)
	}

	results := store.Results()
	if len(results) != 1 || results[0].Category != "AI/ML" {
		t.Errorf("Results = %+v, want the AI/ML result", results)
	}
}

func TestProjectStoreEmptyFiltersShortCircuit(t *testing.T) {
	var called bool
	search := func(ctx context.Context, filters *dbtypes.ProjectSearchFilters) ([]*dbtypes.Project, error) {
		called = true
		return nil, nil
	}

	store := NewProjectStoreWithQuietPeriod(search, testQuiet)
	store.SetFilters(context.Background(), &dbtypes.ProjectSearchFilters{})
	time.Sleep(3 * testQuiet)

	if called {
		t.Errorf("Backend called for an empty filter set")
	}
	if store.Searching() {
		t.Errorf("Store should be idle for an empty filter set")
	}
}
