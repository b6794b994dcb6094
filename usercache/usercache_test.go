package usercache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"bezaspace/dbtypes"
)

func TestConcurrentCallersShareOneFetch(t *testing.T) {
	const callers = 16

	var fetches int64
	release := make(chan struct{})
	cache := New(func(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error) {
		atomic.AddInt64(&fetches, 1)
		<-release
		return &dbtypes.UserSearchResult{UID: uid, DisplayName: "Ada"}, nil
	})

	results := make([]*dbtypes.UserSearchResult, callers)
	errs := make([]error, callers)

	started := sync.WaitGroup{}
	started.Add(callers)
	done := sync.WaitGroup{}
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			started.Done()
			defer done.Done()
			results[i], errs[i] = cache.FetchUserByID(context.Background(), "u1")
		}(i)
	}

	started.Wait()
	close(release)
	done.Wait()

	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("Fetch ran %d times, want 1", got)
	}

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("Caller %d got error: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("Caller %d got a different pointer than caller 0", i)
		}
	}
}

func TestAbsenceIsCached(t *testing.T) {
	var fetches int64
	cache := New(func(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error) {
		atomic.AddInt64(&fetches, 1)
		return nil, nil
	})

	for i := 0; i < 3; i++ {
		user, err := cache.FetchUserByID(context.Background(), "ghost")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if user != nil {
			t.Fatalf("Got %+v, want nil", user)
		}
	}

	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("Fetch ran %d times, want 1", got)
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	var fetches int64
	cache := New(func(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error) {
		if atomic.AddInt64(&fetches, 1) == 1 {
			return nil, errors.New("transient")
		}
		return &dbtypes.UserSearchResult{UID: uid}, nil
	})

	if _, err := cache.FetchUserByID(context.Background(), "u1"); err == nil {
		t.Fatalf("Expected an error from the first fetch")
	}

	user, err := cache.FetchUserByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user == nil || user.UID != "u1" {
		t.Fatalf("Got %+v, want user u1", user)
	}

	if got := atomic.LoadInt64(&fetches); got != 2 {
		t.Errorf("Fetch ran %d times, want 2", got)
	}
}

func TestClearForcesRefetch(t *testing.T) {
	var fetches int64
	cache := New(func(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error) {
		atomic.AddInt64(&fetches, 1)
		return &dbtypes.UserSearchResult{UID: uid}, nil
	})

	cache.FetchUserByID(context.Background(), "u1")
	cache.Clear()
	cache.FetchUserByID(context.Background(), "u1")

	if got := atomic.LoadInt64(&fetches); got != 2 {
		t.Errorf("Fetch ran %d times, want 2", got)
	}
}
