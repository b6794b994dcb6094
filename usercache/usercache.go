// Package usercache memoizes profile lookups so that a page rendering many
// projects by the same few creators hits the backend once per creator, not
// once per card.
package usercache

import (
	"context"
	"sync"

	"bezaspace/dbtypes"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads one user's search projection.  Absence is (nil, nil).
type FetchFunc func(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error)

// Cache de-duplicates concurrent fetches per uid and keeps resolved values,
// including absence, until Clear.  There is no TTL and no invalidation on
// profile writes; staleness is the accepted tradeoff for render speed.
type Cache struct {
	fetch FetchFunc
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*dbtypes.UserSearchResult
}

func New(fetch FetchFunc) *Cache {
	return &Cache{
		fetch:   fetch,
		entries: map[string]*dbtypes.UserSearchResult{},
	}
}

// FetchUserByID returns the cached projection for uid, fetching it at most
// once no matter how many callers ask concurrently.  Every caller of the same
// flight gets the same value.  Fetch errors are returned but not cached, so
// the next caller retries.
func (c *Cache) FetchUserByID(ctx context.Context, uid string) (*dbtypes.UserSearchResult, error) {
	c.mu.Lock()
	if user, ok := c.entries[uid]; ok {
		c.mu.Unlock()
		return user, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(uid, func() (any, error) {
		user, err := c.fetch(ctx, uid)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[uid] = user
		c.mu.Unlock()

		return user, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*dbtypes.UserSearchResult), nil
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = map[string]*dbtypes.UserSearchResult{}
	c.mu.Unlock()
}
