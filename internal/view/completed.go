package view

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
)

// CompletedSort is the dashboard default ordering.
var CompletedSort = filter.Sort{Key: filter.SortFinishedDate, Dir: filter.Desc}

type completedEntry struct {
	games   []game.Game
	expires time.Time
}

// CompletedCache memoizes the completed games ordered by finished date,
// newest first, keyed by a content hash of the whole collection.
// A hit inside the window extends the entry, so a burst of reads coalesces
// into one computation. Concurrent misses for the same key compute once.
type CompletedCache struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	ttl      time.Duration
	size     int
	entries  map[uint64]*completedEntry
	order    []uint64
	computes int
}

// NewCompletedCache returns a cache with the given window and entry bound.
// A nil clock uses the real clock.
func NewCompletedCache(clock clockwork.Clock, ttl time.Duration, size int) *CompletedCache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if size <= 0 {
		size = 1
	}
	return &CompletedCache{
		clock:   clock,
		ttl:     ttl,
		size:    size,
		entries: make(map[uint64]*completedEntry),
	}
}

// Get returns the completed games of games in finished-date order.
func (c *CompletedCache) Get(games []game.Game) []game.Game {
	key := CompletedFingerprint(games)
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && now.Before(e.expires) {
		e.expires = now.Add(c.ttl)
		recordLookup(cacheCompleted, true)
		return cloneList(e.games)
	}
	recordLookup(cacheCompleted, false)

	st := filter.Default()
	st.Tab = filter.TabCompleted
	st.Sort = CompletedSort
	result := Apply(games, st)
	c.computes++

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = &completedEntry{games: result, expires: now.Add(c.ttl)}
	for len(c.order) > c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return cloneList(result)
}

// Purge drops every entry.
func (c *CompletedCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*completedEntry)
	c.order = nil
}

// Computes returns how many times the list was recomputed.
func (c *CompletedCache) Computes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.computes
}

// Len returns the number of entries held, expired or not.
func (c *CompletedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
