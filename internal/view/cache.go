package view

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/five82/backlog/internal/game"
)

// Cache memoizes derived lists by fingerprint. Entries expire after ttl and
// the oldest insertion is evicted once size entries are held. Lookups do not
// refresh recency, so eviction follows insertion order.
type Cache struct {
	lru *expirable.LRU[uint64, []game.Game]
}

// NewCache returns a cache bounded by size entries and ttl age. A size of zero
// means unbounded; a ttl of zero disables expiry.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[uint64, []game.Game](size, nil, ttl)}
}

// Get returns a copy of the cached list for key.
func (c *Cache) Get(key uint64) ([]game.Game, bool) {
	games, ok := c.lru.Peek(key)
	if !ok {
		return nil, false
	}
	return cloneList(games), true
}

// Add stores a copy of games under key.
func (c *Cache) Add(key uint64, games []game.Game) {
	c.lru.Add(key, cloneList(games))
}

// Purge drops every entry.
func (c *Cache) Purge() { c.lru.Purge() }

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }

func cloneList(games []game.Game) []game.Game {
	out := make([]game.Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
	}
	return out
}
