package view

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/observe"
)

// Options tunes the engine caches.
type Options struct {
	CacheSize     int
	CacheTTL      time.Duration
	CompletedTTL  time.Duration
	CompletedSize int
	Clock         clockwork.Clock
	Logger        zerolog.Logger
}

// Stats counts cache traffic since the engine was created.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Engine derives the visible list from a catalog and a filter store and keeps
// it memoized.
type Engine struct {
	games   *catalog.Store
	filters *filter.Store

	cache     *Cache
	completed *CompletedCache
	log       zerolog.Logger

	hits   atomic.Uint64
	misses atomic.Uint64

	mu          sync.Mutex
	lastVersion uint64
	unsubs      []func()

	visible observe.Value[[]game.Game]
}

// NewEngine wires an engine to its stores. Call Start to follow changes.
func NewEngine(games *catalog.Store, filters *filter.Store, opts Options) *Engine {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 50
	}
	if opts.CompletedSize <= 0 {
		opts.CompletedSize = 4
	}
	return &Engine{
		games:     games,
		filters:   filters,
		cache:     NewCache(opts.CacheSize, opts.CacheTTL),
		completed: NewCompletedCache(opts.Clock, opts.CompletedTTL, opts.CompletedSize),
		log:       opts.Logger.With().Str("component", "view").Logger(),
	}
}

// Start subscribes to both stores. Catalog mutations purge the caches; every
// change republishes the visible list.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.unsubs != nil {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()

	unsubGames := e.games.Subscribe(func(snap catalog.Snapshot) {
		e.mu.Lock()
		changed := snap.Version != e.lastVersion
		e.lastVersion = snap.Version
		e.mu.Unlock()
		if changed {
			e.Invalidate()
		}
		e.publish()
	})
	unsubFilters := e.filters.Subscribe(func(filter.State) { e.publish() })

	e.mu.Lock()
	e.unsubs = []func(){unsubGames, unsubFilters}
	e.mu.Unlock()
}

// Close drops the store subscriptions.
func (e *Engine) Close() {
	e.mu.Lock()
	unsubs := e.unsubs
	e.unsubs = nil
	e.mu.Unlock()
	for _, fn := range unsubs {
		fn()
	}
}

// Visible returns the filtered, sorted list for the current state. The
// unfiltered completed tab in its default order is served by the completed
// cache.
func (e *Engine) Visible() []game.Game {
	games := e.games.All()
	st := e.filters.State()
	if isCompletedDefault(st) {
		return e.completed.Get(games)
	}
	key := Fingerprint(games, st)

	if cached, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		recordLookup(cacheVisible, true)
		return cached
	}
	e.misses.Add(1)
	recordLookup(cacheVisible, false)

	result := Apply(games, st)
	e.cache.Add(key, result)
	e.log.Debug().
		Int("games", len(games)).
		Int("visible", len(result)).
		Str("state", st.Key()).
		Msg("view recomputed")
	return result
}

// Completed returns completed games ordered by finished date, newest first.
func (e *Engine) Completed() []game.Game {
	return e.completed.Get(e.games.All())
}

// Tierlist groups the visible list by tier.
func (e *Engine) Tierlist() []TierGroup {
	return TierGroups(e.Visible())
}

// Invalidate purges every cached result.
func (e *Engine) Invalidate() {
	e.cache.Purge()
	e.completed.Purge()
}

// Subscribe registers fn for visible-list updates.
func (e *Engine) Subscribe(fn func([]game.Game)) func() {
	return e.visible.Subscribe(fn)
}

// Stats returns hit and miss counts for the visible cache.
func (e *Engine) Stats() Stats {
	return Stats{Hits: e.hits.Load(), Misses: e.misses.Load()}
}

// CompletedComputes reports how often the completed list was recomputed.
func (e *Engine) CompletedComputes() int {
	return e.completed.Computes()
}

func isCompletedDefault(st filter.State) bool {
	return st.Tab == filter.TabCompleted && st.Sort == CompletedSort && !st.IsFiltered()
}

func (e *Engine) publish() {
	e.visible.Publish(e.Visible())
}
