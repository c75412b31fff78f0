package nav

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
)

// FacetSource lists the facet values slugs resolve against.
type FacetSource interface {
	Facets() catalog.Facets
}

// Options controls the side effects of a navigation.
type Options struct {
	ScrollToTop bool
}

// Navigator keeps a History and a filter.Store consistent in both directions.
type Navigator struct {
	filters *filter.Store
	history History
	guard   *ClearGuard
	facets  FacetSource
	log     zerolog.Logger

	// OnScrollTop runs after navigations that ask for it.
	OnScrollTop func()

	mu    sync.Mutex
	unsub func()
}

// NewNavigator binds filters to history. facets may be nil.
func NewNavigator(filters *filter.Store, history History, guard *ClearGuard, facets FacetSource, log zerolog.Logger) *Navigator {
	if guard == nil {
		guard = NewClearGuard(nil)
	}
	return &Navigator{
		filters: filters,
		history: history,
		guard:   guard,
		facets:  facets,
		log:     log.With().Str("component", "nav").Logger(),
	}
}

// Start writes the location on every filter change until Stop.
func (n *Navigator) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.unsub != nil {
		return
	}
	n.unsub = n.filters.Subscribe(func(st filter.State) { n.write(st) })
}

// Stop ends the subscription started by Start.
func (n *Navigator) Stop() {
	n.mu.Lock()
	unsub := n.unsub
	n.unsub = nil
	n.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Navigate switches to tab and replaces the location. It returns the new
// location.
func (n *Navigator) Navigate(tab filter.Tab, opts Options) string {
	n.filters.SetTab(tab)
	loc := n.write(n.filters.State())
	if opts.ScrollToTop && n.OnScrollTop != nil {
		n.OnScrollTop()
	}
	return loc
}

// NavigateReset clears every filter and the sort before navigating.
func (n *Navigator) NavigateReset(tab filter.Tab, opts Options) string {
	n.MarkManualClear()
	n.filters.ResetFilters()
	return n.Navigate(tab, opts)
}

// MarkManualClear opens the guard window.
func (n *Navigator) MarkManualClear() {
	n.guard.Mark()
}

// ClearSearch empties the search term as a user action.
func (n *Navigator) ClearSearch() {
	n.MarkManualClear()
	n.filters.SetSearchTerm("")
}

// SyncFromURL loads location into the filter store. Inside the guard window
// it does nothing and reports false.
func (n *Navigator) SyncFromURL(location string) bool {
	if n.guard.Blocked() {
		n.log.Debug().Str("location", location).Msg("url sync skipped after manual clear")
		return false
	}
	var facets catalog.Facets
	if n.facets != nil {
		facets = n.facets.Facets()
	}
	n.filters.Replace(Decode(location, facets))
	return true
}

// Location returns the current location.
func (n *Navigator) Location() string {
	return n.history.Location()
}

func (n *Navigator) write(st filter.State) string {
	loc := Encode(st)
	if loc == n.history.Location() {
		return loc
	}
	n.history.Replace(loc)
	n.log.Debug().Str("location", loc).Msg("location replaced")
	return loc
}
