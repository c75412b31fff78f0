package filter

import (
	"strings"
	"sync"

	"github.com/five82/backlog/internal/observe"
)

// Store holds the current State. Subscribers are only notified when a call
// actually changes it.
type Store struct {
	mu      sync.Mutex
	state   State
	changes *observe.Value[State]
}

// NewStore returns a store seeded with initial. Zero sort and tab fields are
// replaced by their defaults.
func NewStore(initial State) *Store {
	initial = withDefaults(initial.Clone())
	return &Store{state: initial, changes: observe.NewValue(initial.Clone())}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn and replays the current state.
func (s *Store) Subscribe(fn func(State)) func() {
	return s.changes.Subscribe(fn)
}

// SetSearchTerm replaces the search term.
func (s *Store) SetSearchTerm(term string) bool {
	return s.update(func(st *State) { st.Search = term })
}

// TogglePlatform adds or removes a platform from the selection.
func (s *Store) TogglePlatform(v string) bool {
	return s.update(func(st *State) { st.Platforms = st.Platforms.Toggle(strings.TrimSpace(v)) })
}

// ToggleGenre adds or removes a genre from the selection.
func (s *Store) ToggleGenre(v string) bool {
	return s.update(func(st *State) { st.Genres = st.Genres.Toggle(strings.TrimSpace(v)) })
}

// ToggleTier adds or removes a tier label from the selection.
func (s *Store) ToggleTier(v string) bool {
	return s.update(func(st *State) { st.Tiers = st.Tiers.Toggle(strings.TrimSpace(v)) })
}

// ToggleCoOp adds or removes a co-op value from the selection.
func (s *Store) ToggleCoOp(v string) bool {
	return s.update(func(st *State) { st.CoOp = st.CoOp.Toggle(strings.TrimSpace(v)) })
}

// SetSort replaces the ordering. Invalid keys or directions fall back to the
// default for that field.
func (s *Store) SetSort(sort Sort) bool {
	return s.update(func(st *State) { st.Sort = normalizeSort(sort) })
}

// ResetFilters clears the search term, every facet and the sort.
func (s *Store) ResetFilters() bool {
	return s.update(func(st *State) {
		clearFilters(st)
		st.Sort = DefaultSort
	})
}

// ResetFiltersKeepSort clears the search term and every facet.
func (s *Store) ResetFiltersKeepSort() bool {
	return s.update(clearFilters)
}

// SetTab switches tabs. When the tab actually changes the co-op and platform
// selections are cleared; genre, tier and search carry over.
func (s *Store) SetTab(tab Tab) bool {
	return s.update(func(st *State) {
		if st.Tab == tab {
			return
		}
		st.Tab = tab
		st.CoOp = nil
		st.Platforms = nil
	})
}

// Replace swaps in next wholesale. It is used when reading state from a URL.
func (s *Store) Replace(next State) bool {
	return s.update(func(st *State) { *st = withDefaults(next.Clone()) })
}

func (s *Store) update(mutate func(*State)) bool {
	s.mu.Lock()
	next := s.state.Clone()
	mutate(&next)
	if next.Equal(s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	published := next.Clone()
	s.mu.Unlock()

	s.changes.Publish(published)
	return true
}

func clearFilters(st *State) {
	st.Search = ""
	st.Platforms = nil
	st.Genres = nil
	st.Tiers = nil
	st.CoOp = nil
}

func normalizeSort(sort Sort) Sort {
	key, ok := ParseSortKey(string(sort.Key))
	if !ok {
		key = DefaultSort.Key
	}
	dir, ok := ParseDirection(string(sort.Dir))
	if !ok {
		dir = DefaultSort.Dir
	}
	return Sort{Key: key, Dir: dir}
}

func withDefaults(st State) State {
	st.Sort = normalizeSort(st.Sort)
	if st.Tab == "" {
		st.Tab = TabAll
	}
	return st
}
