package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/observe"
)

var (
	// ErrDuplicateID is returned by Add when the identifier is already present.
	ErrDuplicateID = errors.New("game id already exists")
	// ErrNotFound is returned when an identifier is not in the catalog.
	ErrNotFound = errors.New("game not found")
)

// LoadStatus tracks the asynchronous catalog load.
type LoadStatus int

const (
	StatusIdle LoadStatus = iota
	StatusLoading
	StatusLoaded
	StatusError
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// LoadError records why the last catalog load failed.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load catalog: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Snapshot is an immutable view of the catalog at a point in time.
type Snapshot struct {
	Games       []game.Game
	Version     uint64
	Status      LoadStatus
	LastError   error
	LastUpdated time.Time
}

// Loading reports whether a load is in flight.
func (s Snapshot) Loading() bool { return s.Status == StatusLoading }

// Source fetches the persisted catalog.
type Source interface {
	FetchGames(ctx context.Context) ([]game.Game, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]game.Game, error)

// FetchGames implements Source.
func (f SourceFunc) FetchGames(ctx context.Context) ([]game.Game, error) { return f(ctx) }

// Store owns the authoritative in-memory list of games. The zero value is
// ready to use. Every mutation bumps Version and notifies subscribers
// synchronously on the calling goroutine.
type Store struct {
	mu          sync.RWMutex
	games       []game.Game
	index       map[string]int
	version     uint64
	status      LoadStatus
	lastErr     error
	lastUpdated time.Time
	loadSeq     uint64
	log         zerolog.Logger

	changes observe.Value[Snapshot]
}

// NewStore returns a Store that logs through log.
func NewStore(log zerolog.Logger) *Store {
	return &Store{log: log.With().Str("component", "catalog").Logger()}
}

// Initialize replaces the entire collection. Records with an id already seen
// earlier in games are dropped.
func (s *Store) Initialize(games []game.Game) {
	s.mu.Lock()
	dropped := s.replaceLocked(games)
	s.status = StatusLoaded
	s.lastErr = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if dropped > 0 {
		s.log.Warn().Int("dropped", dropped).Msg("duplicate game ids ignored")
	}
	s.changes.Publish(snap)
}

// Add appends g. It rejects records whose id already exists.
func (s *Store) Add(g game.Game) error {
	if strings.TrimSpace(g.ID) == "" {
		g.ID = game.NewID()
	}
	g = game.Normalize(g)
	if err := g.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.index[g.ID]; exists {
		s.mu.Unlock()
		return fmt.Errorf("add %q: %w", g.ID, ErrDuplicateID)
	}
	s.ensureIndexLocked()
	s.index[g.ID] = len(s.games)
	s.games = append(s.games, g)
	s.touchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.changes.Publish(snap)
	return nil
}

// Update merges patch into the game with the given id. It reports false and
// changes nothing when the id is unknown.
func (s *Store) Update(id string, patch game.Patch) bool {
	s.mu.Lock()
	idx, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.games[idx] = game.Apply(s.games[idx], patch)
	s.touchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.changes.Publish(snap)
	return true
}

// Remove deletes the game with the given id, reporting whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	idx, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.games = append(s.games[:idx], s.games[idx+1:]...)
	s.reindexLocked()
	s.touchLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.changes.Publish(snap)
	return true
}

// All returns a copy of the games in insertion order.
func (s *Store) All() []game.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGames(s.games)
}

// Get returns the game with the given id.
func (s *Store) Get(id string) (game.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[id]
	if !ok {
		return game.Game{}, false
	}
	return s.games[idx].Clone(), true
}

// Len returns the number of games.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Version returns the mutation counter.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn for change notifications. fn is called immediately
// with the current snapshot.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	var replayed bool
	return s.changes.Subscribe(func(snap Snapshot) {
		if !replayed {
			replayed = true
			snap = s.Snapshot()
		}
		fn(snap)
	})
}

// Load fetches the catalog from src and replaces the collection. Failures
// leave the collection empty and are reported through the snapshot, never
// returned. Only the most recently started load may publish its result.
func (s *Store) Load(ctx context.Context, src Source) {
	s.mu.Lock()
	s.loadSeq++
	token := s.loadSeq
	s.status = StatusLoading
	s.lastErr = nil
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.changes.Publish(snap)

	s.log.Debug().Uint64("token", token).Msg("catalog load started")
	games, err := src.FetchGames(ctx)

	s.mu.Lock()
	if token != s.loadSeq {
		s.mu.Unlock()
		s.log.Debug().Uint64("token", token).Msg("stale catalog load discarded")
		return
	}
	if err != nil {
		s.replaceLocked(nil)
		s.status = StatusError
		s.lastErr = &LoadError{Err: err}
	} else {
		s.replaceLocked(games)
		s.status = StatusLoaded
		s.lastErr = nil
	}
	snap = s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("catalog load failed")
	} else {
		s.log.Info().Int("games", len(snap.Games)).Msg("catalog loaded")
	}
	s.changes.Publish(snap)
}

// Facets lists the distinct values present for each filterable facet.
type Facets struct {
	Platforms []string
	Genres    []string
	CoOp      []string
	Tiers     []string
}

// Facets returns the sorted distinct facet values in the catalog.
func (s *Store) Facets() Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FacetsOf(s.games)
}

// FacetsOf computes the distinct facet values of games.
func FacetsOf(games []game.Game) Facets {
	platforms := map[string]struct{}{}
	genres := map[string]struct{}{}
	coop := map[string]struct{}{}
	for _, g := range games {
		if g.Platform != "" {
			platforms[g.Platform] = struct{}{}
		}
		if g.Genre != "" {
			genres[g.Genre] = struct{}{}
		}
		if g.CoOp != "" {
			coop[string(g.CoOp)] = struct{}{}
		}
	}
	tiers := make([]string, 0, len(game.Tiers()))
	for _, t := range game.Tiers() {
		tiers = append(tiers, t.Label())
	}
	return Facets{
		Platforms: sortedKeys(platforms),
		Genres:    sortedKeys(genres),
		CoOp:      sortedKeys(coop),
		Tiers:     tiers,
	}
}

func (s *Store) replaceLocked(games []game.Game) int {
	s.games = make([]game.Game, 0, len(games))
	s.index = make(map[string]int, len(games))
	dropped := 0
	for _, g := range games {
		if _, dup := s.index[g.ID]; dup {
			dropped++
			continue
		}
		s.index[g.ID] = len(s.games)
		s.games = append(s.games, g.Clone())
	}
	s.touchLocked()
	return dropped
}

func (s *Store) ensureIndexLocked() {
	if s.index == nil {
		s.index = make(map[string]int)
	}
}

func (s *Store) reindexLocked() {
	s.index = make(map[string]int, len(s.games))
	for i, g := range s.games {
		s.index[g.ID] = i
	}
}

func (s *Store) touchLocked() {
	s.version++
	s.lastUpdated = time.Now()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Games:       cloneGames(s.games),
		Version:     s.version,
		Status:      s.status,
		LastUpdated: s.lastUpdated,
	}
	if s.lastErr != nil {
		snap.LastError = fmt.Errorf("%w", s.lastErr)
	}
	return snap
}

func cloneGames(games []game.Game) []game.Game {
	if len(games) == 0 {
		return nil
	}
	dup := make([]game.Game, len(games))
	for i, g := range games {
		dup[i] = g.Clone()
	}
	return dup
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
