package offline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/five82/backlog/internal/game"
)

// ErrNoPending is returned when no payload is waiting to sync.
var ErrNoPending = errors.New("no pending sync")

// PendingKey is the single queue slot holding the unsynced payload.
const PendingKey = "pending"

// Payload is a full collection waiting to be saved.
type Payload struct {
	Games     []game.Game `json:"games"`
	Token     uint64      `json:"token"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Queue is the local persisted cache: the last known collection plus at most
// one pending payload.
type Queue interface {
	GetAllGames(ctx context.Context) ([]game.Game, error)
	PutAllGames(ctx context.Context, games []game.Game) error
	GetPendingSync(ctx context.Context) (Payload, error)
	PutPendingSync(ctx context.Context, p Payload) error
	ClearPendingSync(ctx context.Context) error
}

// MemoryQueue is a Queue that lives only as long as the process.
type MemoryQueue struct {
	mu      sync.Mutex
	games   []game.Game
	pending *Payload
}

// GetAllGames implements Queue.
func (q *MemoryQueue) GetAllGames(ctx context.Context) ([]game.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return cloneGames(q.games), nil
}

// PutAllGames implements Queue.
func (q *MemoryQueue) PutAllGames(ctx context.Context, games []game.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.games = cloneGames(games)
	return nil
}

// GetPendingSync implements Queue.
func (q *MemoryQueue) GetPendingSync(ctx context.Context) (Payload, error) {
	if err := ctx.Err(); err != nil {
		return Payload{}, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		return Payload{}, ErrNoPending
	}
	p := *q.pending
	p.Games = cloneGames(p.Games)
	return p, nil
}

// PutPendingSync implements Queue.
func (q *MemoryQueue) PutPendingSync(ctx context.Context, p Payload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	p.Games = cloneGames(p.Games)
	q.pending = &p
	return nil
}

// ClearPendingSync implements Queue.
func (q *MemoryQueue) ClearPendingSync(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = nil
	return nil
}

// LocalSource serves the last cached collection as a catalog source.
type LocalSource struct {
	Queue Queue
}

// FetchGames returns the cached collection.
func (s LocalSource) FetchGames(ctx context.Context) ([]game.Game, error) {
	return s.Queue.GetAllGames(ctx)
}

func cloneGames(games []game.Game) []game.Game {
	if games == nil {
		return nil
	}
	out := make([]game.Game, len(games))
	for i, g := range games {
		out[i] = g.Clone()
	}
	return out
}
