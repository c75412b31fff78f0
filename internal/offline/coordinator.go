package offline

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/observe"
)

// ErrOffline marks a save that was queued instead of sent.
var ErrOffline = errors.New("offline: changes queued for sync")

// Saver persists a full collection remotely.
type Saver interface {
	Save(ctx context.Context, games []game.Game) error
}

// IsConnectivity reports whether err means the remote could not be reached,
// as opposed to the remote rejecting the request.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrOffline) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	var ce interface{ Connectivity() bool }
	if errors.As(err, &ce) {
		return ce.Connectivity()
	}
	return false
}

// State is what the UI shows about sync.
type State struct {
	Online    bool
	Pending   bool
	Dirty     bool
	LastError error
	LastSync  time.Time
}

// Coordinator bridges local edits to the Saver across connectivity changes.
//
// Saves are fenced by an increasing token. A failed save only queues its
// payload when it is the newest save issued, and a successful save only
// clears a pending payload that is not newer than itself.
type Coordinator struct {
	queue Queue
	saver Saver
	log   zerolog.Logger

	// Snapshot supplies the collection to queue when going offline with
	// unsaved edits.
	Snapshot func() []game.Game

	mu           sync.Mutex
	online       bool
	dirty        bool
	pending      bool
	pendingToken uint64
	issued       uint64
	lastErr      error
	lastSync     time.Time

	changes observe.Value[State]
}

// NewCoordinator returns a coordinator that starts online. It reads the queue
// once so a payload left by an earlier run is reported as pending.
func NewCoordinator(ctx context.Context, queue Queue, saver Saver, log zerolog.Logger) *Coordinator {
	c := &Coordinator{
		queue:  queue,
		saver:  saver,
		log:    log.With().Str("component", "offline").Logger(),
		online: true,
	}
	if p, err := queue.GetPendingSync(ctx); err == nil {
		c.pending = true
		c.pendingToken = p.Token
		c.issued = p.Token
	}
	c.changes.Publish(c.State())
	return c
}

// State returns the current sync state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers fn for state changes.
func (c *Coordinator) Subscribe(fn func(State)) func() {
	return c.changes.Subscribe(fn)
}

// Online reports the last connectivity signal.
func (c *Coordinator) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

// MarkDirty records an unsaved local edit.
func (c *Coordinator) MarkDirty() {
	c.mu.Lock()
	c.dirty = true
	st := c.stateLocked()
	c.mu.Unlock()
	c.changes.Publish(st)
}

// SetOnline applies a connectivity signal. Going offline with unsaved edits
// queues the current collection; coming back online with a pending payload
// replays it once. A failed replay is returned and stays pending until the
// next online transition.
func (c *Coordinator) SetOnline(ctx context.Context, online bool) error {
	c.mu.Lock()
	if c.online == online {
		c.mu.Unlock()
		return nil
	}
	c.online = online
	dirty, pending := c.dirty, c.pending
	c.mu.Unlock()

	c.log.Info().Bool("online", online).Msg("connectivity changed")

	var err error
	switch {
	case !online && dirty && c.Snapshot != nil:
		c.mu.Lock()
		c.issued++
		token := c.issued
		c.mu.Unlock()
		err = c.enqueue(ctx, c.Snapshot(), token)
	case online && pending:
		err = c.Flush(ctx)
	}
	c.publish()
	return err
}

// Save sends games to the Saver. While offline, or when the failure is a
// connectivity problem, the payload is queued and the returned error wraps
// ErrOffline. Other failures are returned unchanged and nothing is queued.
func (c *Coordinator) Save(ctx context.Context, games []game.Game) error {
	c.mu.Lock()
	c.issued++
	token := c.issued
	online := c.online
	c.mu.Unlock()

	if err := c.queue.PutAllGames(ctx, games); err != nil {
		c.log.Warn().Err(err).Msg("local cache write failed")
	}

	if !online {
		if err := c.enqueue(ctx, games, token); err != nil {
			return err
		}
		c.publish()
		return ErrOffline
	}

	err := c.saver.Save(ctx, games)
	if err == nil {
		c.completed(ctx, token)
		return nil
	}

	c.mu.Lock()
	c.lastErr = err
	newest := token == c.issued
	c.mu.Unlock()

	if !IsConnectivity(err) {
		c.log.Error().Err(err).Uint64("token", token).Msg("save rejected")
		c.publish()
		return err
	}
	if !newest {
		c.log.Debug().Uint64("token", token).Msg("stale save failure not queued")
		c.publish()
		return fmt.Errorf("%w: %w", ErrOffline, err)
	}
	if qerr := c.enqueue(ctx, games, token); qerr != nil {
		return errors.Join(err, qerr)
	}
	c.publish()
	return fmt.Errorf("%w: %w", ErrOffline, err)
}

// Flush replays the pending payload. It returns ErrNoPending when the queue
// is empty.
func (c *Coordinator) Flush(ctx context.Context) error {
	p, err := c.queue.GetPendingSync(ctx)
	if errors.Is(err, ErrNoPending) {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
		c.publish()
		return ErrNoPending
	}
	if err != nil {
		return fmt.Errorf("read pending: %w", err)
	}

	if err := c.saver.Save(ctx, p.Games); err != nil {
		replaysTotal.WithLabelValues("failure").Inc()
		c.mu.Lock()
		c.lastErr = err
		c.mu.Unlock()
		c.log.Warn().Err(err).Uint64("token", p.Token).Msg("pending replay failed")
		c.publish()
		return fmt.Errorf("replay pending: %w", err)
	}
	replaysTotal.WithLabelValues("success").Inc()
	c.log.Info().Int("games", len(p.Games)).Uint64("token", p.Token).Msg("pending replayed")
	c.completed(ctx, p.Token)
	return nil
}

// PendingPresent asks the queue whether a payload is waiting.
func (c *Coordinator) PendingPresent(ctx context.Context) bool {
	_, err := c.queue.GetPendingSync(ctx)
	return err == nil
}

func (c *Coordinator) enqueue(ctx context.Context, games []game.Game, token uint64) error {
	c.mu.Lock()
	if c.pending && c.pendingToken > token {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	p := Payload{Games: games, Token: token, CreatedAt: time.Now().UTC()}
	if err := c.queue.PutPendingSync(ctx, p); err != nil {
		c.log.Error().Err(err).Msg("queue pending sync failed")
		return fmt.Errorf("queue pending: %w", err)
	}

	c.mu.Lock()
	c.pending = true
	c.pendingToken = token
	c.mu.Unlock()
	c.log.Info().Int("games", len(games)).Uint64("token", token).Msg("changes queued for sync")
	return nil
}

// completed records a successful save of token.
func (c *Coordinator) completed(ctx context.Context, token uint64) {
	c.mu.Lock()
	clearPending := c.pending && c.pendingToken <= token
	if token >= c.issued {
		c.dirty = false
	}
	c.lastErr = nil
	c.lastSync = time.Now()
	c.mu.Unlock()

	if clearPending {
		if err := c.queue.ClearPendingSync(ctx); err != nil {
			c.log.Warn().Err(err).Msg("clear pending sync failed")
		} else {
			c.mu.Lock()
			if c.pendingToken <= token {
				c.pending = false
			}
			c.mu.Unlock()
		}
	}
	c.publish()
}

func (c *Coordinator) publish() {
	c.changes.Publish(c.State())
}

func (c *Coordinator) stateLocked() State {
	return State{
		Online:    c.online,
		Pending:   c.pending,
		Dirty:     c.dirty,
		LastError: c.lastErr,
		LastSync:  c.lastSync,
	}
}
