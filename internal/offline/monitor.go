package offline

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

const (
	defaultProbeInterval = 5 * time.Second
	maxBackoff           = 30 * time.Second

	// OfflineThreshold is the number of consecutive failed probes before the
	// coordinator is told the remote is gone.
	OfflineThreshold = 2
)

// Pinger checks whether the remote is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor probes connectivity and reports transitions to a Coordinator.
type Monitor struct {
	pinger   Pinger
	coord    *Coordinator
	interval time.Duration
	log      zerolog.Logger

	mu       sync.Mutex
	failures int
}

// NewMonitor returns a monitor probing every interval while online.
func NewMonitor(pinger Pinger, coord *Coordinator, interval time.Duration, log zerolog.Logger) *Monitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &Monitor{
		pinger:   pinger,
		coord:    coord,
		interval: interval,
		log:      log.With().Str("component", "monitor").Logger(),
	}
}

// Start launches the probe loop in a goroutine and returns immediately.
// Probes back off exponentially while failing.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		for {
			m.Probe(ctx)
			timer := time.NewTimer(calculateBackoff(m.Failures(), m.interval))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// Probe pings once and updates the coordinator on a transition. It reports
// whether the ping succeeded.
func (m *Monitor) Probe(ctx context.Context) bool {
	err := m.pinger.Ping(ctx)

	m.mu.Lock()
	if err == nil {
		m.failures = 0
	} else {
		m.failures++
	}
	failures := m.failures
	m.mu.Unlock()

	online := m.coord.Online()
	switch {
	case err == nil && !online:
		if rerr := m.coord.SetOnline(ctx, true); rerr != nil {
			m.log.Warn().Err(rerr).Msg("replay after reconnect failed")
		}
	case err != nil && online && failures >= OfflineThreshold:
		m.log.Warn().Err(err).Int("failures", failures).Msg("remote unreachable")
		if oerr := m.coord.SetOnline(ctx, false); oerr != nil {
			m.log.Error().Err(oerr).Msg("queue on disconnect failed")
		}
	case err != nil:
		m.log.Debug().Err(err).Int("failures", failures).Msg("probe failed")
	}
	return err == nil
}

// Failures returns the number of consecutive failed probes.
func (m *Monitor) Failures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

// calculateBackoff doubles base once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = base
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxInterval = maxBackoff
	exp.MaxElapsedTime = 0
	exp.Reset()

	wait := exp.NextBackOff()
	for i := 0; i < failures; i++ {
		wait = exp.NextBackOff()
	}
	return wait
}
