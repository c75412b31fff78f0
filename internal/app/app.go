package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/api"
	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/config"
	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/logging"
	"github.com/five82/backlog/internal/nav"
	"github.com/five82/backlog/internal/offline"
	"github.com/five82/backlog/internal/prefs"
	"github.com/five82/backlog/internal/ui"
	"github.com/five82/backlog/internal/view"
)

// Options configure the backlog application.
type Options struct {
	PrefsPath string // empty uses default ~/.config/backlog/prefs.toml
	Location  string // start location, e.g. "/completed?platform=pc"
	Clock     clockwork.Clock
	Logger    *zerolog.Logger // overrides the file logger when set
}

// App owns every long-lived component.
type App struct {
	cfg       config.Config
	prefs     prefs.Prefs
	prefsPath string
	log       zerolog.Logger
	closers   []io.Closer

	client  *api.Client
	queue   offline.Queue
	source  catalog.Source
	metrics *http.Server

	Games   *catalog.Store
	Filters *filter.Store
	Views   *view.Engine
	History *nav.MemoryHistory
	Nav     *nav.Navigator
	Sync    *offline.Coordinator
	Monitor *offline.Monitor
}

// New builds the application from cfg. Close releases what it opens.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	a := &App{cfg: cfg, prefsPath: opts.PrefsPath}

	if opts.Logger != nil {
		a.log = *opts.Logger
	} else {
		log, closer, err := logging.New(cfg.LogPath(), cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
		a.log = log
		a.closers = append(a.closers, closer)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		a.log.Warn().Err(err).Msg("prefs unavailable, using defaults")
	}
	a.prefs = userPrefs

	client, err := api.NewClient(cfg.APIBase, cfg.CatalogPath, cfg.SavePath)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	a.client = client

	queue, err := offline.OpenSQLite(cfg.QueuePath())
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("open offline queue: %w", err)
	}
	a.queue = queue
	a.closers = append(a.closers, queue)

	a.wire(ctx, opts)
	return a, nil
}

// wire connects the stores, view engine, navigator and sync components.
func (a *App) wire(ctx context.Context, opts Options) {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	a.Games = catalog.NewStore(a.log)
	a.source = catalog.FallbackSource{
		Primary:   mirrorSource{remote: a.client, queue: a.queue, log: a.log},
		Secondary: offline.LocalSource{Queue: a.queue},
	}

	initial := nav.Decode(opts.Location, catalog.Facets{})
	if initial.Sort.IsDefault() {
		initial.Sort = a.prefs.DefaultSort()
	}
	a.Filters = filter.NewStore(initial)
	a.History = nav.NewMemoryHistory(nav.Encode(a.Filters.State()))

	a.Views = view.NewEngine(a.Games, a.Filters, view.Options{
		CacheSize:    a.cfg.ViewCacheSize,
		CacheTTL:     a.cfg.ViewCacheTTL,
		CompletedTTL: a.cfg.CompletedCacheTTL,
		Clock:        clock,
		Logger:       a.log,
	})
	a.Nav = nav.NewNavigator(a.Filters, a.History, nav.NewClearGuard(clock), a.Games, a.log)

	a.Sync = offline.NewCoordinator(ctx, a.queue, a.client, a.log)
	a.Sync.Snapshot = a.Games.All
	a.Monitor = offline.NewMonitor(a.client, a.Sync, a.cfg.ProbeInterval, a.log)

	a.Views.Start()
	a.Nav.Start()
}

// Load fetches the catalog, falling back to the local copy when the API
// cannot be reached. Facet slugs in the current location are resolved
// against the loaded catalog.
func (a *App) Load(ctx context.Context) catalog.Snapshot {
	a.Games.Load(ctx, a.source)
	a.Nav.SyncFromURL(a.History.Location())
	return a.Games.Snapshot()
}

// Save persists the collection through the sync coordinator. An offline
// save is queued and reported as offline.ErrOffline.
func (a *App) Save(ctx context.Context) error {
	return a.Sync.Save(ctx, a.Games.All())
}

// AddGame appends g and marks the collection dirty.
func (a *App) AddGame(g game.Game) error {
	if err := a.Games.Add(g); err != nil {
		return err
	}
	a.Sync.MarkDirty()
	return nil
}

// UpdateGame merges patch into the game with id.
func (a *App) UpdateGame(id string, patch game.Patch) error {
	if !a.Games.Update(id, patch) {
		return fmt.Errorf("update %q: %w", id, catalog.ErrNotFound)
	}
	a.Sync.MarkDirty()
	return nil
}

// RemoveGame deletes the game with id.
func (a *App) RemoveGame(id string) error {
	if !a.Games.Remove(id) {
		return fmt.Errorf("remove %q: %w", id, catalog.ErrNotFound)
	}
	a.Sync.MarkDirty()
	return nil
}

// Run starts background work and the TUI, blocking until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.serveMetrics()
	a.Monitor.Start(ctx)
	go a.Load(ctx)

	return ui.Run(ui.Options{
		Context:   ctx,
		Games:     a.Games,
		Filters:   a.Filters,
		Views:     a.Views,
		Nav:       a.Nav,
		Sync:      a.Sync,
		Save:      a.Save,
		Reload:    func(ctx context.Context) { a.Load(ctx) },
		ThemeName: a.prefs.Theme,
		Prefs:     a.prefs,
		PrefsPath: a.prefsPath,
		Logger:    a.log,
	})
}

// List loads the catalog and writes the view selected by location to w.
func (a *App) List(ctx context.Context, location string, w io.Writer) error {
	a.Load(ctx)
	if location != "" {
		a.Nav.SyncFromURL(location)
	}
	snap := a.Games.Snapshot()
	if snap.Status == catalog.StatusError {
		return snap.LastError
	}
	return render(w, a.Filters.State(), a.Views)
}

// SyncPending replays a queued save left by an earlier session. It reports
// offline.ErrNoPending when nothing is waiting.
func (a *App) SyncPending(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", offline.ErrOffline, err)
	}
	return a.Sync.Flush(ctx)
}

func (a *App) serveMetrics() {
	if a.cfg.MetricsAddr == "" || a.metrics != nil {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	a.metrics = &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Str("addr", a.cfg.MetricsAddr).Msg("metrics server stopped")
		}
	}()
	a.log.Info().Str("addr", a.cfg.MetricsAddr).Msg("metrics server listening")
}

// Close stops background components and releases resources.
func (a *App) Close() error {
	if a.Nav != nil {
		a.Nav.Stop()
	}
	if a.Views != nil {
		a.Views.Close()
	}
	var errs []error
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, a.metrics.Shutdown(ctx))
		cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}
