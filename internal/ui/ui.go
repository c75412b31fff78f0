package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/nav"
	"github.com/five82/backlog/internal/offline"
	"github.com/five82/backlog/internal/prefs"
	"github.com/five82/backlog/internal/view"
)

// Options configures the UI.
type Options struct {
	Context context.Context
	Games   *catalog.Store
	Filters *filter.Store
	Views   *view.Engine
	Nav     *nav.Navigator
	Sync    *offline.Coordinator

	// Save persists the collection; Reload refetches the catalog.
	Save   func(ctx context.Context) error
	Reload func(ctx context.Context)

	ThemeName string
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    zerolog.Logger
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Games == nil || opts.Filters == nil || opts.Views == nil || opts.Nav == nil {
		return fmt.Errorf("ui requires the catalog, filter, view and navigation components")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}
	unsubs := []func(){
		opts.Games.Subscribe(func(catalog.Snapshot) { notify() }),
		opts.Filters.Subscribe(func(filter.State) { notify() }),
	}
	if opts.Sync != nil {
		unsubs = append(unsubs, opts.Sync.Subscribe(func(offline.State) { notify() }))
	}
	defer func() {
		for _, fn := range unsubs {
			fn()
		}
	}()

	model := New(opts)
	model.changes = changes

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
