package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/api"
	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/nav"
	"github.com/five82/backlog/internal/offline"
	"github.com/five82/backlog/internal/prefs"
	"github.com/five82/backlog/internal/view"
)

// changedMsg signals that a store published a change.
type changedMsg struct{}

// savedMsg carries the outcome of a save.
type savedMsg struct{ err error }

// reloadedMsg follows a finished catalog reload.
type reloadedMsg struct{}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	games     *catalog.Store
	filters   *filter.Store
	views     *view.Engine
	nav       *nav.Navigator
	sync      *offline.Coordinator
	save      func(context.Context) error
	reload    func(context.Context)
	prefs     prefs.Prefs
	prefsPath string
	log       zerolog.Logger
	changes   <-chan struct{}

	// UI state
	keys      keyMap
	help      help.Model
	theme     Theme
	width     int
	height    int
	ready     bool
	showHelp  bool
	searching bool
	search    textinput.Model
	message   string
	isError   bool

	// Data state
	state     filter.State
	rows      []game.Game
	groups    []view.TierGroup
	load      catalog.LoadStatus
	loadErr   error
	total     int
	syncState offline.State
	location  string

	// Selection
	cursor int
	offset int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "title or platform"
	search.CharLimit = 120

	m := Model{
		ctx:       ctx,
		games:     opts.Games,
		filters:   opts.Filters,
		views:     opts.Views,
		nav:       opts.Nav,
		sync:      opts.Sync,
		save:      opts.Save,
		reload:    opts.Reload,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		log:       opts.Logger.With().Str("component", "ui").Logger(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(themeName),
		search:    search,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.ctx, m.changes)
}

func waitForChange(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return changedMsg{}
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.clampSelection()
		return m, nil

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.ctx, m.changes)

	case savedMsg:
		switch {
		case msg.err == nil:
			m.setMessage("Saved", false)
		case errors.Is(msg.err, offline.ErrOffline):
			m.setMessage("Offline: save queued for replay", false)
		default:
			m.setMessage("Save failed: "+saveMessage(msg.err), true)
		}
		m.refresh()
		return m, nil

	case reloadedMsg:
		m.refresh()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
	case key.Matches(msg, k.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, k.Save):
		return m, m.saveCmd()
	case key.Matches(msg, k.Reload):
		return m, m.reloadCmd()

	case key.Matches(msg, k.TabAll):
		m.switchTab(filter.TabAll)
	case key.Matches(msg, k.TabCompleted):
		m.switchTab(filter.TabCompleted)
	case key.Matches(msg, k.TabPlanned):
		m.switchTab(filter.TabPlanned)
	case key.Matches(msg, k.TabTierlist):
		m.switchTab(filter.TabTierlist)
	case key.Matches(msg, k.Home):
		m.nav.NavigateReset(filter.TabAll, nav.Options{ScrollToTop: true})
		m.search.SetValue("")
		m.cursor, m.offset = 0, 0

	case key.Matches(msg, k.Search):
		m.searching = true
		m.search.SetValue(m.state.Search)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, k.ClearSearch):
		if m.state.Search != "" {
			m.nav.ClearSearch()
			m.search.SetValue("")
		}
	case key.Matches(msg, k.CycleSort):
		m.filters.SetSort(filter.Sort{Key: m.state.Sort.Key.Next(), Dir: m.state.Sort.Dir})
	case key.Matches(msg, k.FlipDirection):
		m.filters.SetSort(filter.Sort{Key: m.state.Sort.Key, Dir: m.state.Sort.Dir.Flip()})
	case key.Matches(msg, k.TogglePlatform):
		if g, ok := m.selected(); ok && g.Platform != "" {
			m.filters.TogglePlatform(g.Platform)
		}
	case key.Matches(msg, k.ToggleGenre):
		if g, ok := m.selected(); ok && g.Genre != "" {
			m.filters.ToggleGenre(g.Genre)
		}
	case key.Matches(msg, k.ToggleCoOp):
		if g, ok := m.selected(); ok && g.CoOp != "" {
			m.filters.ToggleCoOp(string(g.CoOp))
		}
	case key.Matches(msg, k.ToggleTier):
		if g, ok := m.selected(); ok && g.TierLabel() != "" {
			m.filters.ToggleTier(g.TierLabel())
		}
	case key.Matches(msg, k.Reset):
		m.nav.MarkManualClear()
		m.filters.ResetFilters()
		m.search.SetValue("")

	case key.Matches(msg, k.Up):
		m.moveSelection(-1)
	case key.Matches(msg, k.Down):
		m.moveSelection(1)
	case key.Matches(msg, k.Top):
		m.cursor = 0
	case key.Matches(msg, k.Bottom):
		m.cursor = len(m.rows) - 1
	case key.Matches(msg, k.PageUp):
		m.moveSelection(-m.pageSize())
	case key.Matches(msg, k.PageDown):
		m.moveSelection(m.pageSize())
	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

// handleSearchKey feeds the search box. Every edit updates the filter so
// the list narrows while typing.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.ClearSearch):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.nav.ClearSearch()
		m.refresh()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.filters.SetSearchTerm(m.search.Value()) {
		m.cursor, m.offset = 0, 0
	}
	m.refresh()
	return m, cmd
}

func (m *Model) switchTab(tab filter.Tab) {
	if m.state.Tab == tab {
		return
	}
	// The tierlist location carries no query, so entering it starts clean.
	if tab == filter.TabTierlist {
		m.nav.NavigateReset(tab, nav.Options{ScrollToTop: true})
		m.search.SetValue("")
	} else {
		m.nav.Navigate(tab, nav.Options{ScrollToTop: true})
	}
	m.cursor, m.offset = 0, 0
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Msg("prefs not saved")
	}
}

func (m Model) saveCmd() tea.Cmd {
	if m.save == nil {
		return nil
	}
	ctx, save := m.ctx, m.save
	return func() tea.Msg {
		return savedMsg{err: save(ctx)}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	ctx, reload := m.ctx, m.reload
	return func() tea.Msg {
		reload(ctx)
		return reloadedMsg{}
	}
}

// refresh pulls the derived data from the stores.
func (m *Model) refresh() {
	m.state = m.filters.State()
	m.location = m.nav.Location()

	snap := m.games.Snapshot()
	m.load = snap.Status
	m.loadErr = snap.LastError
	m.total = len(snap.Games)

	if m.state.Tab == filter.TabTierlist {
		m.groups = m.views.Tierlist()
		m.rows = nil
		for _, g := range m.groups {
			m.rows = append(m.rows, g.Games...)
		}
	} else {
		m.groups = nil
		m.rows = m.views.Visible()
	}

	if m.sync != nil {
		m.syncState = m.sync.State()
	}
	m.clampSelection()
}

// saveMessage prefers the server's own wording for rejected saves.
func saveMessage(err error) string {
	var rejected *api.SaveError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return err.Error()
}

func (m *Model) setMessage(text string, isError bool) {
	m.message = text
	m.isError = isError
}

func (m Model) selected() (game.Game, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return game.Game{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) moveSelection(delta int) {
	m.cursor += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// pageSize is the number of list rows that fit below the header and above
// the footer.
func (m Model) pageSize() int {
	rows := m.height - chromeHeight
	if rows < 1 {
		return 1
	}
	return rows
}
