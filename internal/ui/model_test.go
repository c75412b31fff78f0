package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
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

type harness struct {
	model   Model
	filters *filter.Store
	history *nav.MemoryHistory
	saves   int
	saveErr error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := zerolog.Nop()
	games := catalog.NewStore(log)
	games.Initialize([]game.Game{
		game.Transform(game.Raw{Title: "Hades", Platform: "PC", Genre: "Roguelike", Status: "Completed", FinishedDate: "2021-03-12", Score: game.Float(9.3)}),
		game.Transform(game.Raw{Title: "Celeste", Platform: "Switch", Genre: "Platformer", Status: "Completed", FinishedDate: "2023-01-05", Score: game.Float(8.1)}),
		game.Transform(game.Raw{Title: "Elden Ring", Platform: "PC", Genre: "Action RPG", Status: "Planned", CoOp: "Multiplayer"}),
	})
	filters := filter.NewStore(filter.Default())
	clock := clockwork.NewFakeClock()
	views := view.NewEngine(games, filters, view.Options{Clock: clock, Logger: log})
	views.Start()
	t.Cleanup(views.Close)

	history := nav.NewMemoryHistory("/")
	navigator := nav.NewNavigator(filters, history, nav.NewClearGuard(clock), games, log)
	navigator.Start()
	t.Cleanup(navigator.Stop)

	h := &harness{filters: filters, history: history}
	coord := offline.NewCoordinator(context.Background(), &offline.MemoryQueue{}, saverFunc(func() error { return h.saveErr }), log)

	h.model = New(Options{
		Context:   context.Background(),
		Games:     games,
		Filters:   filters,
		Views:     views,
		Nav:       navigator,
		Sync:      coord,
		Save:      func(context.Context) error { h.saves++; return h.saveErr },
		ThemeName: "Nightfox",
		Prefs:     prefs.Defaults(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Logger:    log,
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 30})
	return h
}

type saverFunc func() error

func (f saverFunc) Save(context.Context, []game.Game) error { return f() }

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		switch k {
		case "esc":
			h.send(tea.KeyMsg{Type: tea.KeyEsc})
		case "enter":
			h.send(tea.KeyMsg{Type: tea.KeyEnter})
		case "down":
			h.send(tea.KeyMsg{Type: tea.KeyDown})
		default:
			h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		}
	}
}

func TestModel_TabKeysNavigate(t *testing.T) {
	h := newHarness(t)
	h.press("2")

	if got := h.filters.State().Tab; got != filter.TabCompleted {
		t.Fatalf("Tab = %v, want completed", got)
	}
	if got := h.history.Location(); got != "/completed" {
		t.Fatalf("Location = %q, want /completed", got)
	}
	if len(h.model.rows) != 2 {
		t.Fatalf("rows = %d, want 2 completed games", len(h.model.rows))
	}

	h.press("4")
	if len(h.model.groups) != 6 {
		t.Fatalf("tierlist groups = %d, want 6", len(h.model.groups))
	}
}

func TestModel_SearchTypesIntoFilter(t *testing.T) {
	h := newHarness(t)
	h.press("/", "h", "a", "d")
	if got := h.filters.State().Search; got != "had" {
		t.Fatalf("Search = %q, want had", got)
	}
	if len(h.model.rows) != 1 || h.model.rows[0].Title != "Hades" {
		t.Fatalf("rows = %v, want Hades only", h.model.rows)
	}

	h.press("enter")
	if h.model.searching {
		t.Fatal("searching = true after enter, want false")
	}

	h.press("esc")
	if got := h.filters.State().Search; got != "" {
		t.Fatalf("Search after esc = %q, want empty", got)
	}
	if len(h.model.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(h.model.rows))
	}
}

func TestModel_SortKeys(t *testing.T) {
	h := newHarness(t)
	h.press("s")
	if got := h.filters.State().Sort; got != (filter.Sort{Key: filter.SortScore, Dir: filter.Asc}) {
		t.Fatalf("Sort = %v, want score asc", got)
	}
	h.press("S")
	if got := h.filters.State().Sort.Dir; got != filter.Desc {
		t.Fatalf("Dir = %v, want desc", got)
	}
	if h.model.rows[0].Title != "Hades" {
		t.Fatalf("first row = %q, want Hades (highest score)", h.model.rows[0].Title)
	}
}

func TestModel_FacetToggleUsesSelectedGame(t *testing.T) {
	h := newHarness(t)
	// Alphabetical: Celeste, Elden Ring, Hades.
	h.press("down", "p")
	if got := h.filters.State().Platforms; !got.Equal(filter.NewSet("PC")) {
		t.Fatalf("Platforms = %v, want [PC]", got)
	}
	if len(h.model.rows) != 2 {
		t.Fatalf("rows = %d, want 2 PC games", len(h.model.rows))
	}

	h.press("r")
	if h.filters.State().IsFiltered() {
		t.Fatal("filters still active after reset")
	}
}

func TestModel_HomeResetsEverything(t *testing.T) {
	h := newHarness(t)
	h.press("3", "s")
	h.press("H")

	st := h.filters.State()
	if st.Tab != filter.TabAll || st.Sort != filter.DefaultSort {
		t.Fatalf("state = %+v, want default", st)
	}
	if got := h.history.Location(); got != "/" {
		t.Fatalf("Location = %q, want /", got)
	}
}

func TestModel_SaveReportsOutcome(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	if cmd == nil {
		t.Fatal("save key returned no command")
	}
	h.send(cmd())
	if h.saves != 1 || h.model.message != "Saved" {
		t.Fatalf("saves = %d message = %q, want 1 and Saved", h.saves, h.model.message)
	}

	h.send(savedMsg{err: &api.SaveError{Status: 400, Message: "title required"}})
	if !h.model.isError || !strings.Contains(h.model.message, "title required") {
		t.Fatalf("message = %q, want server message", h.model.message)
	}

	h.send(savedMsg{err: errors.Join(offline.ErrOffline, errors.New("dial"))})
	if h.model.isError {
		t.Fatalf("offline save should not be shown as an error: %q", h.model.message)
	}
}

func TestModel_ThemeCyclePersists(t *testing.T) {
	h := newHarness(t)
	h.press("T")
	if h.model.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", h.model.theme.Name)
	}
	p, err := prefs.Load(h.model.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}

func TestModel_ViewShowsLocationAndSyncState(t *testing.T) {
	h := newHarness(t)
	h.press("2")
	out := h.model.View()
	if !strings.Contains(out, "/completed") {
		t.Fatalf("View missing location:\n%s", out)
	}
	if !strings.Contains(out, "online") {
		t.Fatalf("View missing connectivity indicator:\n%s", out)
	}
}

func TestModel_TierlistEntryResetsFilters(t *testing.T) {
	h := newHarness(t)
	h.press("down", "g", "/", "h", "a", "l", "o", "enter")
	st := h.filters.State()
	if st.Search != "halo" || len(st.Genres) != 1 {
		t.Fatalf("state before = %+v, want search halo and one genre", st)
	}

	h.press("4")
	st = h.filters.State()
	if st.Tab != filter.TabTierlist || st.IsFiltered() {
		t.Fatalf("state after tierlist = %+v, want unfiltered tierlist", st)
	}
	if got := h.history.Location(); got != "/tierlist" {
		t.Fatalf("Location = %q, want /tierlist", got)
	}
	if got := h.model.search.Value(); got != "" {
		t.Fatalf("search input = %q, want cleared", got)
	}
	if !nav.Decode(h.history.Location(), catalog.Facets{}).Equal(st) {
		t.Fatalf("state %+v does not round-trip through %q", st, h.history.Location())
	}
}
