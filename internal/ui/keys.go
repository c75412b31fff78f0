package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Save       key.Binding
	Reload     key.Binding

	// Tabs
	TabAll       key.Binding
	TabCompleted key.Binding
	TabPlanned   key.Binding
	TabTierlist  key.Binding
	Home         key.Binding

	// Filters
	Search         key.Binding
	ClearSearch    key.Binding
	CycleSort      key.Binding
	FlipDirection  key.Binding
	TogglePlatform key.Binding
	ToggleGenre    key.Binding
	ToggleCoOp     key.Binding
	ToggleTier     key.Binding
	Reset          key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Search input
	Confirm key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Save: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Save collection"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload catalog"),
		),

		TabAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "All games"),
		),
		TabCompleted: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Completed"),
		),
		TabPlanned: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Planned"),
		),
		TabTierlist: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Tierlist"),
		),
		Home: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Reset and go home"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort key"),
		),
		FlipDirection: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Flip sort direction"),
		),
		TogglePlatform: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Filter by platform"),
		),
		ToggleGenre: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Filter by genre"),
		),
		ToggleCoOp: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Filter by co-op"),
		),
		ToggleTier: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Filter by tier"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reset filters"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "Page down"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.CycleSort, k.Save, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.TabAll, k.TabCompleted, k.TabPlanned, k.TabTierlist, k.Home},
		{k.Search, k.ClearSearch, k.CycleSort, k.FlipDirection, k.Reset},
		{k.TogglePlatform, k.ToggleGenre, k.ToggleCoOp, k.ToggleTier},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Save, k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
