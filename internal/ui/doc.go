// Package ui provides the terminal user interface for backlog.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program that renders the derived game list. It owns
// no game data: every frame reads the filter state, the view engine output,
// the catalog load status and the sync state from their stores. Key presses
// mutate the filter store or call the navigator, and the stores' change
// notifications wake the program through a single-slot channel.
//
// # Package Structure
//
//   - ui.go: Options and Run, store subscriptions
//   - model.go: Model, key handling and data refresh
//   - render.go: header, search bar, list rows and footer
//   - help.go: help overlay built from the key map
//   - keys.go: key bindings (bubbles/key)
//   - theme.go: Lipgloss themes and tier badge colors
//
// # Tabs
//
// Keys 1-4 switch between All, Completed, Planned and Tierlist. Switching
// tabs clears the co-op and platform filters and scrolls to the top.
// Entering the tierlist resets every filter and the sort, since its location
// carries no query. The tierlist lists completed games grouped by tier from
// S to E.
package ui
