// Package app is the composition root for backlog.
//
// # Overview
//
// New wires configuration, logging, the catalog and filter stores, the view
// engine, the navigator and the offline sync components. The TUI, the list
// command and the sync command all run against the same App.
//
// # Components
//
//   - app.go: New, Run, List, SyncPending and the edit helpers
//   - source.go: API catalog source that refreshes the local SQLite copy
//   - render.go: plain table output used by the list command
//
// # Data Flow
//
//	┌──────────────┐
//	│   New()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> logging.New()          JSON log file
//	       ├─────> prefs.Load()           Theme and default sort
//	       ├─────> api.NewClient()        Catalog + save endpoints
//	       ├─────> offline.OpenSQLite()   Local copy + pending save
//	       ├─────> catalog / filter       Stores seeded from the location
//	       ├─────> view.NewEngine()       Memoized derived list
//	       ├─────> nav.NewNavigator()     Location kept in sync
//	       └─────> offline.Coordinator    Save fencing and replay
//
// Run additionally starts the connectivity monitor, the optional metrics
// listener and an asynchronous catalog load before handing control to the
// UI.
//
// # Error Handling
//
// Fatal errors (returned from New): invalid log level, unusable api_base,
// unopenable offline database. A failed catalog load is not fatal: the
// local copy is used when present, otherwise the catalog store reports the
// error through its snapshot.
package app
