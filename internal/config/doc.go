// Package config loads backlog's runtime settings.
//
// # Overview
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults
//  2. The TOML file, ~/.config/backlog/config.toml unless a path is given
//  3. BACKLOG_* environment variables
//
// A missing file is fine. Empty or non-positive values fall back to the
// defaults after all layers are applied.
//
// # Default Values
//
//   - api_base: http://127.0.0.1:5173
//   - catalog_path: /games.json
//   - save_path: /api/games
//   - data_dir: ~/.local/share/backlog
//   - log_level: info
//   - view_cache_size: 50
//   - view_cache_ttl: 5m
//   - completed_cache_ttl: 2s
//   - probe_interval: 5s
//   - metrics_addr: empty (metrics endpoint disabled)
//
// # TOML Format
//
//	api_base = "http://localhost:5173"
//	data_dir = "~/games"
//	view_cache_ttl = "10m"
//
// Durations use Go duration syntax. Environment overrides use the upper-case
// field name, e.g. BACKLOG_API_BASE or BACKLOG_PROBE_INTERVAL=10s.
//
// # Derived Paths
//
//   - QueuePath: <data_dir>/offline.db
//   - LogPath: <data_dir>/backlog.log
//
// Tilde paths are expanded against the home directory and relative paths are
// made absolute.
package config
