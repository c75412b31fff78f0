// Package logtail reads the tail of the backlog log file and renders its
// JSON records for a terminal.
//
// Read keeps a ring buffer of the last N lines so large files are scanned
// once with O(N) memory. Render formats zerolog records through
// zerolog.ConsoleWriter and filters them by level.
package logtail
