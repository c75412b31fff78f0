// Package nav keeps the location and the filter state in step.
//
// Encode and Decode map a filter.State to a path plus query and back. The
// Navigator writes the location whenever the filter store changes, always by
// replacing the current history entry, and reads it back on SyncFromURL.
//
// A manual clear opens a GuardWindow during which URL reads are ignored, so a
// stale location cannot refill a search box the user just emptied. The guard
// is a plain time window and a sync arriving after it closes still applies.
package nav
