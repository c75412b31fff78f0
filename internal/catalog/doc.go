// Package catalog owns the authoritative in-memory game collection.
//
// # Overview
//
// Store keeps games in insertion order behind a read/write mutex. Reads hand
// out clones so callers can never mutate stored records. Each mutation bumps a
// version counter and publishes a Snapshot to subscribers, which is how the
// filtered view learns that its caches are stale.
//
// # Loading
//
// Load pulls the persisted collection from a Source. The snapshot reports
// loading, loaded or error. A failed load leaves the collection empty and
// exposes a *LoadError through Snapshot.LastError instead of returning it.
// When loads overlap only the most recently started one may publish.
package catalog
