// Package offline keeps local edits safe while the save endpoint is
// unreachable.
//
// # Overview
//
// A Queue stores the last known collection and at most one pending payload.
// SQLiteQueue is the on-disk implementation; MemoryQueue backs tests and
// sessions without a data directory.
//
// Coordinator tracks two flags: online and pending. Going offline with
// unsaved edits writes the collection to the queue. Coming back online with
// a pending payload replays it once; a failed replay stays queued until the
// next online transition. There is no background retry loop.
//
// Monitor turns periodic pings into connectivity transitions. The remote is
// considered gone after OfflineThreshold consecutive failures, and probes
// back off while it stays unreachable.
package offline
