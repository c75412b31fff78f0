// Package view derives the list the UI renders from the catalog and the
// current filter state.
//
// # Overview
//
// Apply is the pure pipeline: tab filter, facet filters (AND across facets,
// OR within one), a case-insensitive search over title and platform, and a
// stable sort. Missing sort values go last in both directions.
//
// # Caching
//
// Engine memoizes Apply in a Cache keyed by Fingerprint, an xxhash over the
// ordered game fields Apply reads plus the canonical filter key. Entries are
// bounded by count and age, and the whole cache is purged whenever the
// catalog version moves. CompletedCache holds the dashboard's completed list
// separately with a short sliding window.
//
// Cache lookups are exported as backlog_view_cache_lookups_total.
package view
