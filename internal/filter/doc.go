// Package filter holds the query state behind the game list: search term,
// facet selections, sort order and the active tab.
//
// Store notifies subscribers only when a call changes the state. Tab changes
// clear the co-op and platform selections but keep genre, tier and search.
package filter
