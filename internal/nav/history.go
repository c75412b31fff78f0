package nav

import "sync"

// History is the location bar. Filter changes only ever replace the current
// entry.
type History interface {
	Location() string
	Replace(location string)
}

// MemoryHistory keeps the location in memory and records each replacement.
type MemoryHistory struct {
	mu       sync.Mutex
	location string
	replaced []string
}

// NewMemoryHistory starts at location, or "/" when empty.
func NewMemoryHistory(location string) *MemoryHistory {
	if location == "" {
		location = "/"
	}
	return &MemoryHistory{location: location}
}

// Location implements History.
func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// Replace implements History.
func (h *MemoryHistory) Replace(location string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.location = location
	h.replaced = append(h.replaced, location)
}

// Replacements returns every location written so far.
func (h *MemoryHistory) Replacements() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.replaced...)
}
