package filter

import (
	"sort"
	"strconv"
	"strings"
)

// Tab selects which slice of the collection is on screen.
type Tab string

const (
	TabAll       Tab = "all"
	TabCompleted Tab = "completed"
	TabPlanned   Tab = "planned"
	TabTierlist  Tab = "tierlist"
)

// Tabs returns every tab in display order.
func Tabs() []Tab {
	return []Tab{TabAll, TabCompleted, TabPlanned, TabTierlist}
}

// Path returns the location path for the tab.
func (t Tab) Path() string {
	if t == TabAll || t == "" {
		return "/"
	}
	return "/" + string(t)
}

// Title is the human-readable tab name.
func (t Tab) Title() string {
	switch t {
	case TabCompleted:
		return "Completed"
	case TabPlanned:
		return "Planned"
	case TabTierlist:
		return "Tierlist"
	default:
		return "All"
	}
}

// ParseTab resolves a tab name or path. Unknown input yields TabAll and false.
func ParseTab(raw string) (Tab, bool) {
	name := strings.ToLower(strings.Trim(strings.TrimSpace(raw), "/"))
	switch Tab(name) {
	case "", TabAll:
		return TabAll, true
	case TabCompleted, TabPlanned, TabTierlist:
		return Tab(name), true
	}
	return TabAll, false
}

// SortKey names an ordering of the view.
type SortKey string

const (
	SortAlphabetical SortKey = "alphabetical"
	SortScore        SortKey = "score"
	SortFinishedDate SortKey = "finishedDate"
	SortYear         SortKey = "year"
	SortHours        SortKey = "hours"
)

var sortKeys = []SortKey{SortAlphabetical, SortScore, SortFinishedDate, SortYear, SortHours}

// SortKeys returns the supported keys in cycling order.
func SortKeys() []SortKey {
	return append([]SortKey(nil), sortKeys...)
}

// ParseSortKey resolves a key case-insensitively.
func ParseSortKey(raw string) (SortKey, bool) {
	for _, k := range sortKeys {
		if strings.EqualFold(string(k), strings.TrimSpace(raw)) {
			return k, true
		}
	}
	return "", false
}

// Next returns the key after k, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range sortKeys {
		if key == k {
			return sortKeys[(i+1)%len(sortKeys)]
		}
	}
	return SortAlphabetical
}

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection resolves "asc" or "desc".
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	}
	return "", false
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Sort pairs a key with a direction.
type Sort struct {
	Key SortKey
	Dir Direction
}

// DefaultSort is alphabetical ascending.
var DefaultSort = Sort{Key: SortAlphabetical, Dir: Asc}

// IsDefault reports whether s equals DefaultSort.
func (s Sort) IsDefault() bool { return s == DefaultSort }

func (s Sort) String() string { return string(s.Key) + " " + string(s.Dir) }

// Set is a sorted selection of facet values. Values compare exactly; the
// view matches them case-insensitively.
type Set []string

// NewSet builds a set from values, dropping blanks and duplicates.
func NewSet(values ...string) Set {
	var out Set
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || out.Has(v) {
			continue
		}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Has reports whether v is selected.
func (s Set) Has(v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Toggle returns a copy with v added, or removed when already present.
func (s Set) Toggle(v string) Set {
	if s.Has(v) {
		out := make(Set, 0, len(s)-1)
		for _, x := range s {
			if x != v {
				out = append(out, x)
			}
		}
		return out
	}
	return NewSet(append(s.Values(), v)...)
}

// Len returns the number of selected values.
func (s Set) Len() int { return len(s) }

// Values returns a copy of the selected values in sorted order.
func (s Set) Values() []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}

// Equal reports whether both sets hold the same values.
func (s Set) Equal(o Set) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// State is the query the user is composing.
type State struct {
	Search    string
	Platforms Set
	Genres    Set
	Tiers     Set
	CoOp      Set
	Sort      Sort
	Tab       Tab
}

// Default returns the empty query on the all tab.
func Default() State {
	return State{Sort: DefaultSort, Tab: TabAll}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Platforms = NewSet(s.Platforms...)
	out.Genres = NewSet(s.Genres...)
	out.Tiers = NewSet(s.Tiers...)
	out.CoOp = NewSet(s.CoOp...)
	return out
}

// Equal compares every filter-relevant field.
func (s State) Equal(o State) bool {
	return s.Search == o.Search &&
		s.Platforms.Equal(o.Platforms) &&
		s.Genres.Equal(o.Genres) &&
		s.Tiers.Equal(o.Tiers) &&
		s.CoOp.Equal(o.CoOp) &&
		s.Sort == o.Sort &&
		s.Tab == o.Tab
}

// IsFiltered reports whether any search term or facet is active.
func (s State) IsFiltered() bool {
	return strings.TrimSpace(s.Search) != "" ||
		len(s.Platforms) > 0 || len(s.Genres) > 0 || len(s.Tiers) > 0 || len(s.CoOp) > 0
}

// Key serializes the state canonically; equal states produce equal keys.
func (s State) Key() string {
	var b strings.Builder
	b.WriteString("tab=")
	b.WriteString(string(s.Tab))
	b.WriteString(";s=")
	b.WriteString(strconv.Quote(s.Search))
	writeSet(&b, "platform", s.Platforms)
	writeSet(&b, "genre", s.Genres)
	writeSet(&b, "tier", s.Tiers)
	writeSet(&b, "coop", s.CoOp)
	b.WriteString(";sort=")
	b.WriteString(string(s.Sort.Key))
	b.WriteString(":")
	b.WriteString(string(s.Sort.Dir))
	return b.String()
}

func writeSet(b *strings.Builder, name string, set Set) {
	b.WriteString(";")
	b.WriteString(name)
	b.WriteString("=")
	for i, v := range set {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Quote(v))
	}
}
