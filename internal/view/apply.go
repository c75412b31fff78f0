package view

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
)

// Apply derives the ordered list for st from games. It never mutates games
// and never fails: a field that is missing or malformed simply does not match
// a filter and sorts after every present value.
func Apply(games []game.Game, st filter.State) []game.Game {
	term := strings.ToLower(strings.TrimSpace(st.Search))
	out := make([]game.Game, 0, len(games))
	for _, g := range games {
		if !matchesTab(g, st.Tab) || !matchesFacets(g, st) || !matchesSearch(g, term) {
			continue
		}
		out = append(out, g.Clone())
	}
	sortGames(out, st.Sort)
	return out
}

func matchesTab(g game.Game, tab filter.Tab) bool {
	switch tab {
	case filter.TabCompleted, filter.TabTierlist:
		return g.Status == game.StatusCompleted
	case filter.TabPlanned:
		return g.Status == game.StatusPlanned
	default:
		return true
	}
}

func matchesFacets(g game.Game, st filter.State) bool {
	return inSet(st.Platforms, g.Platform) &&
		inSet(st.Genres, g.Genre) &&
		inSet(st.CoOp, string(g.CoOp)) &&
		inSet(st.Tiers, g.TierLabel())
}

// inSet reports whether v is selected. An empty selection matches all.
func inSet(set filter.Set, v string) bool {
	if set.Len() == 0 {
		return true
	}
	if v == "" {
		return false
	}
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func matchesSearch(g game.Game, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{g.Title, g.MainTitle, g.Platform} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

type sortKey struct {
	present bool
	num     float64
	text    string
}

func keyFor(g game.Game, key filter.SortKey) sortKey {
	switch key {
	case filter.SortScore:
		if g.Score == nil {
			return sortKey{}
		}
		return sortKey{present: true, num: *g.Score}
	case filter.SortFinishedDate:
		if g.FinishedDate == nil {
			return sortKey{}
		}
		ms, ok := game.DateMillis(*g.FinishedDate)
		if !ok {
			return sortKey{}
		}
		return sortKey{present: true, num: float64(ms)}
	case filter.SortYear:
		if g.Year <= 0 {
			return sortKey{}
		}
		return sortKey{present: true, num: float64(g.Year)}
	case filter.SortHours:
		mins, ok := game.HoursMinutes(g.Hours)
		if !ok {
			return sortKey{}
		}
		return sortKey{present: true, num: float64(mins)}
	default:
		title := g.Title
		if title == "" {
			return sortKey{}
		}
		return sortKey{present: true, text: title}
	}
}

// sortGames orders games in place. Missing values always go last regardless
// of direction, and ties keep their input order.
func sortGames(games []game.Game, s filter.Sort) {
	if len(games) < 2 {
		return
	}
	keys := make([]sortKey, len(games))
	for i, g := range games {
		keys[i] = keyFor(g, s.Key)
	}
	desc := s.Dir == filter.Desc

	var col *collate.Collator
	if s.Key == filter.SortAlphabetical || s.Key == "" {
		col = collate.New(language.English, collate.IgnoreCase)
	}
	compare := func(a, b sortKey) int {
		if col != nil {
			return col.CompareString(a.text, b.text)
		}
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}

	idx := make([]int, len(games))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.present != b.present {
			return a.present
		}
		if !a.present {
			return false
		}
		c := compare(a, b)
		if desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]game.Game, len(games))
	for i, k := range idx {
		sorted[i] = games[k]
	}
	copy(games, sorted)
}
