package nav

import (
	"net/url"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
)

// Query parameter names.
const (
	paramSearch       = "s"
	paramSearchLegacy = "searchTerm"
	paramPlatform     = "platform"
	paramGenre        = "genre"
	paramTier         = "tier"
	paramCoOp         = "coop"
	paramStatus       = "status"
	paramSort         = "sort"
	paramDir          = "dir"
)

// Encode renders st as a location: the tab's path plus the query. Facet
// values are slugified and sorted; a default sort is omitted. The tierlist
// always gets a bare path.
func Encode(st filter.State) string {
	path := st.Tab.Path()
	if st.Tab == filter.TabTierlist {
		return path
	}

	q := url.Values{}
	if strings.TrimSpace(st.Search) != "" {
		q.Set(paramSearch, st.Search)
	}
	addSlugs(q, paramPlatform, st.Platforms)
	addSlugs(q, paramGenre, st.Genres)
	addSlugs(q, paramTier, st.Tiers)
	addSlugs(q, paramCoOp, st.CoOp)
	if !st.Sort.IsDefault() {
		q.Set(paramSort, string(st.Sort.Key))
		q.Set(paramDir, string(st.Sort.Dir))
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func addSlugs(q url.Values, name string, set filter.Set) {
	seen := map[string]struct{}{}
	var slugs []string
	for _, v := range set {
		s := slugFor(v)
		if _, dup := seen[s]; dup || s == "" {
			continue
		}
		seen[s] = struct{}{}
		slugs = append(slugs, s)
	}
	sort.Strings(slugs)
	for _, s := range slugs {
		q.Add(name, s)
	}
}

func slugFor(v string) string {
	s := slug.Make(v)
	if s == "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return s
}

// Decode parses a location into a filter state. Facet slugs resolve against
// the known values in facets; unknown slugs are kept as given. The search
// term may arrive as s or searchTerm, and a legacy status parameter on the
// root path selects the matching tab.
func Decode(location string, facets catalog.Facets) filter.State {
	st := filter.Default()
	u, err := url.Parse(strings.TrimSpace(location))
	if err != nil {
		return st
	}
	q := u.Query()

	tab, _ := filter.ParseTab(u.Path)
	if tab == filter.TabAll {
		switch strings.ToLower(q.Get(paramStatus)) {
		case "completed":
			tab = filter.TabCompleted
		case "planned":
			tab = filter.TabPlanned
		}
	}
	st.Tab = tab

	st.Search = q.Get(paramSearch)
	if st.Search == "" {
		st.Search = q.Get(paramSearchLegacy)
	}
	st.Platforms = resolve(q[paramPlatform], facets.Platforms)
	st.Genres = resolve(q[paramGenre], facets.Genres)
	st.Tiers = resolve(q[paramTier], facets.Tiers)
	st.CoOp = resolve(q[paramCoOp], facets.CoOp)

	if key, ok := filter.ParseSortKey(q.Get(paramSort)); ok {
		st.Sort.Key = key
		if dir, ok := filter.ParseDirection(q.Get(paramDir)); ok {
			st.Sort.Dir = dir
		}
	}
	return st
}

func resolve(slugs []string, known []string) filter.Set {
	if len(slugs) == 0 {
		return nil
	}
	bySlug := make(map[string]string, len(known))
	for _, k := range known {
		bySlug[slugFor(k)] = k
	}
	values := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if v, ok := bySlug[strings.ToLower(s)]; ok {
			values = append(values, v)
			continue
		}
		if v, ok := bySlug[slugFor(s)]; ok {
			values = append(values, v)
			continue
		}
		values = append(values, s)
	}
	return filter.NewSet(values...)
}
