package view

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
)

func completed(title, date string, score float64) game.Game {
	return game.Transform(game.Raw{
		Title:        title,
		Platform:     "PC",
		Genre:        "Action",
		Status:       "Completed",
		FinishedDate: date,
		Score:        game.Float(score),
	})
}

func planned(title, platform string) game.Game {
	return game.Transform(game.Raw{Title: title, Platform: platform, Status: "Planned"})
}

func titles(games []game.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Title
	}
	return out
}

func TestApply_CompletedByFinishedDateDesc(t *testing.T) {
	games := []game.Game{
		completed("Older", "01/03/2021", 7),
		planned("Backlog", "PC"),
		completed("Newest", "15/08/2023", 8),
		completed("Middle", "2022-06-01", 9),
	}
	st := filter.Default()
	st.Tab = filter.TabCompleted
	st.Sort = filter.Sort{Key: filter.SortFinishedDate, Dir: filter.Desc}

	require.Equal(t, []string{"Newest", "Middle", "Older"}, titles(Apply(games, st)))
}

func TestApply_FacetsMatchAcross(t *testing.T) {
	pcCoop := game.Transform(game.Raw{Title: "Portal 2", Platform: "PC", CoOp: "Yes"})
	pcSolo := game.Transform(game.Raw{Title: "Hades", Platform: "PC", CoOp: "No"})
	switchCoop := game.Transform(game.Raw{Title: "It Takes Two", Platform: "Switch", CoOp: "Yes"})

	st := filter.Default()
	st.Platforms = filter.NewSet("PC")
	st.CoOp = filter.NewSet("Yes")

	got := Apply([]game.Game{pcCoop, pcSolo, switchCoop}, st)
	require.Len(t, got, 1)
	require.Equal(t, pcCoop.ID, got[0].ID)
}

func TestApply_FacetOrderDoesNotMatter(t *testing.T) {
	games := []game.Game{
		game.Transform(game.Raw{Title: "A", Platform: "PC", Genre: "RPG"}),
		game.Transform(game.Raw{Title: "B", Platform: "PC", Genre: "Shooter"}),
		game.Transform(game.Raw{Title: "C", Platform: "Switch", Genre: "RPG"}),
		game.Transform(game.Raw{Title: "D", Platform: "pc", Genre: "rpg"}),
	}

	platformFirst := filter.NewStore(filter.Default())
	platformFirst.TogglePlatform("PC")
	platformFirst.ToggleGenre("RPG")

	genreFirst := filter.NewStore(filter.Default())
	genreFirst.ToggleGenre("RPG")
	genreFirst.TogglePlatform("PC")

	a := Apply(games, platformFirst.State())
	b := Apply(games, genreFirst.State())
	require.Equal(t, a, b)
	require.Equal(t, []string{"A", "D"}, titles(a))
}

func TestApply_NullsLastBothDirections(t *testing.T) {
	undated := game.Transform(game.Raw{Title: "Undated", Status: "Completed"})
	games := []game.Game{
		undated,
		completed("Early", "2020-01-01", 6),
		completed("Late", "2023-01-01", 9),
	}
	for _, dir := range []filter.Direction{filter.Asc, filter.Desc} {
		for _, key := range []filter.SortKey{filter.SortFinishedDate, filter.SortScore} {
			st := filter.Default()
			st.Sort = filter.Sort{Key: key, Dir: dir}
			got := titles(Apply(games, st))
			require.Equal(t, "Undated", got[2], "key=%s dir=%s", key, dir)
			if dir == filter.Asc {
				require.Equal(t, []string{"Early", "Late"}, got[:2])
			} else {
				require.Equal(t, []string{"Late", "Early"}, got[:2])
			}
		}
	}
}

func TestApply_StableTiesAndAlphabetical(t *testing.T) {
	first := completed("Bravo", "2022-01-01", 8)
	second := completed("alpha", "2022-01-01", 8)
	third := completed("Charlie", "2022-01-01", 8)
	games := []game.Game{first, second, third}

	st := filter.Default()
	st.Sort = filter.Sort{Key: filter.SortScore, Dir: filter.Desc}
	require.Equal(t, []string{"Bravo", "alpha", "Charlie"}, titles(Apply(games, st)))

	st.Sort = filter.DefaultSort
	require.Equal(t, []string{"alpha", "Bravo", "Charlie"}, titles(Apply(games, st)))
}

func TestApply_SearchMatchesTitleAndPlatform(t *testing.T) {
	games := []game.Game{
		game.Transform(game.Raw{Title: "The Legend of Zelda (Switch)", Platform: "Switch"}),
		game.Transform(game.Raw{Title: "Doom", Platform: "PC"}),
	}
	st := filter.Default()
	st.Search = "ZELDA"
	require.Equal(t, []string{"The Legend of Zelda (Switch)"}, titles(Apply(games, st)))

	st.Search = "pc"
	require.Equal(t, []string{"Doom"}, titles(Apply(games, st)))

	st.Search = "   "
	require.Len(t, Apply(games, st), 2)
}

func TestApply_TierUsesFullLabel(t *testing.T) {
	games := []game.Game{completed("Great", "2022-01-01", 9.5), completed("Fine", "2022-01-01", 6.2)}
	st := filter.Default()
	st.Tiers = filter.NewSet("S - Masterpiece")
	require.Equal(t, []string{"Great"}, titles(Apply(games, st)))

	st.Tiers = filter.NewSet("S")
	require.Empty(t, Apply(games, st))
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	games := []game.Game{completed("B", "2022-01-01", 8), completed("A", "2021-01-01", 7)}
	out := Apply(games, filter.Default())
	*out[0].Score = 0
	require.Equal(t, "B", games[0].Title)
	require.InDelta(t, 7.0, *games[1].Score, 1e-9)
}

func TestFingerprint(t *testing.T) {
	games := []game.Game{completed("A", "2022-01-01", 8)}
	st := filter.Default()
	base := Fingerprint(games, st)
	require.Equal(t, base, Fingerprint([]game.Game{completed("A", "2022-01-01", 8)}, st))

	changed := []game.Game{completed("A", "2022-01-02", 8)}
	require.NotEqual(t, base, Fingerprint(changed, st))

	st.Search = "a"
	require.NotEqual(t, base, Fingerprint(games, st))
}

func TestCache_EvictsByInsertionOrder(t *testing.T) {
	c := NewCache(2, time.Minute)
	c.Add(1, []game.Game{planned("one", "PC")})
	c.Add(2, []game.Game{planned("two", "PC")})

	_, ok := c.Get(1)
	require.True(t, ok)

	c.Add(3, []game.Game{planned("three", "PC")})
	_, ok = c.Get(1)
	require.False(t, ok, "lookups must not refresh recency")
	_, ok = c.Get(3)
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestCompletedCache_ComputesOncePerContent(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewCompletedCache(clock, 2*time.Second, 4)
	games := []game.Game{
		completed("Older", "2021-01-01", 7),
		completed("Newer", "2023-01-01", 8),
		planned("Later", "PC"),
	}

	first := c.Get(games)
	second := c.Get([]game.Game{
		completed("Older", "2021-01-01", 7),
		completed("Newer", "2023-01-01", 8),
		planned("Later", "PC"),
	})
	require.Equal(t, first, second)
	require.Equal(t, []string{"Newer", "Older"}, titles(first))
	require.Equal(t, 1, c.Computes())

	date := "2024-05-05"
	games[0] = game.Apply(games[0], game.Patch{FinishedDate: &date})
	require.Equal(t, []string{"Older", "Newer"}, titles(c.Get(games)))
	require.Equal(t, 2, c.Computes())
}

func TestCompletedCache_SlidingWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewCompletedCache(clock, 2*time.Second, 4)
	games := []game.Game{completed("A", "2021-01-01", 7)}

	c.Get(games)
	clock.Advance(1500 * time.Millisecond)
	c.Get(games)
	clock.Advance(1500 * time.Millisecond)
	c.Get(games)
	require.Equal(t, 1, c.Computes(), "hits inside the window extend it")

	clock.Advance(3 * time.Second)
	c.Get(games)
	require.Equal(t, 2, c.Computes())
}

func TestCompletedCache_BoundedSize(t *testing.T) {
	c := NewCompletedCache(clockwork.NewFakeClock(), time.Minute, 2)
	a := []game.Game{completed("A", "2021-01-01", 7)}
	b := []game.Game{completed("B", "2021-01-01", 7)}
	d := []game.Game{completed("D", "2021-01-01", 7)}

	c.Get(a)
	c.Get(b)
	c.Get(d)
	require.Equal(t, 2, c.Len())

	c.Get(a)
	require.Equal(t, 4, c.Computes(), "oldest entry was evicted")
}

func TestTierGroups(t *testing.T) {
	groups := TierGroups([]game.Game{
		completed("Fine", "2022-01-01", 6.2),
		completed("Great", "2022-01-01", 9.5),
		planned("Untiered", "PC"),
		completed("Also Great", "2022-01-01", 9.1),
	})
	require.Len(t, groups, 6)
	require.Equal(t, game.TierS, groups[0].Tier)
	require.Equal(t, []string{"Great", "Also Great"}, titles(groups[0].Games))
	require.Equal(t, []string{"Fine"}, titles(groups[3].Games))
	require.Empty(t, groups[5].Games)
}

func TestEngine_CachesUntilSomethingChanges(t *testing.T) {
	games := catalog.NewStore(zerolog.Nop())
	games.Initialize([]game.Game{
		completed("Older", "2021-01-01", 7),
		completed("Newer", "2023-01-01", 8),
		planned("Backlog", "Switch"),
	})
	filters := filter.NewStore(filter.Default())

	e := NewEngine(games, filters, Options{CacheSize: 8, CacheTTL: time.Minute, Clock: clockwork.NewFakeClock(), Logger: zerolog.Nop()})
	e.Start()
	defer e.Close()

	var published [][]string
	e.Subscribe(func(list []game.Game) { published = append(published, titles(list)) })

	base := e.Stats()
	e.Visible()
	e.Visible()
	stats := e.Stats()
	require.Equal(t, base.Misses, stats.Misses)
	require.Equal(t, base.Hits+2, stats.Hits)

	filters.SetTab(filter.TabCompleted)
	filters.SetSort(filter.Sort{Key: filter.SortFinishedDate, Dir: filter.Desc})
	require.Equal(t, []string{"Newer", "Older"}, titles(e.Visible()))

	require.NoError(t, games.Add(completed("Newest", "2024-01-01", 9)))
	require.Equal(t, []string{"Newest", "Newer", "Older"}, titles(e.Visible()))
	require.Equal(t, []string{"Newest", "Newer", "Older"}, published[len(published)-1])

	require.Equal(t, []string{"Newest", "Newer", "Older"}, titles(e.Completed()))
}

func TestCompletedCache_ReturnsEditedRecords(t *testing.T) {
	c := NewCompletedCache(clockwork.NewFakeClock(), time.Minute, 4)
	games := []game.Game{completed("Old Name", "2021-01-01", 7)}
	require.Equal(t, []string{"Old Name"}, titles(c.Get(games)))

	title := "New Name"
	games[0] = game.Apply(games[0], game.Patch{Title: &title})
	require.Equal(t, []string{"New Name"}, titles(c.Get(games)))
	require.Equal(t, 2, c.Computes())
}

func TestFingerprint_CoversDisplayedFields(t *testing.T) {
	st := filter.Default()
	base := completed("A", "2022-01-01", 8)
	covered := base
	covered.CoverImage = "https://img.example/a.png"
	require.NotEqual(t, Fingerprint([]game.Game{base}, st), Fingerprint([]game.Game{covered}, st))

	story := 3.0
	rated := base.Clone()
	rated.RatingStory = &story
	require.NotEqual(t, Fingerprint([]game.Game{base}, st), Fingerprint([]game.Game{rated}, st))
}

func TestEngine_CompletedTabUsesCompletedCache(t *testing.T) {
	games := catalog.NewStore(zerolog.Nop())
	games.Initialize([]game.Game{
		completed("Older", "2021-01-01", 7),
		completed("Newer", "2023-01-01", 8),
		planned("Backlog", "Switch"),
	})
	filters := filter.NewStore(filter.Default())
	e := NewEngine(games, filters, Options{CompletedTTL: 2 * time.Second, Clock: clockwork.NewFakeClock(), Logger: zerolog.Nop()})

	filters.SetTab(filter.TabCompleted)
	filters.SetSort(CompletedSort)
	before := e.CompletedComputes()
	require.Equal(t, []string{"Newer", "Older"}, titles(e.Visible()))
	require.Equal(t, before+1, e.CompletedComputes())
	e.Visible()
	require.Equal(t, before+1, e.CompletedComputes())

	filters.SetSearchTerm("old")
	require.Equal(t, []string{"Older"}, titles(e.Visible()))
	require.Equal(t, before+1, e.CompletedComputes(), "filtered views bypass the completed cache")
}
