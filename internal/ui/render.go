package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
)

// chromeHeight counts the lines used by header, search bar, column titles
// and footer.
const chromeHeight = 6

type column struct {
	title string
	width int
}

var fixedColumns = []column{
	{"Platform", 16},
	{"Genre", 16},
	{"Year", 6},
	{"Hours", 9},
	{"Finished", 12},
	{"Score", 6},
	{"Tier", 6},
}

func (m Model) renderMain() string {
	parts := []string{
		m.renderHeader(),
		m.renderSearch(),
		m.renderColumns(),
		m.renderRows(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader shows the tabs, the location and sync indicators.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	tabs := make([]string, 0, len(filter.Tabs()))
	for i, tab := range filter.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if tab == m.state.Tab {
			tabs = append(tabs, styles.Selected.Bold(true).Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Padding(0, 1).Render(label))
		}
	}

	left := styles.Logo.Render("backlog") + "  " + strings.Join(tabs, "")
	right := strings.Join(filterStrings(m.indicators()), "  ")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line1 := left + strings.Repeat(" ", gap) + right

	loc := styles.FaintText.Render("location ") + styles.AccentText.Render(truncate(m.location, m.width-12))
	return styles.Header.Width(m.width).Render(line1 + "\n" + loc)
}

func (m Model) indicators() []string {
	styles := m.theme.Styles()
	var out []string

	switch m.load {
	case catalog.StatusLoading:
		out = append(out, styles.WarningText.Render("loading"))
	case catalog.StatusError:
		msg := "load failed"
		if m.loadErr != nil {
			msg = truncate(m.loadErr.Error(), 40)
		}
		out = append(out, styles.DangerText.Render(msg))
	}

	if m.sync == nil {
		return out
	}
	if m.syncState.Online {
		out = append(out, styles.SuccessText.Render("● online"))
	} else {
		out = append(out, styles.DangerText.Render("○ offline"))
	}
	if m.syncState.Pending {
		out = append(out, styles.WarningText.Render("pending sync"))
	}
	if m.syncState.Dirty {
		out = append(out, styles.InfoText.Render("unsaved"))
	}
	return out
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	if m.searching {
		return m.search.View()
	}
	summary := fmt.Sprintf("%d of %d games  sort %s", len(m.rows), m.total, m.state.Sort)
	if m.state.Search != "" {
		summary = fmt.Sprintf("search %q  ", m.state.Search) + summary
	}
	if facets := activeFacets(m.state); facets != "" {
		summary += "  " + facets
	}
	return styles.MutedText.Render(truncate(summary, m.width))
}

func (m Model) renderColumns() string {
	styles := m.theme.Styles()
	cells := []string{pad("Title", m.titleWidth())}
	for _, c := range fixedColumns {
		cells = append(cells, pad(c.title, c.width))
	}
	return styles.AccentText.Bold(true).Render(strings.Join(cells, " "))
}

func (m Model) renderRows() string {
	styles := m.theme.Styles()
	page := m.pageSize()
	if len(m.rows) == 0 {
		text := "No games match the current filters"
		if m.load == catalog.StatusLoading {
			text = "Loading catalog..."
		}
		return lipgloss.NewStyle().Height(page).Render(styles.FaintText.Render(text))
	}

	end := m.offset + page
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lines := make([]string, 0, page)
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			line = styles.Selected.Width(m.width).Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Height(page).Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(g game.Game) string {
	styles := m.theme.Styles()
	cells := []string{
		pad(g.Title, m.titleWidth()),
		pad(g.Platform, fixedColumns[0].width),
		pad(g.Genre, fixedColumns[1].width),
		pad(yearText(g.Year), fixedColumns[2].width),
		pad(g.Hours, fixedColumns[3].width),
		pad(deref(g.FinishedDate), fixedColumns[4].width),
		pad(scoreText(g.Score), fixedColumns[5].width),
	}
	row := strings.Join(cells, " ") + " "
	if g.Tier != nil {
		row += styles.BadgeStyle(string(*g.Tier)).Render(string(*g.Tier))
	} else if g.Status != "" {
		row += styles.BadgeStyle(string(g.Status)).Render(string(g.Status)[:1])
	}
	return row
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var status string
	if m.message != "" {
		if m.isError {
			status = styles.DangerText.Render(m.message)
		} else {
			status = styles.SuccessText.Render(m.message)
		}
	}
	if m.state.Tab == filter.TabTierlist {
		status = strings.TrimSpace(status + "  " + styles.MutedText.Render(tierSummary(m)))
	}
	return styles.Footer.Width(m.width).Render(strings.TrimSpace(status + "  " + m.help.View(m.keys)))
}

func (m Model) titleWidth() int {
	w := m.width
	for _, c := range fixedColumns {
		w -= c.width + 1
	}
	if w < 12 {
		return 12
	}
	return w
}

func tierSummary(m Model) string {
	parts := make([]string, 0, len(m.groups))
	for _, g := range m.groups {
		parts = append(parts, fmt.Sprintf("%s:%d", g.Tier, len(g.Games)))
	}
	return strings.Join(parts, " ")
}

func activeFacets(st filter.State) string {
	var parts []string
	add := func(name string, set filter.Set) {
		if set.Len() > 0 {
			parts = append(parts, name+"="+strings.Join(set.Values(), ","))
		}
	}
	add("platform", st.Platforms)
	add("genre", st.Genres)
	add("coop", st.CoOp)
	add("tier", st.Tiers)
	return strings.Join(parts, " ")
}

func yearText(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func scoreText(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
