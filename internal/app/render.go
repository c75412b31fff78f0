package app

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/view"
)

// render writes the derived view for st as plain tables.
func render(w io.Writer, st filter.State, views *view.Engine) error {
	if st.Tab == filter.TabTierlist {
		for _, group := range views.Tierlist() {
			if _, err := fmt.Fprintf(w, "%s (%d)\n", group.Tier.Label(), len(group.Games)); err != nil {
				return err
			}
			if len(group.Games) == 0 {
				continue
			}
			if _, err := fmt.Fprintln(w, gameTable(group.Games)); err != nil {
				return err
			}
		}
		return nil
	}

	games := views.Visible()
	if _, err := fmt.Fprintf(w, "%s: %d games (sort %s)\n", st.Tab.Title(), len(games), st.Sort); err != nil {
		return err
	}
	if len(games) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, gameTable(games))
	return err
}

func gameTable(games []game.Game) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Title", "Platform", "Genre", "Year", "Co-op", "Hours", "Finished", "Score", "Tier")
	for _, g := range games {
		t.Row(
			g.Title,
			g.Platform,
			g.Genre,
			yearCell(g.Year),
			string(g.CoOp),
			g.Hours,
			stringCell(g.FinishedDate),
			scoreCell(g.Score),
			g.TierLabel(),
		)
	}
	return t.String()
}

func yearCell(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func stringCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func scoreCell(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', 1, 64)
}
