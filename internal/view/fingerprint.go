package view

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/five82/backlog/internal/filter"
	"github.com/five82/backlog/internal/game"
)

// Fingerprint hashes every field Apply reads, in collection order, together
// with the canonical state key. Any add, update, removal or reorder that
// could change the output changes the fingerprint.
func Fingerprint(games []game.Game, st filter.State) uint64 {
	d := xxhash.New()
	for _, g := range games {
		writeGame(d, g)
	}
	_, _ = d.WriteString("\x01")
	_, _ = d.WriteString(st.Key())
	return d.Sum64()
}

// CompletedFingerprint hashes the full content of games. Cached entries hold
// whole records, so any edit must produce a new key.
func CompletedFingerprint(games []game.Game) uint64 {
	d := xxhash.New()
	for _, g := range games {
		writeGame(d, g)
	}
	return d.Sum64()
}

func writeGame(d *xxhash.Digest, g game.Game) {
	writeField(d, g.ID)
	writeField(d, g.Title)
	writeField(d, g.MainTitle)
	writeField(d, optString(g.Subtitle))
	writeField(d, g.Platform)
	writeField(d, g.Genre)
	writeField(d, string(g.CoOp))
	writeField(d, string(g.Status))
	writeField(d, strconv.Itoa(g.Year))
	writeField(d, g.CoverImage)
	writeField(d, g.Hours)
	writeField(d, optString(g.FinishedDate))
	writeField(d, optFloat(g.RatingPresentation))
	writeField(d, optFloat(g.RatingStory))
	writeField(d, optFloat(g.RatingGameplay))
	writeField(d, optFloat(g.Score))
	writeField(d, g.TierLabel())
}

func writeField(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(s)
	_, _ = d.Write([]byte{0})
}

func optString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
