package game

import (
	"fmt"
	"strings"
)

// Status is the completion state of a game.
type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusCompleted Status = "Completed"
)

// ParseStatus maps free text onto a Status. ok is false for unknown values.
func ParseStatus(raw string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete", "finished", "done":
		return StatusCompleted, true
	case "planned", "plan", "backlog":
		return StatusPlanned, true
	default:
		return StatusPlanned, false
	}
}

// CoOp describes whether a game can be played together.
type CoOp string

const (
	CoOpYes         CoOp = "Yes"
	CoOpNo          CoOp = "No"
	CoOpMultiplayer CoOp = "Multiplayer"
)

// ParseCoOp maps free text onto a CoOp value, defaulting to No.
func ParseCoOp(raw string) CoOp {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "co-op", "coop":
		return CoOpYes
	case "multiplayer", "online", "pvp":
		return CoOpMultiplayer
	default:
		return CoOpNo
	}
}

// Tier is a letter grade assigned to completed games.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
	TierE Tier = "E"
)

var tierOrder = []Tier{TierS, TierA, TierB, TierC, TierD, TierE}

var tierLabels = map[Tier]string{
	TierS: "S - Masterpiece",
	TierA: "A - Excellent",
	TierB: "B - Great",
	TierC: "C - Good",
	TierD: "D - Decent",
	TierE: "E - Bad",
}

// Tiers returns every tier from best to worst.
func Tiers() []Tier {
	out := make([]Tier, len(tierOrder))
	copy(out, tierOrder)
	return out
}

// Label returns the full display label, e.g. "S - Masterpiece".
func (t Tier) Label() string {
	if label, ok := tierLabels[t]; ok {
		return label
	}
	return string(t)
}

// Rank orders tiers from best (0) to worst; unknown tiers rank last.
func (t Tier) Rank() int {
	for i, candidate := range tierOrder {
		if candidate == t {
			return i
		}
	}
	return len(tierOrder)
}

// ParseTier accepts a bare letter or a full label, case-insensitively.
func ParseTier(raw string) (Tier, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	for _, t := range tierOrder {
		if strings.EqualFold(trimmed, string(t)) || strings.EqualFold(trimmed, t.Label()) {
			return t, true
		}
	}
	return "", false
}

// MarshalText encodes the tier as its full label.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.Label()), nil
}

// UnmarshalText decodes a letter or a full label.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, ok := ParseTier(string(text))
	if !ok {
		return fmt.Errorf("unknown tier %q", string(text))
	}
	*t = parsed
	return nil
}

// Game is the canonical catalog record. Nullable fields are pointers; every
// field is always present on the wire.
type Game struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	MainTitle          string   `json:"mainTitle"`
	Subtitle           *string  `json:"subtitle"`
	Platform           string   `json:"platform"`
	Genre              string   `json:"genre"`
	Year               int      `json:"year"`
	CoOp               CoOp     `json:"coOp"`
	Status             Status   `json:"status"`
	CoverImage         string   `json:"coverImage"`
	Hours              string   `json:"hours"`
	FinishedDate       *string  `json:"finishedDate"`
	RatingPresentation *float64 `json:"ratingPresentation"`
	RatingStory        *float64 `json:"ratingStory"`
	RatingGameplay     *float64 `json:"ratingGameplay"`
	Score              *float64 `json:"score"`
	Tier               *Tier    `json:"tier"`
}

// Completed reports whether the game is marked completed.
func (g Game) Completed() bool {
	return g.Status == StatusCompleted
}

// TierLabel returns the full tier label or "" when the game has no tier.
func (g Game) TierLabel() string {
	if g.Tier == nil {
		return ""
	}
	return g.Tier.Label()
}

// HasRatings reports whether all three ratings are present.
func (g Game) HasRatings() bool {
	return g.RatingPresentation != nil && g.RatingStory != nil && g.RatingGameplay != nil
}

// Clone returns a deep copy so callers can mutate freely.
func (g Game) Clone() Game {
	out := g
	out.Subtitle = cloneString(g.Subtitle)
	out.FinishedDate = cloneString(g.FinishedDate)
	out.RatingPresentation = cloneFloat(g.RatingPresentation)
	out.RatingStory = cloneFloat(g.RatingStory)
	out.RatingGameplay = cloneFloat(g.RatingGameplay)
	out.Score = cloneFloat(g.Score)
	if g.Tier != nil {
		t := *g.Tier
		out.Tier = &t
	}
	return out
}

// Validate reports violations of the record invariants.
func (g Game) Validate() error {
	var problems []string
	if strings.TrimSpace(g.ID) == "" {
		problems = append(problems, "missing id")
	}
	if strings.TrimSpace(g.Title) == "" {
		problems = append(problems, "missing title")
	}
	ratings := 0
	for _, r := range []*float64{g.RatingPresentation, g.RatingStory, g.RatingGameplay} {
		if r != nil {
			ratings++
		}
	}
	if ratings != 0 && ratings != 3 {
		problems = append(problems, "ratings must be all present or all absent")
	}
	scored := g.Completed() && g.FinishedDate != nil
	if !scored && (g.Score != nil || g.Tier != nil) {
		problems = append(problems, "score and tier require a completed game with a finished date")
	}
	if g.Status == StatusPlanned && ratings > 0 {
		problems = append(problems, "planned games carry no ratings")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid game %q: %s", g.Title, strings.Join(problems, "; "))
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
