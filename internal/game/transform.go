package game

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Raw is a catalog record as found in persisted or hand-written JSON. Numeric
// fields tolerate strings and nulls.
type Raw struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Platform           string    `json:"platform"`
	Genre              string    `json:"genre"`
	Year               FlexInt   `json:"year"`
	CoOp               string    `json:"coOp"`
	Status             string    `json:"status"`
	CoverImage         string    `json:"coverImage"`
	Hours              FlexHours `json:"hours"`
	FinishedDate       string    `json:"finishedDate"`
	RatingPresentation FlexFloat `json:"ratingPresentation"`
	RatingStory        FlexFloat `json:"ratingStory"`
	RatingGameplay     FlexFloat `json:"ratingGameplay"`
	Score              FlexFloat `json:"score"`
	Tier               string    `json:"tier"`
}

// FlexFloat decodes a number, a numeric string, or null.
type FlexFloat struct {
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable values decode to null.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	f.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	} else {
		s = string(data)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}

// Float builds a FlexFloat holding v.
func Float(v float64) FlexFloat {
	return FlexFloat{Value: &v}
}

// FlexInt decodes an integer, a numeric string, or null.
type FlexInt struct {
	Value int
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *FlexInt) UnmarshalJSON(data []byte) error {
	var f FlexFloat
	_ = f.UnmarshalJSON(data)
	i.Value = 0
	if f.Value != nil {
		i.Value = int(*f.Value)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Value)
}

// FlexHours holds playtime given either as fractional hours or as text.
type FlexHours struct {
	Text   string
	Number *float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *FlexHours) UnmarshalJSON(data []byte) error {
	*h = FlexHours{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &h.Text)
	}
	var f FlexFloat
	_ = f.UnmarshalJSON(data)
	h.Number = f.Value
	return nil
}

// MarshalJSON implements json.Marshaler.
func (h FlexHours) MarshalJSON() ([]byte, error) {
	if h.Number != nil {
		return json.Marshal(*h.Number)
	}
	return json.Marshal(h.Text)
}

// String renders the playtime using the canonical "{H}h {M}m" form for
// numbers. Text passes through unchanged.
func (h FlexHours) String() string {
	if h.Number != nil {
		return FormatHours(*h.Number)
	}
	return h.Text
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/five82/backlog/games"))

// NewID returns a random identifier for a newly created record.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id is a canonical 36 character UUID.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// stableID derives an identifier from the record's identifying fields, so the
// same input shape always receives the same id.
func stableID(r Raw) string {
	key := strings.Join([]string{
		strings.TrimSpace(r.ID),
		strings.TrimSpace(r.Title),
		strings.TrimSpace(r.Platform),
	}, "\x00")
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Transform canonicalizes a raw record into a Game that satisfies the record
// invariants. It never fails; malformed fields become null or defaults.
func Transform(r Raw) Game {
	id := strings.TrimSpace(r.ID)
	if !ValidID(id) {
		id = stableID(r)
	}

	title := strings.TrimSpace(r.Title)
	main, subtitle := ParseTitle(title)

	finished := CanonicalDate(r.FinishedDate)
	status, known := ParseStatus(r.Status)
	if !known && finished != nil {
		status = StatusCompleted
	}

	g := Game{
		ID:                 id,
		Title:              title,
		MainTitle:          main,
		Subtitle:           subtitle,
		Platform:           strings.TrimSpace(r.Platform),
		Genre:              strings.TrimSpace(r.Genre),
		Year:               r.Year.Value,
		CoOp:               ParseCoOp(r.CoOp),
		Status:             status,
		CoverImage:         strings.TrimSpace(r.CoverImage),
		Hours:              strings.TrimSpace(r.Hours.String()),
		FinishedDate:       finished,
		RatingPresentation: rating(r.RatingPresentation),
		RatingStory:        rating(r.RatingStory),
		RatingGameplay:     rating(r.RatingGameplay),
		Score:              rating(r.Score),
	}
	if t, ok := ParseTier(r.Tier); ok {
		g.Tier = &t
	}
	return Normalize(g)
}

// TransformAll transforms every record, preserving order.
func TransformAll(raws []Raw) []Game {
	out := make([]Game, 0, len(raws))
	for _, r := range raws {
		out = append(out, Transform(r))
	}
	return out
}

func rating(f FlexFloat) *float64 {
	if f.Value == nil {
		return nil
	}
	v := *f.Value
	if v < 0 || v > 10 {
		return nil
	}
	return &v
}

// Normalize enforces the rating, score and tier invariants:
// ratings are all-or-none and only kept on completed games, and score and
// tier exist only when the game is completed with a finished date. Missing
// scores and tiers are derived from the ratings.
func Normalize(g Game) Game {
	g = g.Clone()
	if g.CoOp == "" {
		g.CoOp = CoOpNo
	}
	if g.Status != StatusCompleted {
		g.Status = StatusPlanned
	}
	if g.MainTitle == "" {
		g.MainTitle, g.Subtitle = ParseTitle(g.Title)
	}

	if !g.Completed() || !g.HasRatings() {
		g.RatingPresentation, g.RatingStory, g.RatingGameplay = nil, nil, nil
	}
	if !g.Completed() || g.FinishedDate == nil {
		g.Score, g.Tier = nil, nil
		return g
	}

	if g.Score == nil && g.HasRatings() {
		s := ComputeScore(*g.RatingPresentation, *g.RatingStory, *g.RatingGameplay)
		g.Score = &s
	}
	if g.Tier == nil && g.Score != nil {
		t := TierForScore(*g.Score)
		g.Tier = &t
	}
	if g.Score == nil {
		// A tier without any score cannot be explained; drop it.
		g.Tier = nil
	}
	return g
}
