package game

import "strings"

// Ratings groups the three ratings; they are always patched together.
type Ratings struct {
	Presentation *float64
	Story        *float64
	Gameplay     *float64
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Title      *string
	Platform   *string
	Genre      *string
	Year       *int
	CoOp       *CoOp
	Status     *Status
	CoverImage *string
	Hours      *string
	// FinishedDate accepts any supported date format; an empty string clears it.
	FinishedDate *string
	Ratings      *Ratings
	Score        *float64
	Tier         *Tier
}

// Apply merges p into g and re-establishes the record invariants.
func Apply(g Game, p Patch) Game {
	out := g.Clone()
	if p.Title != nil {
		out.Title = strings.TrimSpace(*p.Title)
		out.MainTitle, out.Subtitle = ParseTitle(out.Title)
	}
	if p.Platform != nil {
		out.Platform = strings.TrimSpace(*p.Platform)
	}
	if p.Genre != nil {
		out.Genre = strings.TrimSpace(*p.Genre)
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.CoOp != nil {
		out.CoOp = *p.CoOp
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.CoverImage != nil {
		out.CoverImage = strings.TrimSpace(*p.CoverImage)
	}
	if p.Hours != nil {
		out.Hours = strings.TrimSpace(*p.Hours)
	}
	if p.FinishedDate != nil {
		out.FinishedDate = CanonicalDate(*p.FinishedDate)
	}
	if p.Ratings != nil {
		out.RatingPresentation = cloneFloat(p.Ratings.Presentation)
		out.RatingStory = cloneFloat(p.Ratings.Story)
		out.RatingGameplay = cloneFloat(p.Ratings.Gameplay)
		// Derived fields follow the new ratings unless given explicitly.
		out.Score, out.Tier = nil, nil
	}
	if p.Score != nil {
		out.Score = cloneFloat(p.Score)
		if p.Tier == nil {
			out.Tier = nil
		}
	}
	if p.Tier != nil {
		t := *p.Tier
		out.Tier = &t
	}
	return Normalize(out)
}
