package catalog

import (
	"context"
	"errors"

	"github.com/five82/backlog/internal/game"
)

// FallbackSource reads from Primary and falls back to Secondary when the
// primary fails. An empty secondary result does not mask the primary error.
type FallbackSource struct {
	Primary   Source
	Secondary Source
}

// FetchGames implements Source.
func (f FallbackSource) FetchGames(ctx context.Context) ([]game.Game, error) {
	games, err := f.Primary.FetchGames(ctx)
	if err == nil || f.Secondary == nil {
		return games, err
	}
	fallback, ferr := f.Secondary.FetchGames(ctx)
	if ferr != nil {
		return nil, errors.Join(err, ferr)
	}
	if len(fallback) == 0 {
		return nil, err
	}
	return fallback, nil
}

// Static serves a fixed list. It is used for seeding and tests.
type Static []game.Game

// FetchGames implements Source.
func (s Static) FetchGames(context.Context) ([]game.Game, error) {
	return cloneGames(s), nil
}
