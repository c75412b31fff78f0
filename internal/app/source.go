package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/five82/backlog/internal/catalog"
	"github.com/five82/backlog/internal/game"
	"github.com/five82/backlog/internal/offline"
)

// mirrorSource fetches from the API and keeps the local copy current so
// the next start can fall back to it.
type mirrorSource struct {
	remote catalog.Source
	queue  offline.Queue
	log    zerolog.Logger
}

func (s mirrorSource) FetchGames(ctx context.Context) ([]game.Game, error) {
	games, err := s.remote.FetchGames(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.queue.PutAllGames(ctx, games); err != nil {
		s.log.Warn().Err(err).Msg("local catalog copy not updated")
	}
	return games, nil
}
