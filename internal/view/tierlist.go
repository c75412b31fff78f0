package view

import "github.com/five82/backlog/internal/game"

// TierGroup is one row of the tierlist.
type TierGroup struct {
	Tier  game.Tier
	Games []game.Game
}

// TierGroups buckets games by tier in S to E order, keeping each bucket in
// input order. Every tier gets a row; untiered games are left out.
func TierGroups(games []game.Game) []TierGroup {
	tiers := game.Tiers()
	groups := make([]TierGroup, len(tiers))
	pos := make(map[game.Tier]int, len(tiers))
	for i, t := range tiers {
		groups[i].Tier = t
		pos[t] = i
	}
	for _, g := range games {
		if g.Tier == nil {
			continue
		}
		i, ok := pos[*g.Tier]
		if !ok {
			continue
		}
		groups[i].Games = append(groups[i].Games, g.Clone())
	}
	return groups
}
