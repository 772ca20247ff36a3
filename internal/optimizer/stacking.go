package optimizer

import (
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// PlayerPool is the read-only view of the slate the optimizer works against.
type PlayerPool interface {
	Players() []models.Player
	Get(id uuid.UUID) (models.Player, bool)
	Lookup(name, team string) (models.Player, bool)
}

// SelectGames keeps the top games of each tier. Games must already be ordered by
// tier and edge score, as returned by the edge scorer.
func SelectGames(scored []models.ScoredGame, perTier TierCounts) []models.ScoredGame {
	taken := make(map[models.Tier]int, len(models.Tiers))
	selected := make([]models.ScoredGame, 0)
	for _, g := range scored {
		if taken[g.Tier] >= perTier.For(g.Tier) {
			continue
		}
		taken[g.Tier]++
		selected = append(selected, g)
	}
	return selected
}

type catcherPair struct {
	first, second models.Player
	order         int
}

// GenerateBlueprints builds QB + pass-catcher pair + bring-back blueprints for both
// sides of every selected game. Role names are resolved against the pool by exact
// name within team; roles that do not resolve to an eligible WR or TE are dropped.
func GenerateBlueprints(games []models.ScoredGame, roles []models.TeamRoles, pool PlayerPool, cfg StackingConfig, log *logrus.Entry) []models.StackBlueprint {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	byTeam := make(map[string]models.TeamRoles, len(roles))
	for _, r := range roles {
		byTeam[r.Team] = r
	}

	blueprints := make([]models.StackBlueprint, 0)
	for _, g := range games {
		gameLog := log.WithFields(logrus.Fields{"game_id": g.GameID, "tier": g.Tier})

		home, okHome := byTeam[g.HomeTeam]
		away, okAway := byTeam[g.AwayTeam]
		if !okHome || !okAway {
			gameLog.Debug("Skipping game without role data for both teams")
			continue
		}
		homeQB, okHome := resolveQB(pool, home)
		awayQB, okAway := resolveQB(pool, away)
		if !okHome || !okAway {
			gameLog.Debug("Skipping game without a resolvable QB1 on both sides")
			continue
		}

		homeCatchers := resolveCatchers(pool, home)
		awayCatchers := resolveCatchers(pool, away)

		sides := []struct {
			qb       models.Player
			mates    []models.Player
			oppMates []models.Player
			qbTeam   string
			oppTeam  string
		}{
			{homeQB, homeCatchers, awayCatchers, g.HomeTeam, g.AwayTeam},
			{awayQB, awayCatchers, homeCatchers, g.AwayTeam, g.HomeTeam},
		}

		for _, side := range sides {
			pairs := rankPairs(side.mates, cfg.MaxPairs)
			if len(pairs) == 0 {
				gameLog.WithField("team", side.qbTeam).Debug("No pass-catcher pairs, skipping side")
				continue
			}
			bringBacks := side.oppMates
			if len(bringBacks) > cfg.MaxBringBacks {
				bringBacks = bringBacks[:cfg.MaxBringBacks]
			}
			if len(bringBacks) == 0 {
				gameLog.WithField("team", side.qbTeam).Debug("No bring-back candidates, skipping side")
				continue
			}

			for _, pair := range pairs {
				extras := make([]models.PlayerRef, 0)
				for _, m := range side.mates {
					if m.ID != pair.first.ID && m.ID != pair.second.ID {
						extras = append(extras, m.Ref())
					}
				}
				for _, bb := range bringBacks {
					blueprints = append(blueprints, models.StackBlueprint{
						GameID:     g.GameID,
						Tier:       g.Tier,
						EdgeScore:  g.EdgeScore,
						QB:         side.qb.Ref(),
						Catchers:   []models.PlayerRef{pair.first.Ref(), pair.second.Ref()},
						BringBack:  bb.Ref(),
						Extras:     extras,
						QBTeam:     side.qbTeam,
						OppTeam:    side.oppTeam,
						HomeSpread: g.HomeSpread,
						WindMPH:    g.WindMPH,
					})
				}
			}
		}
	}

	log.WithFields(logrus.Fields{
		"games":      len(games),
		"blueprints": len(blueprints),
	}).Info("Stack blueprints generated")

	return blueprints
}

func resolveQB(pool PlayerPool, roles models.TeamRoles) (models.Player, bool) {
	if roles.QB1 == "" {
		return models.Player{}, false
	}
	qb, ok := pool.Lookup(roles.QB1, roles.Team)
	if !ok || qb.Position != models.PositionQB {
		return models.Player{}, false
	}
	return qb, true
}

// resolveCatchers returns the team's eligible pass-catchers in depth-chart order.
func resolveCatchers(pool PlayerPool, roles models.TeamRoles) []models.Player {
	out := make([]models.Player, 0, 4)
	seen := make(map[uuid.UUID]bool, 4)
	for _, name := range roles.PassCatcherNames() {
		p, ok := pool.Lookup(name, roles.Team)
		if !ok || !p.Position.IsPassCatcher() || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

// rankPairs enumerates unordered teammate pairs, orders them by combined salary
// descending with enumeration order breaking ties, and keeps at most limit.
func rankPairs(mates []models.Player, limit int) []catcherPair {
	pairs := make([]catcherPair, 0)
	for i := 0; i < len(mates); i++ {
		for j := i + 1; j < len(mates); j++ {
			pairs = append(pairs, catcherPair{first: mates[i], second: mates[j], order: len(pairs)})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		sa := pairs[a].first.Salary + pairs[a].second.Salary
		sb := pairs[b].first.Salary + pairs[b].second.Salary
		if sa != sb {
			return sa > sb
		}
		return pairs[a].order < pairs[b].order
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
