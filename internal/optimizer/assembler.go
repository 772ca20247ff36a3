package optimizer

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// SearchContext is the mutable state of one run: the random source and the set of
// core keys already accepted. It is owned by a single search and is not safe for
// concurrent use.
type SearchContext struct {
	pool        PlayerPool
	constraints *LineupConstraints
	noise       float64
	rng         *rand.Rand
	seen        map[string]bool
}

// NewSearchContext seeds a fresh context.
func NewSearchContext(pool PlayerPool, constraints *LineupConstraints, seed int64, noise float64) *SearchContext {
	return &SearchContext{
		pool:        pool,
		constraints: constraints,
		noise:       noise,
		rng:         rand.New(rand.NewSource(seed)),
		seen:        make(map[string]bool),
	}
}

// Seen reports whether a core key has already been accepted.
func (sc *SearchContext) Seen(key string) bool {
	return sc.seen[key]
}

// Accepted returns how many lineups the context has accepted.
func (sc *SearchContext) Accepted() int {
	return len(sc.seen)
}

// Assemble builds one lineup from a blueprint. The seed players come from the
// shell, the rest are filled greedily by composite score outside the two stacked
// teams. On pass 0 the fill is pure greedy; later passes perturb each candidate's
// composite by up to the configured exploration noise. Any rejection is returned as
// one of the soft-failure errors and does not touch the seen set.
func Assemble(sc *SearchContext, bp models.StackBlueprint, shell Shell, pass int) (models.RankedLineup, error) {
	refs, shell := seedRefs(bp, shell)

	lineup := models.Lineup{
		Players: make([]models.Player, 0, sc.constraints.RosterSize),
		GameID:  bp.GameID,
		Tier:    bp.Tier,
		Shell:   string(shell),
		Stack:   bp.Description(),
	}
	used := make(map[uuid.UUID]bool, sc.constraints.RosterSize)
	salary := 0

	for _, ref := range refs {
		p, ok := sc.pool.Get(ref.ID)
		if !ok {
			return models.RankedLineup{}, fmt.Errorf("%w: %s (%s)", ErrUnresolvedPlayer, ref.Name, ref.Team)
		}
		if used[p.ID] {
			continue
		}
		used[p.ID] = true
		salary += p.Salary
		lineup.Players = append(lineup.Players, p)
	}

	coreTeams := map[string]bool{bp.QBTeam: true, bp.OppTeam: true}
	counts := lineup.PositionCounts()

	for len(lineup.Players) < sc.constraints.RosterSize {
		needed := sc.constraints.NeededPositions(counts)
		if len(needed) == 0 {
			break
		}
		wanted := make(map[models.Position]bool, len(needed))
		for _, pos := range needed {
			wanted[pos] = true
		}

		var best models.Player
		bestScore := 0.0
		found := false
		for _, p := range sc.pool.Players() {
			if used[p.ID] || !wanted[p.Position] {
				continue
			}
			if coreTeams[p.Team] && p.Position != models.PositionDST {
				continue
			}
			if salary+p.Salary > sc.constraints.MaxSalary {
				continue
			}
			score := p.Composite
			if pass > 0 && sc.noise > 0 {
				score *= 1 + sc.noise*(2*sc.rng.Float64()-1)
			}
			if !found || better(p, score, best, bestScore) {
				best, bestScore, found = p, score, true
			}
		}
		if !found {
			return models.RankedLineup{}, fmt.Errorf("%w: %v with %d players", ErrFillStuck, needed, len(lineup.Players))
		}

		used[best.ID] = true
		salary += best.Salary
		counts[best.Position]++
		lineup.Players = append(lineup.Players, best)
	}

	if err := sc.constraints.ValidateLineup(lineup); err != nil {
		return models.RankedLineup{}, err
	}

	key := lineup.CoreKey()
	if sc.seen[key] {
		return models.RankedLineup{}, fmt.Errorf("%w: %s", ErrDuplicateCore, key)
	}
	sc.seen[key] = true

	score := 0.0
	for _, p := range lineup.Players {
		score += p.Composite
	}
	return models.RankedLineup{
		Score:          score,
		TotalSalary:    lineup.TotalSalary(),
		TotalOwnership: lineup.TotalOwnership(),
		Lineup:         lineup,
	}, nil
}

// better orders fill candidates: higher score, then higher salary, then id.
func better(p models.Player, score float64, best models.Player, bestScore float64) bool {
	if score != bestScore {
		return score > bestScore
	}
	if p.Salary != best.Salary {
		return p.Salary > best.Salary
	}
	return p.ID.String() < best.ID.String()
}
