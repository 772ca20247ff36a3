package optimizer

import (
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/pool"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
)

type fixtureSlot struct {
	suffix    string
	pos       models.Position
	salary    int
	composite float64
}

// Every team gets the same eight players. Salaries are low enough that the cap
// never binds, and ownership is flat at 3% so the ownership gate always passes.
var fixtureRoster = []fixtureSlot{
	{"QB", models.PositionQB, 5200, 20},
	{"RB1", models.PositionRB, 5000, 15},
	{"RB2", models.PositionRB, 4200, 12},
	{"WR1", models.PositionWR, 5400, 16},
	{"WR2", models.PositionWR, 4600, 13},
	{"WR3", models.PositionWR, 3800, 10},
	{"TE", models.PositionTE, 4000, 9},
	{"DST", models.PositionDST, 3000, 7},
}

func fixturePlayers(teams ...string) []models.Player {
	players := make([]models.Player, 0, len(teams)*len(fixtureRoster))
	for k, team := range teams {
		for _, slot := range fixtureRoster {
			name := team + " " + slot.suffix
			players = append(players, models.Player{
				ID:         models.PlayerID(name, team, slot.pos),
				Name:       name,
				Team:       team,
				Position:   slot.pos,
				Salary:     slot.salary,
				Projection: slot.composite,
				Ceiling:    slot.composite * 1.5,
				Ownership:  3,
				Composite:  slot.composite + float64(k)*0.01,
			})
		}
	}
	return players
}

func fixtureRoles(teams ...string) []models.TeamRoles {
	roles := make([]models.TeamRoles, 0, len(teams))
	for _, team := range teams {
		roles = append(roles, models.TeamRoles{
			Team: team,
			QB1:  team + " QB",
			WR1:  team + " WR1",
			WR2:  team + " WR2",
			TE1:  team + " TE",
		})
	}
	return roles
}

func fixtureGame(id, away, home string, tier models.Tier, score float64) models.ScoredGame {
	return models.ScoredGame{
		GameEnvironment: models.GameEnvironment{GameID: id, HomeTeam: home, AwayTeam: away},
		EdgeScore:       score,
		Tier:            tier,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Lineup.MinSalary = 30000
	cfg.Lineup.MaxSalary = 50000
	return cfg
}

func quietLog() *logrus.Entry {
	return logrus.NewEntry(logger.Discard())
}

// threeGameSlate is a slate with one game per tier A, B and C.
func threeGameSlate() (*pool.Pool, []models.StackBlueprint) {
	teams := []string{"KC", "BUF", "DAL", "PHI", "NYJ", "MIA"}
	p := pool.New(fixturePlayers(teams...))
	games := []models.ScoredGame{
		fixtureGame("KC@BUF", "KC", "BUF", models.TierA, 70),
		fixtureGame("DAL@PHI", "DAL", "PHI", models.TierB, 55),
		fixtureGame("NYJ@MIA", "NYJ", "MIA", models.TierC, 40),
	}
	bps := GenerateBlueprints(games, fixtureRoles(teams...), p, DefaultConfig().Stacking, quietLog())
	return p, bps
}

type countingObserver struct {
	started  int
	rejected map[string]int
	accepted int
	finished map[models.Tier][3]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{rejected: map[string]int{}, finished: map[models.Tier][3]int{}}
}

func (o *countingObserver) AttemptStarted(models.Tier) { o.started++ }
func (o *countingObserver) AttemptRejected(_ models.Tier, reason string) {
	o.rejected[reason]++
}
func (o *countingObserver) LineupAccepted(models.Tier, float64) { o.accepted++ }
func (o *countingObserver) TierFinished(tier models.Tier, requested, built, attempts int) {
	o.finished[tier] = [3]int{requested, built, attempts}
}
