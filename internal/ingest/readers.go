package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/pool"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

var (
	salaryColumns = []column{
		col("name"),
		col("team", "teamabbrev"),
		col("pos", "position"),
		col("salary"),
		optional("id"),
	}
	projectionColumns = []column{
		col("name"),
		col("team"),
		col("pos", "position"),
		col("proj", "projection"),
		col("p90", "ceiling"),
	}
	ownershipColumns = []column{
		col("name"),
		col("own", "ownership"),
		optional("team"),
	}
	injuryColumns = []column{
		col("name", "player"),
		col("status", "game status", "injury_status"),
		optional("team"),
	}
	gameColumns = []column{
		col("game_id"),
		col("home_team"),
		col("away_team"),
		optional("ou", "total", "ou_consensus"),
		optional("spread_home", "spread_home_consensus"),
		optional("wind_mph"),
		optional("venue_roof", "venue"),
		optional("proe_home"),
		optional("proe_away"),
		optional("pace_rank_home"),
		optional("pace_rank_away"),
		optional("wr1_tgt_share_home"),
		optional("wr2_tgt_share_home"),
		optional("te_route_share_home"),
		optional("rb_route_share_home"),
		optional("wr1_tgt_share_away"),
		optional("wr2_tgt_share_away"),
		optional("te_route_share_away"),
		optional("rb_route_share_away"),
		optional("stack_cum_own_est"),
	}
	roleColumns = []column{
		col("team"),
		col("qb1"),
		col("wr1"),
		col("wr2"),
		col("te1"),
		optional("slot_wr"),
	}
)

// ReadSalaries parses the salary table. Positions are passed through raw; the pool
// builder decides which ones it supports.
func ReadSalaries(r io.Reader) ([]pool.SalaryRow, error) {
	t, err := readTable(r, "salaries", salaryColumns)
	if err != nil {
		return nil, err
	}
	rows := make([]pool.SalaryRow, 0, len(t.rows))
	for i, rec := range t.rows {
		salary, err := t.integer(rec, i+2, "salary")
		if err != nil {
			return nil, err
		}
		rows = append(rows, pool.SalaryRow{
			Name:       t.str(rec, "name"),
			Team:       strings.ToUpper(t.str(rec, "team")),
			Position:   t.str(rec, "pos"),
			Salary:     salary,
			ExternalID: t.str(rec, "id"),
		})
	}
	return rows, nil
}

// ReadProjections parses a projections table. Both proj and p90 are mandatory once
// the table is supplied.
func ReadProjections(r io.Reader) ([]pool.ProjectionRow, error) {
	t, err := readTable(r, "projections", projectionColumns)
	if err != nil {
		return nil, err
	}
	rows := make([]pool.ProjectionRow, 0, len(t.rows))
	for i, rec := range t.rows {
		proj, err := t.requiredFloat(rec, i+2, "proj")
		if err != nil {
			return nil, err
		}
		p90, err := t.requiredFloat(rec, i+2, "p90")
		if err != nil {
			return nil, err
		}
		rows = append(rows, pool.ProjectionRow{
			Name:       t.str(rec, "name"),
			Team:       strings.ToUpper(t.str(rec, "team")),
			Position:   t.str(rec, "pos"),
			Projection: proj,
			Ceiling:    p90,
		})
	}
	return rows, nil
}

// ReadOwnership parses projected ownership percentages.
func ReadOwnership(r io.Reader) ([]pool.OwnershipRow, error) {
	t, err := readTable(r, "ownership", ownershipColumns)
	if err != nil {
		return nil, err
	}
	rows := make([]pool.OwnershipRow, 0, len(t.rows))
	for i, rec := range t.rows {
		own, err := t.requiredFloat(rec, i+2, "own")
		if err != nil {
			return nil, err
		}
		rows = append(rows, pool.OwnershipRow{
			Name:      t.str(rec, "name"),
			Team:      strings.ToUpper(t.str(rec, "team")),
			Ownership: own,
		})
	}
	return rows, nil
}

// ReadInjuries parses an injury report. Rows with a blank status are dropped.
func ReadInjuries(r io.Reader) ([]pool.InjuryRow, error) {
	t, err := readTable(r, "injuries", injuryColumns)
	if err != nil {
		return nil, err
	}
	rows := make([]pool.InjuryRow, 0, len(t.rows))
	for _, rec := range t.rows {
		status := t.str(rec, "status")
		if status == "" {
			continue
		}
		rows = append(rows, pool.InjuryRow{
			Name:   t.str(rec, "name"),
			Team:   strings.ToUpper(t.str(rec, "team")),
			Status: status,
		})
	}
	return rows, nil
}

// ReadGames parses the game environment table. Every numeric column other than
// the ids is optional; blanks stay nil and the scorer applies its defaults.
func ReadGames(r io.Reader) ([]models.GameEnvironment, error) {
	t, err := readTable(r, "games", gameColumns)
	if err != nil {
		return nil, err
	}
	games := make([]models.GameEnvironment, 0, len(t.rows))
	seen := make(map[string]bool, len(t.rows))
	for i, rec := range t.rows {
		row := i + 2
		g := models.GameEnvironment{
			GameID:   t.str(rec, "game_id"),
			HomeTeam: strings.ToUpper(t.str(rec, "home_team")),
			AwayTeam: strings.ToUpper(t.str(rec, "away_team")),
			Venue:    t.str(rec, "venue_roof"),
		}
		if g.GameID == "" || g.HomeTeam == "" || g.AwayTeam == "" {
			return nil, fmt.Errorf("%w: games row %d: game_id, home_team and away_team are required", utils.ErrInvalidInput, row)
		}
		if seen[g.GameID] {
			return nil, fmt.Errorf("%w: games row %d: duplicate game_id %q", utils.ErrInvalidInput, row, g.GameID)
		}
		seen[g.GameID] = true

		targets := []struct {
			field string
			dst   **float64
		}{
			{"ou", &g.Total},
			{"spread_home", &g.HomeSpread},
			{"wind_mph", &g.WindMPH},
			{"proe_home", &g.PROEHome},
			{"proe_away", &g.PROEAway},
			{"pace_rank_home", &g.PaceRankHome},
			{"pace_rank_away", &g.PaceRankAway},
			{"wr1_tgt_share_home", &g.Home.WR1TargetShare},
			{"wr2_tgt_share_home", &g.Home.WR2TargetShare},
			{"te_route_share_home", &g.Home.TERouteShare},
			{"rb_route_share_home", &g.Home.RBRouteShare},
			{"wr1_tgt_share_away", &g.Away.WR1TargetShare},
			{"wr2_tgt_share_away", &g.Away.WR2TargetShare},
			{"te_route_share_away", &g.Away.TERouteShare},
			{"rb_route_share_away", &g.Away.RBRouteShare},
			{"stack_cum_own_est", &g.StackOwnershipEst},
		}
		for _, target := range targets {
			v, err := t.number(rec, row, target.field)
			if err != nil {
				return nil, err
			}
			*target.dst = v
		}
		games = append(games, g)
	}
	return games, nil
}

// ReadRoles parses the depth-chart role table, one row per team.
func ReadRoles(r io.Reader) ([]models.TeamRoles, error) {
	t, err := readTable(r, "roles", roleColumns)
	if err != nil {
		return nil, err
	}
	roles := make([]models.TeamRoles, 0, len(t.rows))
	seen := make(map[string]bool, len(t.rows))
	for i, rec := range t.rows {
		team := strings.ToUpper(t.str(rec, "team"))
		if team == "" {
			return nil, fmt.Errorf("%w: roles row %d: team is blank", utils.ErrInvalidInput, i+2)
		}
		if seen[team] {
			continue
		}
		seen[team] = true
		roles = append(roles, models.TeamRoles{
			Team:   team,
			QB1:    t.str(rec, "qb1"),
			WR1:    t.str(rec, "wr1"),
			WR2:    t.str(rec, "wr2"),
			TE1:    t.str(rec, "te1"),
			SlotWR: t.str(rec, "slot_wr"),
		})
	}
	return roles, nil
}
