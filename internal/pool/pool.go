package pool

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// SalaryRow is one row of the salary file.
type SalaryRow struct {
	Name       string `json:"name"`
	Team       string `json:"team"`
	Position   string `json:"pos"`
	Salary     int    `json:"salary"`
	ExternalID string `json:"id,omitempty"`
}

// ProjectionRow carries mean and ceiling points, joined on name, team and position.
type ProjectionRow struct {
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	Position   string  `json:"pos"`
	Projection float64 `json:"proj"`
	Ceiling    float64 `json:"p90"`
}

// OwnershipRow carries projected ownership. Team is optional; without it the row
// joins on name alone, which can collide across teams.
type OwnershipRow struct {
	Name      string  `json:"name"`
	Team      string  `json:"team,omitempty"`
	Ownership float64 `json:"own"`
}

// InjuryRow is one injury report entry. Team is optional.
type InjuryRow struct {
	Name   string `json:"name"`
	Team   string `json:"team,omitempty"`
	Status string `json:"status"`
}

// Inputs bundles the raw tables handed to the builder.
type Inputs struct {
	Salaries    []SalaryRow     `json:"salaries"`
	Projections []ProjectionRow `json:"projections,omitempty"`
	Ownership   []OwnershipRow  `json:"ownership,omitempty"`
	Injuries    []InjuryRow     `json:"injuries,omitempty"`
}

// BuildStats counts what happened to the salary rows.
type BuildStats struct {
	Rows              int `json:"rows"`
	Unsupported       int `json:"unsupported"`
	Injured           int `json:"injured"`
	BelowFloor        int `json:"below_floor"`
	Eligible          int `json:"eligible"`
	ProjectionProxied int `json:"projection_proxied"`
	OwnershipProxied  int `json:"ownership_proxied"`
	ForcedLow         int `json:"forced_low"`
}

// Pool is the read-only set of eligible players for one slate, ordered by composite score.
type Pool struct {
	players    []models.Player
	byID       map[uuid.UUID]int
	byNameTeam map[string]uuid.UUID
	stats      BuildStats
}

func nameTeamKey(name, team string) string {
	return strings.TrimSpace(name) + "|" + strings.ToUpper(strings.TrimSpace(team))
}

func projectionKey(name, team string, pos models.Position) string {
	return nameTeamKey(name, team) + "|" + string(pos)
}

// Build merges salary, projection, ownership and injury rows into a pool.
func Build(in Inputs, cfg Config, log *logrus.Entry) (*Pool, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	stats := BuildStats{Rows: len(in.Salaries)}

	type parsedRow struct {
		SalaryRow
		pos models.Position
		id  uuid.UUID
	}

	parsed := make([]parsedRow, 0, len(in.Salaries))
	seen := make(map[string]bool, len(in.Salaries))
	for i, row := range in.Salaries {
		if strings.TrimSpace(row.Name) == "" || strings.TrimSpace(row.Team) == "" {
			return nil, fmt.Errorf("%w: salary row %d has no name or team", utils.ErrInvalidInput, i+1)
		}
		if row.Salary <= 0 {
			return nil, fmt.Errorf("%w: %s (%s) has non-positive salary %d", utils.ErrInvalidInput, row.Name, row.Team, row.Salary)
		}
		pos, err := models.ParsePosition(row.Position)
		if err != nil {
			stats.Unsupported++
			log.WithFields(logrus.Fields{"player": row.Name, "position": row.Position}).Debug("Skipping unsupported position")
			continue
		}
		key := nameTeamKey(row.Name, row.Team)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s (%s)", utils.ErrDuplicatePlayer, row.Name, row.Team)
		}
		seen[key] = true

		row.Name = strings.TrimSpace(row.Name)
		row.Team = strings.ToUpper(strings.TrimSpace(row.Team))
		parsed = append(parsed, parsedRow{SalaryRow: row, pos: pos, id: models.PlayerID(row.Name, row.Team, pos)})
	}

	// Proxy ownership ranks over the whole salary file, before any filtering.
	ranked := make([]rankedRow, len(parsed))
	for i, r := range parsed {
		ranked[i] = rankedRow{id: r.id, pos: r.pos, salary: r.Salary}
	}
	proxyOwn := ownershipProxy(ranked, cfg.Proxy)

	projections := make(map[string]ProjectionRow, len(in.Projections))
	for _, p := range in.Projections {
		pos, err := models.ParsePosition(p.Position)
		if err != nil {
			continue
		}
		projections[projectionKey(p.Name, p.Team, pos)] = p
	}

	ownByNameTeam := make(map[string]float64)
	ownByName := make(map[string]float64)
	for _, o := range in.Ownership {
		if o.Ownership < 0 || o.Ownership > 100 {
			return nil, fmt.Errorf("%w: ownership %.2f for %s outside 0-100", utils.ErrInvalidInput, o.Ownership, o.Name)
		}
		name := strings.TrimSpace(o.Name)
		if o.Team != "" {
			ownByNameTeam[nameTeamKey(name, o.Team)] = o.Ownership
			continue
		}
		if _, dup := ownByName[name]; !dup {
			ownByName[name] = o.Ownership
		}
	}

	unavailable := make(map[string]bool, len(cfg.UnavailableStatuses))
	for _, s := range cfg.UnavailableStatuses {
		unavailable[strings.ToLower(strings.TrimSpace(s))] = true
	}
	injuredByNameTeam := make(map[string]bool)
	injuredByName := make(map[string]bool)
	for _, inj := range in.Injuries {
		if !unavailable[strings.ToLower(strings.TrimSpace(inj.Status))] {
			continue
		}
		if inj.Team != "" {
			injuredByNameTeam[nameTeamKey(inj.Name, inj.Team)] = true
		} else {
			injuredByName[strings.TrimSpace(inj.Name)] = true
		}
	}

	players := make([]models.Player, 0, len(parsed))
	for _, r := range parsed {
		key := nameTeamKey(r.Name, r.Team)
		if injuredByNameTeam[key] || injuredByName[r.Name] {
			stats.Injured++
			continue
		}
		if r.Salary < cfg.SalaryFloors.For(r.pos) {
			stats.BelowFloor++
			continue
		}

		player := models.Player{
			ID:         r.id,
			ExternalID: r.ExternalID,
			Name:       r.Name,
			Team:       r.Team,
			Position:   r.pos,
			Salary:     r.Salary,
		}

		if proj, ok := projections[projectionKey(r.Name, r.Team, r.pos)]; ok {
			player.Projection = proj.Projection
			player.Ceiling = proj.Ceiling
			player.ProjectionSource = models.SourceInput
		} else {
			player.Projection, player.Ceiling = projectionProxy(r.Salary, r.pos, cfg.Proxy)
			player.ProjectionSource = models.SourceProxy
			stats.ProjectionProxied++
		}

		if own, ok := ownByNameTeam[key]; ok {
			player.Ownership = own
			player.OwnershipSource = models.SourceInput
		} else if own, ok := ownByName[r.Name]; ok {
			player.Ownership = own
			player.OwnershipSource = models.SourceInput
		} else {
			player.Ownership = proxyOwn[r.id]
			if forcedLow(r.id, cfg.Proxy.ForcedLowShare) {
				player.Ownership *= cfg.Proxy.ForcedLowFactor
				stats.ForcedLow++
			}
			player.OwnershipSource = models.SourceProxy
			stats.OwnershipProxied++
		}

		player.Composite = models.CompositeScore(player.Projection, player.Ceiling, player.Ownership, cfg.Beta, cfg.Gamma)
		players = append(players, player)
	}
	stats.Eligible = len(players)

	p := New(players)
	p.stats = stats

	log.WithFields(logrus.Fields{
		"rows":               stats.Rows,
		"eligible":           stats.Eligible,
		"injured":            stats.Injured,
		"below_floor":        stats.BelowFloor,
		"unsupported":        stats.Unsupported,
		"projection_proxied": stats.ProjectionProxied,
		"ownership_proxied":  stats.OwnershipProxied,
	}).Info("Player pool built")

	return p, nil
}

// New indexes an already-built player list. Players are ordered by composite score
// descending, then salary descending, then id, so iteration order never depends on
// input row order.
func New(players []models.Player) *Pool {
	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Composite != sorted[j].Composite {
			return sorted[i].Composite > sorted[j].Composite
		}
		if sorted[i].Salary != sorted[j].Salary {
			return sorted[i].Salary > sorted[j].Salary
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	p := &Pool{
		players:    sorted,
		byID:       make(map[uuid.UUID]int, len(sorted)),
		byNameTeam: make(map[string]uuid.UUID, len(sorted)),
		stats:      BuildStats{Rows: len(sorted), Eligible: len(sorted)},
	}
	for i, player := range sorted {
		p.byID[player.ID] = i
		p.byNameTeam[nameTeamKey(player.Name, player.Team)] = player.ID
	}
	return p
}

// Players returns the pool in ranking order. Callers must not modify the slice.
func (p *Pool) Players() []models.Player {
	return p.players
}

// Len returns the number of eligible players.
func (p *Pool) Len() int {
	return len(p.players)
}

// Stats returns the build counters.
func (p *Pool) Stats() BuildStats {
	return p.stats
}

// Get resolves a synthetic id.
func (p *Pool) Get(id uuid.UUID) (models.Player, bool) {
	i, ok := p.byID[id]
	if !ok {
		return models.Player{}, false
	}
	return p.players[i], true
}

// Lookup resolves an exact name within a team.
func (p *Pool) Lookup(name, team string) (models.Player, bool) {
	id, ok := p.byNameTeam[nameTeamKey(name, team)]
	if !ok {
		return models.Player{}, false
	}
	return p.Get(id)
}
