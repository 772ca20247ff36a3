package optimizer

import (
	"sort"

	"github.com/google/uuid"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// ExposureReport provides detailed exposure analysis
type ExposureReport struct {
	PlayerExposures []PlayerExposure `json:"player_exposures"`
	TeamExposures   []TeamExposure   `json:"team_exposures"`
	StackExposures  []StackExposure  `json:"stack_exposures"`
	TierCounts      map[string]int   `json:"tier_counts"`
	ShellCounts     map[string]int   `json:"shell_counts"`
	TotalLineups    int              `json:"total_lineups"`
	Summary         LineupSummary    `json:"summary"`
}

// PlayerExposure represents exposure for a single player
type PlayerExposure struct {
	PlayerID   uuid.UUID       `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Team       string          `json:"team"`
	Position   models.Position `json:"position"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// TeamExposure counts lineups using at least one player from a team
type TeamExposure struct {
	Team       string  `json:"team"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StackExposure counts lineups built around one QB in one game
type StackExposure struct {
	StackID    string  `json:"stack_id"`
	QB         string  `json:"qb"`
	GameID     string  `json:"game_id"`
	Tier       string  `json:"tier"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BuildExposureReport tallies player, team and stack usage across a lineup set.
// Every list is ordered by count descending with a name tie-break.
func BuildExposureReport(lineups []models.RankedLineup) ExposureReport {
	report := ExposureReport{
		PlayerExposures: make([]PlayerExposure, 0),
		TeamExposures:   make([]TeamExposure, 0),
		StackExposures:  make([]StackExposure, 0),
		TierCounts:      make(map[string]int),
		ShellCounts:     make(map[string]int),
		TotalLineups:    len(lineups),
		Summary:         Summarize(lineups),
	}
	if len(lineups) == 0 {
		return report
	}

	players := make(map[uuid.UUID]*PlayerExposure)
	teams := make(map[string]*TeamExposure)
	stacks := make(map[string]*StackExposure)

	for _, l := range lineups {
		report.TierCounts[string(l.Tier)]++
		report.ShellCounts[l.Shell]++

		seenTeams := make(map[string]bool)
		for _, p := range l.Players {
			pe, ok := players[p.ID]
			if !ok {
				pe = &PlayerExposure{PlayerID: p.ID, PlayerName: p.Name, Team: p.Team, Position: p.Position}
				players[p.ID] = pe
			}
			pe.Count++

			if !seenTeams[p.Team] {
				seenTeams[p.Team] = true
				te, ok := teams[p.Team]
				if !ok {
					te = &TeamExposure{Team: p.Team}
					teams[p.Team] = te
				}
				te.Count++
			}
		}

		if len(l.Players) > 0 {
			qb := l.Players[0]
			id := qb.Name + "|" + l.GameID
			se, ok := stacks[id]
			if !ok {
				se = &StackExposure{StackID: id, QB: qb.Name, GameID: l.GameID, Tier: string(l.Tier)}
				stacks[id] = se
			}
			se.Count++
		}
	}

	total := float64(len(lineups))
	for _, pe := range players {
		pe.Percentage = float64(pe.Count) / total * 100
		report.PlayerExposures = append(report.PlayerExposures, *pe)
	}
	for _, te := range teams {
		te.Percentage = float64(te.Count) / total * 100
		report.TeamExposures = append(report.TeamExposures, *te)
	}
	for _, se := range stacks {
		se.Percentage = float64(se.Count) / total * 100
		report.StackExposures = append(report.StackExposures, *se)
	}

	sort.Slice(report.PlayerExposures, func(i, j int) bool {
		a, b := report.PlayerExposures[i], report.PlayerExposures[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.PlayerName != b.PlayerName {
			return a.PlayerName < b.PlayerName
		}
		return a.Team < b.Team
	})
	sort.Slice(report.TeamExposures, func(i, j int) bool {
		a, b := report.TeamExposures[i], report.TeamExposures[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Team < b.Team
	})
	sort.Slice(report.StackExposures, func(i, j int) bool {
		a, b := report.StackExposures[i], report.StackExposures[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.StackID < b.StackID
	})

	return report
}
