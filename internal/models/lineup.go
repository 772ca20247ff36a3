package models

import (
	"fmt"
	"sort"
	"strings"
)

// StackBlueprint is a proposed correlated sub-lineup built around one QB.
type StackBlueprint struct {
	GameID     string      `json:"game_id"`
	Tier       Tier        `json:"tier"`
	EdgeScore  float64     `json:"edge_score"`
	QB         PlayerRef   `json:"qb"`
	Catchers   []PlayerRef `json:"stack"`
	BringBack  PlayerRef   `json:"bringback"`
	Extras     []PlayerRef `json:"extras,omitempty"`
	QBTeam     string      `json:"team_qb"`
	OppTeam    string      `json:"opp_team"`
	HomeSpread *float64    `json:"spread_home,omitempty"`
	WindMPH    *float64    `json:"wind_mph,omitempty"`
}

// Description renders "QB + C1/C2 + BB".
func (b StackBlueprint) Description() string {
	names := make([]string, 0, len(b.Catchers))
	for _, c := range b.Catchers {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("%s + %s + %s", b.QB.Name, strings.Join(names, "/"), b.BringBack.Name)
}

// Lineup is nine players in construction order.
type Lineup struct {
	Players []Player `json:"players"`
	GameID  string   `json:"game_id"`
	Tier    Tier     `json:"tier"`
	Shell   string   `json:"shell"`
	Stack   string   `json:"stack"`
}

// TotalSalary sums player salaries.
func (l Lineup) TotalSalary() int {
	total := 0
	for _, p := range l.Players {
		total += p.Salary
	}
	return total
}

// TotalOwnership sums projected ownership percentages.
func (l Lineup) TotalOwnership() float64 {
	total := 0.0
	for _, p := range l.Players {
		total += p.Ownership
	}
	return total
}

// TotalProjection sums projected mean points.
func (l Lineup) TotalProjection() float64 {
	total := 0.0
	for _, p := range l.Players {
		total += p.Projection
	}
	return total
}

// PositionCounts tallies players per position.
func (l Lineup) PositionCounts() map[Position]int {
	counts := make(map[Position]int, len(Positions))
	for _, p := range l.Players {
		counts[p.Position]++
	}
	return counts
}

// CoreKey is the sorted name set of the first five players in construction order.
// Two lineups sharing a core key are treated as the same lineup.
func (l Lineup) CoreKey() string {
	n := 5
	if len(l.Players) < n {
		n = len(l.Players)
	}
	names := make([]string, 0, n)
	for _, p := range l.Players[:n] {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return strings.Join(names, "|")
}

// RankedLineup is an accepted lineup with its ranking score.
type RankedLineup struct {
	Rank           int     `json:"rank"`
	Score          float64 `json:"score"`
	TotalSalary    int     `json:"total_salary"`
	TotalOwnership float64 `json:"total_ownership"`
	Lineup
}
