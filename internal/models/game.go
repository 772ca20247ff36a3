package models

// Tier is the ordinal bucket a game falls into by edge score. A is best.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Tiers lists tiers from best to worst.
var Tiers = []Tier{TierA, TierB, TierC, TierD}

// TeamConcentration holds target and route share splits for one offense.
// Nil fields fall back to league-typical defaults in the scorer.
type TeamConcentration struct {
	WR1TargetShare *float64 `json:"wr1_tgt_share,omitempty"`
	WR2TargetShare *float64 `json:"wr2_tgt_share,omitempty"`
	TERouteShare   *float64 `json:"te_route_share,omitempty"`
	RBRouteShare   *float64 `json:"rb_route_share,omitempty"`
}

// GameEnvironment is one row of the game environment table.
type GameEnvironment struct {
	GameID            string            `json:"game_id"`
	HomeTeam          string            `json:"home_team"`
	AwayTeam          string            `json:"away_team"`
	Total             *float64          `json:"total,omitempty"`
	HomeSpread        *float64          `json:"spread_home,omitempty"`
	WindMPH           *float64          `json:"wind_mph,omitempty"`
	Venue             string            `json:"venue_roof,omitempty"`
	PROEHome          *float64          `json:"proe_home,omitempty"`
	PROEAway          *float64          `json:"proe_away,omitempty"`
	PaceRankHome      *float64          `json:"pace_rank_home,omitempty"`
	PaceRankAway      *float64          `json:"pace_rank_away,omitempty"`
	Home              TeamConcentration `json:"home_concentration"`
	Away              TeamConcentration `json:"away_concentration"`
	StackOwnershipEst *float64          `json:"stack_cum_own_est,omitempty"`
}

// Opponent returns the other team in the game.
func (g GameEnvironment) Opponent(team string) (string, bool) {
	switch team {
	case g.HomeTeam:
		return g.AwayTeam, true
	case g.AwayTeam:
		return g.HomeTeam, true
	}
	return "", false
}

// SubScores are the 0-100 component scores behind an edge score.
type SubScores struct {
	Total            float64 `json:"total"`
	Spread           float64 `json:"spread"`
	PROE             float64 `json:"proe"`
	Pace             float64 `json:"pace"`
	PROEPace         float64 `json:"proe_pace"`
	VenueWeather     float64 `json:"venue_weather"`
	Concentration    float64 `json:"concentration"`
	OwnershipPenalty float64 `json:"ownership_penalty"`
}

// ScoredGame is a game annotated with its edge score and tier.
type ScoredGame struct {
	GameEnvironment
	SubScores SubScores `json:"sub_scores"`
	EdgeScore float64   `json:"edge_score"`
	Tier      Tier      `json:"tier"`
}

// TeamRoles is one row of the depth-chart role table.
type TeamRoles struct {
	Team   string `json:"team"`
	QB1    string `json:"qb1"`
	WR1    string `json:"wr1"`
	WR2    string `json:"wr2"`
	TE1    string `json:"te1"`
	SlotWR string `json:"slot_wr,omitempty"`
}

// PassCatcherNames returns WR1, WR2, TE1 and the slot receiver, blanks dropped,
// duplicates removed, depth-chart order kept.
func (r TeamRoles) PassCatcherNames() []string {
	seen := make(map[string]bool, 4)
	names := make([]string, 0, 4)
	for _, name := range []string{r.WR1, r.WR2, r.TE1, r.SlotWR} {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
