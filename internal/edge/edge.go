package edge

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// Weights combine the sub-scores. OwnershipPenalty is subtracted.
type Weights struct {
	OU               float64 `mapstructure:"ou" json:"ou"`
	Spread           float64 `mapstructure:"spread" json:"spread"`
	PROEPace         float64 `mapstructure:"proe_pace" json:"proe_pace"`
	VenueWeather     float64 `mapstructure:"venue_weather" json:"venue_weather"`
	Concentration    float64 `mapstructure:"concentration" json:"concentration"`
	OwnershipPenalty float64 `mapstructure:"ownership_penalty" json:"ownership_penalty"`
}

// Thresholds are the minimum edge scores for tiers A, B and C. Anything lower is D.
type Thresholds struct {
	A float64 `mapstructure:"a" json:"a"`
	B float64 `mapstructure:"b" json:"b"`
	C float64 `mapstructure:"c" json:"c"`
}

// Step maps every value up to and including Max onto Score.
type Step struct {
	Max   float64
	Score float64
}

// TotalSteps score the game total. Totals below 44 score 0, totals above the last
// step score TotalCeilingScore.
var TotalSteps = []Step{
	{Max: 46.5, Score: 50},
	{Max: 49, Score: 75},
}

// TotalFloor is the lowest total that earns any credit.
const TotalFloor = 44

// TotalCeilingScore applies to totals above every step.
const TotalCeilingScore = 100

// SpreadSteps score the absolute home spread.
var SpreadSteps = []Step{
	{Max: 3, Score: 100},
	{Max: 6, Score: 70},
	{Max: 9.5, Score: 40},
}

// SpreadFloorScore applies to blowout spreads.
const SpreadFloorScore = 10

// MissingSpread stands in for an absent spread line.
const MissingSpread = 99

// Neutral concentration shares used when a team's splits are unknown.
const (
	DefaultWR1TargetShare = 0.28
	DefaultWR2TargetShare = 0.18
	DefaultTERouteShare   = 0.18
	DefaultRBRouteShare   = 0.16
	DefaultPaceRank       = 16
)

// Config drives game scoring.
type Config struct {
	Weights          Weights    `mapstructure:"weights" json:"weights"`
	Thresholds       Thresholds `mapstructure:"thresholds" json:"thresholds"`
	PROEBlend        float64    `mapstructure:"proe_blend" json:"proe_blend"`
	PaceBlend        float64    `mapstructure:"pace_blend" json:"pace_blend"`
	PROEMin          float64    `mapstructure:"proe_min" json:"proe_min"`
	PROEMax          float64    `mapstructure:"proe_max" json:"proe_max"`
	ConcentrationMin float64    `mapstructure:"concentration_min" json:"concentration_min"`
	ConcentrationMax float64    `mapstructure:"concentration_max" json:"concentration_max"`
	EnclosedScore    float64    `mapstructure:"enclosed_score" json:"enclosed_score"`
	OutdoorScore     float64    `mapstructure:"outdoor_score" json:"outdoor_score"`
	WindCutoff       float64    `mapstructure:"wind_cutoff" json:"wind_cutoff"`
	WindScore        float64    `mapstructure:"wind_score" json:"wind_score"`
	EnclosedVenues   []string   `mapstructure:"enclosed_venues" json:"enclosed_venues"`
	OwnershipCap     float64    `mapstructure:"ownership_cap" json:"ownership_cap"`
}

// DefaultConfig returns the stock weights and thresholds.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			OU:               0.25,
			Spread:           0.20,
			PROEPace:         0.20,
			VenueWeather:     0.15,
			Concentration:    0.20,
			OwnershipPenalty: 0.10,
		},
		Thresholds:       Thresholds{A: 65, B: 50, C: 35},
		PROEBlend:        0.6,
		PaceBlend:        0.4,
		PROEMin:          -10,
		PROEMax:          10,
		ConcentrationMin: 0.10,
		ConcentrationMax: 0.35,
		EnclosedScore:    100,
		OutdoorScore:     70,
		WindCutoff:       15,
		WindScore:        20,
		EnclosedVenues:   []string{"dome", "fixed", "indoor"},
		OwnershipCap:     120,
	}
}

// Validate checks weights and threshold ordering.
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"ou": w.OU, "spread": w.Spread, "proe_pace": w.PROEPace,
		"venue_weather": w.VenueWeather, "concentration": w.Concentration,
		"ownership_penalty": w.OwnershipPenalty,
	} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: edge weight %s must be non-negative", utils.ErrInvalidInput, name)
		}
	}
	if !(c.Thresholds.A > c.Thresholds.B && c.Thresholds.B > c.Thresholds.C) {
		return fmt.Errorf("%w: tier thresholds must satisfy A > B > C", utils.ErrInvalidInput)
	}
	if c.OwnershipCap <= 0 {
		return fmt.Errorf("%w: ownership cap must be positive", utils.ErrInvalidInput)
	}
	return nil
}

// TierFor buckets an edge score.
func TierFor(score float64, t Thresholds) models.Tier {
	switch {
	case score >= t.A:
		return models.TierA
	case score >= t.B:
		return models.TierB
	case score >= t.C:
		return models.TierC
	}
	return models.TierD
}

// Score computes sub-scores, the weighted edge score and the tier for one game.
// It is a pure function of its inputs.
func Score(g models.GameEnvironment, cfg Config) models.ScoredGame {
	var sub models.SubScores

	sub.Total = totalScore(g.Total)
	sub.Spread = spreadScore(g.HomeSpread)

	proe := valueOr(g.PROEHome, 0) + valueOr(g.PROEAway, 0)
	sub.PROE = normalize(proe, cfg.PROEMin, cfg.PROEMax)
	sub.Pace = (rankScore(valueOr(g.PaceRankHome, DefaultPaceRank)) + rankScore(valueOr(g.PaceRankAway, DefaultPaceRank))) / 2
	sub.PROEPace = cfg.PROEBlend*sub.PROE + cfg.PaceBlend*sub.Pace

	sub.VenueWeather = cfg.OutdoorScore
	if isEnclosed(g.Venue, cfg.EnclosedVenues) {
		sub.VenueWeather = cfg.EnclosedScore
	}
	if valueOr(g.WindMPH, 0) >= cfg.WindCutoff {
		sub.VenueWeather = cfg.WindScore
	}

	conc := (concentration(g.Home) + concentration(g.Away)) / 2
	sub.Concentration = normalize(conc, cfg.ConcentrationMin, cfg.ConcentrationMax)

	own := math.Max(0, math.Min(cfg.OwnershipCap, valueOr(g.StackOwnershipEst, 0)))
	sub.OwnershipPenalty = own / cfg.OwnershipCap * 100

	w := cfg.Weights
	raw := w.OU*sub.Total +
		w.Spread*sub.Spread +
		w.PROEPace*sub.PROEPace +
		w.VenueWeather*sub.VenueWeather +
		w.Concentration*sub.Concentration -
		w.OwnershipPenalty*sub.OwnershipPenalty

	// The tier follows the reported two-decimal score so the two never disagree.
	score := math.Round(raw*100) / 100
	return models.ScoredGame{
		GameEnvironment: g,
		SubScores:       sub,
		EdgeScore:       score,
		Tier:            TierFor(score, cfg.Thresholds),
	}
}

// ScoreAll scores every game and orders them by tier, then edge score descending,
// then game id.
func ScoreAll(games []models.GameEnvironment, cfg Config) []models.ScoredGame {
	scored := make([]models.ScoredGame, len(games))
	for i, g := range games {
		scored[i] = Score(g, cfg)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Tier != scored[j].Tier {
			return scored[i].Tier < scored[j].Tier
		}
		if scored[i].EdgeScore != scored[j].EdgeScore {
			return scored[i].EdgeScore > scored[j].EdgeScore
		}
		return scored[i].GameID < scored[j].GameID
	})
	return scored
}

func totalScore(total *float64) float64 {
	if total == nil || math.IsNaN(*total) || *total < TotalFloor {
		return 0
	}
	return stepScore(*total, TotalSteps, TotalCeilingScore)
}

func spreadScore(spread *float64) float64 {
	s := float64(MissingSpread)
	if spread != nil && !math.IsNaN(*spread) {
		s = math.Abs(*spread)
	}
	return stepScore(s, SpreadSteps, SpreadFloorScore)
}

func stepScore(v float64, steps []Step, otherwise float64) float64 {
	for _, s := range steps {
		if v <= s.Max {
			return s.Score
		}
	}
	return otherwise
}

// rankScore maps a 1-32 pace rank onto 0-100, fastest first.
func rankScore(rank float64) float64 {
	return (32 - rank) / 31 * 100
}

func concentration(c models.TeamConcentration) float64 {
	return (valueOr(c.WR1TargetShare, DefaultWR1TargetShare) +
		valueOr(c.WR2TargetShare, DefaultWR2TargetShare) +
		valueOr(c.TERouteShare, DefaultTERouteShare) +
		valueOr(c.RBRouteShare, DefaultRBRouteShare)) / 4
}

func isEnclosed(venue string, keywords []string) bool {
	v := strings.ToLower(venue)
	for _, k := range keywords {
		if k != "" && strings.Contains(v, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// normalize rescales v from [lo, hi] onto [0, 100], clamped.
func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 50
	}
	n := (v - lo) / (hi - lo) * 100
	return math.Max(0, math.Min(100, n))
}

func valueOr(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return def
	}
	return *v
}
