package optimizer

import (
	"fmt"
	"math"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// TierCounts holds an integer per tier.
type TierCounts struct {
	A int `mapstructure:"a" json:"a"`
	B int `mapstructure:"b" json:"b"`
	C int `mapstructure:"c" json:"c"`
	D int `mapstructure:"d" json:"d"`
}

// For returns the count for a tier.
func (t TierCounts) For(tier models.Tier) int {
	switch tier {
	case models.TierA:
		return t.A
	case models.TierB:
		return t.B
	case models.TierC:
		return t.C
	case models.TierD:
		return t.D
	}
	return 0
}

// TierShares split the requested lineup count across tiers. C takes whatever A and B
// leave behind; D never receives lineups.
type TierShares struct {
	A float64 `mapstructure:"a" json:"a"`
	B float64 `mapstructure:"b" json:"b"`
	// C is only range-checked and counted toward the sum of at most 1. The C quota
	// is always the remainder after A and B, whatever C says.
	C float64 `mapstructure:"c" json:"c"`
}

// ShellMix controls the stack shapes drawn per attempt.
type ShellMix struct {
	Enabled       bool    `mapstructure:"enabled" json:"enabled"`
	ThreeOne      float64 `mapstructure:"three_one" json:"three_one"`
	ThreeZero     float64 `mapstructure:"three_zero" json:"three_zero"`
	FourOne       float64 `mapstructure:"four_one" json:"four_one"`
	TwoOne        float64 `mapstructure:"two_one" json:"two_one"`
	BlowoutSpread float64 `mapstructure:"blowout_spread" json:"blowout_spread"`
	WindCutoff    float64 `mapstructure:"wind_cutoff" json:"wind_cutoff"`
}

// StackingConfig bounds stack blueprint generation.
type StackingConfig struct {
	GamesPerTier  TierCounts `mapstructure:"games_per_tier" json:"games_per_tier"`
	MaxPairs      int        `mapstructure:"max_pairs" json:"max_pairs"`
	MaxBringBacks int        `mapstructure:"max_bringbacks" json:"max_bringbacks"`
	ShellMix      ShellMix   `mapstructure:"shell_mix" json:"shell_mix"`
}

// LineupConfig is the legality gate applied to every assembled lineup.
type LineupConfig struct {
	MinSalary         int     `mapstructure:"min_salary" json:"min_salary"`
	MaxSalary         int     `mapstructure:"max_salary" json:"max_salary"`
	CumOwnershipCap   float64 `mapstructure:"cum_own_cap" json:"cum_own_cap"`
	LowOwnedThreshold float64 `mapstructure:"low_owned_threshold" json:"low_owned_threshold"`
	MinLowOwned       int     `mapstructure:"min_low_owned" json:"min_low_owned"`
	Sub10Threshold    float64 `mapstructure:"sub10_threshold" json:"sub10_threshold"`
	MinSub10Owned     int     `mapstructure:"min_sub10_owned" json:"min_sub10_owned"`
}

// SearchConfig drives the randomized greedy search.
type SearchConfig struct {
	NumLineups        int        `mapstructure:"num_lineups" json:"num_lineups"`
	TierShares        TierShares `mapstructure:"tier_shares" json:"tier_shares"`
	AttemptMultiplier int        `mapstructure:"attempt_multiplier" json:"attempt_multiplier"`
	ExplorationNoise  float64    `mapstructure:"exploration_noise" json:"exploration_noise"`
}

// Config groups everything the optimizer needs for one run.
type Config struct {
	Stacking StackingConfig `mapstructure:"stacking" json:"stacking"`
	Lineup   LineupConfig   `mapstructure:"lineup" json:"lineup"`
	Search   SearchConfig   `mapstructure:"search" json:"search"`
}

// DefaultConfig returns classic-slate defaults.
func DefaultConfig() Config {
	return Config{
		Stacking: StackingConfig{
			GamesPerTier:  TierCounts{A: 3, B: 2, C: 1, D: 0},
			MaxPairs:      3,
			MaxBringBacks: 2,
			ShellMix: ShellMix{
				Enabled:       false,
				ThreeOne:      0.70,
				ThreeZero:     0.15,
				FourOne:       0.10,
				TwoOne:        0.05,
				BlowoutSpread: 7.5,
				WindCutoff:    15,
			},
		},
		Lineup: LineupConfig{
			MinSalary:         49600,
			MaxSalary:         50000,
			CumOwnershipCap:   125,
			LowOwnedThreshold: 5,
			MinLowOwned:       1,
			Sub10Threshold:    10,
			MinSub10Owned:     2,
		},
		Search: SearchConfig{
			NumLineups:        150,
			TierShares:        TierShares{A: 0.70, B: 0.25, C: 0.05},
			AttemptMultiplier: 20,
			ExplorationNoise:  0.2,
		},
	}
}

// Validate checks ranges and orderings.
func (c Config) Validate() error {
	s := c.Search
	if s.NumLineups < 1 {
		return fmt.Errorf("%w: num_lineups must be at least 1", utils.ErrInvalidInput)
	}
	for name, v := range map[string]float64{"a": s.TierShares.A, "b": s.TierShares.B, "c": s.TierShares.C} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("%w: tier share %s must be within [0,1]", utils.ErrInvalidInput, name)
		}
	}
	if s.TierShares.A+s.TierShares.B+s.TierShares.C > 1+1e-9 {
		return fmt.Errorf("%w: tier shares sum above 1", utils.ErrInvalidInput)
	}
	if s.AttemptMultiplier < 1 {
		return fmt.Errorf("%w: attempt_multiplier must be at least 1", utils.ErrInvalidInput)
	}
	if s.ExplorationNoise < 0 || s.ExplorationNoise >= 1 {
		return fmt.Errorf("%w: exploration_noise must be within [0,1)", utils.ErrInvalidInput)
	}

	l := c.Lineup
	if l.MinSalary > l.MaxSalary || l.MaxSalary <= 0 {
		return fmt.Errorf("%w: salary band %d-%d is not ordered", utils.ErrInvalidInput, l.MinSalary, l.MaxSalary)
	}
	if l.CumOwnershipCap <= 0 {
		return fmt.Errorf("%w: cumulative ownership cap must be positive", utils.ErrInvalidInput)
	}

	st := c.Stacking
	if st.MaxPairs < 1 || st.MaxBringBacks < 1 {
		return fmt.Errorf("%w: max_pairs and max_bringbacks must be at least 1", utils.ErrInvalidInput)
	}
	if st.ShellMix.Enabled {
		m := st.ShellMix
		if m.ThreeOne < 0 || m.ThreeZero < 0 || m.FourOne < 0 || m.TwoOne < 0 {
			return fmt.Errorf("%w: shell mix shares must be non-negative", utils.ErrInvalidInput)
		}
		if m.ThreeOne+m.ThreeZero+m.FourOne+m.TwoOne <= 0 {
			return fmt.Errorf("%w: shell mix has no weight", utils.ErrInvalidInput)
		}
	}
	return nil
}

// TierQuotas splits n lineups across tiers. A and B are truncated shares of n and C
// receives the remainder, so shares.C is never read here.
func TierQuotas(n int, shares TierShares) map[models.Tier]int {
	a := int(float64(n) * shares.A)
	b := int(float64(n) * shares.B)
	c := n - a - b
	if c < 0 {
		c = 0
	}
	return map[models.Tier]int{
		models.TierA: a,
		models.TierB: b,
		models.TierC: c,
		models.TierD: 0,
	}
}
