package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stitts-dev/nfl-stacker/internal/edge"
	"github.com/stitts-dev/nfl-stacker/internal/optimizer"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/internal/pool"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// EnvPrefix is prepended to every environment override, e.g. STACKER_SEARCH_NUM_LINEUPS.
const EnvPrefix = "STACKER"

type Config struct {
	// Server
	Env          string        `mapstructure:"env"`
	LogLevel     string        `mapstructure:"log_level"`
	Port         string        `mapstructure:"port"`
	BuildTimeout time.Duration `mapstructure:"build_timeout"`

	// Persistence. Empty URLs turn the store or the cache off.
	DatabaseURL string        `mapstructure:"database_url"`
	RedisURL    string        `mapstructure:"redis_url"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`

	// Run
	Seed     int64                    `mapstructure:"seed"`
	Pool     pool.Config              `mapstructure:"pool"`
	Edge     edge.Config              `mapstructure:"edge"`
	Stacking optimizer.StackingConfig `mapstructure:"stacking"`
	Lineup   optimizer.LineupConfig   `mapstructure:"lineup"`
	Search   optimizer.SearchConfig   `mapstructure:"search"`
}

// LoadConfig layers defaults, the optional YAML file at path, STACKER_* environment
// variables and changed flags, in increasing precedence. Flags are bound by name,
// so a flag called "seed" overrides the seed key and "lineups" overrides
// search.num_lineups.
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps CLI flag names onto config keys where they differ.
var flagKeys = map[string]string{
	"lineups":   "search.num_lineups",
	"log-level": "log_level",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = strings.ReplaceAll(f.Name, "-", "_")
		}
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

func setDefaults(v *viper.Viper) {
	d := pipeline.DefaultConfig()

	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", "8080")
	v.SetDefault("build_timeout", "2m")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("seed", d.Seed)

	p := d.Pool
	v.SetDefault("pool.salary_floors.qb", p.SalaryFloors.QB)
	v.SetDefault("pool.salary_floors.rb", p.SalaryFloors.RB)
	v.SetDefault("pool.salary_floors.wr", p.SalaryFloors.WR)
	v.SetDefault("pool.salary_floors.te", p.SalaryFloors.TE)
	v.SetDefault("pool.salary_floors.dst", p.SalaryFloors.DST)
	v.SetDefault("pool.beta", p.Beta)
	v.SetDefault("pool.gamma", p.Gamma)
	v.SetDefault("pool.unavailable_statuses", p.UnavailableStatuses)
	v.SetDefault("pool.proxy.points_per_dollar", p.Proxy.PointsPerDollar)
	v.SetDefault("pool.proxy.ceiling_multiplier", p.Proxy.CeilingMultiplier)
	v.SetDefault("pool.proxy.multipliers.qb", p.Proxy.Multipliers.QB)
	v.SetDefault("pool.proxy.multipliers.rb", p.Proxy.Multipliers.RB)
	v.SetDefault("pool.proxy.multipliers.wr", p.Proxy.Multipliers.WR)
	v.SetDefault("pool.proxy.multipliers.te", p.Proxy.Multipliers.TE)
	v.SetDefault("pool.proxy.multipliers.dst", p.Proxy.Multipliers.DST)
	v.SetDefault("pool.proxy.ownership_top", p.Proxy.OwnershipTop)
	v.SetDefault("pool.proxy.ownership_step", p.Proxy.OwnershipStep)
	v.SetDefault("pool.proxy.ownership_min", p.Proxy.OwnershipMin)
	v.SetDefault("pool.proxy.ownership_max", p.Proxy.OwnershipMax)
	v.SetDefault("pool.proxy.forced_low_share", p.Proxy.ForcedLowShare)
	v.SetDefault("pool.proxy.forced_low_factor", p.Proxy.ForcedLowFactor)

	e := d.Edge
	v.SetDefault("edge.weights.ou", e.Weights.OU)
	v.SetDefault("edge.weights.spread", e.Weights.Spread)
	v.SetDefault("edge.weights.proe_pace", e.Weights.PROEPace)
	v.SetDefault("edge.weights.venue_weather", e.Weights.VenueWeather)
	v.SetDefault("edge.weights.concentration", e.Weights.Concentration)
	v.SetDefault("edge.weights.ownership_penalty", e.Weights.OwnershipPenalty)
	v.SetDefault("edge.thresholds.a", e.Thresholds.A)
	v.SetDefault("edge.thresholds.b", e.Thresholds.B)
	v.SetDefault("edge.thresholds.c", e.Thresholds.C)
	v.SetDefault("edge.proe_blend", e.PROEBlend)
	v.SetDefault("edge.pace_blend", e.PaceBlend)
	v.SetDefault("edge.proe_min", e.PROEMin)
	v.SetDefault("edge.proe_max", e.PROEMax)
	v.SetDefault("edge.concentration_min", e.ConcentrationMin)
	v.SetDefault("edge.concentration_max", e.ConcentrationMax)
	v.SetDefault("edge.enclosed_score", e.EnclosedScore)
	v.SetDefault("edge.outdoor_score", e.OutdoorScore)
	v.SetDefault("edge.wind_cutoff", e.WindCutoff)
	v.SetDefault("edge.wind_score", e.WindScore)
	v.SetDefault("edge.enclosed_venues", e.EnclosedVenues)
	v.SetDefault("edge.ownership_cap", e.OwnershipCap)

	st := d.Optimizer.Stacking
	v.SetDefault("stacking.games_per_tier.a", st.GamesPerTier.A)
	v.SetDefault("stacking.games_per_tier.b", st.GamesPerTier.B)
	v.SetDefault("stacking.games_per_tier.c", st.GamesPerTier.C)
	v.SetDefault("stacking.games_per_tier.d", st.GamesPerTier.D)
	v.SetDefault("stacking.max_pairs", st.MaxPairs)
	v.SetDefault("stacking.max_bringbacks", st.MaxBringBacks)
	v.SetDefault("stacking.shell_mix.enabled", st.ShellMix.Enabled)
	v.SetDefault("stacking.shell_mix.three_one", st.ShellMix.ThreeOne)
	v.SetDefault("stacking.shell_mix.three_zero", st.ShellMix.ThreeZero)
	v.SetDefault("stacking.shell_mix.four_one", st.ShellMix.FourOne)
	v.SetDefault("stacking.shell_mix.two_one", st.ShellMix.TwoOne)
	v.SetDefault("stacking.shell_mix.blowout_spread", st.ShellMix.BlowoutSpread)
	v.SetDefault("stacking.shell_mix.wind_cutoff", st.ShellMix.WindCutoff)

	l := d.Optimizer.Lineup
	v.SetDefault("lineup.min_salary", l.MinSalary)
	v.SetDefault("lineup.max_salary", l.MaxSalary)
	v.SetDefault("lineup.cum_own_cap", l.CumOwnershipCap)
	v.SetDefault("lineup.low_owned_threshold", l.LowOwnedThreshold)
	v.SetDefault("lineup.min_low_owned", l.MinLowOwned)
	v.SetDefault("lineup.sub10_threshold", l.Sub10Threshold)
	v.SetDefault("lineup.min_sub10_owned", l.MinSub10Owned)

	s := d.Optimizer.Search
	v.SetDefault("search.num_lineups", s.NumLineups)
	v.SetDefault("search.tier_shares.a", s.TierShares.A)
	v.SetDefault("search.tier_shares.b", s.TierShares.B)
	v.SetDefault("search.tier_shares.c", s.TierShares.C)
	v.SetDefault("search.attempt_multiplier", s.AttemptMultiplier)
	v.SetDefault("search.exploration_noise", s.ExplorationNoise)
}

// Pipeline assembles the per-run settings.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		Pool: c.Pool,
		Edge: c.Edge,
		Optimizer: optimizer.Config{
			Stacking: c.Stacking,
			Lineup:   c.Lineup,
			Search:   c.Search,
		},
		Seed: c.Seed,
	}
}

// Validate checks server settings and every run setting.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("%w: port must be set", utils.ErrInvalidInput)
	}
	if c.CacheTTL < 0 || c.BuildTimeout < 0 {
		return fmt.Errorf("%w: cache_ttl and build_timeout must not be negative", utils.ErrInvalidInput)
	}
	return c.Pipeline().Validate()
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
