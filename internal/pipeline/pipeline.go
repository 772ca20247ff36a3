package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/edge"
	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/optimizer"
	"github.com/stitts-dev/nfl-stacker/internal/pool"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

// Inputs are the raw tables for one slate.
type Inputs struct {
	Players pool.Inputs              `json:"players"`
	Games   []models.GameEnvironment `json:"games"`
	Roles   []models.TeamRoles       `json:"roles"`
}

// Config bundles every stage's settings plus the search seed.
type Config struct {
	Pool      pool.Config      `json:"pool"`
	Edge      edge.Config      `json:"edge"`
	Optimizer optimizer.Config `json:"optimizer"`
	Seed      int64            `json:"seed"`
}

// DefaultConfig returns the classic-slate defaults with seed 42.
func DefaultConfig() Config {
	return Config{
		Pool:      pool.DefaultConfig(),
		Edge:      edge.DefaultConfig(),
		Optimizer: optimizer.DefaultConfig(),
		Seed:      42,
	}
}

// Validate checks every stage's settings.
func (c Config) Validate() error {
	if err := c.Pool.Validate(); err != nil {
		return err
	}
	if err := c.Edge.Validate(); err != nil {
		return err
	}
	return c.Optimizer.Validate()
}

// Result is everything one run produced.
type Result struct {
	RunID         uuid.UUID                `json:"run_id"`
	Seed          int64                    `json:"seed"`
	StartedAt     time.Time                `json:"started_at"`
	Duration      time.Duration            `json:"duration"`
	PoolStats     pool.BuildStats          `json:"pool_stats"`
	ScoredGames   []models.ScoredGame      `json:"scored_games"`
	SelectedGames []models.ScoredGame      `json:"selected_games"`
	Blueprints    []models.StackBlueprint  `json:"blueprints"`
	Tiers         []optimizer.TierOutcome  `json:"tiers"`
	Candidates    int                      `json:"candidates"`
	Lineups       []models.RankedLineup    `json:"lineups"`
	Exposure      optimizer.ExposureReport `json:"exposure"`
}

// Requested is the lineup count the run asked for.
func (r *Result) Requested() int {
	n := 0
	for _, t := range r.Tiers {
		n += t.Requested
	}
	return n
}

// Shortfall is how many requested lineups the run failed to build.
func (r *Result) Shortfall() int {
	n := 0
	for _, t := range r.Tiers {
		n += t.Shortfall()
	}
	return n
}

type runOptions struct {
	observer optimizer.Observer
	log      *logrus.Entry
	runID    uuid.UUID
}

// Option customizes a run.
type Option func(*runOptions)

// WithObserver forwards search events, typically to metrics.
func WithObserver(o optimizer.Observer) Option {
	return func(ro *runOptions) { ro.observer = o }
}

// WithLogger replaces the run's base log entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(ro *runOptions) { ro.log = entry }
}

// WithRunID fixes the run id instead of generating one.
func WithRunID(id uuid.UUID) Option {
	return func(ro *runOptions) { ro.runID = id }
}

// ScoreGames validates the edge config and scores a slate's games. A team plays at
// most one game on a slate and game ids are unique.
func ScoreGames(games []models.GameEnvironment, cfg edge.Config) ([]models.ScoredGame, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(games))
	teams := make(map[string]string, 2*len(games))
	for i, g := range games {
		if g.GameID == "" || g.HomeTeam == "" || g.AwayTeam == "" {
			return nil, fmt.Errorf("%w: game %d needs game_id, home_team and away_team", utils.ErrInvalidInput, i+1)
		}
		if g.HomeTeam == g.AwayTeam {
			return nil, fmt.Errorf("%w: game %s has %s on both sides", utils.ErrInvalidInput, g.GameID, g.HomeTeam)
		}
		if ids[g.GameID] {
			return nil, fmt.Errorf("%w: duplicate game_id %s", utils.ErrInvalidInput, g.GameID)
		}
		ids[g.GameID] = true
		for _, team := range []string{g.HomeTeam, g.AwayTeam} {
			if prev, ok := teams[team]; ok {
				return nil, fmt.Errorf("%w: %s plays in both %s and %s", utils.ErrInvalidInput, team, prev, g.GameID)
			}
			teams[team] = g.GameID
		}
	}
	return edge.ScoreAll(games, cfg), nil
}

// Run builds the pool, scores games, generates blueprints, searches and ranks.
// Data-integrity and config errors abort before any search. A tier that falls
// short is reported in Result.Tiers; the run still succeeds. The only other error
// is ctx cancellation, wrapped in utils.ErrOptimizationFailed and returned together
// with the partial result.
func Run(ctx context.Context, in Inputs, cfg Config, opts ...Option) (*Result, error) {
	ro := runOptions{observer: optimizer.NoopObserver{}}
	for _, opt := range opts {
		opt(&ro)
	}
	if ro.runID == uuid.Nil {
		ro.runID = uuid.New()
	}

	log := logger.WithRunContext(ro.runID.String(), cfg.Seed)
	if ro.log != nil {
		log = ro.log.WithFields(logrus.Fields{"run_id": ro.runID.String(), "seed": cfg.Seed})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: ro.runID, Seed: cfg.Seed, StartedAt: time.Now().UTC()}
	log.WithFields(logrus.Fields{
		"salary_rows": len(in.Players.Salaries),
		"games":       len(in.Games),
		"roles":       len(in.Roles),
		"num_lineups": cfg.Optimizer.Search.NumLineups,
	}).Info("Starting lineup build")

	p, err := pool.Build(in.Players, cfg.Pool, log)
	if err != nil {
		return nil, fmt.Errorf("build player pool: %w", err)
	}
	res.PoolStats = p.Stats()

	res.ScoredGames, err = ScoreGames(in.Games, cfg.Edge)
	if err != nil {
		return nil, err
	}
	res.SelectedGames = optimizer.SelectGames(res.ScoredGames, cfg.Optimizer.Stacking.GamesPerTier)
	res.Blueprints = optimizer.GenerateBlueprints(res.SelectedGames, in.Roles, p, cfg.Optimizer.Stacking, log)

	search := optimizer.NewSearch(p, cfg.Optimizer, cfg.Seed, ro.observer).WithLogger(log)
	outcome, runErr := search.Run(ctx, res.Blueprints)
	res.Tiers = outcome.Tiers
	res.Candidates = len(outcome.Lineups)
	res.Lineups = optimizer.SelectTop(outcome.Lineups, cfg.Optimizer.Search.NumLineups)
	res.Exposure = optimizer.BuildExposureReport(res.Lineups)
	res.Duration = time.Since(res.StartedAt)

	fields := logrus.Fields{
		"lineups":   len(res.Lineups),
		"requested": res.Requested(),
		"shortfall": res.Shortfall(),
		"duration":  res.Duration.String(),
	}
	if runErr != nil {
		log.WithFields(fields).WithError(runErr).Warn("Lineup build interrupted")
		return res, fmt.Errorf("%w: stopped after %d candidates: %w", utils.ErrOptimizationFailed, res.Candidates, runErr)
	}
	log.WithFields(fields).Info("Lineup build complete")
	return res, nil
}
