package optimizer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
)

// Observer receives search events. Implementations must be cheap; they are called
// from the hot loop.
type Observer interface {
	AttemptStarted(tier models.Tier)
	AttemptRejected(tier models.Tier, reason string)
	LineupAccepted(tier models.Tier, score float64)
	TierFinished(tier models.Tier, requested, built, attempts int)
}

// NoopObserver ignores every event.
type NoopObserver struct{}

func (NoopObserver) AttemptStarted(models.Tier)              {}
func (NoopObserver) AttemptRejected(models.Tier, string)     {}
func (NoopObserver) LineupAccepted(models.Tier, float64)     {}
func (NoopObserver) TierFinished(models.Tier, int, int, int) {}

// TierOutcome reports how one tier's search went.
type TierOutcome struct {
	Tier       models.Tier    `json:"tier"`
	Blueprints int            `json:"blueprints"`
	Requested  int            `json:"requested"`
	Built      int            `json:"built"`
	Attempts   int            `json:"attempts"`
	Rejections map[string]int `json:"rejections"`
}

// Shortfall is how many requested lineups the tier failed to build.
func (t TierOutcome) Shortfall() int {
	if t.Built >= t.Requested {
		return 0
	}
	return t.Requested - t.Built
}

// SearchOutcome holds every accepted lineup in acceptance order plus per-tier stats.
type SearchOutcome struct {
	Lineups []models.RankedLineup `json:"lineups"`
	Tiers   []TierOutcome         `json:"tiers"`
}

// Search runs the tiered, budgeted greedy search over stack blueprints.
type Search struct {
	pool        PlayerPool
	cfg         Config
	constraints *LineupConstraints
	seed        int64
	observer    Observer
	log         *logrus.Entry
}

// NewSearch prepares a search. A nil observer is replaced with NoopObserver.
func NewSearch(pool PlayerPool, cfg Config, seed int64, observer Observer) *Search {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Search{
		pool:        pool,
		cfg:         cfg,
		constraints: NewLineupConstraints(cfg.Lineup),
		seed:        seed,
		observer:    observer,
		log:         logrus.NewEntry(logger.GetLogger()),
	}
}

// WithLogger scopes search logging to the given entry.
func (s *Search) WithLogger(entry *logrus.Entry) *Search {
	if entry != nil {
		s.log = entry
	}
	return s
}

// Run cycles each tier's blueprints round-robin until the tier quota is met or its
// attempt budget (attempt multiplier times the tier quota) runs out. A
// tier that falls short is reported, not retried, and its shortfall is not handed
// to other tiers. Run only returns an error when ctx is cancelled, together with
// whatever was built so far.
func (s *Search) Run(ctx context.Context, blueprints []models.StackBlueprint) (SearchOutcome, error) {
	sc := NewSearchContext(s.pool, s.constraints, s.seed, s.cfg.Search.ExplorationNoise)
	quotas := TierQuotas(s.cfg.Search.NumLineups, s.cfg.Search.TierShares)

	byTier := make(map[models.Tier][]models.StackBlueprint, len(models.Tiers))
	for _, bp := range blueprints {
		byTier[bp.Tier] = append(byTier[bp.Tier], bp)
	}

	outcome := SearchOutcome{
		Lineups: make([]models.RankedLineup, 0, s.cfg.Search.NumLineups),
		Tiers:   make([]TierOutcome, 0, len(models.Tiers)),
	}

	for _, tier := range models.Tiers {
		stacks := byTier[tier]
		tierLog := logger.WithTierContext(s.log, string(tier))
		to := TierOutcome{
			Tier:       tier,
			Blueprints: len(stacks),
			Requested:  quotas[tier],
			Rejections: make(map[string]int),
		}

		if to.Requested <= 0 || len(stacks) == 0 {
			if to.Requested > 0 {
				tierLog.WithField("requested", to.Requested).Warn("No stack blueprints for tier")
			}
			s.observer.TierFinished(tier, to.Requested, 0, 0)
			outcome.Tiers = append(outcome.Tiers, to)
			continue
		}

		need := to.Requested
		budget := to.Requested * s.cfg.Search.AttemptMultiplier
		idx := 0
		for need > 0 && to.Attempts < budget {
			if err := ctx.Err(); err != nil {
				outcome.Tiers = append(outcome.Tiers, to)
				return outcome, err
			}

			bp := stacks[idx%len(stacks)]
			pass := idx / len(stacks)
			idx++
			to.Attempts++

			shell := Shell3v1
			if s.cfg.Stacking.ShellMix.Enabled {
				shell = pickShell(sc.rng, bp, s.cfg.Stacking.ShellMix)
			}

			s.observer.AttemptStarted(tier)
			lineup, err := Assemble(sc, bp, shell, pass)
			if err != nil {
				reason := RejectReason(err)
				to.Rejections[reason]++
				s.observer.AttemptRejected(tier, reason)
				tierLog.WithFields(logrus.Fields{
					"stack":  bp.Description(),
					"shell":  shell,
					"reason": reason,
				}).WithError(err).Debug("Lineup attempt rejected")
				continue
			}

			outcome.Lineups = append(outcome.Lineups, lineup)
			to.Built++
			need--
			s.observer.LineupAccepted(tier, lineup.Score)
		}

		s.observer.TierFinished(tier, to.Requested, to.Built, to.Attempts)
		fields := logrus.Fields{
			"requested":  to.Requested,
			"built":      to.Built,
			"attempts":   to.Attempts,
			"blueprints": to.Blueprints,
		}
		if to.Shortfall() > 0 {
			tierLog.WithFields(fields).WithField("shortfall", to.Shortfall()).Warn("Attempt budget exhausted before tier quota")
		} else {
			tierLog.WithFields(fields).Info("Tier quota met")
		}
		outcome.Tiers = append(outcome.Tiers, to)
	}

	return outcome, nil
}
