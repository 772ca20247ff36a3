package optimizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/pool"
)

func TestTierQuotas(t *testing.T) {
	shares := DefaultConfig().Search.TierShares

	q := TierQuotas(150, shares)
	assert.Equal(t, 105, q[models.TierA])
	assert.Equal(t, 37, q[models.TierB])
	assert.Equal(t, 8, q[models.TierC])
	assert.Equal(t, 0, q[models.TierD])

	q = TierQuotas(10, shares)
	assert.Equal(t, []int{7, 2, 1, 0}, []int{q[models.TierA], q[models.TierB], q[models.TierC], q[models.TierD]})

	shares.C = 0
	assert.Equal(t, 8, TierQuotas(150, shares)[models.TierC], "C is the remainder regardless of its share")

	q = TierQuotas(0, shares)
	assert.Zero(t, q[models.TierA]+q[models.TierB]+q[models.TierC])
}

func smallSearchConfig(n int) Config {
	cfg := testConfig()
	cfg.Search.NumLineups = n
	return cfg
}

func TestSearch_LineupInvariants(t *testing.T) {
	p, bps := threeGameSlate()
	require.Len(t, bps, 36)

	cfg := smallSearchConfig(20)
	out, err := NewSearch(p, cfg, 42, nil).WithLogger(quietLog()).Run(context.Background(), bps)
	require.NoError(t, err)

	require.Len(t, out.Tiers, len(models.Tiers))
	byTier := map[models.Tier]TierOutcome{}
	for _, to := range out.Tiers {
		byTier[to.Tier] = to
		assert.LessOrEqual(t, to.Built, to.Requested)
	}
	assert.GreaterOrEqual(t, byTier[models.TierA].Built, 12, "one greedy pass yields a distinct core per blueprint")
	assert.Equal(t, 5, byTier[models.TierB].Built)
	assert.Equal(t, 1, byTier[models.TierC].Built)
	assert.Zero(t, byTier[models.TierD].Requested)

	lc := NewLineupConstraints(cfg.Lineup)
	cores := map[string]bool{}
	lastTier := -1
	for _, l := range out.Lineups {
		require.NoError(t, lc.ValidateLineup(l.Lineup))
		assert.False(t, cores[l.CoreKey()], "duplicate core %s", l.CoreKey())
		cores[l.CoreKey()] = true

		assert.Equal(t, models.PositionQB, l.Players[0].Position)
		tierIdx := tierIndex(l.Tier)
		assert.GreaterOrEqual(t, tierIdx, lastTier, "lineups come out tier by tier")
		lastTier = tierIdx
	}
}

func tierIndex(tier models.Tier) int {
	for i, t := range models.Tiers {
		if t == tier {
			return i
		}
	}
	return -1
}

func TestSearch_Deterministic(t *testing.T) {
	p, bps := threeGameSlate()
	cfg := smallSearchConfig(30)

	run := func(seed int64) []string {
		out, err := NewSearch(p, cfg, seed, nil).WithLogger(quietLog()).Run(context.Background(), bps)
		require.NoError(t, err)
		keys := make([]string, 0, len(out.Lineups))
		for _, l := range out.Lineups {
			keys = append(keys, l.CoreKey()+"/"+l.Players[8].Name)
		}
		return keys
	}

	assert.Equal(t, run(7), run(7))
}

func TestSearch_TierReachesQuotaWithTightBudget(t *testing.T) {
	p, bps := threeGameSlate()
	cfg := smallSearchConfig(12)
	cfg.Search.TierShares = TierShares{A: 1}
	cfg.Search.AttemptMultiplier = 1

	obs := newCountingObserver()
	out, err := NewSearch(p, cfg, 5, obs).WithLogger(quietLog()).Run(context.Background(), bps)
	require.NoError(t, err)

	a := out.Tiers[0]
	require.Equal(t, models.TierA, a.Tier)
	assert.Equal(t, 12, a.Requested)
	assert.Equal(t, 12, a.Built, "every greedy attempt is accepted, so the budget must not shrink as lineups land")
	assert.Equal(t, 12, a.Attempts)
	assert.Zero(t, a.Shortfall())
	assert.Empty(t, obs.rejected)
	assert.Len(t, out.Lineups, 12)
}

func TestSearch_ShortfallIsReported(t *testing.T) {
	teams := []string{"KC", "BUF", "DAL", "PHI"}
	p := pool.New(fixturePlayers(teams...))
	games := []models.ScoredGame{
		fixtureGame("KC@BUF", "KC", "BUF", models.TierA, 70),
		fixtureGame("DAL@PHI", "DAL", "PHI", models.TierB, 55),
	}
	bps := GenerateBlueprints(games, fixtureRoles(teams...), p, DefaultConfig().Stacking, quietLog())

	obs := newCountingObserver()
	out, err := NewSearch(p, smallSearchConfig(150), 3, obs).WithLogger(quietLog()).Run(context.Background(), bps)
	require.NoError(t, err)

	var a, c TierOutcome
	for _, to := range out.Tiers {
		switch to.Tier {
		case models.TierA:
			a = to
		case models.TierC:
			c = to
		}
	}
	assert.Equal(t, 105, a.Requested)
	assert.GreaterOrEqual(t, a.Built, 12)
	assert.Less(t, a.Built, 105)
	assert.Greater(t, a.Shortfall(), 0)
	assert.Greater(t, a.Rejections[ReasonDuplicate], 0)

	assert.Equal(t, 8, c.Requested)
	assert.Zero(t, c.Built)
	assert.Equal(t, 8, c.Shortfall())
	assert.Equal(t, [3]int{8, 0, 0}, obs.finished[models.TierC])

	rejected := 0
	for _, n := range obs.rejected {
		rejected += n
	}
	assert.Equal(t, len(out.Lineups), obs.accepted)
	assert.Equal(t, obs.started, obs.accepted+rejected)
	assert.Equal(t, [3]int{a.Requested, a.Built, a.Attempts}, obs.finished[models.TierA])
}

func TestSearch_ShellMix(t *testing.T) {
	p, bps := threeGameSlate()
	cfg := smallSearchConfig(20)
	cfg.Stacking.ShellMix.Enabled = true

	out, err := NewSearch(p, cfg, 11, nil).WithLogger(quietLog()).Run(context.Background(), bps)
	require.NoError(t, err)
	require.NotEmpty(t, out.Lineups)

	for _, l := range out.Lineups {
		assert.NotEqual(t, string(Shell3v0), l.Shell, "fixture games have no spread or wind")
		assert.Contains(t, []string{"3v1", "4v1", "2v1"}, l.Shell)
	}
}

func TestSearch_ContextCancelled(t *testing.T) {
	p, bps := threeGameSlate()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := NewSearch(p, smallSearchConfig(20), 1, nil).WithLogger(quietLog()).Run(ctx, bps)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.Lineups)
}
