package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/optimizer"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/pkg/utils"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func rosterPlayer(name, team string, pos models.Position, salary int) models.Player {
	return models.Player{ID: models.PlayerID(name, team, pos), Name: name, Team: team, Position: pos, Salary: salary, Ownership: 5}
}

func sampleResult(rank int, score float64) models.RankedLineup {
	players := []models.Player{
		rosterPlayer("QB1", "KC", models.PositionQB, 6800),
		rosterPlayer("WR1", "KC", models.PositionWR, 6000),
		rosterPlayer("WR2", "KC", models.PositionWR, 5500),
		rosterPlayer("WR3", "BUF", models.PositionWR, 5200),
		rosterPlayer("RB1", "PHI", models.PositionRB, 8000),
		rosterPlayer("RB2", "ATL", models.PositionRB, 7000),
		rosterPlayer("TE1", "DAL", models.PositionTE, 4000),
		rosterPlayer("DST", "BAL", models.PositionDST, 3000),
		rosterPlayer("RB3", "DET", models.PositionRB, 4500),
	}
	l := models.Lineup{Players: players, GameID: "KC@BUF", Tier: models.TierA, Shell: "3v1", Stack: "QB1 + WR1/WR2 + WR3"}
	return models.RankedLineup{Rank: rank, Score: score, TotalSalary: l.TotalSalary(), TotalOwnership: l.TotalOwnership(), Lineup: l}
}

func newResult() *pipeline.Result {
	lineups := []models.RankedLineup{sampleResult(1, 120), sampleResult(2, 110)}
	return &pipeline.Result{
		RunID:     uuid.New(),
		Seed:      42,
		StartedAt: time.Now().UTC(),
		Duration:  1500 * time.Millisecond,
		Tiers: []optimizer.TierOutcome{
			{Tier: models.TierA, Requested: 3, Built: 2, Attempts: 60},
		},
		Candidates: 2,
		Lineups:    lineups,
		Exposure:   optimizer.BuildExposureReport(lineups),
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := newResult()

	require.NoError(t, s.SaveRun(ctx, res, pipeline.DefaultConfig()))

	got, err := s.GetRun(ctx, res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, got.ID)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, 3, got.Requested)
	assert.Equal(t, 2, got.Built)
	assert.Equal(t, 1, got.Shortfall)
	assert.Equal(t, int64(1500), got.DurationMS)

	require.Len(t, got.Lineups, 2)
	assert.Equal(t, 1, got.Lineups[0].Rank)
	assert.InDelta(t, 120, got.Lineups[0].Score, 1e-9)
	assert.Equal(t, "A", got.Lineups[0].Tier)

	players := got.Lineups[0].Players
	require.Len(t, players, 9)
	assert.Equal(t, "QB", players[0].SlotName)
	assert.Equal(t, "RB1", players[1].Name)
	assert.Equal(t, "FLEX", players[7].SlotName)
	assert.Equal(t, "RB3", players[7].Name)
	assert.Equal(t, models.PlayerID("QB1", "KC", models.PositionQB), players[0].PlayerID)

	var cfg pipeline.Config
	require.NoError(t, json.Unmarshal(got.Config, &cfg))
	assert.Equal(t, 150, cfg.Optimizer.Search.NumLineups)

	var tiers []optimizer.TierOutcome
	require.NoError(t, json.Unmarshal(got.Tiers, &tiers))
	require.Len(t, tiers, 1)
	assert.Equal(t, 60, tiers[0].Attempts)
}

func TestSaveRun_LogsThroughStoreLogger(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	s := openTestStore(t).WithLogger(logrus.NewEntry(l).WithField("component", "store"))

	res := newResult()
	require.NoError(t, s.SaveRun(context.Background(), res, pipeline.DefaultConfig()))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Run persisted", entry.Message)
	assert.Equal(t, res.RunID.String(), entry.Data["run_id"])
	assert.Equal(t, 2, entry.Data["lineups"])
	assert.Equal(t, "store", entry.Data["component"])
}

func TestGetRun_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRun(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		res := newResult()
		ids = append(ids, res.RunID)
		require.NoError(t, s.SaveRun(ctx, res, pipeline.DefaultConfig()))
		time.Sleep(2 * time.Millisecond)
	}

	runs, err := s.ListRuns(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Empty(t, runs[0].Lineups)

	runs, err = s.ListRuns(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, ids[0], runs[0].ID)
}

func TestDeleteRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	res := newResult()
	require.NoError(t, s.SaveRun(ctx, res, pipeline.DefaultConfig()))

	require.NoError(t, s.DeleteRun(ctx, res.RunID))
	_, err := s.GetRun(ctx, res.RunID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	assert.ErrorIs(t, s.DeleteRun(ctx, res.RunID), utils.ErrNotFound)

	var players int64
	require.NoError(t, s.db.Model(&LineupPlayerRecord{}).Count(&players).Error)
	assert.Zero(t, players)
}

func TestOpen_RejectsEmptyURL(t *testing.T) {
	_, err := Open("", false)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
	assert.NoError(t, openTestStore(t).HealthCheck(context.Background()))
}
