package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/internal/pool"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
)

// memClient is an in-memory stand-in for redis.
type memClient struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failSet bool
}

func newMemClient() *memClient {
	return &memClient{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memClient) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *memClient) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if m.failSet {
		return redis.NewStatusResult("", errors.New("READONLY"))
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *memClient) Del(_ context.Context, keys ...string) *redis.IntCmd {
	n := int64(0)
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (m *memClient) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func sampleInputs() pipeline.Inputs {
	return pipeline.Inputs{
		Players: pool.Inputs{Salaries: []pool.SalaryRow{{Name: "A", Team: "KC", Position: "QB", Salary: 6000}}},
		Games:   []models.GameEnvironment{{GameID: "KC@BUF", HomeTeam: "BUF", AwayTeam: "KC"}},
	}
}

func TestKey_StableAndSensitive(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	k1, err := Key(sampleInputs(), cfg)
	require.NoError(t, err)
	k2, err := Key(sampleInputs(), cfg)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	cfg.Seed = 7
	k3, err := Key(sampleInputs(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	in := sampleInputs()
	in.Players.Salaries[0].Salary = 6100
	k4, err := Key(in, pipeline.DefaultConfig())
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestResultCache_RoundTrip(t *testing.T) {
	client := newMemClient()
	c := New(client, time.Hour, logger.Discard())
	ctx := context.Background()

	_, err := c.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	res := &pipeline.Result{
		RunID:   uuid.New(),
		Seed:    42,
		Lineups: []models.RankedLineup{{Rank: 1, Score: 101.5, TotalSalary: 49900}},
	}
	require.NoError(t, c.Set(ctx, "abc", res))
	assert.Equal(t, time.Hour, client.ttls["lineups:abc"])

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, res.RunID, got.RunID)
	require.Len(t, got.Lineups, 1)
	assert.InDelta(t, 101.5, got.Lineups[0].Score, 1e-9)

	require.NoError(t, c.Delete(ctx, "abc"))
	_, err = c.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.HealthCheck(ctx))
}

func TestResultCache_Errors(t *testing.T) {
	client := newMemClient()
	c := New(client, -time.Minute, logger.Discard())
	ctx := context.Background()

	client.data["lineups:bad"] = "{not json"
	_, err := c.Get(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	client.failSet = true
	assert.Error(t, c.Set(ctx, "x", &pipeline.Result{}))
}
