package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
)

// ErrCacheMiss is returned by Get when nothing is stored under the key.
var ErrCacheMiss = errors.New("result not found in cache")

const keyPrefix = "lineups:"

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// ResultCache stores whole run results keyed by a digest of inputs and config.
type ResultCache struct {
	client Client
	ttl    time.Duration
	logger *logrus.Logger
}

// New creates a result cache. A non-positive ttl means entries never expire.
func New(client Client, ttl time.Duration, logger *logrus.Logger) *ResultCache {
	if ttl < 0 {
		ttl = 0
	}
	return &ResultCache{client: client, ttl: ttl, logger: logger}
}

// Key digests everything that determines a run's output. Runs with the same
// inputs, config and seed always produce the same lineups.
func Key(in pipeline.Inputs, cfg pipeline.Config) (string, error) {
	data, err := json.Marshal(struct {
		Inputs pipeline.Inputs `json:"inputs"`
		Config pipeline.Config `json:"config"`
	}{in, cfg})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Get loads a cached result.
func (c *ResultCache) Get(ctx context.Context, key string) (*pipeline.Result, error) {
	fullKey := keyPrefix + key
	data, err := c.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get result from cache: %w", err)
	}

	var res pipeline.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached result: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":     fullKey,
		"lineups_count": len(res.Lineups),
	}).Debug("Retrieved lineup result from cache")
	return &res, nil
}

// Set stores a result.
func (c *ResultCache) Set(ctx context.Context, key string, res *pipeline.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	fullKey := keyPrefix + key
	if err := c.client.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set result in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":     fullKey,
		"expiration":    c.ttl,
		"lineups_count": len(res.Lineups),
	}).Debug("Cached lineup result")
	return nil
}

// Delete removes a cached result.
func (c *ResultCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete result from cache: %w", err)
	}
	return nil
}

// HealthCheck pings redis.
func (c *ResultCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Connect parses a redis URL and verifies the connection.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}
