package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/cache"
	"github.com/stitts-dev/nfl-stacker/internal/metrics"
	"github.com/stitts-dev/nfl-stacker/internal/models"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/internal/store"
)

// MaxLineupsPerRequest bounds num_lineups on the HTTP surface.
const MaxLineupsPerRequest = 1000

// BuildRequest is the body of POST /api/v1/lineups. Seed and NumLineups override the
// server's configured values for this run only.
type BuildRequest struct {
	pipeline.Inputs
	Seed       *int64 `json:"seed,omitempty"`
	NumLineups *int   `json:"num_lineups,omitempty"`
}

// BuildResponse wraps a run result with its request-level bookkeeping.
type BuildResponse struct {
	*pipeline.Result
	Requested int  `json:"requested"`
	Shortfall int  `json:"shortfall"`
	Cached    bool `json:"cached"`
}

// EdgeScoreRequest is the body of POST /api/v1/edge-scores.
type EdgeScoreRequest struct {
	Games []models.GameEnvironment `json:"games" binding:"required"`
}

// LineupHandler serves lineup builds and game scoring.
type LineupHandler struct {
	base    pipeline.Config
	store   *store.Store
	cache   *cache.ResultCache
	metrics *metrics.Recorder
	timeout time.Duration
	logger  *logrus.Logger
}

// NewLineupHandler creates a lineup handler. store and cache may be nil.
func NewLineupHandler(
	base pipeline.Config,
	st *store.Store,
	rc *cache.ResultCache,
	rec *metrics.Recorder,
	timeout time.Duration,
	logger *logrus.Logger,
) *LineupHandler {
	return &LineupHandler{
		base:    base,
		store:   st,
		cache:   rc,
		metrics: rec,
		timeout: timeout,
		logger:  logger,
	}
}

// BuildLineups runs the whole pipeline for one slate.
func (h *LineupHandler) BuildLineups(c *gin.Context) {
	var req BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}
	if len(req.Players.Salaries) == 0 {
		badRequest(c, "players.salaries", "at least one salary row is required")
		return
	}

	cfg := h.base
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.NumLineups != nil {
		if *req.NumLineups < 1 || *req.NumLineups > MaxLineupsPerRequest {
			badRequest(c, "num_lineups", "must be between 1 and 1000")
			return
		}
		cfg.Optimizer.Search.NumLineups = *req.NumLineups
	}
	if err := cfg.Validate(); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	cacheKey := ""
	if h.cache != nil {
		key, err := cache.Key(req.Inputs, cfg)
		if err != nil {
			h.logger.WithError(err).Warn("Failed to build cache key")
		} else {
			cacheKey = key
			if cached, err := h.cache.Get(ctx, key); err == nil {
				h.logger.WithField("cache_key", key).Info("Returning cached lineup result")
				c.JSON(http.StatusOK, newBuildResponse(cached, true))
				return
			} else if !errors.Is(err, cache.ErrCacheMiss) {
				h.logger.WithError(err).Warn("Cache lookup failed")
			}
		}
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	opts := []pipeline.Option{pipeline.WithLogger(logrus.NewEntry(h.logger))}
	if h.metrics != nil {
		opts = append(opts, pipeline.WithObserver(h.metrics))
	}

	res, err := pipeline.Run(ctx, req.Inputs, cfg, opts...)
	if err != nil {
		h.recordRun("error", res)
		h.logger.WithError(err).Warn("Lineup build failed")
		respondError(c, err)
		return
	}
	status := "ok"
	if res.Shortfall() > 0 {
		status = "shortfall"
	}
	h.recordRun(status, res)

	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, res); err != nil {
			h.logger.WithError(err).Warn("Failed to cache lineup result")
		}
	}
	if h.store != nil {
		if err := h.store.SaveRun(ctx, res, cfg); err != nil {
			h.logger.WithError(err).WithField("run_id", res.RunID).Error("Failed to persist run")
		}
	}

	c.JSON(http.StatusOK, newBuildResponse(res, false))
}

func (h *LineupHandler) recordRun(status string, res *pipeline.Result) {
	if h.metrics == nil {
		return
	}
	var d time.Duration
	if res != nil {
		d = res.Duration
	}
	h.metrics.RecordRun(status, d)
}

func newBuildResponse(res *pipeline.Result, cached bool) BuildResponse {
	return BuildResponse{
		Result:    res,
		Requested: res.Requested(),
		Shortfall: res.Shortfall(),
		Cached:    cached,
	}
}

// ScoreEdges scores and tiers a slate's games without building lineups.
func (h *LineupHandler) ScoreEdges(c *gin.Context) {
	var req EdgeScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	scored, err := pipeline.ScoreGames(req.Games, h.base.Edge)
	if err != nil {
		respondError(c, err)
		return
	}

	counts := make(map[models.Tier]int, len(models.Tiers))
	for _, g := range scored {
		counts[g.Tier]++
	}
	c.JSON(http.StatusOK, gin.H{
		"games":       scored,
		"tier_counts": counts,
	})
}
