// Package api wires the HTTP surface of the lineup service.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/nfl-stacker/internal/api/handlers"
	"github.com/stitts-dev/nfl-stacker/internal/cache"
	"github.com/stitts-dev/nfl-stacker/internal/metrics"
	"github.com/stitts-dev/nfl-stacker/internal/pipeline"
	"github.com/stitts-dev/nfl-stacker/internal/store"
	"github.com/stitts-dev/nfl-stacker/pkg/logger"
)

// Deps are the collaborators the router hands to its handlers. Store and Cache are
// optional.
type Deps struct {
	Pipeline     pipeline.Config
	Store        *store.Store
	Cache        *cache.ResultCache
	Metrics      *metrics.Recorder
	BuildTimeout time.Duration
	Logger       *logrus.Logger
}

// SetupRouter builds the gin engine with every route registered.
func SetupRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.GetLogger()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.NewRecorder()
	}

	router := gin.New()
	router.Use(requestLogger(), gin.Recovery(), d.Metrics.GinMiddleware())

	lineupHandler := handlers.NewLineupHandler(d.Pipeline, d.Store, d.Cache, d.Metrics, d.BuildTimeout, d.Logger)
	runHandler := handlers.NewRunHandler(d.Store, d.Logger)

	// a nil *Store inside a non-nil interface would be pinged
	var db, rc handlers.Pinger
	if d.Store != nil {
		db = d.Store
	}
	if d.Cache != nil {
		rc = d.Cache
	}
	healthHandler := handlers.NewHealthHandler(db, rc, d.Logger)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/lineups", lineupHandler.BuildLineups)
		apiV1.POST("/edge-scores", lineupHandler.ScoreEdges)

		apiV1.GET("/runs", runHandler.ListRuns)
		apiV1.GET("/runs/:id", runHandler.GetRun)
		apiV1.DELETE("/runs/:id", runHandler.DeleteRun)
	}

	router.GET("/health", healthHandler.GetHealth)
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithHTTPContext(c.Request.Method, c.Request.URL.Path, c.Request.UserAgent()).WithFields(logrus.Fields{
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("Request completed with errors")
			return
		}
		entry.Debug("Request completed")
	}
}
