package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger is anything with a context-aware health check.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// HealthHandler reports dependency health. Both dependencies are optional.
type HealthHandler struct {
	db     Pinger
	cache  Pinger
	logger *logrus.Logger
}

func NewHealthHandler(db, cache Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, logger: logger}
}

// GetHealth returns the basic health status
func (h *HealthHandler) GetHealth(c *gin.Context) {
	response := HealthStatus{
		Status:    "ok",
		Service:   "nfl-stacker",
		Timestamp: time.Now(),
		Checks:    make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, dep := range map[string]Pinger{"database": h.db, "cache": h.cache} {
		if dep == nil {
			response.Checks[name] = "not_configured"
			continue
		}
		if err := dep.HealthCheck(ctx); err != nil {
			response.Status = "degraded"
			response.Checks[name] = "failed: " + err.Error()
			h.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			continue
		}
		response.Checks[name] = "ok"
	}

	statusCode := http.StatusOK
	if response.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, response)
}
