// Package metrics exposes Prometheus metrics for lineup builds and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stitts-dev/nfl-stacker/internal/models"
)

// Recorder owns the lineup-build metrics. It satisfies optimizer.Observer, so a
// search can report straight into it.
type Recorder struct {
	namespace    string
	scoreBuckets []float64
	registry     *prometheus.Registry

	attempts  *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	accepted  *prometheus.CounterVec
	scores    *prometheus.HistogramVec
	shortfall *prometheus.GaugeVec
	runs      *prometheus.CounterVec
	runTime   prometheus.Histogram

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRecorder creates and registers every metric.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{
		namespace:    "stacker",
		scoreBuckets: prometheus.LinearBuckets(60, 10, 12),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	r.attempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "search",
		Name:      "attempts_total",
		Help:      "Lineup assembly attempts by tier",
	}, []string{"tier"})
	r.rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "search",
		Name:      "rejections_total",
		Help:      "Rejected lineup attempts by tier and reason",
	}, []string{"tier", "reason"})
	r.accepted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "search",
		Name:      "lineups_accepted_total",
		Help:      "Accepted lineups by tier",
	}, []string{"tier"})
	r.scores = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "search",
		Name:      "lineup_score",
		Help:      "Composite score of accepted lineups",
		Buckets:   r.scoreBuckets,
	}, []string{"tier"})
	r.shortfall = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Subsystem: "search",
		Name:      "tier_shortfall",
		Help:      "Lineups requested but not built in the last run, by tier",
	}, []string{"tier"})
	r.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "runs_total",
		Help:      "Lineup builds by outcome",
	}, []string{"status"})
	r.runTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of lineup builds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})
	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"path", "method", "status"})
	r.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "method"})

	r.registry.MustRegister(
		r.attempts, r.rejected, r.accepted, r.scores, r.shortfall,
		r.runs, r.runTime, r.httpRequests, r.httpRequestDuration,
	)
	return r
}

// Registry returns the registry the recorder writes to.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) AttemptStarted(tier models.Tier) {
	r.attempts.WithLabelValues(string(tier)).Inc()
}

func (r *Recorder) AttemptRejected(tier models.Tier, reason string) {
	r.rejected.WithLabelValues(string(tier), reason).Inc()
}

func (r *Recorder) LineupAccepted(tier models.Tier, score float64) {
	r.accepted.WithLabelValues(string(tier)).Inc()
	r.scores.WithLabelValues(string(tier)).Observe(score)
}

func (r *Recorder) TierFinished(tier models.Tier, requested, built, _ int) {
	short := requested - built
	if short < 0 {
		short = 0
	}
	r.shortfall.WithLabelValues(string(tier)).Set(float64(short))
}

// RecordRun counts a finished build.
func (r *Recorder) RecordRun(status string, d time.Duration) {
	r.runs.WithLabelValues(status).Inc()
	r.runTime.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per matched route.
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.httpRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
