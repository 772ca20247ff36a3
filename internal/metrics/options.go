package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// WithScoreBuckets sets the buckets of the accepted-lineup score histogram.
func WithScoreBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.scoreBuckets = buckets
		}
	}
}

// WithRegistry registers into reg instead of a fresh private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}
