package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "reddit_analyzer"

// Outcome labels for analyze requests
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
	OutcomeFetchError  = "fetch_error"
)

// Metrics holds the Prometheus collectors for analyze requests
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	FetchDurationSeconds *prometheus.HistogramVec
	PostsReturned        prometheus.Histogram
}

// NewMetrics creates and registers the analyzer collectors. A nil registerer
// uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "Analyze requests by outcome",
			},
			[]string{"outcome"},
		),
		FetchDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of Reddit fetches",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"mode"},
		),
		PostsReturned: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "posts_returned",
				Help:      "Posts returned per successful fetch",
				Buckets:   prometheus.LinearBuckets(0, 10, 11),
			},
		),
	}
}
