// Package metrics provides Prometheus metrics for the feed pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts fetch attempts by outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsfeed",
			Name:      "fetch_total",
			Help:      "Total number of upstream fetches",
		},
		[]string{"outcome"},
	)

	// FetchDuration measures upstream fetch duration.
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsfeed",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// ParseSkippedTotal counts result elements dropped by the parser.
	ParseSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsfeed",
			Name:      "parse_skipped_total",
			Help:      "Total number of result elements skipped during parsing",
		},
		[]string{"reason"},
	)

	// ArticlesPerQuery observes feed sizes.
	ArticlesPerQuery = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newsfeed",
			Name:      "articles_per_query",
			Help:      "Distribution of articles returned per query",
			Buckets:   []float64{0, 1, 5, 10, 15, 25, 50},
		},
	)

	// SupersededLoadsTotal counts load results discarded because a newer load started.
	SupersededLoadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "newsfeed",
			Name:      "superseded_loads_total",
			Help:      "Total number of load results discarded in favor of a newer load",
		},
	)
)

// Fetch outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeMalformedRequest = "malformed_request"
	OutcomeNetworkError     = "network_error"
	OutcomeHTTPError        = "http_error"
)

// RecordFetch records a fetch attempt.
func RecordFetch(outcome string, seconds float64) {
	FetchTotal.WithLabelValues(outcome).Inc()
	FetchDuration.Observe(seconds)
}

// RecordSkipped records a dropped result element.
func RecordSkipped(reason string) {
	ParseSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordQuery records the size of a completed query.
func RecordQuery(articles int) {
	ArticlesPerQuery.Observe(float64(articles))
}

// RecordSuperseded records a discarded load result.
func RecordSuperseded() {
	SupersededLoadsTotal.Inc()
}
