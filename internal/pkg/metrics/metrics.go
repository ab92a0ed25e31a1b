package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_upstream_requests_total",
			Help: "Total number of upstream calls by service and outcome",
		},
		[]string{"service", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_upstream_request_duration_seconds",
			Help:    "Duration of upstream calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	Suggestions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_suggestions_total",
			Help: "Total number of recipe suggestions by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	BlurbFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_blurb_fallbacks_total",
			Help: "Number of blurbs replaced by a placeholder",
		},
		[]string{"reason"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_lookups_total",
			Help: "Recipe detail cache lookups by result",
		},
		[]string{"result"},
	)

	AIQueueWaiting = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_ai_queue_waiting",
			Help: "Generation requests waiting for a worker slot",
		},
		[]string{"provider"},
	)

	AIInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recipe_ai_in_flight",
			Help: "Generation requests currently running",
		},
		[]string{"provider"},
	)
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(service string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(service, outcome).Inc()
	UpstreamDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
