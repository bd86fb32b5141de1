// Package observability holds the Prometheus collectors of the API.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	resourceOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit",
		Subsystem: "api",
		Name:      "resource_operations_total",
		Help:      "CRUD operations by resource, operation and outcome.",
	}, []string{"resource", "operation", "outcome"})

	recomputeRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "recompute_runs_total",
		Help:      "Leaderboard recomputes by outcome.",
	}, []string{"outcome"})

	recomputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "recompute_duration_seconds",
		Help:      "Wall time of successful leaderboard recomputes.",
		Buckets:   prometheus.DefBuckets,
	})

	lastRecompute = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "last_recompute_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful recompute.",
	})

	snapshotEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "snapshot_entries",
		Help:      "Number of records in the most recently published snapshot.",
	})

	danglingActivities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "octofit",
		Subsystem: "leaderboard",
		Name:      "dangling_activities",
		Help:      "Activities whose user_email matched no user at the last recompute.",
	})
)

func init() {
	prometheus.MustRegister(resourceOps, recomputeRuns, recomputeDuration, lastRecompute, snapshotEntries, danglingActivities)
}

// RecordResourceOp counts one CRUD call.
func RecordResourceOp(resource, operation, outcome string) {
	resourceOps.WithLabelValues(resource, operation, outcome).Inc()
}

// RecordRecompute updates the leaderboard collectors after a successful run.
func RecordRecompute(finishedAt time.Time, took time.Duration, entries, dangling int) {
	recomputeRuns.WithLabelValues("success").Inc()
	recomputeDuration.Observe(took.Seconds())
	lastRecompute.Set(float64(finishedAt.Unix()))
	snapshotEntries.Set(float64(entries))
	danglingActivities.Set(float64(dangling))
}

// RecordRecomputeFailure counts a failed run.
func RecordRecomputeFailure() {
	recomputeRuns.WithLabelValues("failure").Inc()
}
