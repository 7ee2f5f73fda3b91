package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics
var (
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "courtiq_job_runs_total",
		Help: "Total number of scheduled job executions by outcome",
	}, []string{"job", "outcome"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "courtiq_job_duration_seconds",
		Help:    "Duration of scheduled job executions",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	predictionsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtiq_predictions_generated_total",
		Help: "Total number of match predictions generated",
	})

	predictionsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "courtiq_predictions_resolved_total",
		Help: "Total number of predictions resolved against real outcomes",
	})
)
