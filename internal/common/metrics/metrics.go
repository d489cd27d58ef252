// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	EmailReportsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_reports_sent_total",
			Help: "Total number of recommendation emails sent",
		},
		[]string{"status"},
	)

	RestaurantsRecommended = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurants_recommended",
			Help:    "Number of restaurants included per report",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
		[]string{"cuisine"},
	)

	ListingsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "directory_listings_ingested_total",
			Help: "Total number of directory listings written to the store",
		},
		[]string{"cuisine"},
	)
)
