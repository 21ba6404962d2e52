// Package jobs runs the periodic reconciliation sweeps. This file exposes
// Prometheus instrumentation for job outcomes. Label cardinality is bounded:
// "job" is one of record_sync | chat_projection | notification_dispatch and
// "outcome" enumerates the per-item tallies of that job.
package jobs

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkrasov/salon-chat-sync/internal/services"
)

var (
	// jobDuration records one full sweep's wall time per job.
	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_job_duration_seconds",
			Help:    "Duration of one periodic sync job run in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	// recordOutcomes counts reconciled records by outcome.
	recordOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_records_total",
			Help: "Booking records processed by the record sync, by outcome.",
		},
		[]string{"outcome"},
	)

	// chatOutcomes counts chat projections by outcome.
	chatOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_chats_total",
			Help: "Chat projections performed, by outcome.",
		},
		[]string{"outcome"},
	)

	// notificationOutcomes counts dispatched notifications by outcome.
	notificationOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_notifications_total",
			Help: "Pending notifications processed by the dispatcher, by outcome.",
		},
		[]string{"outcome"},
	)

	// jobErrors counts isolated per-item failures per job.
	jobErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_job_errors_total",
			Help: "Per-item errors tallied during periodic sync jobs.",
		},
		[]string{"job"},
	)
)

func init() {
	prometheus.MustRegister(jobDuration, recordOutcomes, chatOutcomes, notificationOutcomes, jobErrors)
}

// observeSyncStats publishes one sweep's counters.
func observeSyncStats(job string, stats services.SyncStats) {
	recordOutcomes.WithLabelValues("created").Add(float64(stats.RecordsCreated))
	recordOutcomes.WithLabelValues("updated").Add(float64(stats.RecordsUpdated))
	recordOutcomes.WithLabelValues("unchanged").Add(float64(stats.RecordsUnchanged))
	recordOutcomes.WithLabelValues("skipped").Add(float64(stats.RecordsSkipped))
	chatOutcomes.WithLabelValues("created").Add(float64(stats.ChatsCreated))
	chatOutcomes.WithLabelValues("updated").Add(float64(stats.ChatsUpdated))
	chatOutcomes.WithLabelValues("unchanged").Add(float64(stats.ChatsUnchanged))
	jobErrors.WithLabelValues(job).Add(float64(stats.Errors))
}

// observeDispatchStats publishes one dispatcher sweep's counters.
func observeDispatchStats(job string, stats services.DispatchStats) {
	notificationOutcomes.WithLabelValues("sent").Add(float64(stats.Sent))
	notificationOutcomes.WithLabelValues("failed").Add(float64(stats.Failed))
	notificationOutcomes.WithLabelValues("dropped").Add(float64(stats.Dropped))
	notificationOutcomes.WithLabelValues("held").Add(float64(stats.Held))
	jobErrors.WithLabelValues(job).Add(float64(stats.Errors))
}
