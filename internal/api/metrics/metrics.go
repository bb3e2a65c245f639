// Package metrics defines and registers all custom Prometheus metrics for the
// TaskFlow API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// init through promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskflow"

// Proximity query kinds.
const (
	KindWorkers = "workers"
	KindTasks   = "tasks"
)

// ── Proximity metrics ─────────────────────────────────────────────────────────

// ProximityQueriesTotal counts nearby queries.
// Labels:
//   - kind: "workers" or "tasks"
//   - result: "ok", "invalid" (bad center) or "error"
var ProximityQueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "proximity_queries_total",
		Help:      "Total number of nearby worker/task queries, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ProximityQueryDuration measures how long a nearby query takes end-to-end,
// including poster resolution for tasks.
// Label:
//   - kind: "workers" or "tasks"
var ProximityQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "proximity_query_duration_seconds",
		Help:      "Duration of nearby queries.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ProximityResults records how many items a nearby query returned.
// Label:
//   - kind: "workers" or "tasks"
var ProximityResults = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "proximity_query_results",
		Help:      "Number of results returned by nearby queries.",
		Buckets:   []float64{0, 1, 5, 10, 20, 35, 50},
	},
	[]string{"kind"},
)

// ── Location metrics ──────────────────────────────────────────────────────────

// LocationUpdatesTotal counts location reports.
// Label:
//   - outcome: "stored", "invalid" or "error"
var LocationUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "location_updates_total",
		Help:      "Total number of location updates, by outcome.",
	},
	[]string{"outcome"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly posted tasks.
// Label:
//   - located: "true" when the task was posted with coordinates
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
	[]string{"located"},
)

// TaskTransitionsTotal counts lifecycle changes.
// Label:
//   - status: the status the task moved to
var TaskTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_transitions_total",
		Help:      "Total number of task status transitions, by target status.",
	},
	[]string{"status"},
)

// ── Stats dispatcher metrics ──────────────────────────────────────────────────

// StatsJobsProcessedTotal counts stats jobs that completed successfully.
// Label:
//   - kind: "task_completed" or "review_created"
var StatsJobsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_jobs_processed_total",
		Help:      "Total number of user stats recomputations processed.",
	},
	[]string{"kind"},
)

// StatsJobsErrorsTotal counts stats jobs that failed.
// Label:
//   - kind: "task_completed" or "review_created"
var StatsJobsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_jobs_errors_total",
		Help:      "Total number of user stats recomputations that failed.",
	},
	[]string{"kind"},
)

// StatsQueueDepth tracks the number of jobs waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var StatsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stats_queue_depth",
		Help:      "Current number of jobs pending in each stats worker channel.",
	},
	[]string{"worker_id"},
)

// ── Broker metrics ────────────────────────────────────────────────────────────

// EventsPublishedTotal counts domain events sent to the broker.
// Labels:
//   - type: routing key (e.g. "location.updated")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by type and result.",
	},
	[]string{"type", "result"},
)
