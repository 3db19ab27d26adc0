package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker loop metrics
	PollCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pl_poll_cycles_total",
			Help: "Total number of poll cycles run by the agent worker",
		},
	)

	PollFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pl_poll_failures_total",
			Help: "Total number of failed poll attempts",
		},
	)

	ConsecutivePollFailures = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pl_consecutive_poll_failures",
			Help: "Current consecutive connectivity failure count driving backoff",
		},
	)

	// Task metrics
	TasksExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pl_tasks_executed_total",
			Help: "Total number of tasks executed by result status",
		},
		[]string{"status"},
	)

	TaskDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pl_task_duration_seconds",
			Help:    "Task execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Offline queue metrics
	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pl_queue_depth",
			Help: "Current number of requests in the offline queue",
		},
	)

	QueueEnqueued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pl_queue_enqueued_total",
			Help: "Total number of requests added to the offline queue",
		},
	)

	QueueDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pl_queue_dropped_total",
			Help: "Total number of queue entries dropped by the size cap",
		},
	)

	QueueDrained = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pl_queue_drained_total",
			Help: "Total number of queued requests successfully replayed",
		},
	)

	// Liveness metrics
	AgentsRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pl_agents_running",
			Help: "Number of agent identities with a live worker process",
		},
	)

	// API metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pl_requests_total",
			Help: "Total number of API requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pl_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(PollCycles)
	prometheus.MustRegister(PollFailures)
	prometheus.MustRegister(ConsecutivePollFailures)
	prometheus.MustRegister(TasksExecuted)
	prometheus.MustRegister(TaskDuration)
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(QueueEnqueued)
	prometheus.MustRegister(QueueDropped)
	prometheus.MustRegister(QueueDrained)
	prometheus.MustRegister(AgentsRunning)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
