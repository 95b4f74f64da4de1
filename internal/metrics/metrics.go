// Crawlspeed - Dungeon Crawl Speedrun Statistics Sync
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/crawlspeed

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// Sequell Client Metrics
	SequellConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sequell_connected",
			Help: "Whether the Sequell bridge websocket is connected (1) or not (0)",
		},
	)

	SequellReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sequell_reconnects_total",
			Help: "Total number of Sequell bridge reconnect attempts",
		},
	)

	SequellMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sequell_messages_sent_total",
			Help: "Total number of messages written to the Sequell bridge",
		},
	)

	SequellSendErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sequell_send_errors_total",
			Help: "Total number of messages that could not be sent",
		},
		[]string{"reason"}, // "not_connected", "queue_full", "circuit_open", "write"
	)

	SequellResultsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sequell_results_received_total",
			Help: "Total number of result frames received from the Sequell bridge",
		},
		[]string{"type"}, // "lg", "log", "killed", "unknown", "malformed"
	)

	SequellQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sequell_queue_depth",
			Help: "Current number of messages waiting in the outbound queue",
		},
	)

	// Sweep Metrics
	SweepQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_queries_total",
			Help: "Total number of sweep queries issued",
		},
		[]string{"axis"}, // "player", "race", "background", "god", "replay"
	)

	SweepTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_timeouts_total",
			Help: "Total number of sweep queries that received no reply in time",
		},
	)

	SweepReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_killed_replays_total",
			Help: "Total number of killed queries replayed verbatim",
		},
	)

	SweepRecordsPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_records_persisted_total",
			Help: "Total number of records written by sync jobs",
		},
		[]string{"kind"}, // "game_info", "morgue", "combo_highscore"
	)

	SweepPersistErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_persist_errors_total",
			Help: "Total number of records that failed validation or persistence",
		},
		[]string{"kind"},
	)

	SweepMorgueRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sweep_morgue_requests_total",
			Help: "Total number of !log morgue requests issued",
		},
	)

	SweepRemaining = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sweep_remaining_items",
			Help: "Items left on each sweep axis for the running job",
		},
		[]string{"axis"},
	)

	// Job Metrics
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Total number of finished job runs",
		},
		[]string{"job", "status"}, // status: "success", "failure"
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "job_duration_seconds",
			Help:    "Duration of job runs in seconds",
			Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600, 7200, 14400}, // A full sweep takes hours
		},
		[]string{"job"},
	)

	JobLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "job_last_success_timestamp",
			Help: "Unix timestamp of the last successful job run",
		},
		[]string{"job"},
	)

	JobRunning = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "job_running",
			Help: "Whether a job run is in progress (1) or not (0)",
		},
		[]string{"job"},
	)

	// Scraper Metrics
	ScraperFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_fetch_duration_seconds",
			Help:    "Duration of highscore page fetches in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ScraperRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_rows_skipped_total",
			Help: "Total number of highscore rows skipped",
		},
		[]string{"reason"}, // "blacklisted", "invalid"
	)

	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// NATS Metrics
	NATSMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of job events published to NATS",
		},
		[]string{"topic"},
	)

	NATSPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Total number of job events that failed to publish",
		},
		[]string{"topic"},
	)

	// Checkpoint Metrics
	CheckpointOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_checkpoint_operations_total",
			Help: "Total number of sweep checkpoint operations",
		},
		[]string{"operation", "status"}, // operation: "save", "load", "clear"
	)

	// WebSocket Metrics
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Number of connected job event websocket clients",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSequellConnected sets the connection gauge.
func RecordSequellConnected(connected bool) {
	if connected {
		SequellConnected.Set(1)
	} else {
		SequellConnected.Set(0)
	}
}

// RecordSequellSendError counts a message dropped for reason.
func RecordSequellSendError(reason string) {
	SequellSendErrors.WithLabelValues(reason).Inc()
}

// RecordSequellResult counts an inbound frame by result type.
func RecordSequellResult(resultType string) {
	SequellResultsReceived.WithLabelValues(resultType).Inc()
}

// RecordSweepQuery counts a query issued on axis.
func RecordSweepQuery(axis string) {
	SweepQueries.WithLabelValues(axis).Inc()
}

// RecordPersist records the outcome of writing one record of kind.
func RecordPersist(kind string, err error) {
	if err != nil {
		SweepPersistErrors.WithLabelValues(kind).Inc()
		return
	}
	SweepRecordsPersisted.WithLabelValues(kind).Inc()
}

// RecordSweepRemaining publishes the remaining items on each axis.
func RecordSweepRemaining(players, races, backgrounds, gods int) {
	SweepRemaining.WithLabelValues("player").Set(float64(players))
	SweepRemaining.WithLabelValues("race").Set(float64(races))
	SweepRemaining.WithLabelValues("background").Set(float64(backgrounds))
	SweepRemaining.WithLabelValues("god").Set(float64(gods))
}

// RecordJobRun records one finished job run
func RecordJobRun(job string, duration time.Duration, err error) {
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())
	if err != nil {
		JobRuns.WithLabelValues(job, "failure").Inc()
		return
	}
	JobRuns.WithLabelValues(job, "success").Inc()
	JobLastSuccess.WithLabelValues(job).Set(float64(time.Now().Unix()))
}

// TrackJobRunning marks a job run as started (true) or finished (false).
func TrackJobRunning(job string, running bool) {
	if running {
		JobRunning.WithLabelValues(job).Set(1)
	} else {
		JobRunning.WithLabelValues(job).Set(0)
	}
}

// RecordNATSPublish records a job event publish attempt on topic.
func RecordNATSPublish(topic string, err error) {
	if err != nil {
		NATSPublishErrors.WithLabelValues(topic).Inc()
		return
	}
	NATSMessagesPublished.WithLabelValues(topic).Inc()
}

// RecordCheckpoint records a checkpoint save, load or clear.
func RecordCheckpoint(operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	CheckpointOperations.WithLabelValues(operation, status).Inc()
}
