// AdSynth - Synthetic Advertising Data and Analytics Platform
// Copyright 2026 AdSynth contributors
// SPDX-License-Identifier: MIT
// https://github.com/adsynth/adsynth

// Package metrics provides Prometheus instrumentation. Metrics are exposed at
// the /metrics endpoint in Prometheus text format.
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

	// API Endpoint Metrics
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

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Generation Metrics
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Duration of dataset generation runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		},
	)

	GenerationRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "generation_raw_rows_total",
			Help: "Total number of raw performance rows synthesized",
		},
	)

	GenerationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_runs_total",
			Help: "Total number of generation runs",
		},
		[]string{"status"}, // "success", "error"
	)

	// Transform Metrics
	TransformDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transform_duration_seconds",
			Help:    "Duration of derived-metrics transform runs in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	TransformRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "transform_rows_total",
			Help: "Total number of derived metric rows materialized",
		},
	)

	// Consistency Checker Metrics
	ConsistencyChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consistency_checks_total",
			Help: "Total number of cross-surface consistency checks",
		},
		[]string{"result"}, // "consistent", "inconsistent", "error"
	)

	ConsistencyMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "consistency_mismatches_total",
			Help: "Total number of cross-surface field mismatches detected",
		},
	)
)

// RecordDBQuery records database query duration and errors.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records API request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordGeneration records one dataset generation run.
func RecordGeneration(duration time.Duration, rows int64, err error) {
	GenerationDuration.Observe(duration.Seconds())
	if err != nil {
		GenerationRuns.WithLabelValues("error").Inc()
		return
	}
	GenerationRuns.WithLabelValues("success").Inc()
	GenerationRowsTotal.Add(float64(rows))
}

// RecordTransform records one derived-metrics transform run.
func RecordTransform(duration time.Duration, rows int64) {
	TransformDuration.Observe(duration.Seconds())
	TransformRowsTotal.Add(float64(rows))
}

// RecordConsistencyCheck records the outcome of one cross-surface check.
func RecordConsistencyCheck(consistent bool, mismatches int64, err error) {
	if err != nil {
		ConsistencyChecks.WithLabelValues("error").Inc()
		return
	}
	if consistent {
		ConsistencyChecks.WithLabelValues("consistent").Inc()
		return
	}
	ConsistencyChecks.WithLabelValues("inconsistent").Inc()
	ConsistencyMismatches.Add(float64(mismatches))
}
