// Package metrics registers the Prometheus collectors for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_queries_processed_total",
			Help: "Total number of queries processed by the pipeline",
		},
		[]string{"intent", "entity_type", "status"},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_query_failures_total",
			Help: "Total number of failed queries by error code",
		},
		[]string{"error_code"},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	FallbackParses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_fallback_parses_total",
			Help: "Fallback parser invocations by outcome",
		},
		[]string{"outcome"}, // ok, cache_hit, parse_error, timeout
	)

	HandlerOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_handler_operations_total",
			Help: "Handler operations by entity type and operation",
		},
		[]string{"entity_type", "operation", "status"},
	)
)
