// Package metrics declares the Prometheus collectors of the customizer.
// They are registered on the default registry and served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customizer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 150},
		},
		[]string{"route"},
	)

	// LLM metrics
	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_llm_calls_total",
			Help: "Total number of LLM calls by purpose and outcome",
		},
		[]string{"purpose", "status"},
	)

	LLMDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "customizer_llm_call_duration_seconds",
			Help:    "LLM call duration in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 180},
		},
		[]string{"purpose"},
	)

	LLMTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_llm_tokens_total",
			Help: "Tokens consumed by LLM calls",
		},
		[]string{"purpose", "direction"},
	)

	SummaryCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_summary_cache_total",
			Help: "Summary cache lookups by result",
		},
		[]string{"result"},
	)

	// Write pipeline metrics
	ConfigWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_config_writes_total",
			Help: "Primary configuration writes by source",
		},
		[]string{"source"},
	)

	GroupSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_group_syncs_total",
			Help: "Group sync runs by status",
		},
		[]string{"status"},
	)

	SyncedModules = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "customizer_group_synced_modules_total",
			Help: "Sibling modules written by group sync",
		},
	)

	BackupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "customizer_backup_failures_total",
			Help: "Best-effort backup and mirror write failures",
		},
		[]string{"kind"},
	)
)

// RecordLLMCall records one LLM call.
func RecordLLMCall(purpose string, elapsed time.Duration, inputTokens, outputTokens int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMCalls.WithLabelValues(purpose, status).Inc()
	LLMDuration.WithLabelValues(purpose).Observe(elapsed.Seconds())
	if inputTokens > 0 {
		LLMTokens.WithLabelValues(purpose, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		LLMTokens.WithLabelValues(purpose, "output").Add(float64(outputTokens))
	}
}

// RecordGroupSync records the outcome of one group sync.
func RecordGroupSync(status string, modules int) {
	GroupSyncs.WithLabelValues(status).Inc()
	if modules > 0 {
		SyncedModules.Add(float64(modules))
	}
}

// RecordCacheLookup records a summary cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		SummaryCache.WithLabelValues("hit").Inc()
		return
	}
	SummaryCache.WithLabelValues("miss").Inc()
}
