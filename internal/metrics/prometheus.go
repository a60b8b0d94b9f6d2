package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Query pipeline metrics
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_queries_total",
			Help: "Total number of queries processed",
		},
		[]string{"intent", "status"}, // status: success|error
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_query_duration_seconds",
			Help:    "End-to-end query processing duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"intent"},
	)

	// Agent metrics
	AgentSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_agent_steps_total",
			Help: "Total number of executed agent steps",
		},
		[]string{"agent"},
	)

	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hermes_agent_latency_seconds",
			Help:    "Per-agent step latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"agent"},
	)

	// LLM metrics
	LLMFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_llm_fallbacks_total",
			Help: "Total number of rule-to-LLM or LLM-to-rule escalations",
		},
		[]string{"component"}, // component: classifier|planner
	)

	LLMCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_llm_calls_total",
			Help: "Total number of LLM requests",
		},
		[]string{"operation", "status"}, // status: success|error|rate_limited
	)

	// Validation metrics
	ValidationResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_validation_results_total",
			Help: "Total validation verdicts by outcome",
		},
		[]string{"result"}, // result: pass|fail|error
	)

	// Session metrics
	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hermes_sessions_active",
			Help: "Current number of live sessions in the registry",
		},
	)

	SessionLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_session_loads_total",
			Help: "Total session loads by source",
		},
		[]string{"source"}, // source: registry|database
	)

	// Database metrics
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hermes_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"database", "operation", "status"}, // database: postgres|redis
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(AgentSteps)
	prometheus.MustRegister(AgentLatency)
	prometheus.MustRegister(LLMFallbacks)
	prometheus.MustRegister(LLMCalls)
	prometheus.MustRegister(ValidationResults)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(SessionLoads)
	prometheus.MustRegister(DBQueries)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordQuery records one processed query
func RecordQuery(intent string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	QueriesTotal.WithLabelValues(intent, status).Inc()
	QueryDuration.WithLabelValues(intent).Observe(duration.Seconds())
}

// RecordAgentStep records one executed agent step
func RecordAgentStep(agent string, latency time.Duration) {
	AgentSteps.WithLabelValues(agent).Inc()
	AgentLatency.WithLabelValues(agent).Observe(latency.Seconds())
}

// IncLLMFallback records a deterministic-to-LLM (or inverse) escalation
func IncLLMFallback(component string) {
	LLMFallbacks.WithLabelValues(component).Inc()
}

// RecordLLMCall records one LLM request outcome
func RecordLLMCall(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	LLMCalls.WithLabelValues(operation, status).Inc()
}

// RecordValidation records one validation verdict
func RecordValidation(result string) {
	ValidationResults.WithLabelValues(result).Inc()
}
