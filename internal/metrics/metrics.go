package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Pipeline metrics
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	stageDuration *prometheus.HistogramVec
	memoryOps     *prometheus.CounterVec
	llmTokens     *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	// Pipeline metrics
	r.runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_runs_total",
			Help: "Total number of analysis runs by outcome",
		},
		[]string{"status"},
	)
	r.runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "finsight_run_duration_seconds",
			Help:    "Full pipeline run duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
	r.stageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "finsight_stage_duration_seconds",
			Help:    "Per-stage duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)
	r.memoryOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_memory_ops_total",
			Help: "Memory store operations by result",
		},
		[]string{"op", "status"},
	)
	r.llmTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "finsight_llm_tokens_total",
			Help: "LLM tokens consumed",
		},
		[]string{"direction"},
	)

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.stageDuration)
	reg.MustRegister(r.memoryOps)
	reg.MustRegister(r.llmTokens)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordRun records a pipeline run completion.
func (r *Registry) RecordRun(status string, duration float64) {
	r.runsTotal.WithLabelValues(status).Inc()
	r.runDuration.Observe(duration)
}

// RecordStage records one stage duration.
func (r *Registry) RecordStage(stage string, duration float64) {
	r.stageDuration.WithLabelValues(stage).Observe(duration)
}

// RecordMemoryOp records a memory store operation.
func (r *Registry) RecordMemoryOp(op, status string) {
	r.memoryOps.WithLabelValues(op, status).Inc()
}

// RecordTokens records LLM token consumption.
func (r *Registry) RecordTokens(input, output int) {
	r.llmTokens.WithLabelValues("input").Add(float64(input))
	r.llmTokens.WithLabelValues("output").Add(float64(output))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
