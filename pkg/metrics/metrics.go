package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the API client, the fetch controllers and the
// command dispatcher. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	FetchResults    *prometheus.CounterVec
	Commands        *prometheus.CounterVec
}

// New creates and registers the panel metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rurushi",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by endpoint, method and outcome.",
		}, []string{"endpoint", "method", "outcome"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rurushi",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		FetchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rurushi",
			Subsystem: "fetch",
			Name:      "results_total",
			Help:      "Fetch controller results by resource and result (success, error, stale, closed).",
		}, []string{"resource", "result"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rurushi",
			Subsystem: "dispatcher",
			Name:      "commands_total",
			Help:      "Dispatched commands by name and outcome.",
		}, []string{"command", "outcome"}),
	}

	reg.MustRegister(
		m.Requests,
		m.RequestDuration,
		m.FetchResults,
		m.Commands,
	)

	return m
}

func (m *Metrics) ObserveRequest(endpoint, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(endpoint, method, outcome).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveFetch(resource, result string) {
	if m == nil {
		return
	}
	m.FetchResults.WithLabelValues(resource, result).Inc()
}

func (m *Metrics) ObserveCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
}
