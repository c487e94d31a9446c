// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	ChatRequests    *prometheus.CounterVec
	ModelFailovers  *prometheus.CounterVec
	PromptTokens    prometheus.Histogram
	AstrologyErrors prometheus.Counter
}

// New builds a collector set on a private registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: registry,
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			// LLM-backed routes run far longer than plain HTTP.
			Buckets: []float64{0.05, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"route"}),
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by outcome (ok, greeting, reset, error).",
		}, []string{"outcome"}),
		ModelFailovers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_failovers_total",
			Help:      "Completion attempts that failed and fell through to the next model.",
		}, []string{"model"}),
		PromptTokens: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prompt_tokens",
			Help:      "Estimated token count of prompts sent to the model.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 4000, 8000},
		}),
		AstrologyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "astrology_errors_total",
			Help:      "Failed calls to the external astrology API.",
		}),
	}

	registry.MustRegister(
		m.RequestDuration,
		m.ChatRequests,
		m.ModelFailovers,
		m.PromptTokens,
		m.AstrologyErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
