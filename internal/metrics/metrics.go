// Package metrics exposes Prometheus counters for the weather gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Metrics implements weather.Recorder on its own registry.
type Metrics struct {
	registry      *prometheus.Registry
	providerCalls *prometheus.CounterVec
	fallbacks     *prometheus.CounterVec
	degraded      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_provider_requests_total",
				Help: "Upstream provider calls by provider, operation and outcome.",
			},
			[]string{"provider", "operation", "outcome"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_fallbacks_total",
				Help: "Requests answered through the fallback provider, by operation.",
			},
			[]string{"operation"},
		),
		degraded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_degraded_results_total",
				Help: "Best-effort results returned empty or null, by operation.",
			},
			[]string{"operation"},
		),
	}
	m.registry.MustRegister(m.providerCalls, m.fallbacks, m.degraded)
	return m
}

func (m *Metrics) ProviderCall(provider, op string, err error) {
	m.providerCalls.WithLabelValues(provider, op, weather.OutcomeLabel(err)).Inc()
}

func (m *Metrics) Fallback(op string) {
	m.fallbacks.WithLabelValues(op).Inc()
}

func (m *Metrics) Degraded(op string) {
	m.degraded.WithLabelValues(op).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
