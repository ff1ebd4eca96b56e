// Package metrics holds the Prometheus collectors for the lookup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_lookup"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// Metrics is safe to use as a nil pointer; every recorder is then a no-op.
type Metrics struct {
	SuggestionRequests *prometheus.CounterVec
	WeatherLoads       *prometheus.CounterVec
	Sessions           prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SuggestionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestion_requests_total",
			Help:      "Geocoding suggestion requests by outcome.",
		}, []string{"outcome"}),
		WeatherLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_loads_total",
			Help:      "Combined current+forecast loads by outcome.",
		}, []string{"outcome"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live lookup sessions.",
		}),
	}
	reg.MustRegister(m.SuggestionRequests, m.WeatherLoads, m.Sessions)
	return m
}

func (m *Metrics) ObserveSuggestions(outcome string) {
	if m == nil {
		return
	}
	m.SuggestionRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveWeatherLoad(outcome string) {
	if m == nil {
		return
	}
	m.WeatherLoads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}
