package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// guardrail service.
type Metrics struct {
	ValidationsTotal *prometheus.CounterVec // labels: outcome={passed,rewritten,skipped}
	Tier3Rewrites    prometheus.Counter
	HazardTriggered  *prometheus.CounterVec // labels: hazard
	AdvisoryMissing  *prometheus.CounterVec // labels: hazard
	TurnsTotal       *prometheus.CounterVec // labels: stage={location,forecast,respond}, outcome={ok,upstream_error,fault}

	// Tool adapter metrics.
	GeocodeRequests  *prometheus.CounterVec   // labels: outcome={success,not_found,error}
	ForecastRequests *prometheus.CounterVec   // labels: outcome={success,upstream_error,error}
	UpstreamDuration *prometheus.HistogramVec // labels: service={geocoding,forecast}

	ServiceReady prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ValidationsTotal,
		m.Tier3Rewrites,
		m.HazardTriggered,
		m.AdvisoryMissing,
		m.TurnsTotal,
		m.GeocodeRequests,
		m.ForecastRequests,
		m.UpstreamDuration,
		m.ServiceReady,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ValidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "validations_total",
			Help:      "Guardrail validation calls by outcome.",
		}, []string{"outcome"}),
		Tier3Rewrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "tier3_rewrites_total",
			Help:      "Responses replaced with the fallback alert because a mandatory tier-3 disclosure was missing.",
		}),
		HazardTriggered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "hazard_triggered_total",
			Help:      "Hazard classifications that triggered during validation, by hazard tag.",
		}, []string{"hazard"}),
		AdvisoryMissing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "advisory_missing_total",
			Help:      "Tier-2/1 advisories possibly omitted from a released response, by hazard tag.",
		}, []string{"hazard"}),
		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "turns_total",
			Help:      "Conversation turn stages by outcome.",
		}, []string{"stage", "outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "geocode_requests_total",
			Help:      "Geocoding lookups by outcome.",
		}, []string{"outcome"}),
		ForecastRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_guardian",
			Name:      "forecast_requests_total",
			Help:      "Forecast fetches by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_guardian",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream tool request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"service"}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_guardian",
			Name:      "service_ready",
			Help:      "1 when the service is wired and serving, 0 otherwise.",
		}),
	}
}
