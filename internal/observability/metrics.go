package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// planning service.
type Metrics struct {
	PlansGenerated *prometheus.CounterVec // labels: status={approved,review_required}
	PlanErrors     prometheus.Counter
	PlanDuration   prometheus.Histogram

	// Weather provider metrics.
	WeatherRequests *prometheus.CounterVec // labels: source, outcome={success,error}

	// Briefing generation metrics.
	BriefingRequests *prometheus.CounterVec // labels: outcome={success,error}

	// HTTP metrics.
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: route

	// Event publishing metrics.
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter

	ActiveSessions prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PlansGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "plans_generated_total",
			Help:      "Flight plans generated, by resulting status.",
		}, []string{"status"}),
		PlanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "plan_errors_total",
			Help:      "Plan requests that failed before producing a document.",
		}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flight_planner",
			Name:      "plan_duration_seconds",
			Help:      "Duration of a complete plan computation including weather fetches.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by source and outcome.",
		}, []string{"source", "outcome"}),
		BriefingRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "briefing_requests_total",
			Help:      "AI briefing generations by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flight_planner",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route pattern.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "events_published_total",
			Help:      "Plan lifecycle events written to the event topic.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flight_planner",
			Name:      "event_publish_errors_total",
			Help:      "Failed event topic writes.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flight_planner",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
	}

	prometheus.MustRegister(
		m.PlansGenerated,
		m.PlanErrors,
		m.PlanDuration,
		m.WeatherRequests,
		m.BriefingRequests,
		m.HTTPRequests,
		m.HTTPDuration,
		m.EventsPublished,
		m.EventPublishErrors,
		m.ActiveSessions,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PlansGenerated:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flight_planner", Name: "plans_generated_total"}, []string{"status"}),
		PlanErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flight_planner", Name: "plan_errors_total"}),
		PlanDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flight_planner", Name: "plan_duration_seconds"}),
		WeatherRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flight_planner", Name: "weather_requests_total"}, []string{"source", "outcome"}),
		BriefingRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flight_planner", Name: "briefing_requests_total"}, []string{"outcome"}),
		HTTPRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flight_planner", Name: "http_requests_total"}, []string{"method", "route", "status"}),
		HTTPDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "flight_planner", Name: "http_request_duration_seconds"}, []string{"route"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flight_planner", Name: "events_published_total"}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flight_planner", Name: "event_publish_errors_total"}),
		ActiveSessions:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flight_planner", Name: "active_sessions"}),
	}
}
