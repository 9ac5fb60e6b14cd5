package metrics

import (
	"net/http"
	"time"

	"fleet-rental-backend/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var Registry = prometheus.NewRegistry()

var (
	// TransitionsTotal counts lifecycle operations by entity, event and
	// outcome. Outcome is "ok" or the domain error kind.
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_transitions_total",
			Help: "Lifecycle transitions attempted, by entity, event and outcome.",
		},
		[]string{"entity", "event", "outcome"},
	)

	TransitionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleet_transition_duration_seconds",
			Help:    "Duration of lifecycle units of work.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity", "event"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_events_published_total",
			Help: "Rental and maintenance events handed to the broker, by type and result.",
		},
		[]string{"type", "result"},
	)

	OverdueRentals = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleet_overdue_rentals",
			Help: "Active rentals past their expected return date at the last report.",
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleet_http_requests_total",
			Help: "HTTP requests served, by route template, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		TransitionsTotal,
		TransitionDuration,
		EventsPublishedTotal,
		OverdueRentals,
		HTTPRequestsTotal,
	)
}

// ObserveTransition records one finished lifecycle operation.
func ObserveTransition(entity, event string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err)
	}
	TransitionsTotal.WithLabelValues(entity, event, outcome).Inc()
	TransitionDuration.WithLabelValues(entity, event).Observe(time.Since(started).Seconds())
}

func ObservePublish(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventsPublishedTotal.WithLabelValues(eventType, result).Inc()
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
