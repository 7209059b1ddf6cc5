package metrics

import (
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flightbooking"

var (
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_total",
		Help:      "Booking attempts by outcome.",
	}, []string{"outcome"})

	CancellationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cancellations_total",
		Help:      "Cancellation attempts by outcome.",
	}, []string{"outcome"})

	SeatsReserved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seats_reserved_total",
		Help:      "Seats taken by committed bookings.",
	})

	SeatsReleased = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "seats_released_total",
		Help:      "Seats returned by committed cancellations.",
	})

	InventoryMismatches = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inventory_mismatched_flights",
		Help:      "Flights whose seat counter disagreed with their bookings at the last reconcile.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome is the label value recorded for a finished operation.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrSeatUnavailable):
		return "seat_unavailable"
	case errors.Is(err, domain.ErrBusinessRule):
		return "rejected"
	default:
		return "error"
	}
}
