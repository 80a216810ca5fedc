// Package metrics exposes the booking engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdesk_bookings_total",
			Help: "Confirmed bookings per cabin class",
		},
		[]string{"cabin_class"},
	)

	BookingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flightdesk_booking_failures_total",
			Help: "Rejected book and cancel requests per error code",
		},
		[]string{"operation", "code"},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flightdesk_cancellations_total",
			Help: "Successful cancellations",
		},
	)

	RefundedAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flightdesk_refunded_amount_total",
			Help: "Sum of refunded amounts",
		},
	)

	SeatsAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flightdesk_seats_available",
			Help: "Available seats per flight after the last mutation",
		},
		[]string{"flight_id"},
	)
)
