package kafka

import (
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

type BookingEvent struct {
	EventID         string           `json:"event_id"`
	Type            string           `json:"type"`
	BookingID       string           `json:"booking_id"`
	FlightID        string           `json:"flight_id"`
	Route           string           `json:"route"`
	Passengers      int              `json:"passengers"`
	CabinClass      string           `json:"cabin_class"`
	PassengerName   string           `json:"passenger_name"`
	Email           string           `json:"email"`
	Status          string           `json:"status"`
	TotalPrice      decimal.Decimal  `json:"total_price"`
	RefundAmount    *decimal.Decimal `json:"refund_amount,omitempty"`
	CancellationFee *decimal.Decimal `json:"cancellation_fee,omitempty"`
	OccurredAt      time.Time        `json:"occurred_at"`
}

// NewBookingEvent snapshots a booking; refund is set only for cancellations.
func NewBookingEvent(eventType string, b domain.Booking, refund *pricing.Refund, at time.Time) BookingEvent {
	event := BookingEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		BookingID:     b.ID,
		FlightID:      b.FlightID,
		Route:         b.Route.String(),
		Passengers:    b.Passengers,
		CabinClass:    string(b.CabinClass),
		PassengerName: b.PassengerName,
		Email:         b.PassengerEmail,
		Status:        string(b.Status),
		TotalPrice:    b.TotalPrice,
		OccurredAt:    at.UTC(),
	}
	if refund != nil {
		event.RefundAmount = &refund.Refund
		event.CancellationFee = &refund.Fee
	}
	return event
}
