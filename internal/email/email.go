package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/kafka"
	"go.uber.org/zap"
)

// Message is a rendered notification.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers booking notifications. Delivery is a structured log line; there
// is no SMTP transport.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{logger: logger.Named("email")}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, ok := Render(event)
	if !ok {
		s.logger.Debug("no notification for event type", zap.String("type", event.Type))
		return nil
	}
	s.logger.Info("send email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
		zap.String("booking_id", event.BookingID),
	)
	return nil
}

// Render builds the notification for an event; ok is false for event types that
// do not notify the passenger.
func Render(event kafka.BookingEvent) (Message, bool) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return Message{
			To:      event.Email,
			Subject: fmt.Sprintf("Booking %s confirmed", event.BookingID),
			Body: fmt.Sprintf("Dear %s, your booking %s on flight %s (%s) for %d passenger(s) in %s is confirmed. Total: %s.",
				event.PassengerName, event.BookingID, event.FlightID, event.Route, event.Passengers, event.CabinClass, event.TotalPrice.StringFixed(2)),
		}, true
	case kafka.EventBookingCancelled:
		refund, fee := "0.00", "0.00"
		if event.RefundAmount != nil {
			refund = event.RefundAmount.StringFixed(2)
		}
		if event.CancellationFee != nil {
			fee = event.CancellationFee.StringFixed(2)
		}
		return Message{
			To:      event.Email,
			Subject: fmt.Sprintf("Booking %s cancelled", event.BookingID),
			Body: fmt.Sprintf("Dear %s, your booking %s on flight %s has been cancelled. Refund: %s (cancellation fee %s).",
				event.PassengerName, event.BookingID, event.FlightID, refund, fee),
		}, true
	default:
		return Message{}, false
	}
}
