package email

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func createdEvent() kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:          kafka.EventBookingCreated,
		BookingID:     "BK1000",
		FlightID:      "JL005",
		Route:         "NYC-TYO",
		Passengers:    2,
		CabinClass:    "business",
		PassengerName: "John Smith",
		Email:         "john@email.com",
		TotalPrice:    decimal.NewFromInt(6000),
	}
}

func TestRender_created(t *testing.T) {
	msg, ok := Render(createdEvent())

	assert.True(t, ok)
	assert.Equal(t, "john@email.com", msg.To)
	assert.Equal(t, "Booking BK1000 confirmed", msg.Subject)
	assert.Contains(t, msg.Body, "NYC-TYO")
	assert.Contains(t, msg.Body, "Total: 6000.00.")
}

func TestRender_cancelled(t *testing.T) {
	refund := decimal.NewFromInt(5400)
	fee := decimal.NewFromInt(600)
	event := createdEvent()
	event.Type = kafka.EventBookingCancelled
	event.RefundAmount = &refund
	event.CancellationFee = &fee

	msg, ok := Render(event)

	assert.True(t, ok)
	assert.Equal(t, "Booking BK1000 cancelled", msg.Subject)
	assert.Contains(t, msg.Body, "Refund: 5400.00 (cancellation fee 600.00)")
}

func TestRender_unknownType(t *testing.T) {
	event := createdEvent()
	event.Type = "seat_changed"

	_, ok := Render(event)
	assert.False(t, ok)
}

func TestSender_Send(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewSender(zap.New(core))

	assert.NoError(t, s.Send(context.Background(), createdEvent()))

	entries := logs.FilterMessage("send email").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "john@email.com", entries[0].ContextMap()["to"])
		assert.Equal(t, "BK1000", entries[0].ContextMap()["booking_id"])
	}
}
