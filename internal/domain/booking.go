package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinPassengers = 1
	MaxPassengers = 9
)

// CabinClass is the fare cabin of a booking.
type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinBusiness CabinClass = "business"
	CabinFirst    CabinClass = "first"
)

// ParseCabinClass accepts a cabin name case-insensitively.
func ParseCabinClass(s string) (CabinClass, error) {
	c := CabinClass(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CabinEconomy, CabinBusiness, CabinFirst:
		return c, nil
	default:
		return "", Newf(ErrInvalidCabinClass, "unknown cabin class %q", s)
	}
}

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

var validTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {},
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal is true when no further transitions exist.
func (s BookingStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Booking is a committed reservation. TotalPrice is fixed at creation.
type Booking struct {
	ID             string          `json:"booking_id"`
	FlightID       string          `json:"flight_id"`
	Route          Route           `json:"route"`
	Departure      string          `json:"departure"`
	Arrival        string          `json:"arrival"`
	Passengers     int             `json:"passengers"`
	CabinClass     CabinClass      `json:"cabin_class"`
	PassengerName  string          `json:"passenger_name"`
	PassengerEmail string          `json:"passenger_email"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Status         BookingStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	CancelledAt    *time.Time      `json:"cancelled_at,omitempty"`
}

// ValidatePassengers checks the 1..9 passenger bound.
func ValidatePassengers(n int) error {
	if n < MinPassengers || n > MaxPassengers {
		return Newf(ErrInvalidPassengerCount, "passengers must be between %d and %d, got %d", MinPassengers, MaxPassengers, n)
	}
	return nil
}

// ValidateEmail requires a non-empty local part and a dotted domain around a single '@'.
func ValidateEmail(email string) error {
	local, host, ok := strings.Cut(email, "@")
	if !ok || local == "" || host == "" || strings.Contains(host, "@") {
		return ErrInvalidEmail
	}
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return ErrInvalidEmail
	}
	if strings.ContainsAny(email, " \t\r\n") {
		return ErrInvalidEmail
	}
	return nil
}
