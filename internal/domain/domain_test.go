package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute("nyc", " tyo ")
	require.NoError(t, err)
	assert.Equal(t, Route{Origin: CityNewYork, Destination: CityTokyo}, r)
	assert.Equal(t, "NYC-TYO", r.String())

	_, err = ParseRoute("NYC", "BER")
	assert.ErrorIs(t, err, ErrInvalidRoute)

	_, err = ParseRoute("LON", "lon")
	assert.ErrorIs(t, err, ErrInvalidRoute)
}

func TestParseCabinClass(t *testing.T) {
	c, err := ParseCabinClass("Business")
	require.NoError(t, err)
	assert.Equal(t, CabinBusiness, c)

	_, err = ParseCabinClass("premium")
	assert.ErrorIs(t, err, ErrInvalidCabinClass)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestBookingStatusTransitions(t *testing.T) {
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusConfirmed))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusCancelled))
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
}

func TestValidatePassengers(t *testing.T) {
	for n := MinPassengers; n <= MaxPassengers; n++ {
		assert.NoError(t, ValidatePassengers(n))
	}
	for _, n := range []int{-1, 0, 10} {
		assert.ErrorIs(t, ValidatePassengers(n), ErrInvalidPassengerCount, "n=%d", n)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"ann@example.com", "a.b+c@mail.co.uk"}
	invalid := []string{"", "ann", "@example.com", "ann@", "ann@example", "ann@.com", "ann@example.", "a@b@c.com", "ann lee@example.com"}

	for _, e := range valid {
		assert.NoError(t, ValidateEmail(e), e)
	}
	for _, e := range invalid {
		assert.ErrorIs(t, ValidateEmail(e), ErrInvalidEmail, e)
	}
}

func TestErrorMatching(t *testing.T) {
	err := fmt.Errorf("book: %w", InsufficientSeats(5, 3))

	assert.True(t, errors.Is(err, ErrInsufficientSeats))
	assert.False(t, errors.Is(err, ErrFlightNotFound))
	assert.Equal(t, KindCapacity, KindOf(err))

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 5, de.Requested)
	assert.Equal(t, 3, de.Available)
	assert.Equal(t, "InsufficientSeats: requested 5 seats, 3 available", de.Error())

	specific := Newf(ErrFlightNotFound, "flight %s not found", "XX1")
	assert.ErrorIs(t, specific, ErrFlightNotFound)
	assert.Equal(t, "flight not found", ErrFlightNotFound.Message)
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestOperatesOn(t *testing.T) {
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	daily := FlightOffering{ID: "X1"}
	assert.True(t, daily.OperatesOn(monday))

	mondays := FlightOffering{ID: "X2", OperatingDays: []time.Weekday{time.Monday}}
	assert.True(t, mondays.OperatesOn(monday))
	assert.False(t, mondays.OperatesOn(tuesday))
}

func TestErrorJSON(t *testing.T) {
	data, err := json.Marshal(InsufficientSeats(2, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"capacity","code":"InsufficientSeats","message":"requested 2 seats, 0 available","requested":2,"available":0}`, string(data))

	data, err = json.Marshal(ErrBookingNotFound)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"not_found","code":"BookingNotFound","message":"booking not found"}`, string(data))

	var decoded Error
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"capacity","code":"InsufficientSeats","requested":5,"available":0}`), &decoded))
	assert.Equal(t, 5, decoded.Requested)
	assert.Equal(t, 0, decoded.Available)
}
