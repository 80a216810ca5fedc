package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestBooking() NewBooking {
	return NewBooking{
		Flight: domain.FlightOffering{
			ID:        "JL005",
			Route:     domain.Route{Origin: domain.CityNewYork, Destination: domain.CityTokyo},
			BasePrice: decimal.NewFromInt(1200),
			Departure: "13:00",
			Arrival:   "16:00+1",
		},
		Passengers:     2,
		CabinClass:     domain.CabinBusiness,
		PassengerName:  "Ann Lee",
		PassengerEmail: "ann@example.com",
		TotalPrice:     decimal.NewFromInt(6000),
	}
}

func TestCreateBooking(t *testing.T) {
	l := New(WithClock(func() time.Time { return testNow }))

	b, err := l.CreateBooking(newTestBooking())
	require.NoError(t, err)
	assert.Equal(t, "BK1000", b.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)
	assert.Equal(t, "NYC-TYO", b.Route.String())
	assert.Equal(t, "13:00", b.Departure)
	assert.Equal(t, testNow, b.CreatedAt)
	assert.Nil(t, b.CancelledAt)

	next, err := l.CreateBooking(newTestBooking())
	require.NoError(t, err)
	assert.Equal(t, "BK1001", next.ID)

	stored, err := l.GetBooking("BK1000")
	require.NoError(t, err)
	assert.Equal(t, b, stored)
}

func TestCreateBooking_invalid(t *testing.T) {
	l := New()

	nb := newTestBooking()
	nb.Flight.ID = ""
	_, err := l.CreateBooking(nb)
	assert.Error(t, err)

	nb = newTestBooking()
	nb.Passengers = 0
	_, err = l.CreateBooking(nb)
	assert.ErrorIs(t, err, domain.ErrInvalidPassengerCount)
}

func TestCreateBooking_uniqueIDsUnderConcurrency(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := l.CreateBooking(newTestBooking())
			if err == nil {
				ids <- b.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, 100)

	list := l.List()
	require.Len(t, list, 100)
	assert.Equal(t, "BK1000", list[0].ID)
	assert.Equal(t, "BK1099", list[99].ID)
}

func TestGetBooking_notFound(t *testing.T) {
	_, err := New().GetBooking("BK1000")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestCancelBooking(t *testing.T) {
	cancelAt := testNow.Add(2 * time.Hour)
	clock := testNow
	l := New(WithClock(func() time.Time { return clock }))

	b, err := l.CreateBooking(newTestBooking())
	require.NoError(t, err)
	clock = cancelAt

	released := 0
	cancelled, refund, err := l.CancelBooking(b.ID, "ann@example.com", func(got domain.Booking) error {
		assert.Equal(t, domain.BookingStatusConfirmed, got.Status)
		released += got.Passengers
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, released)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, cancelAt, *cancelled.CancelledAt)
	assert.True(t, refund.Refund.Equal(decimal.NewFromInt(5400)))
	assert.True(t, refund.Fee.Equal(decimal.NewFromInt(600)))

	stored, _ := l.GetBooking(b.ID)
	assert.Equal(t, domain.BookingStatusCancelled, stored.Status)
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(6000)))

	_, _, err = l.CancelBooking(b.ID, "ann@example.com", func(domain.Booking) error {
		released++
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
	assert.Equal(t, 2, released)
}

func TestCancelBooking_checkOrder(t *testing.T) {
	l := New()
	b, err := l.CreateBooking(newTestBooking())
	require.NoError(t, err)

	_, _, err = l.CancelBooking("BK9999", "ann@example.com", nil)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	_, _, err = l.CancelBooking(b.ID, "Ann@example.com", nil)
	assert.ErrorIs(t, err, domain.ErrEmailMismatch)

	_, _, err = l.CancelBooking(b.ID, "ann@example.com", nil)
	require.NoError(t, err)

	// a mismatched email on a cancelled booking still reports the mismatch
	_, _, err = l.CancelBooking(b.ID, "eve@example.com", nil)
	assert.ErrorIs(t, err, domain.ErrEmailMismatch)
}

func TestCancelBooking_releaseFailureKeepsBookingConfirmed(t *testing.T) {
	l := New()
	b, err := l.CreateBooking(newTestBooking())
	require.NoError(t, err)

	releaseErr := errors.New("inventory unavailable")
	_, _, err = l.CancelBooking(b.ID, "ann@example.com", func(domain.Booking) error { return releaseErr })
	assert.ErrorIs(t, err, releaseErr)

	stored, _ := l.GetBooking(b.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, stored.Status)
	assert.Nil(t, stored.CancelledAt)
}

func TestCancelBooking_concurrentReleasesOnce(t *testing.T) {
	l := New()
	b, err := l.CreateBooking(newTestBooking())
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		releases int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = l.CancelBooking(b.ID, "ann@example.com", func(domain.Booking) error {
				mu.Lock()
				releases++
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, releases)
}

func TestSummary(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		_, err := l.CreateBooking(newTestBooking())
		require.NoError(t, err)
	}
	_, _, err := l.CancelBooking("BK1001", "ann@example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 3, Confirmed: 2, Cancelled: 1}, l.Summary())
}
