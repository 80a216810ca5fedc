package inventory

import (
	"errors"
	"sync"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newManager(seats int) (*Manager, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := New([]domain.FlightOffering{{
		ID:        "JL005",
		Route:     domain.Route{Origin: domain.CityNewYork, Destination: domain.CityTokyo},
		BasePrice: decimal.NewFromInt(1200),
		Capacity:  seats,
		Seats:     seats,
	}}, zap.New(core))
	return m, logs
}

func TestTryReserve(t *testing.T) {
	m, _ := newManager(3)

	require.NoError(t, m.TryReserve("JL005", 2))
	seats, _ := m.Availability("JL005")
	assert.Equal(t, 1, seats)

	err := m.TryReserve("JL005", 2)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "InsufficientSeats", de.Code)
	assert.Equal(t, 2, de.Requested)
	assert.Equal(t, 1, de.Available)

	seats, _ = m.Availability("JL005")
	assert.Equal(t, 1, seats)

	require.NoError(t, m.TryReserve("JL005", 1))
	seats, _ = m.Availability("JL005")
	assert.Equal(t, 0, seats)
}

func TestTryReserve_invalid(t *testing.T) {
	m, _ := newManager(3)

	assert.ErrorIs(t, m.TryReserve("JL005", 0), domain.ErrInvalidPassengerCount)
	assert.ErrorIs(t, m.TryReserve("JL005", 10), domain.ErrInvalidPassengerCount)
	assert.ErrorIs(t, m.TryReserve("XX999", 1), domain.ErrFlightNotFound)
}

func TestTryReserve_concurrent(t *testing.T) {
	m, _ := newManager(23)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.TryReserve("JL005", 2); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	seats, _ := m.Availability("JL005")
	assert.Equal(t, 11, success)
	assert.Equal(t, 1, seats)
}

func TestReserveWith_commitFailureRestoresSeats(t *testing.T) {
	m, logs := newManager(5)

	commitErr := errors.New("ledger unavailable")
	err := m.ReserveWith("JL005", 3, func() error { return commitErr })

	assert.ErrorIs(t, err, commitErr)
	seats, _ := m.Availability("JL005")
	assert.Equal(t, 5, seats)
	assert.Equal(t, 1, logs.FilterMessageSnippet("invariant violation").Len())
}

func TestReserveWith_commitPanicRestoresSeats(t *testing.T) {
	m, logs := newManager(5)

	err := m.ReserveWith("JL005", 3, func() error { panic("boom") })

	assert.ErrorContains(t, err, "boom")
	seats, _ := m.Availability("JL005")
	assert.Equal(t, 5, seats)
	assert.Equal(t, 1, logs.FilterMessageSnippet("invariant violation").Len())
}

func TestReserveWith_commitSeesReservedSeats(t *testing.T) {
	m, _ := newManager(5)

	err := m.ReserveWith("JL005", 2, func() error {
		// the pool is locked here, so read the counter directly
		assert.Equal(t, 3, m.pools["JL005"].available)
		return nil
	})
	require.NoError(t, err)
}

func TestRelease(t *testing.T) {
	m, logs := newManager(5)
	require.NoError(t, m.TryReserve("JL005", 4))

	seats, err := m.Release("JL005", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, seats)
	assert.Equal(t, 0, logs.Len())

	seats, err = m.Release("JL005", 3)
	require.NoError(t, err)
	assert.Equal(t, 5, seats)
	assert.Equal(t, 1, logs.FilterMessageSnippet("exceeds capacity").Len())

	_, err = m.Release("JL005", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPassengerCount)
	_, err = m.Release("XX999", 1)
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestCapacity(t *testing.T) {
	m, _ := newManager(23)
	require.NoError(t, m.TryReserve("JL005", 9))

	capacity, err := m.Capacity("JL005")
	require.NoError(t, err)
	assert.Equal(t, 23, capacity)
}
