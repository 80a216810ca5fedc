// Package inventory owns the per-flight seat counters. It is the only code that
// mutates seat availability.
package inventory

import (
	"fmt"
	"sync"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"go.uber.org/zap"
)

type seatPool struct {
	mu        sync.Mutex
	capacity  int
	available int
}

// Manager serializes mutations per flight; different flights never contend.
// The pool map is built once in New and only read afterwards.
type Manager struct {
	pools  map[string]*seatPool
	logger *zap.Logger
}

// New creates one seat pool per offering, starting from its Seats snapshot.
func New(offerings []domain.FlightOffering, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		pools:  make(map[string]*seatPool, len(offerings)),
		logger: logger.Named("inventory"),
	}
	for _, o := range offerings {
		m.pools[o.ID] = &seatPool{capacity: o.Capacity, available: o.Seats}
	}
	return m
}

func (m *Manager) pool(flightID string) (*seatPool, error) {
	p, ok := m.pools[flightID]
	if !ok {
		return nil, domain.Newf(domain.ErrFlightNotFound, "flight %s not found", flightID)
	}
	return p, nil
}

// TryReserve atomically takes count seats or takes none.
func (m *Manager) TryReserve(flightID string, count int) error {
	return m.ReserveWith(flightID, count, nil)
}

// ReserveWith takes count seats and runs commit while the flight is still locked,
// so no other reservation observes the seats taken without the commit's effect.
// If commit fails or panics the seats are put back before the lock is released.
func (m *Manager) ReserveWith(flightID string, count int, commit func() error) (err error) {
	if err := domain.ValidatePassengers(count); err != nil {
		return err
	}
	p, err := m.pool(flightID)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.available < count {
		return domain.InsufficientSeats(count, p.available)
	}
	p.available -= count

	if commit == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			p.available += count
			m.logger.Error("invariant violation: commit panicked after reservation, seats restored",
				zap.String("invariant", "reserved seats without booking"),
				zap.String("flight_id", flightID),
				zap.Int("seats", count),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("commit reservation on flight %s: %v", flightID, r)
		}
	}()

	if err := commit(); err != nil {
		p.available += count
		m.logger.Error("invariant violation: commit failed after reservation, seats restored",
			zap.String("invariant", "reserved seats without booking"),
			zap.String("flight_id", flightID),
			zap.Int("seats", count),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Release returns count seats to the flight, never exceeding its capacity, and
// reports the resulting availability.
func (m *Manager) Release(flightID string, count int) (int, error) {
	if count <= 0 {
		return 0, domain.Newf(domain.ErrInvalidPassengerCount, "cannot release %d seats", count)
	}
	p, err := m.pool(flightID)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.available + count
	if next > p.capacity {
		m.logger.Error("invariant violation: release exceeds capacity, capping",
			zap.String("invariant", "available seats above capacity"),
			zap.String("flight_id", flightID),
			zap.Int("available", p.available),
			zap.Int("released", count),
			zap.Int("capacity", p.capacity),
		)
		next = p.capacity
	}
	p.available = next
	return next, nil
}

// Availability is a snapshot and may be stale as soon as it returns.
func (m *Manager) Availability(flightID string) (int, error) {
	p, err := m.pool(flightID)
	if err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.available, nil
}

func (m *Manager) Capacity(flightID string) (int, error) {
	p, err := m.pool(flightID)
	if err != nil {
		return 0, err
	}
	return p.capacity, nil
}
