// Package ledger keeps every booking ever made. Bookings are never removed; the only
// mutation after creation is the CONFIRMED to CANCELLED transition.
package ledger

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	idPrefix    = "BK"
	firstNumber = 1000
)

// NewBooking carries what the caller knows when seats are already reserved.
type NewBooking struct {
	Flight         domain.FlightOffering
	Passengers     int
	CabinClass     domain.CabinClass
	PassengerName  string
	PassengerEmail string
	TotalPrice     decimal.Decimal
}

// Summary counts bookings by status.
type Summary struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
}

type entry struct {
	mu      sync.Mutex
	booking domain.Booking
}

// Ledger is safe for concurrent use. The table lock guards the map only; each
// booking carries its own lock for the cancel transition.
type Ledger struct {
	mu       sync.RWMutex
	bookings map[string]*entry
	seq      atomic.Int64
	now      func() time.Time
}

type Option func(*Ledger)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		bookings: make(map[string]*entry),
		now:      time.Now,
	}
	l.seq.Store(firstNumber - 1)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) nextID() string {
	return idPrefix + strconv.FormatInt(l.seq.Add(1), 10)
}

// CreateBooking records a CONFIRMED booking. Capacity is not checked here; callers
// must hold a successful reservation for the same request.
func (l *Ledger) CreateBooking(nb NewBooking) (domain.Booking, error) {
	if nb.Flight.ID == "" {
		return domain.Booking{}, fmt.Errorf("create booking: flight is required")
	}
	if err := domain.ValidatePassengers(nb.Passengers); err != nil {
		return domain.Booking{}, err
	}

	b := domain.Booking{
		ID:             l.nextID(),
		FlightID:       nb.Flight.ID,
		Route:          nb.Flight.Route,
		Departure:      nb.Flight.Departure,
		Arrival:        nb.Flight.Arrival,
		Passengers:     nb.Passengers,
		CabinClass:     nb.CabinClass,
		PassengerName:  nb.PassengerName,
		PassengerEmail: nb.PassengerEmail,
		TotalPrice:     nb.TotalPrice,
		Status:         domain.BookingStatusConfirmed,
		CreatedAt:      l.now().UTC(),
	}

	l.mu.Lock()
	l.bookings[b.ID] = &entry{booking: b}
	l.mu.Unlock()

	return b, nil
}

func (l *Ledger) lookup(bookingID string) (*entry, error) {
	l.mu.RLock()
	e, ok := l.bookings[bookingID]
	l.mu.RUnlock()
	if !ok {
		return nil, domain.Newf(domain.ErrBookingNotFound, "booking %s not found", bookingID)
	}
	return e, nil
}

// GetBooking returns a copy of the stored booking.
func (l *Ledger) GetBooking(bookingID string) (domain.Booking, error) {
	e, err := l.lookup(bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.booking, nil
}

// CancelBooking checks the requester email (exact match; this is the system's only
// authorization check and is not a security boundary), then under the booking's lock
// runs release and marks the booking CANCELLED. A failing release leaves the booking
// CONFIRMED, so seats are returned exactly once per successful cancellation.
func (l *Ledger) CancelBooking(bookingID, requesterEmail string, release func(domain.Booking) error) (domain.Booking, pricing.Refund, error) {
	e, err := l.lookup(bookingID)
	if err != nil {
		return domain.Booking{}, pricing.Refund{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.booking.PassengerEmail != requesterEmail {
		return domain.Booking{}, pricing.Refund{}, domain.ErrEmailMismatch
	}
	if !e.booking.Status.CanTransitionTo(domain.BookingStatusCancelled) {
		return domain.Booking{}, pricing.Refund{}, domain.Newf(domain.ErrAlreadyCancelled, "booking %s already cancelled", bookingID)
	}

	if release != nil {
		if err := release(e.booking); err != nil {
			return domain.Booking{}, pricing.Refund{}, err
		}
	}

	cancelledAt := l.now().UTC()
	e.booking.Status = domain.BookingStatusCancelled
	e.booking.CancelledAt = &cancelledAt

	return e.booking, pricing.ComputeRefund(e.booking.TotalPrice), nil
}

// List returns all bookings ordered by id.
func (l *Ledger) List() []domain.Booking {
	l.mu.RLock()
	entries := make([]*entry, 0, len(l.bookings))
	for _, e := range l.bookings {
		entries = append(entries, e)
	}
	l.mu.RUnlock()

	out := make([]domain.Booking, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.booking)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return bookingNumber(out[i].ID) < bookingNumber(out[j].ID)
	})
	return out
}

func (l *Ledger) Summary() Summary {
	var s Summary
	for _, b := range l.List() {
		s.Total++
		switch b.Status {
		case domain.BookingStatusConfirmed:
			s.Confirmed++
		case domain.BookingStatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

func bookingNumber(id string) int64 {
	n, _ := strconv.ParseInt(id[len(idPrefix):], 10, 64)
	return n
}
