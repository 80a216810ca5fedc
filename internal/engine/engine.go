// Package engine assembles the booking engine from a flight catalog seed and exposes
// its five operations: search, check availability, book, cancel and view.
//
// The engine is in-memory: it is initialized once at startup and lives as long as
// the process.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/inventory"
	"github.com/Domenick1991/flightdesk/internal/ledger"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"go.uber.org/zap"
)

type Engine struct {
	Flights  *flights.FlightService
	Bookings *booking.BookingService

	catalog   *catalog.Catalog
	inventory *inventory.Manager
	ledger    *ledger.Ledger
}

type options struct {
	logger             *zap.Logger
	cache              flights.RouteCache
	producer           booking.Producer
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithRouteCache(cache flights.RouteCache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

func WithEvents(producer booking.Producer, bookingTopic, notificationsTopic string) Option {
	return func(o *options) {
		o.producer = producer
		o.bookingTopic = bookingTopic
		o.notificationsTopic = notificationsTopic
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New validates the offerings and wires catalog, inventory, ledger and services.
func New(offerings []domain.FlightOffering, opts ...Option) (*Engine, error) {
	o := options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	cat, err := catalog.New(offerings)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	inv := inventory.New(cat.Offerings(), o.logger)
	led := ledger.New(ledger.WithClock(o.now))

	flightOpts := []flights.FlightServiceOption{flights.WithLogger(o.logger.Named("flights"))}
	if o.cache != nil {
		flightOpts = append(flightOpts, flights.WithRouteCache(o.cache))
	}
	bookingOpts := []booking.BookingServiceOption{
		booking.WithLogger(o.logger.Named("bookings")),
		booking.WithClock(o.now),
	}
	if o.producer != nil {
		bookingOpts = append(bookingOpts,
			booking.WithProducer(o.producer, o.bookingTopic),
			booking.WithNotificationsTopic(o.notificationsTopic),
		)
	}

	return &Engine{
		Flights:   flights.NewFlightService(cat, inv, flightOpts...),
		Bookings:  booking.NewBookingService(cat, inv, led, bookingOpts...),
		catalog:   cat,
		inventory: inv,
		ledger:    led,
	}, nil
}

func (e *Engine) Search(ctx context.Context, origin, destination, date string) (*flights.SearchResult, error) {
	return e.Flights.Search(ctx, origin, destination, date)
}

func (e *Engine) CheckAvailability(ctx context.Context, flightID string, passengers int) (*flights.AvailabilityQuote, error) {
	return e.Flights.CheckAvailability(ctx, flightID, passengers)
}

func (e *Engine) Book(ctx context.Context, input booking.BookInput) (*domain.Booking, error) {
	return e.Bookings.Book(ctx, input)
}

func (e *Engine) Cancel(ctx context.Context, bookingID, email string) (*booking.CancellationResult, error) {
	return e.Bookings.Cancel(ctx, bookingID, email)
}

func (e *Engine) View(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return e.Bookings.View(ctx, bookingID)
}

func (e *Engine) Summary(ctx context.Context) (ledger.Summary, error) {
	return e.Bookings.Summary(ctx)
}

// Availability is a seat-count snapshot for one flight.
func (e *Engine) Availability(flightID string) (int, error) {
	return e.inventory.Availability(flightID)
}

// Capacity is the seat count the flight was loaded with.
func (e *Engine) Capacity(flightID string) (int, error) {
	return e.inventory.Capacity(flightID)
}

// Offerings lists the catalog in seed order.
func (e *Engine) Offerings() []domain.FlightOffering {
	return e.catalog.Offerings()
}
