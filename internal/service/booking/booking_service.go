package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/ledger"
	"github.com/Domenick1991/flightdesk/internal/metrics"
	"github.com/Domenick1991/flightdesk/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BookingUseCase is the mutating half of the engine plus the booking read path.
type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, email string) (*CancellationResult, error)
	View(ctx context.Context, bookingID string) (*domain.Booking, error)
	Summary(ctx context.Context) (ledger.Summary, error)
}

type Catalog interface {
	GetFlight(flightID string) (domain.FlightOffering, error)
}

type Inventory interface {
	ReserveWith(flightID string, count int, commit func() error) error
	Release(flightID string, count int) (int, error)
	Availability(flightID string) (int, error)
}

type Ledger interface {
	CreateBooking(nb ledger.NewBooking) (domain.Booking, error)
	GetBooking(bookingID string) (domain.Booking, error)
	CancelBooking(bookingID, requesterEmail string, release func(domain.Booking) error) (domain.Booking, pricing.Refund, error)
	Summary() ledger.Summary
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookInput struct {
	FlightID       string `json:"flight_id"`
	Passengers     int    `json:"passengers"`
	CabinClass     string `json:"cabin_class"`
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
}

type CancellationResult struct {
	BookingID       string               `json:"booking_id"`
	Status          domain.BookingStatus `json:"status"`
	RefundAmount    decimal.Decimal      `json:"refund_amount"`
	OriginalAmount  decimal.Decimal      `json:"original_amount"`
	CancellationFee decimal.Decimal      `json:"cancellation_fee"`
	CancelledAt     time.Time            `json:"cancelled_at"`
}

type BookingService struct {
	catalog            Catalog
	inventory          Inventory
	ledger             Ledger
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	logger             *zap.Logger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

// WithProducer enables lifecycle events on bookingTopic.
func WithProducer(producer Producer, bookingTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
	}
}

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *zap.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(catalog Catalog, inventory Inventory, ledger Ledger, opts ...BookingServiceOption) *BookingService {
	s := &BookingService{
		catalog:   catalog,
		inventory: inventory,
		ledger:    ledger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func validateBookInput(input BookInput) (domain.CabinClass, error) {
	if input.Passengers < domain.MinPassengers {
		return "", domain.Newf(domain.ErrInvalidPassengerCount, "passengers must be at least %d, got %d", domain.MinPassengers, input.Passengers)
	}
	if err := domain.ValidateEmail(input.PassengerEmail); err != nil {
		return "", err
	}
	if strings.TrimSpace(input.PassengerName) == "" {
		return "", domain.ErrInvalidPassengerName
	}
	return domain.ParseCabinClass(input.CabinClass)
}

// Book reserves seats and records the booking while the flight is locked; if the
// reservation fails nothing is written to the ledger.
func (s *BookingService) Book(ctx context.Context, input BookInput) (*domain.Booking, error) {
	cabin, err := validateBookInput(input)
	if err != nil {
		s.recordFailure("book", err)
		return nil, err
	}
	flight, err := s.catalog.GetFlight(input.FlightID)
	if err != nil {
		s.recordFailure("book", err)
		return nil, err
	}
	if input.Passengers > domain.MaxPassengers {
		err := s.rejectOversizedParty(flight.ID, input.Passengers)
		s.recordFailure("book", err)
		return nil, err
	}

	var created domain.Booking
	err = s.inventory.ReserveWith(flight.ID, input.Passengers, func() error {
		fare, err := pricing.BookingTotal(flight.BasePrice, input.Passengers, cabin)
		if err != nil {
			return err
		}
		created, err = s.ledger.CreateBooking(ledger.NewBooking{
			Flight:         flight,
			Passengers:     input.Passengers,
			CabinClass:     cabin,
			PassengerName:  strings.TrimSpace(input.PassengerName),
			PassengerEmail: input.PassengerEmail,
			TotalPrice:     fare,
		})
		return err
	})
	if err != nil {
		s.recordFailure("book", err)
		return nil, err
	}

	metrics.BookingsTotal.WithLabelValues(string(cabin)).Inc()
	s.observeSeats(flight.ID)
	s.logger.Info("booking confirmed",
		zap.String("booking_id", created.ID),
		zap.String("flight_id", created.FlightID),
		zap.Int("passengers", created.Passengers),
		zap.String("cabin_class", string(created.CabinClass)),
		zap.String("total_price", created.TotalPrice.String()),
	)
	s.publish(ctx, kafka.EventBookingCreated, created, nil)
	return &created, nil
}

// Cancel returns the seats and marks the booking cancelled under the booking's
// lock, then reports the refund split.
func (s *BookingService) Cancel(ctx context.Context, bookingID, email string) (*CancellationResult, error) {
	cancelled, refund, err := s.ledger.CancelBooking(bookingID, email, func(b domain.Booking) error {
		if _, err := s.inventory.Release(b.FlightID, b.Passengers); err != nil {
			s.logger.Error("invariant violation: cannot release seats of cancelled booking",
				zap.String("invariant", "cancelled booking seats returned once"),
				zap.String("booking_id", b.ID),
				zap.String("flight_id", b.FlightID),
				zap.Int("seats", b.Passengers),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		s.recordFailure("cancel", err)
		return nil, err
	}

	metrics.CancellationsTotal.Inc()
	metrics.RefundedAmount.Add(refund.Refund.InexactFloat64())
	s.observeSeats(cancelled.FlightID)
	s.logger.Info("booking cancelled",
		zap.String("booking_id", cancelled.ID),
		zap.String("flight_id", cancelled.FlightID),
		zap.String("refund_amount", refund.Refund.String()),
		zap.String("cancellation_fee", refund.Fee.String()),
	)
	s.publish(ctx, kafka.EventBookingCancelled, cancelled, &refund)

	return &CancellationResult{
		BookingID:       cancelled.ID,
		Status:          cancelled.Status,
		RefundAmount:    refund.Refund,
		OriginalAmount:  cancelled.TotalPrice,
		CancellationFee: refund.Fee,
		CancelledAt:     *cancelled.CancelledAt,
	}, nil
}

func (s *BookingService) View(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := s.ledger.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BookingService) Summary(ctx context.Context) (ledger.Summary, error) {
	return s.ledger.Summary(), nil
}

// rejectOversizedParty reports a party above the per-booking limit as a capacity
// failure when the flight could not seat it anyway, so callers get the counts they
// need to retry. Nothing is reserved on this path.
func (s *BookingService) rejectOversizedParty(flightID string, passengers int) error {
	available, err := s.inventory.Availability(flightID)
	if err != nil {
		return err
	}
	if available < passengers {
		return domain.InsufficientSeats(passengers, available)
	}
	return domain.ValidatePassengers(passengers)
}

func (s *BookingService) recordFailure(operation string, err error) {
	code := "internal"
	var de *domain.Error
	if errors.As(err, &de) {
		code = de.Code
	}
	metrics.BookingFailures.WithLabelValues(operation, code).Inc()
	s.logger.Debug("request rejected", zap.String("operation", operation), zap.String("code", code), zap.Error(err))
}

func (s *BookingService) observeSeats(flightID string) {
	if seats, err := s.inventory.Availability(flightID); err == nil {
		metrics.SeatsAvailable.WithLabelValues(flightID).Set(float64(seats))
	}
}

// publish never fails the operation; the ledger is the source of truth.
func (s *BookingService) publish(ctx context.Context, eventType string, b domain.Booking, refund *pricing.Refund) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.NewBookingEvent(eventType, b, refund, s.now())
	if err := s.producer.Publish(ctx, s.bookingTopic, b.ID, event); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
	if s.notificationsTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, b.ID, event); err != nil {
		s.logger.Warn("failed to publish booking notification",
			zap.String("type", eventType),
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
