package flights

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// FlightUseCase is the read-only half of the engine.
type FlightUseCase interface {
	Search(ctx context.Context, origin, destination, date string) (*SearchResult, error)
	CheckAvailability(ctx context.Context, flightID string, passengers int) (*AvailabilityQuote, error)
}

type Catalog interface {
	ListFlights(origin, destination domain.City, date time.Time) ([]domain.FlightOffering, error)
	GetFlight(flightID string) (domain.FlightOffering, error)
}

type Inventory interface {
	Availability(flightID string) (int, error)
}

// RouteCache holds static route listings; a nil slice with nil error is a miss.
type RouteCache interface {
	GetOfferings(ctx context.Context, route domain.Route, date string) ([]domain.FlightOffering, error)
	SetOfferings(ctx context.Context, route domain.Route, date string, offerings []domain.FlightOffering) error
}

type FlightSummary struct {
	ID        string          `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Departure string          `json:"departure"`
	Arrival   string          `json:"arrival"`
	Seats     int             `json:"seats"`
}

type SearchResult struct {
	Route   string          `json:"route"`
	Date    string          `json:"date"`
	Flights []FlightSummary `json:"flights"`
	Count   int             `json:"count"`
}

// AvailabilityQuote is an economy quote. TotalPrice is nil when the flight cannot
// take the requested passengers.
type AvailabilityQuote struct {
	FlightID       string           `json:"flight_id"`
	Route          string           `json:"route"`
	Requested      int              `json:"requested"`
	Available      int              `json:"available"`
	CanBook        bool             `json:"can_book"`
	PricePerPerson decimal.Decimal  `json:"price_per_person"`
	TotalPrice     *decimal.Decimal `json:"total_price,omitempty"`
	Departure      string           `json:"departure"`
	Arrival        string           `json:"arrival"`
}

type FlightService struct {
	catalog   Catalog
	inventory Inventory
	cache     RouteCache
	logger    *zap.Logger
}

type FlightServiceOption func(*FlightService)

func WithRouteCache(cache RouteCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithLogger(logger *zap.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.logger = logger
	}
}

func NewFlightService(catalog Catalog, inventory Inventory, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{catalog: catalog, inventory: inventory, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

func (s *FlightService) Search(ctx context.Context, origin, destination, date string) (*SearchResult, error) {
	route, err := domain.ParseRoute(origin, destination)
	if err != nil {
		return nil, err
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, domain.Newf(domain.ErrInvalidDate, "date %q must be YYYY-MM-DD", date)
	}

	offerings, err := s.listOfferings(ctx, route, day)
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Route:   route.String(),
		Date:    day.Format(dateLayout),
		Flights: make([]FlightSummary, 0, len(offerings)),
	}
	for _, o := range offerings {
		seats, err := s.inventory.Availability(o.ID)
		if errors.Is(err, domain.ErrFlightNotFound) {
			// A cached route can outlive a catalog reload.
			s.logger.Warn("skipping unknown flight", zap.String("flight_id", o.ID), zap.String("route", route.String()))
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Flights = append(result.Flights, FlightSummary{
			ID:        o.ID,
			Price:     o.BasePrice,
			Departure: o.Departure,
			Arrival:   o.Arrival,
			Seats:     seats,
		})
	}
	result.Count = len(result.Flights)
	return result, nil
}

func (s *FlightService) listOfferings(ctx context.Context, route domain.Route, day time.Time) ([]domain.FlightOffering, error) {
	date := day.Format(dateLayout)
	if s.cache != nil {
		cached, err := s.cache.GetOfferings(ctx, route, date)
		if err != nil {
			s.logger.Warn("route cache read failed", zap.String("route", route.String()), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	offerings, err := s.catalog.ListFlights(route.Origin, route.Destination, day)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetOfferings(ctx, route, date, offerings); err != nil {
			s.logger.Warn("route cache write failed", zap.String("route", route.String()), zap.Error(err))
		}
	}
	return offerings, nil
}

func (s *FlightService) CheckAvailability(ctx context.Context, flightID string, passengers int) (*AvailabilityQuote, error) {
	if err := domain.ValidatePassengers(passengers); err != nil {
		return nil, err
	}
	flight, err := s.catalog.GetFlight(flightID)
	if err != nil {
		return nil, err
	}
	available, err := s.inventory.Availability(flightID)
	if err != nil {
		return nil, err
	}

	quote := &AvailabilityQuote{
		FlightID:       flight.ID,
		Route:          flight.Route.String(),
		Requested:      passengers,
		Available:      available,
		CanBook:        available >= passengers,
		PricePerPerson: flight.BasePrice,
		Departure:      flight.Departure,
		Arrival:        flight.Arrival,
	}
	if quote.CanBook {
		total, err := pricing.Quote(flight.BasePrice, passengers)
		if err != nil {
			return nil, err
		}
		quote.TotalPrice = &total
	}
	return quote, nil
}

var _ FlightUseCase = (*FlightService)(nil)
