package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/catalog"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// FlightRepository is a catalog seed source.
type FlightRepository interface {
	ListOfferings(ctx context.Context) ([]domain.FlightOffering, error)
}

// Querier is the subset of *pgxpool.Pool the repository needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PGFlightRepository struct {
	db Querier
}

func NewFlightRepository(db Querier) FlightRepository {
	return &PGFlightRepository{db: db}
}

const listOfferingsSQL = `SELECT id, origin, destination, price_cents, departure, arrival, total_seats, available_seats, operating_days FROM flights ORDER BY origin, destination, departure`

// ListOfferings loads every flight row. The engine reads it once at startup; seat
// counts are not written back.
func (r *PGFlightRepository) ListOfferings(ctx context.Context) ([]domain.FlightOffering, error) {
	rows, err := r.db.Query(ctx, listOfferingsSQL)
	if err != nil {
		return nil, fmt.Errorf("query flights: %w", err)
	}
	defer rows.Close()

	offerings := make([]domain.FlightOffering, 0)
	for rows.Next() {
		var (
			sf         catalog.SeedFlight
			priceCents int64
			available  int
			days       string
		)
		if err := rows.Scan(&sf.ID, &sf.Origin, &sf.Destination, &priceCents, &sf.Departure, &sf.Arrival, &sf.Seats, &available, &days); err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		sf.Price = decimal.New(priceCents, -2).String()
		sf.Days = splitDays(days)

		o, err := sf.Offering()
		if err != nil {
			return nil, err
		}
		o.Seats = available
		offerings = append(offerings, o)
	}
	return offerings, rows.Err()
}

func splitDays(s string) []string {
	var days []string
	for _, d := range strings.Split(s, ",") {
		if d = strings.TrimSpace(d); d != "" {
			days = append(days, d)
		}
	}
	return days
}

var _ FlightRepository = (*PGFlightRepository)(nil)
