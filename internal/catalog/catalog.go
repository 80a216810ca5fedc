// Package catalog is the read-only lookup of flight offerings by route and id.
package catalog

import (
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

// Catalog is immutable after New and safe for concurrent use.
type Catalog struct {
	byID    map[string]domain.FlightOffering
	byRoute map[domain.Route][]string
	order   []string
}

// New validates the seed offerings and indexes them.
func New(offerings []domain.FlightOffering) (*Catalog, error) {
	c := &Catalog{
		byID:    make(map[string]domain.FlightOffering, len(offerings)),
		byRoute: make(map[domain.Route][]string),
		order:   make([]string, 0, len(offerings)),
	}

	for _, o := range offerings {
		if o.ID == "" {
			return nil, fmt.Errorf("flight id is required")
		}
		if _, dup := c.byID[o.ID]; dup {
			return nil, fmt.Errorf("duplicate flight id %s", o.ID)
		}
		if err := o.Route.Validate(); err != nil {
			return nil, fmt.Errorf("flight %s: %w", o.ID, err)
		}
		if !o.BasePrice.IsPositive() {
			return nil, fmt.Errorf("flight %s: base price must be positive", o.ID)
		}
		if o.Capacity < 0 {
			return nil, fmt.Errorf("flight %s: seats cannot be negative", o.ID)
		}
		if o.Seats < 0 || o.Seats > o.Capacity {
			return nil, fmt.Errorf("flight %s: seats must be between 0 and capacity %d", o.ID, o.Capacity)
		}

		c.byID[o.ID] = o
		c.byRoute[o.Route] = append(c.byRoute[o.Route], o.ID)
		c.order = append(c.order, o.ID)
	}
	return c, nil
}

// ListFlights returns the offerings on the route operating on date. A valid route
// without matching offerings yields an empty slice, not an error.
func (c *Catalog) ListFlights(origin, destination domain.City, date time.Time) ([]domain.FlightOffering, error) {
	route := domain.Route{Origin: origin, Destination: destination}
	if err := route.Validate(); err != nil {
		return nil, err
	}

	ids := c.byRoute[route]
	flights := make([]domain.FlightOffering, 0, len(ids))
	for _, id := range ids {
		if o := c.byID[id]; o.OperatesOn(date) {
			flights = append(flights, o)
		}
	}
	return flights, nil
}

// GetFlight looks up one offering.
func (c *Catalog) GetFlight(flightID string) (domain.FlightOffering, error) {
	o, ok := c.byID[flightID]
	if !ok {
		return domain.FlightOffering{}, domain.Newf(domain.ErrFlightNotFound, "flight %s not found", flightID)
	}
	return o, nil
}

// Offerings returns every offering in seed order.
func (c *Catalog) Offerings() []domain.FlightOffering {
	out := make([]domain.FlightOffering, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}
