package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// City is one of the fixed set of served city codes.
type City string

const (
	CityNewYork    City = "NYC"
	CityLosAngeles City = "LAX"
	CityLondon     City = "LON"
	CityParis      City = "PAR"
	CityTokyo      City = "TYO"
)

var cities = map[City]struct{}{
	CityNewYork:    {},
	CityLosAngeles: {},
	CityLondon:     {},
	CityParis:      {},
	CityTokyo:      {},
}

// ParseCity accepts a city code case-insensitively.
func ParseCity(s string) (City, error) {
	c := City(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := cities[c]; !ok {
		return "", Newf(ErrInvalidRoute, "unknown city code %q", s)
	}
	return c, nil
}

// Route is an origin-destination pair.
type Route struct {
	Origin      City `json:"origin" yaml:"origin"`
	Destination City `json:"destination" yaml:"destination"`
}

// ParseRoute validates both codes and rejects identical endpoints.
func ParseRoute(origin, destination string) (Route, error) {
	o, err := ParseCity(origin)
	if err != nil {
		return Route{}, err
	}
	d, err := ParseCity(destination)
	if err != nil {
		return Route{}, err
	}
	r := Route{Origin: o, Destination: d}
	if err := r.Validate(); err != nil {
		return Route{}, err
	}
	return r, nil
}

func (r Route) Validate() error {
	if _, ok := cities[r.Origin]; !ok {
		return Newf(ErrInvalidRoute, "unknown city code %q", r.Origin)
	}
	if _, ok := cities[r.Destination]; !ok {
		return Newf(ErrInvalidRoute, "unknown city code %q", r.Destination)
	}
	if r.Origin == r.Destination {
		return Newf(ErrInvalidRoute, "origin and destination cannot be the same")
	}
	return nil
}

func (r Route) String() string {
	return fmt.Sprintf("%s-%s", r.Origin, r.Destination)
}

// FlightOffering is a scheduled flight on a route. Static fields never change after
// the catalog is loaded; Seats is only a snapshot; the live counter belongs to inventory.
type FlightOffering struct {
	ID            string          `json:"id"`
	Route         Route           `json:"route"`
	BasePrice     decimal.Decimal `json:"price"`
	Departure     string          `json:"departure"`
	Arrival       string          `json:"arrival"`
	Capacity      int             `json:"capacity"`
	Seats         int             `json:"seats"`
	OperatingDays []time.Weekday  `json:"operating_days,omitempty"`
}

// OperatesOn reports whether the offering flies on the weekday of date.
// An empty schedule means the flight operates daily.
func (f FlightOffering) OperatesOn(date time.Time) bool {
	if len(f.OperatingDays) == 0 {
		return true
	}
	for _, d := range f.OperatingDays {
		if d == date.Weekday() {
			return true
		}
	}
	return false
}
