package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// SeedFlight is the on-disk shape of one catalog entry.
type SeedFlight struct {
	ID          string   `yaml:"id"`
	Origin      string   `yaml:"origin"`
	Destination string   `yaml:"destination"`
	Price       string   `yaml:"price"`
	Departure   string   `yaml:"departure"`
	Arrival     string   `yaml:"arrival"`
	Seats       int      `yaml:"seats"`
	Days        []string `yaml:"days"`
}

type seedFile struct {
	Flights []SeedFlight `yaml:"flights"`
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// DefaultOfferings returns the embedded catalog.
func DefaultOfferings() ([]domain.FlightOffering, error) {
	return ParseSeed(defaultSeed)
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) ([]domain.FlightOffering, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog seed: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML catalog document.
func ParseSeed(data []byte) ([]domain.FlightOffering, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog seed: %w", err)
	}

	offerings := make([]domain.FlightOffering, 0, len(f.Flights))
	for i, sf := range f.Flights {
		o, err := sf.Offering()
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		offerings = append(offerings, o)
	}
	return offerings, nil
}

// Offering converts a seed entry into a domain offering.
func (sf SeedFlight) Offering() (domain.FlightOffering, error) {
	route, err := domain.ParseRoute(sf.Origin, sf.Destination)
	if err != nil {
		return domain.FlightOffering{}, err
	}
	price, err := decimal.NewFromString(strings.TrimSpace(sf.Price))
	if err != nil {
		return domain.FlightOffering{}, fmt.Errorf("flight %s: invalid price %q: %w", sf.ID, sf.Price, err)
	}

	days := make([]time.Weekday, 0, len(sf.Days))
	for _, d := range sf.Days {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(d))]
		if !ok {
			return domain.FlightOffering{}, fmt.Errorf("flight %s: unknown weekday %q", sf.ID, d)
		}
		days = append(days, wd)
	}

	return domain.FlightOffering{
		ID:            strings.TrimSpace(sf.ID),
		Route:         route,
		BasePrice:     price,
		Departure:     sf.Departure,
		Arrival:       sf.Arrival,
		Capacity:      sf.Seats,
		Seats:         sf.Seats,
		OperatingDays: days,
	}, nil
}
