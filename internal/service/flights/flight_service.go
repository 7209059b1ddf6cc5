package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/internal/clock"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type FlightUseCase interface {
	CreateFlight(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Search(ctx context.Context, from, to domain.AirportCode, date time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error)
}

// RouteCache caches the flights of a route, before any date filter.
type RouteCache interface {
	GetRouteFlights(ctx context.Context, from, to domain.AirportCode) ([]domain.Flight, error)
	SetRouteFlights(ctx context.Context, from, to domain.AirportCode, flights []domain.Flight) error
	InvalidateRoute(ctx context.Context, from, to domain.AirportCode) error
}

type CreateFlightInput struct {
	AirlineCode   string
	FlightNumber  string
	FromCity      domain.AirportCode
	ToCity        domain.AirportCode
	DepartureTime time.Time
	ArrivalTime   time.Time
	TotalSeats    int
	Price         float64
	Status        domain.FlightStatus
}

type FlightService struct {
	flights  repository.FlightRepository
	airlines repository.AirlineRepository
	cache    RouteCache
	clock    clock.Clock
	location *time.Location
}

type FlightServiceOption func(*FlightService)

func WithCache(cache RouteCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithClock(c clock.Clock) FlightServiceOption {
	return func(s *FlightService) {
		s.clock = c
	}
}

// WithLocation sets the time zone whose calendar dates search matches
// departures against. Defaults to UTC.
func WithLocation(loc *time.Location) FlightServiceOption {
	return func(s *FlightService) {
		s.location = loc
	}
}

func NewFlightService(flights repository.FlightRepository, airlines repository.AirlineRepository, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{flights: flights, airlines: airlines, clock: clock.Real{}, location: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateFlight stores a new flight with every seat available.
func (s *FlightService) CreateFlight(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.airlines.GetByCode(ctx, input.AirlineCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Airline not found")
		}
		return nil, fmt.Errorf("load airline: %w", err)
	}

	if input.FromCity == input.ToCity {
		return nil, domain.BusinessRule("Source and destination cannot be same")
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, domain.BusinessRule("Arrival must be after departure")
	}
	if !input.DepartureTime.After(s.clock.Now()) {
		return nil, domain.BusinessRule("Flight departure must be in future")
	}

	status := input.Status
	if status == "" {
		status = domain.FlightStatusScheduled
	}

	flight := &domain.Flight{
		AirlineCode:    input.AirlineCode,
		FlightNumber:   input.FlightNumber,
		FromCity:       input.FromCity,
		ToCity:         input.ToCity,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		TotalSeats:     input.TotalSeats,
		AvailableSeats: input.TotalSeats,
		Price:          input.Price,
		Status:         status,
	}
	if err := s.flights.Save(ctx, flight); err != nil {
		return nil, fmt.Errorf("save flight: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateRoute(ctx, flight.FromCity, flight.ToCity); err != nil {
			logger.WithContext(ctx).Warn("Failed to invalidate route cache", "from", flight.FromCity, "to", flight.ToCity, "error", err)
		}
	}

	logger.WithContext(ctx).Info("Flight created", "flight_id", flight.ID, "airline", flight.AirlineCode, "from", flight.FromCity, "to", flight.ToCity)
	return flight, nil
}

// Search returns the flights on the route whose local departure date in the
// service location equals date's year, month and day.
func (s *FlightService) Search(ctx context.Context, from, to domain.AirportCode, date time.Time) ([]domain.Flight, error) {
	if !from.Valid() {
		return nil, domain.BusinessRule(fmt.Sprintf("Invalid airport code: %s", from))
	}
	if !to.Valid() {
		return nil, domain.BusinessRule(fmt.Sprintf("Invalid airport code: %s", to))
	}

	route, err := s.routeFlights(ctx, from, to)
	if err != nil {
		return nil, err
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.location)
	matches := make([]domain.Flight, 0, len(route))
	for _, f := range route {
		if f.DepartsOn(day) {
			matches = append(matches, f)
		}
	}
	return matches, nil
}

func (s *FlightService) routeFlights(ctx context.Context, from, to domain.AirportCode) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRouteFlights(ctx, from, to)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			logger.WithContext(ctx).Warn("Route cache read failed", "from", from, "to", to, "error", err)
		}
	}

	route, err := s.flights.FindByRoute(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("find flights by route: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetRouteFlights(ctx, from, to, route); err != nil {
			logger.WithContext(ctx).Warn("Route cache write failed", "from", from, "to", to, "error", err)
		}
	}
	return route, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("Flight not found")
		}
		return nil, fmt.Errorf("load flight: %w", err)
	}
	return flight, nil
}

func (s *FlightService) ListByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	flights, err := s.flights.FindByAirline(ctx, airlineCode)
	if err != nil {
		return nil, fmt.Errorf("find flights by airline: %w", err)
	}
	return flights, nil
}

func (in CreateFlightInput) validate() error {
	switch {
	case in.AirlineCode == "":
		return domain.BusinessRule("airlineCode is required")
	case in.FlightNumber == "":
		return domain.BusinessRule("flightNumber is required")
	case !in.FromCity.Valid():
		return domain.BusinessRule(fmt.Sprintf("Invalid airport code: %s", in.FromCity))
	case !in.ToCity.Valid():
		return domain.BusinessRule(fmt.Sprintf("Invalid airport code: %s", in.ToCity))
	case in.TotalSeats < 1:
		return domain.BusinessRule("totalSeats must be >= 1")
	case in.Price < 0:
		return domain.BusinessRule("price must be >= 0")
	case in.Status != "" && !in.Status.Valid():
		return domain.BusinessRule(fmt.Sprintf("Invalid flight status: %s", in.Status))
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
