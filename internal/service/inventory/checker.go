// Package inventory checks a flight's seat counter and seat assignments
// against the bookings recorded for it.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

// Report describes one flight at the time it was checked.
type Report struct {
	FlightID       string
	TotalSeats     int
	AvailableSeats int
	// BookedSeats is the sum of seatsBooked over the flight's bookings.
	BookedSeats    int
	PassengerCount int
	// DuplicateSeats lists seat numbers held by more than one passenger.
	DuplicateSeats []string
}

// Consistent reports whether the counter is in range, agrees with the
// bookings, and no seat is assigned twice.
func (r Report) Consistent() bool {
	return r.AvailableSeats >= 0 &&
		r.AvailableSeats <= r.TotalSeats &&
		r.AvailableSeats == r.TotalSeats-r.BookedSeats &&
		r.PassengerCount == r.BookedSeats &&
		len(r.DuplicateSeats) == 0
}

type Checker struct {
	flights    repository.FlightRepository
	bookings   repository.BookingRepository
	passengers repository.PassengerRepository
}

func NewChecker(flights repository.FlightRepository, bookings repository.BookingRepository, passengers repository.PassengerRepository) *Checker {
	return &Checker{flights: flights, bookings: bookings, passengers: passengers}
}

// TakenSeats returns every seat number held by a passenger of an existing
// booking on flightID.
func (c *Checker) TakenSeats(ctx context.Context, flightID string) (map[string]struct{}, error) {
	passengers, _, err := c.flightPassengers(ctx, flightID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(passengers))
	for _, p := range passengers {
		taken[p.SeatNumber] = struct{}{}
	}
	return taken, nil
}

// FirstConflict returns the first of seats, in request order, that is already
// taken on flightID, or "" when all are free. Existing seats are loaded once
// per call.
func (c *Checker) FirstConflict(ctx context.Context, flightID string, seats []string) (string, error) {
	if len(seats) == 0 {
		return "", nil
	}
	taken, err := c.TakenSeats(ctx, flightID)
	if err != nil {
		return "", err
	}
	for _, seat := range seats {
		if _, ok := taken[seat]; ok {
			return seat, nil
		}
	}
	return "", nil
}

func (c *Checker) CheckFlight(ctx context.Context, flightID string) (Report, error) {
	flight, err := c.flights.GetByID(ctx, flightID)
	if err != nil {
		return Report{}, fmt.Errorf("load flight %s: %w", flightID, err)
	}
	return c.check(ctx, flight)
}

// CheckAll checks every flight and returns the reports that are not
// consistent.
func (c *Checker) CheckAll(ctx context.Context) ([]Report, error) {
	flights, err := c.flights.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}

	mismatched := make([]Report, 0)
	for i := range flights {
		report, err := c.check(ctx, &flights[i])
		if err != nil {
			return nil, err
		}
		if !report.Consistent() {
			logger.WithContext(ctx).Warn("Inventory mismatch",
				"flight_id", report.FlightID,
				"total_seats", report.TotalSeats,
				"available_seats", report.AvailableSeats,
				"booked_seats", report.BookedSeats,
				"passengers", report.PassengerCount,
				"duplicate_seats", report.DuplicateSeats)
			mismatched = append(mismatched, report)
		}
	}
	return mismatched, nil
}

func (c *Checker) check(ctx context.Context, flight *domain.Flight) (Report, error) {
	passengers, bookings, err := c.flightPassengers(ctx, flight.ID)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		FlightID:       flight.ID,
		TotalSeats:     flight.TotalSeats,
		AvailableSeats: flight.AvailableSeats,
		PassengerCount: len(passengers),
	}
	for _, b := range bookings {
		report.BookedSeats += b.SeatsBooked
	}

	seen := make(map[string]int, len(passengers))
	for _, p := range passengers {
		seen[p.SeatNumber]++
	}
	for seat, n := range seen {
		if n > 1 {
			report.DuplicateSeats = append(report.DuplicateSeats, seat)
		}
	}
	sort.Strings(report.DuplicateSeats)

	return report, nil
}

func (c *Checker) flightPassengers(ctx context.Context, flightID string) ([]domain.Passenger, []domain.Booking, error) {
	bookings, err := c.bookings.FindByFlight(ctx, flightID)
	if err != nil {
		return nil, nil, fmt.Errorf("load bookings of flight %s: %w", flightID, err)
	}
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	passengers, err := c.passengers.FindByBookings(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load passengers of flight %s: %w", flightID, err)
	}
	return passengers, bookings, nil
}
