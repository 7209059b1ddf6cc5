package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when a natural key (airline code, user
	// email, PNR) is already taken.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrSeatTaken is returned when a passenger would share a seat number with
	// another passenger on the same flight.
	ErrSeatTaken = errors.New("seat already taken on flight")
	// ErrInsufficientSeats is returned by ReserveSeats when the flight has
	// fewer available seats than requested.
	ErrInsufficientSeats = errors.New("not enough available seats")
	// ErrSeatCountOverflow is returned by ReleaseSeats when the release would
	// push available seats above total seats.
	ErrSeatCountOverflow = errors.New("available seats would exceed total seats")
)

// Transactor runs fn so that every repository call made with the context it
// receives commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories groups the per-entity stores and the transaction boundary that
// spans them.
type Repositories struct {
	Airlines   AirlineRepository
	Flights    FlightRepository
	Bookings   BookingRepository
	Passengers PassengerRepository
	Users      UserRepository
	Tx         Transactor
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Airlines:   NewAirlineRepository(db),
		Flights:    NewFlightRepository(db),
		Bookings:   NewBookingRepository(db),
		Passengers: NewPassengerRepository(db),
		Users:      NewUserRepository(db),
		Tx:         NewTxManager(db),
	}
}
