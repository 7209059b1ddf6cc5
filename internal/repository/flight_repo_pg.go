package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	List(ctx context.Context) ([]domain.Flight, error)
	// Save inserts the flight, assigning an ID when empty. On update the seat
	// counters are left untouched.
	Save(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id string) error
	FindByRoute(ctx context.Context, from, to domain.AirportCode) ([]domain.Flight, error)
	FindByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error)
	// ReserveSeats decrements available seats by n only if at least n are
	// available, otherwise it fails with ErrInsufficientSeats.
	ReserveSeats(ctx context.Context, id string, n int) (*domain.Flight, error)
	// ReleaseSeats increments available seats by n only if the result stays
	// within total seats, otherwise it fails with ErrSeatCountOverflow.
	ReleaseSeats(ctx context.Context, id string, n int) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline_code, flight_number, from_city, to_city, departure_time, arrival_time, total_seats, available_seats, price, status, created_at, updated_at`

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.AirlineCode, &f.FlightNumber, &f.FromCity, &f.ToCity, &f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.AvailableSeats, &f.Price, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) queryFlights(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	f, err := scanFlight(conn(ctx, r.db).QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
}

func (r *PGFlightRepository) FindByRoute(ctx context.Context, from, to domain.AirportCode) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE from_city=$1 AND to_city=$2 ORDER BY departure_time`, from, to)
}

func (r *PGFlightRepository) FindByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	return r.queryFlights(ctx, `SELECT `+flightColumns+` FROM flights WHERE airline_code=$1 ORDER BY departure_time`, airlineCode)
}

func (r *PGFlightRepository) Save(ctx context.Context, flight *domain.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	}
	row := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO flights (id, airline_code, flight_number, from_city, to_city, departure_time, arrival_time, total_seats, available_seats, price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			airline_code=EXCLUDED.airline_code, flight_number=EXCLUDED.flight_number,
			from_city=EXCLUDED.from_city, to_city=EXCLUDED.to_city,
			departure_time=EXCLUDED.departure_time, arrival_time=EXCLUDED.arrival_time,
			price=EXCLUDED.price, status=EXCLUDED.status, updated_at=now()
		RETURNING total_seats, available_seats, created_at, updated_at`,
		flight.ID, flight.AirlineCode, flight.FlightNumber, flight.FromCity, flight.ToCity, flight.DepartureTime, flight.ArrivalTime, flight.TotalSeats, flight.AvailableSeats, flight.Price, flight.Status)
	return row.Scan(&flight.TotalSeats, &flight.AvailableSeats, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGFlightRepository) ReserveSeats(ctx context.Context, id string, n int) (*domain.Flight, error) {
	f, err := scanFlight(conn(ctx, r.db).QueryRow(ctx, `UPDATE flights SET available_seats = available_seats - $2, updated_at = now()
		WHERE id=$1 AND available_seats >= $2 RETURNING `+flightColumns, id, n))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missingOr(ctx, id, ErrInsufficientSeats)
	}
	return f, err
}

func (r *PGFlightRepository) ReleaseSeats(ctx context.Context, id string, n int) (*domain.Flight, error) {
	f, err := scanFlight(conn(ctx, r.db).QueryRow(ctx, `UPDATE flights SET available_seats = available_seats + $2, updated_at = now()
		WHERE id=$1 AND available_seats + $2 <= total_seats RETURNING `+flightColumns, id, n))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.missingOr(ctx, id, ErrSeatCountOverflow)
	}
	return f, err
}

// missingOr tells a conditional update that matched no row because the flight
// is gone apart from one whose condition failed.
func (r *PGFlightRepository) missingOr(ctx context.Context, id string, conditionErr error) error {
	var exists bool
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM flights WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return conditionErr
}

var _ FlightRepository = (*PGFlightRepository)(nil)
