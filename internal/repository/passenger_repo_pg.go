package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Passenger, error)
	// Save inserts the passenger, assigning an ID when empty, or updates it.
	// A seat number already held on the same flight fails with ErrSeatTaken.
	Save(ctx context.Context, passenger *domain.Passenger) error
	Delete(ctx context.Context, id string) error
	FindByBooking(ctx context.Context, bookingID string) ([]domain.Passenger, error)
	FindByBookings(ctx context.Context, bookingIDs []string) ([]domain.Passenger, error)
	DeleteByBooking(ctx context.Context, bookingID string) error
	ExistsBySeatAndBookings(ctx context.Context, seatNumber string, bookingIDs []string) (bool, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

const passengerColumns = `id, name, gender, age, seat_number, booking_id, flight_id`

func scanPassenger(row pgx.Row) (*domain.Passenger, error) {
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.Name, &p.Gender, &p.Age, &p.SeatNumber, &p.BookingID, &p.FlightID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGPassengerRepository) queryPassengers(ctx context.Context, sql string, args ...any) ([]domain.Passenger, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, *p)
	}
	return passengers, rows.Err()
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	p, err := scanPassenger(conn(ctx, r.db).QueryRow(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *PGPassengerRepository) Save(ctx context.Context, passenger *domain.Passenger) error {
	if passenger.ID == "" {
		passenger.ID = uuid.NewString()
	}
	_, err := conn(ctx, r.db).Exec(ctx, `INSERT INTO passengers (id, name, gender, age, seat_number, booking_id, flight_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, gender=EXCLUDED.gender, age=EXCLUDED.age,
			seat_number=EXCLUDED.seat_number, booking_id=EXCLUDED.booking_id, flight_id=EXCLUDED.flight_id`,
		passenger.ID, passenger.Name, passenger.Gender, passenger.Age, passenger.SeatNumber, passenger.BookingID, passenger.FlightID)
	if isUniqueViolation(err, "passengers_flight_seat_key") {
		return fmt.Errorf("seat %s: %w", passenger.SeatNumber, ErrSeatTaken)
	}
	return err
}

func (r *PGPassengerRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM passengers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGPassengerRepository) FindByBooking(ctx context.Context, bookingID string) ([]domain.Passenger, error) {
	return r.queryPassengers(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE booking_id=$1 ORDER BY seat_number`, bookingID)
}

func (r *PGPassengerRepository) FindByBookings(ctx context.Context, bookingIDs []string) ([]domain.Passenger, error) {
	if len(bookingIDs) == 0 {
		return []domain.Passenger{}, nil
	}
	return r.queryPassengers(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE booking_id = ANY($1) ORDER BY booking_id, seat_number`, bookingIDs)
}

func (r *PGPassengerRepository) DeleteByBooking(ctx context.Context, bookingID string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM passengers WHERE booking_id=$1`, bookingID)
	return err
}

func (r *PGPassengerRepository) ExistsBySeatAndBookings(ctx context.Context, seatNumber string, bookingIDs []string) (bool, error) {
	if len(bookingIDs) == 0 {
		return false, nil
	}
	var exists bool
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM passengers WHERE seat_number=$1 AND booking_id = ANY($2))`, seatNumber, bookingIDs).Scan(&exists)
	return exists, err
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
