package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	// Save inserts the booking, assigning an ID when empty, or updates it.
	// A PNR already used by another booking fails with ErrAlreadyExists.
	Save(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id string) error
	FindByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, pnr, user_id, flight_id, seats_booked, meal_type, passenger_ids, created_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.PNR, &b.UserID, &b.FlightID, &b.SeatsBooked, &b.MealType, &b.PassengerIDs, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) queryBookings(ctx context.Context, sql string, args ...any) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE pnr=$1`, pnr))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at`)
}

func (r *PGBookingRepository) FindByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 ORDER BY created_at`, flightID)
}

func (r *PGBookingRepository) FindByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.queryBookings(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at`, userID)
}

func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	passengerIDs := booking.PassengerIDs
	if passengerIDs == nil {
		passengerIDs = []string{}
	}
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO bookings (id, pnr, user_id, flight_id, seats_booked, meal_type, passenger_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			pnr=EXCLUDED.pnr, user_id=EXCLUDED.user_id, flight_id=EXCLUDED.flight_id,
			seats_booked=EXCLUDED.seats_booked, meal_type=EXCLUDED.meal_type, passenger_ids=EXCLUDED.passenger_ids
		RETURNING created_at`,
		booking.ID, booking.PNR, booking.UserID, booking.FlightID, booking.SeatsBooked, booking.MealType, passengerIDs).
		Scan(&booking.CreatedAt)
	if isUniqueViolation(err, "bookings_pnr_key") {
		return fmt.Errorf("pnr %s: %w", booking.PNR, ErrAlreadyExists)
	}
	return err
}

func (r *PGBookingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
