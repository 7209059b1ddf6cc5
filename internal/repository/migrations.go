package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	log := logger.WithContext(ctx)
	log.Info("Running database migrations...")

	for i, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info("All migrations completed successfully", "count", len(migrations))
	return nil
}

var migrations = []string{
	createAirlinesTable,
	createUsersTable,
	createUsersEmailIndex,
	createFlightsTable,
	createFlightsRouteIndex,
	createFlightsAirlineIndex,
	createBookingsTable,
	createBookingsFlightIndex,
	createBookingsUserIndex,
	createPassengersTable,
	createPassengersBookingIndex,
}

const createAirlinesTable = `
CREATE TABLE IF NOT EXISTS airlines (
    code TEXT PRIMARY KEY,
    name TEXT NOT NULL
);`

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL
);`

const createUsersEmailIndex = `CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email));`

// airline_code has no foreign key: airlines are never cascaded and may be
// deleted while their flights stay.
const createFlightsTable = `
CREATE TABLE IF NOT EXISTS flights (
    id TEXT PRIMARY KEY,
    airline_code TEXT NOT NULL,
    flight_number TEXT NOT NULL,
    from_city TEXT NOT NULL,
    to_city TEXT NOT NULL,
    departure_time TIMESTAMPTZ NOT NULL,
    arrival_time TIMESTAMPTZ NOT NULL,
    total_seats INTEGER NOT NULL CHECK (total_seats >= 1),
    available_seats INTEGER NOT NULL,
    price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
    status TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT flights_route_check CHECK (from_city <> to_city),
    CONSTRAINT flights_times_check CHECK (arrival_time > departure_time),
    CONSTRAINT flights_seats_check CHECK (available_seats >= 0 AND available_seats <= total_seats)
);`

const createFlightsRouteIndex = `CREATE INDEX IF NOT EXISTS flights_route_idx ON flights (from_city, to_city);`

const createFlightsAirlineIndex = `CREATE INDEX IF NOT EXISTS flights_airline_idx ON flights (airline_code);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id TEXT PRIMARY KEY,
    pnr TEXT NOT NULL,
    user_id TEXT NOT NULL REFERENCES users (id),
    flight_id TEXT NOT NULL REFERENCES flights (id),
    seats_booked INTEGER NOT NULL CHECK (seats_booked >= 1),
    meal_type TEXT NOT NULL,
    passenger_ids TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT bookings_pnr_key UNIQUE (pnr)
);`

const createBookingsFlightIndex = `CREATE INDEX IF NOT EXISTS bookings_flight_idx ON bookings (flight_id);`

const createBookingsUserIndex = `CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id);`

const createPassengersTable = `
CREATE TABLE IF NOT EXISTS passengers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    gender TEXT NOT NULL,
    age INTEGER NOT NULL CHECK (age BETWEEN 1 AND 120),
    seat_number TEXT NOT NULL,
    booking_id TEXT NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
    flight_id TEXT NOT NULL REFERENCES flights (id),
    CONSTRAINT passengers_flight_seat_key UNIQUE (flight_id, seat_number)
);`

const createPassengersBookingIndex = `CREATE INDEX IF NOT EXISTS passengers_booking_idx ON passengers (booking_id);`
