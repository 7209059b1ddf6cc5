package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// newTestPool starts a throwaway Postgres and migrates it. The test is
// skipped when no container runtime is available.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("flightbooking"),
		postgres.WithUsername("flightbooking"),
		postgres.WithPassword("flightbooking"),
		postgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if container != nil {
			assert.NoError(t, container.Terminate(context.Background()))
		}
	})
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	// a second run must be a no-op
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func TestPostgres(t *testing.T) {
	pool := newTestPool(t)
	repos := NewRepositories(pool)
	ctx := context.Background()

	require.NoError(t, repos.Airlines.Create(ctx, &domain.Airline{Code: "AI", Name: "Air India"}))
	user := &domain.User{Name: "Asha Rao", Email: "asha@example.com"}
	require.NoError(t, repos.Users.Save(ctx, user))

	dep := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	flight := &domain.Flight{
		AirlineCode:    "AI",
		FlightNumber:   "AI101",
		FromCity:       domain.AirportDEL,
		ToCity:         domain.AirportBOM,
		DepartureTime:  dep,
		ArrivalTime:    dep.Add(2 * time.Hour),
		TotalSeats:     3,
		AvailableSeats: 3,
		Price:          4500,
		Status:         domain.FlightStatusScheduled,
	}
	require.NoError(t, repos.Flights.Save(ctx, flight))

	t.Run("airline and user keys", func(t *testing.T) {
		err := repos.Airlines.Create(ctx, &domain.Airline{Code: "AI", Name: "Other"})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		err = repos.Users.Save(ctx, &domain.User{Name: "Copy", Email: "ASHA@example.com"})
		assert.ErrorIs(t, err, ErrAlreadyExists)

		got, err := repos.Users.GetByEmail(ctx, "asha@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		_, err = repos.Users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("route lookup", func(t *testing.T) {
		found, err := repos.Flights.FindByRoute(ctx, domain.AirportDEL, domain.AirportBOM)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.True(t, dep.Equal(found[0].DepartureTime))

		found, err = repos.Flights.FindByRoute(ctx, domain.AirportBOM, domain.AirportDEL)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("save keeps seat counters", func(t *testing.T) {
		_, err := repos.Flights.ReserveSeats(ctx, flight.ID, 1)
		require.NoError(t, err)

		update := *flight
		update.AvailableSeats = 3
		update.Price = 5000
		require.NoError(t, repos.Flights.Save(ctx, &update))
		assert.Equal(t, 2, update.AvailableSeats)

		_, err = repos.Flights.ReleaseSeats(ctx, flight.ID, 1)
		require.NoError(t, err)
	})

	t.Run("conditional seat updates", func(t *testing.T) {
		f, err := repos.Flights.ReserveSeats(ctx, flight.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, f.AvailableSeats)

		_, err = repos.Flights.ReserveSeats(ctx, flight.ID, 2)
		assert.ErrorIs(t, err, ErrInsufficientSeats)

		_, err = repos.Flights.ReleaseSeats(ctx, flight.ID, 3)
		assert.ErrorIs(t, err, ErrSeatCountOverflow)

		f, err = repos.Flights.ReleaseSeats(ctx, flight.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, f.AvailableSeats)

		_, err = repos.Flights.ReserveSeats(ctx, "missing", 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("seat and pnr uniqueness", func(t *testing.T) {
		b := &domain.Booking{PNR: "PNRUNIQ01", UserID: user.ID, FlightID: flight.ID, SeatsBooked: 1, MealType: domain.MealTypeVeg}
		require.NoError(t, repos.Bookings.Save(ctx, b))
		p := &domain.Passenger{Name: "A", Gender: domain.GenderFemale, Age: 30, SeatNumber: "A1", BookingID: b.ID, FlightID: flight.ID}
		require.NoError(t, repos.Passengers.Save(ctx, p))

		clash := &domain.Passenger{Name: "B", Gender: domain.GenderMale, Age: 31, SeatNumber: "A1", BookingID: b.ID, FlightID: flight.ID}
		assert.ErrorIs(t, repos.Passengers.Save(ctx, clash), ErrSeatTaken)

		dup := &domain.Booking{PNR: "PNRUNIQ01", UserID: user.ID, FlightID: flight.ID, SeatsBooked: 1, MealType: domain.MealTypeVeg}
		assert.ErrorIs(t, repos.Bookings.Save(ctx, dup), ErrAlreadyExists)

		taken, err := repos.Passengers.ExistsBySeatAndBookings(ctx, "A1", []string{b.ID})
		require.NoError(t, err)
		assert.True(t, taken)

		found, err := repos.Passengers.FindByBookings(ctx, []string{b.ID, "other"})
		require.NoError(t, err)
		assert.Len(t, found, 1)

		// passengers go with their booking
		require.NoError(t, repos.Bookings.Delete(ctx, b.ID))
		left, err := repos.Passengers.FindByBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})

	t.Run("transaction rolls back every write", func(t *testing.T) {
		failure := errors.New("abort")
		var bookingID string
		err := repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
			b := &domain.Booking{PNR: "PNRROLL01", UserID: user.ID, FlightID: flight.ID, SeatsBooked: 1, MealType: domain.MealTypeNonVeg}
			if err := repos.Bookings.Save(ctx, b); err != nil {
				return err
			}
			bookingID = b.ID
			p := &domain.Passenger{Name: "C", Gender: domain.GenderOther, Age: 40, SeatNumber: "B2", BookingID: b.ID, FlightID: flight.ID}
			if err := repos.Passengers.Save(ctx, p); err != nil {
				return err
			}
			if _, err := repos.Flights.ReserveSeats(ctx, flight.ID, 1); err != nil {
				return err
			}
			return failure
		})
		assert.ErrorIs(t, err, failure)

		_, err = repos.Bookings.GetByID(ctx, bookingID)
		assert.ErrorIs(t, err, ErrNotFound)
		got, err := repos.Flights.GetByID(ctx, flight.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.AvailableSeats)
	})

	t.Run("transaction commits", func(t *testing.T) {
		b := &domain.Booking{PNR: "PNRCOMMIT", UserID: user.ID, FlightID: flight.ID, SeatsBooked: 1, MealType: domain.MealTypeVeg}
		err := repos.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := repos.Bookings.Save(ctx, b); err != nil {
				return err
			}
			_, err := repos.Flights.ReserveSeats(ctx, flight.ID, 1)
			return err
		})
		require.NoError(t, err)

		got, err := repos.Bookings.GetByPNR(ctx, "PNRCOMMIT")
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		byUser, err := repos.Bookings.FindByUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, byUser, 1)
	})
}
