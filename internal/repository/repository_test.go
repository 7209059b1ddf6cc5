package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	repos := NewRepositories(pool)

	assert.NotNil(t, repos.Airlines)
	assert.NotNil(t, repos.Flights)
	assert.NotNil(t, repos.Bookings)
	assert.NotNil(t, repos.Passengers)
	assert.NotNil(t, repos.Users)
	assert.NotNil(t, repos.Tx)
}

func TestIsUniqueViolation(t *testing.T) {
	seatErr := &pgconn.PgError{Code: "23505", ConstraintName: "passengers_flight_seat_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"matching constraint", seatErr, "passengers_flight_seat_key", true},
		{"wrapped", fmt.Errorf("insert: %w", seatErr), "passengers_flight_seat_key", true},
		{"any constraint", seatErr, "", true},
		{"other constraint", seatErr, "bookings_pnr_key", false},
		{"other code", &pgconn.PgError{Code: "23503"}, "", false},
		{"plain error", errors.New("boom"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err, tt.constraint))
		})
	}
}

func TestNotFound(t *testing.T) {
	assert.ErrorIs(t, notFound(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, notFound(fmt.Errorf("scan: %w", pgx.ErrNoRows)), ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, notFound(other))
}

func TestTxFromContext(t *testing.T) {
	assert.Nil(t, txFromContext(context.Background()))

	pool := &pgxpool.Pool{}
	assert.Equal(t, querier(pool), conn(context.Background(), pool))
}

func TestMigrationsAreIdempotent(t *testing.T) {
	for i, m := range migrations {
		assert.Contains(t, m, "IF NOT EXISTS", "migration %d", i+1)
	}
}
