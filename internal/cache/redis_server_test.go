package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := NewRedisCache(config.RedisConfig{Addr: srv.Addr()}, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, srv
}

func TestSeatLock_AcquireAndRelease(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	token, err := c.AcquireSeatLock(ctx, "f-1", "A1", 30*time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, srv.Exists("lock:flight:f-1:seat:A1"))

	held, err := c.AcquireSeatLock(ctx, "f-1", "A1", 30*time.Second)
	require.NoError(t, err)
	assert.Empty(t, held)

	// another seat of the same flight is independent
	other, err := c.AcquireSeatLock(ctx, "f-1", "A2", 30*time.Second)
	require.NoError(t, err)
	assert.NotEmpty(t, other)

	require.NoError(t, c.ReleaseSeatLock(ctx, "f-1", "A1", token))
	assert.False(t, srv.Exists("lock:flight:f-1:seat:A1"))

	again, err := c.AcquireSeatLock(ctx, "f-1", "A1", 30*time.Second)
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestSeatLock_ReleaseWithForeignToken(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	first, err := c.AcquireSeatLock(ctx, "f-1", "A1", 30*time.Second)
	require.NoError(t, err)

	// the first lock expires and a second request takes the seat
	srv.FastForward(31 * time.Second)
	second, err := c.AcquireSeatLock(ctx, "f-1", "A1", 30*time.Second)
	require.NoError(t, err)
	require.NotEmpty(t, second)

	require.NoError(t, c.ReleaseSeatLock(ctx, "f-1", "A1", first))
	got, err := srv.Get("lock:flight:f-1:seat:A1")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestRouteCache_RoundTrip(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	miss, err := c.GetRouteFlights(ctx, domain.AirportDEL, domain.AirportBOM)
	require.NoError(t, err)
	assert.Nil(t, miss)

	dep := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	flights := []domain.Flight{{ID: "f-1", FromCity: domain.AirportDEL, ToCity: domain.AirportBOM, DepartureTime: dep, ArrivalTime: dep.Add(2 * time.Hour)}}
	require.NoError(t, c.SetRouteFlights(ctx, domain.AirportDEL, domain.AirportBOM, flights))
	assert.Equal(t, time.Minute, srv.TTL("cache:flights:route:DEL:BOM"))

	hit, err := c.GetRouteFlights(ctx, domain.AirportDEL, domain.AirportBOM)
	require.NoError(t, err)
	assert.Equal(t, flights, hit)

	require.NoError(t, c.InvalidateRoute(ctx, domain.AirportDEL, domain.AirportBOM))
	miss, err = c.GetRouteFlights(ctx, domain.AirportDEL, domain.AirportBOM)
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestRouteCache_CorruptEntry(t *testing.T) {
	c, srv := newTestCache(t)
	require.NoError(t, srv.Set("cache:flights:route:DEL:BOM", "{not json"))

	_, err := c.GetRouteFlights(context.Background(), domain.AirportDEL, domain.AirportBOM)
	assert.ErrorContains(t, err, "decode cached flights")
}
