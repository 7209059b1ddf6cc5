package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes a lock only while it still carries the caller's token,
// so an expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetRouteFlights returns the cached flights on a route. A miss returns
// nil flights and a nil error.
func (c *RedisCache) GetRouteFlights(ctx context.Context, from, to domain.AirportCode) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, routeKey(from, to)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decodeFlights(data)
}

func (c *RedisCache) SetRouteFlights(ctx context.Context, from, to domain.AirportCode, flights []domain.Flight) error {
	payload, err := encodeFlights(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(from, to), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateRoute(ctx context.Context, from, to domain.AirportCode) error {
	return c.client.Del(ctx, routeKey(from, to)).Err()
}

// AcquireSeatLock sets a short-lived lock on one seat of a flight. It returns
// the lock token, or an empty token when someone else holds the seat.
func (c *RedisCache) AcquireSeatLock(ctx context.Context, flightID, seat string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, seatLockKey(flightID, seat), token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return token, nil
}

func (c *RedisCache) ReleaseSeatLock(ctx context.Context, flightID, seat, token string) error {
	return releaseScript.Run(ctx, c.client, []string{seatLockKey(flightID, seat)}, token).Err()
}

func encodeFlights(flights []domain.Flight) ([]byte, error) {
	if flights == nil {
		flights = []domain.Flight{}
	}
	return json.Marshal(flights)
}

func decodeFlights(data []byte) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, fmt.Errorf("decode cached flights: %w", err)
	}
	return flights, nil
}

func routeKey(from, to domain.AirportCode) string {
	return fmt.Sprintf("cache:flights:route:%s:%s", from, to)
}

func seatLockKey(flightID, seat string) string {
	return fmt.Sprintf("lock:flight:%s:seat:%s", flightID, seat)
}
