// Package memory keeps every entity in process memory. It backs the
// "memory" storage driver and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type Store struct {
	// mu is held exclusively by a transaction for its whole run and by every
	// write made outside one. Reads outside a transaction share it, so they
	// never observe uncommitted writes.
	mu sync.RWMutex

	airlines   map[string]domain.Airline
	flights    map[string]domain.Flight
	bookings   map[string]domain.Booking
	passengers map[string]domain.Passenger
	users      map[string]domain.User

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		airlines:   make(map[string]domain.Airline),
		flights:    make(map[string]domain.Flight),
		bookings:   make(map[string]domain.Booking),
		passengers: make(map[string]domain.Passenger),
		users:      make(map[string]domain.User),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Airlines:   &airlineRepo{s: s},
		Flights:    &flightRepo{s: s},
		Bookings:   &bookingRepo{s: s},
		Passengers: &passengerRepo{s: s},
		Users:      &userRepo{s: s},
		Tx:         s,
	}
}

type txKey struct{}

// journal records how to revert each write made inside a transaction.
type journal struct {
	undo []func()
}

func journalFrom(ctx context.Context) *journal {
	j, _ := ctx.Value(txKey{}).(*journal)
	return j
}

// WithinTransaction runs fn with exclusive write access. Writes made through
// the context passed to fn are reverted when fn returns an error or panics.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if journalFrom(ctx) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	j := &journal{}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(j)
			panic(p)
		}
		if err != nil {
			s.rollback(j)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, j))
}

// rollback runs with mu held by the transaction.
func (s *Store) rollback(j *journal) {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
}

// write runs fn with exclusive access. Inside a transaction the lock is
// already held by WithinTransaction.
func (s *Store) write(ctx context.Context, fn func(j *journal) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j := journalFrom(ctx)
	if j == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(j)
}

// read waits for any running transaction to finish unless it is part of it.
func (s *Store) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if journalFrom(ctx) == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	return fn()
}

func put[K comparable, V any](j *journal, m map[K]V, k K, v V) {
	if j != nil {
		old, existed := m[k]
		j.undo = append(j.undo, func() {
			if existed {
				m[k] = old
			} else {
				delete(m, k)
			}
		})
	}
	m[k] = v
}

func remove[K comparable, V any](j *journal, m map[K]V, k K) bool {
	old, existed := m[k]
	if !existed {
		return false
	}
	if j != nil {
		j.undo = append(j.undo, func() { m[k] = old })
	}
	delete(m, k)
	return true
}

var _ repository.Transactor = (*Store)(nil)
