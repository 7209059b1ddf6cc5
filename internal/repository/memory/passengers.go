package memory

import (
	"context"
	"sort"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type passengerRepo struct {
	s *Store
}

func (r *passengerRepo) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	var out domain.Passenger
	err := r.s.read(ctx, func() error {
		p, ok := r.s.passengers[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *passengerRepo) Save(ctx context.Context, passenger *domain.Passenger) error {
	return r.s.write(ctx, func(j *journal) error {
		for id, p := range r.s.passengers {
			if id != passenger.ID && p.FlightID == passenger.FlightID && p.SeatNumber == passenger.SeatNumber {
				return repository.ErrSeatTaken
			}
		}
		if passenger.ID == "" {
			passenger.ID = uuid.NewString()
		}
		put(j, r.s.passengers, passenger.ID, *passenger)
		return nil
	})
}

func (r *passengerRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(j *journal) error {
		if !remove(j, r.s.passengers, id) {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *passengerRepo) FindByBooking(ctx context.Context, bookingID string) ([]domain.Passenger, error) {
	return r.FindByBookings(ctx, []string{bookingID})
}

func (r *passengerRepo) FindByBookings(ctx context.Context, bookingIDs []string) ([]domain.Passenger, error) {
	wanted := make(map[string]struct{}, len(bookingIDs))
	for _, id := range bookingIDs {
		wanted[id] = struct{}{}
	}

	out := make([]domain.Passenger, 0)
	err := r.s.read(ctx, func() error {
		for _, p := range r.s.passengers {
			if _, ok := wanted[p.BookingID]; ok {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingID != out[j].BookingID {
			return out[i].BookingID < out[j].BookingID
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out, err
}

func (r *passengerRepo) DeleteByBooking(ctx context.Context, bookingID string) error {
	return r.s.write(ctx, func(j *journal) error {
		for id, p := range r.s.passengers {
			if p.BookingID == bookingID {
				remove(j, r.s.passengers, id)
			}
		}
		return nil
	})
}

func (r *passengerRepo) ExistsBySeatAndBookings(ctx context.Context, seatNumber string, bookingIDs []string) (bool, error) {
	wanted := make(map[string]struct{}, len(bookingIDs))
	for _, id := range bookingIDs {
		wanted[id] = struct{}{}
	}

	var exists bool
	err := r.s.read(ctx, func() error {
		for _, p := range r.s.passengers {
			if _, ok := wanted[p.BookingID]; ok && p.SeatNumber == seatNumber {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

var _ repository.PassengerRepository = (*passengerRepo)(nil)
