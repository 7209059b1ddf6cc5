package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type bookingRepo struct {
	s *Store
}

func cloneBooking(b domain.Booking) domain.Booking {
	b.PassengerIDs = slices.Clone(b.PassengerIDs)
	return b
}

func (r *bookingRepo) find(ctx context.Context, match func(domain.Booking) bool) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.s.read(ctx, func() error {
		for _, b := range r.s.bookings {
			if match(b) {
				c := cloneBooking(b)
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepo) filter(ctx context.Context, keep func(domain.Booking) bool) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0)
	err := r.s.read(ctx, func() error {
		for _, b := range r.s.bookings {
			if keep(b) {
				out = append(out, cloneBooking(b))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.find(ctx, func(b domain.Booking) bool { return b.ID == id })
}

func (r *bookingRepo) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	return r.find(ctx, func(b domain.Booking) bool { return b.PNR == pnr })
}

func (r *bookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	return r.filter(ctx, func(domain.Booking) bool { return true })
}

func (r *bookingRepo) FindByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	return r.filter(ctx, func(b domain.Booking) bool { return b.FlightID == flightID })
}

func (r *bookingRepo) FindByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.filter(ctx, func(b domain.Booking) bool { return b.UserID == userID })
}

func (r *bookingRepo) Save(ctx context.Context, booking *domain.Booking) error {
	return r.s.write(ctx, func(j *journal) error {
		for id, b := range r.s.bookings {
			if id != booking.ID && b.PNR == booking.PNR {
				return repository.ErrAlreadyExists
			}
		}
		if booking.ID == "" {
			booking.ID = uuid.NewString()
		}
		if existing, ok := r.s.bookings[booking.ID]; ok {
			booking.CreatedAt = existing.CreatedAt
		} else {
			booking.CreatedAt = r.s.now()
		}
		put(j, r.s.bookings, booking.ID, cloneBooking(*booking))
		return nil
	})
}

func (r *bookingRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(j *journal) error {
		if !remove(j, r.s.bookings, id) {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.BookingRepository = (*bookingRepo)(nil)
