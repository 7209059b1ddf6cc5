package memory

import (
	"context"
	"sort"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type flightRepo struct {
	s *Store
}

func (r *flightRepo) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	var out domain.Flight
	err := r.s.read(ctx, func() error {
		f, ok := r.s.flights[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *flightRepo) filter(ctx context.Context, keep func(domain.Flight) bool) ([]domain.Flight, error) {
	out := make([]domain.Flight, 0)
	err := r.s.read(ctx, func() error {
		for _, f := range r.s.flights {
			if keep(f) {
				out = append(out, f)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DepartureTime.Equal(out[j].DepartureTime) {
			return out[i].DepartureTime.Before(out[j].DepartureTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *flightRepo) List(ctx context.Context) ([]domain.Flight, error) {
	return r.filter(ctx, func(domain.Flight) bool { return true })
}

func (r *flightRepo) FindByRoute(ctx context.Context, from, to domain.AirportCode) ([]domain.Flight, error) {
	return r.filter(ctx, func(f domain.Flight) bool { return f.FromCity == from && f.ToCity == to })
}

func (r *flightRepo) FindByAirline(ctx context.Context, airlineCode string) ([]domain.Flight, error) {
	return r.filter(ctx, func(f domain.Flight) bool { return f.AirlineCode == airlineCode })
}

func (r *flightRepo) Save(ctx context.Context, flight *domain.Flight) error {
	return r.s.write(ctx, func(j *journal) error {
		now := r.s.now()
		if flight.ID == "" {
			flight.ID = uuid.NewString()
		}
		if existing, ok := r.s.flights[flight.ID]; ok {
			flight.TotalSeats = existing.TotalSeats
			flight.AvailableSeats = existing.AvailableSeats
			flight.CreatedAt = existing.CreatedAt
		} else {
			flight.CreatedAt = now
		}
		flight.UpdatedAt = now
		put(j, r.s.flights, flight.ID, *flight)
		return nil
	})
}

func (r *flightRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(j *journal) error {
		if !remove(j, r.s.flights, id) {
			return repository.ErrNotFound
		}
		return nil
	})
}

func (r *flightRepo) ReserveSeats(ctx context.Context, id string, n int) (*domain.Flight, error) {
	return r.adjust(ctx, id, func(f *domain.Flight) error {
		if f.AvailableSeats < n {
			return repository.ErrInsufficientSeats
		}
		f.AvailableSeats -= n
		return nil
	})
}

func (r *flightRepo) ReleaseSeats(ctx context.Context, id string, n int) (*domain.Flight, error) {
	return r.adjust(ctx, id, func(f *domain.Flight) error {
		if f.AvailableSeats+n > f.TotalSeats {
			return repository.ErrSeatCountOverflow
		}
		f.AvailableSeats += n
		return nil
	})
}

func (r *flightRepo) adjust(ctx context.Context, id string, change func(f *domain.Flight) error) (*domain.Flight, error) {
	var out domain.Flight
	err := r.s.write(ctx, func(j *journal) error {
		f, ok := r.s.flights[id]
		if !ok {
			return repository.ErrNotFound
		}
		if err := change(&f); err != nil {
			return err
		}
		f.UpdatedAt = r.s.now()
		put(j, r.s.flights, id, f)
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

var _ repository.FlightRepository = (*flightRepo)(nil)
