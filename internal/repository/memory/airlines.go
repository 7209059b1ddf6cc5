package memory

import (
	"context"
	"sort"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type airlineRepo struct {
	s *Store
}

func (r *airlineRepo) GetByCode(ctx context.Context, code string) (*domain.Airline, error) {
	var out domain.Airline
	err := r.s.read(ctx, func() error {
		a, ok := r.s.airlines[code]
		if !ok {
			return repository.ErrNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *airlineRepo) List(ctx context.Context) ([]domain.Airline, error) {
	out := make([]domain.Airline, 0)
	err := r.s.read(ctx, func() error {
		for _, a := range r.s.airlines {
			out = append(out, a)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}

func (r *airlineRepo) Create(ctx context.Context, airline *domain.Airline) error {
	return r.s.write(ctx, func(j *journal) error {
		if _, ok := r.s.airlines[airline.Code]; ok {
			return repository.ErrAlreadyExists
		}
		put(j, r.s.airlines, airline.Code, *airline)
		return nil
	})
}

func (r *airlineRepo) Update(ctx context.Context, airline *domain.Airline) error {
	return r.s.write(ctx, func(j *journal) error {
		if _, ok := r.s.airlines[airline.Code]; !ok {
			return repository.ErrNotFound
		}
		put(j, r.s.airlines, airline.Code, *airline)
		return nil
	})
}

func (r *airlineRepo) Delete(ctx context.Context, code string) error {
	return r.s.write(ctx, func(j *journal) error {
		if !remove(j, r.s.airlines, code) {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.AirlineRepository = (*airlineRepo)(nil)
