package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var out domain.User
	err := r.s.read(ctx, func() error {
		u, ok := r.s.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.s.read(ctx, func() error {
		for _, u := range r.s.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
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

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0)
	err := r.s.read(ctx, func() error {
		for _, u := range r.s.users {
			out = append(out, u)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *userRepo) Save(ctx context.Context, user *domain.User) error {
	return r.s.write(ctx, func(j *journal) error {
		for id, u := range r.s.users {
			if id != user.ID && strings.EqualFold(u.Email, user.Email) {
				return repository.ErrAlreadyExists
			}
		}
		if user.ID == "" {
			user.ID = uuid.NewString()
		}
		put(j, r.s.users, user.ID, *user)
		return nil
	})
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.s.write(ctx, func(j *journal) error {
		if !remove(j, r.s.users, id) {
			return repository.ErrNotFound
		}
		return nil
	})
}

var _ repository.UserRepository = (*userRepo)(nil)
