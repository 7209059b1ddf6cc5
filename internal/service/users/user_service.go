package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/go-playground/validator/v10"
)

const userNotFound = "User not found"

var validate = validator.New()

type UserUseCase interface {
	Create(ctx context.Context, name, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id, name, email string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
}

func NewUserService(users repository.UserRepository, bookings repository.BookingRepository) *UserService {
	return &UserService{users: users, bookings: bookings}
}

func (s *UserService) Create(ctx context.Context, name, email string) (*domain.User, error) {
	user := &domain.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := checkUser(user); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("User created", "user_id", user.ID)
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load user")
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id, name, email string) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Name = strings.TrimSpace(name)
	user.Email = strings.TrimSpace(email)
	if err := checkUser(user); err != nil {
		return nil, err
	}
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete refuses to remove a user who still holds bookings.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	bookings, err := s.bookings.FindByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	if len(bookings) > 0 {
		return domain.BusinessRule("User has active bookings")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, "delete user")
	}
	logger.WithContext(ctx).Info("User deleted", "user_id", id)
	return nil
}

func (s *UserService) save(ctx context.Context, user *domain.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return domain.BusinessRule("Email already registered")
		}
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func checkUser(user *domain.User) error {
	if user.Name == "" {
		return domain.BusinessRule("name is required")
	}
	if err := validate.Var(user.Email, "required,email"); err != nil {
		return domain.BusinessRule("Invalid email: " + user.Email)
	}
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound(userNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ UserUseCase = (*UserService)(nil)
