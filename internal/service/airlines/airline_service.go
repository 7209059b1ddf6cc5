package airlines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type AirlineUseCase interface {
	Create(ctx context.Context, code, name string) (*domain.Airline, error)
	List(ctx context.Context) ([]domain.Airline, error)
	Get(ctx context.Context, code string) (*domain.Airline, error)
	Update(ctx context.Context, code, name string) (*domain.Airline, error)
	Delete(ctx context.Context, code string) error
}

type AirlineService struct {
	repo repository.AirlineRepository
}

func NewAirlineService(repo repository.AirlineRepository) *AirlineService {
	return &AirlineService{repo: repo}
}

func (s *AirlineService) Create(ctx context.Context, code, name string) (*domain.Airline, error) {
	code, name = strings.TrimSpace(code), strings.TrimSpace(name)
	if code == "" {
		return nil, domain.BusinessRule("code is required")
	}
	if name == "" {
		return nil, domain.BusinessRule("name is required")
	}

	airline := &domain.Airline{Code: code, Name: name}
	if err := s.repo.Create(ctx, airline); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, domain.BusinessRule("Airline already exists: " + code)
		}
		return nil, fmt.Errorf("create airline: %w", err)
	}

	logger.WithContext(ctx).Info("Airline created", "code", code)
	return airline, nil
}

func (s *AirlineService) List(ctx context.Context) ([]domain.Airline, error) {
	airlines, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list airlines: %w", err)
	}
	return airlines, nil
}

func (s *AirlineService) Get(ctx context.Context, code string) (*domain.Airline, error) {
	airline, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, notFoundOr(err, "load airline")
	}
	return airline, nil
}

// Update renames the airline. The code never changes.
func (s *AirlineService) Update(ctx context.Context, code, name string) (*domain.Airline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.BusinessRule("name is required")
	}

	airline := &domain.Airline{Code: code, Name: name}
	if err := s.repo.Update(ctx, airline); err != nil {
		return nil, notFoundOr(err, "update airline")
	}
	return airline, nil
}

// Delete removes the airline only. Its flights are kept.
func (s *AirlineService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return notFoundOr(err, "delete airline")
	}
	logger.WithContext(ctx).Info("Airline deleted", "code", code)
	return nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.NotFound("Airline not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ AirlineUseCase = (*AirlineService)(nil)
