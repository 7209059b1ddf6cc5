package airlines

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAirlineService_Lifecycle(t *testing.T) {
	repos := memory.NewStore().Repositories()
	service := NewAirlineService(repos.Airlines)
	ctx := context.Background()

	created, err := service.Create(ctx, " AI ", "Air India")
	require.NoError(t, err)
	assert.Equal(t, &domain.Airline{Code: "AI", Name: "Air India"}, created)

	_, err = service.Create(ctx, "AI", "Another")
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.EqualError(t, err, "Airline already exists: AI")

	updated, err := service.Update(ctx, "AI", "Air India Ltd")
	require.NoError(t, err)
	assert.Equal(t, "Air India Ltd", updated.Name)

	got, err := service.Get(ctx, "AI")
	require.NoError(t, err)
	assert.Equal(t, "Air India Ltd", got.Name)

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, service.Delete(ctx, "AI"))

	_, err = service.Get(ctx, "AI")
	assert.EqualError(t, err, "Airline not found")
	assert.ErrorIs(t, service.Delete(ctx, "AI"), domain.ErrNotFound)
	_, err = service.Update(ctx, "AI", "Ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAirlineService_Validation(t *testing.T) {
	service := NewAirlineService(memory.NewStore().Repositories().Airlines)
	ctx := context.Background()

	_, err := service.Create(ctx, "", "Air India")
	assert.EqualError(t, err, "code is required")
	_, err = service.Create(ctx, "AI", "  ")
	assert.EqualError(t, err, "name is required")
	_, err = service.Update(ctx, "AI", "")
	assert.EqualError(t, err, "name is required")
}

func TestAirlineService_DeleteKeepsFlights(t *testing.T) {
	repos := memory.NewStore().Repositories()
	service := NewAirlineService(repos.Airlines)
	ctx := context.Background()

	_, err := service.Create(ctx, "AI", "Air India")
	require.NoError(t, err)
	require.NoError(t, repos.Flights.Save(ctx, &domain.Flight{AirlineCode: "AI", FromCity: domain.AirportDEL, ToCity: domain.AirportBOM, TotalSeats: 1}))

	require.NoError(t, service.Delete(ctx, "AI"))

	flights, err := repos.Flights.FindByAirline(ctx, "AI")
	require.NoError(t, err)
	assert.Len(t, flights, 1)
}

type MockAirlineRepository struct {
	mock.Mock
	repository.AirlineRepository
}

func (m *MockAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airline), args.Error(1)
}

func TestAirlineService_List_StoreError(t *testing.T) {
	mockRepo := &MockAirlineRepository{}
	service := NewAirlineService(mockRepo)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return(nil, errors.New("database error")).Once()

	_, err := service.List(ctx)
	assert.EqualError(t, err, "list airlines: database error")
	assert.False(t, domain.IsBusiness(err))
	mockRepo.AssertExpectations(t)
}
