package api

import (
	"net/http"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAirlineHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	s.airlines.On("Create", mock.Anything, "6E", "IndiGo").Return(&domain.Airline{Code: "6E", Name: "IndiGo"}, nil)
	s.airlines.On("List", mock.Anything).Return([]domain.Airline{{Code: "6E", Name: "IndiGo"}}, nil)
	s.airlines.On("Get", mock.Anything, "6E").Return(&domain.Airline{Code: "6E", Name: "IndiGo"}, nil)
	s.airlines.On("Update", mock.Anything, "6E", "Indigo Airlines").Return(&domain.Airline{Code: "6E", Name: "Indigo Airlines"}, nil)
	s.airlines.On("Delete", mock.Anything, "6E").Return(nil)

	w := s.do(http.MethodPost, "/airlines", map[string]string{"code": "6E", "name": "IndiGo"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"code":"6E","name":"IndiGo"}`, w.Body.String())

	w = s.do(http.MethodGet, "/airlines", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"code":"6E","name":"IndiGo"}]`, w.Body.String())

	w = s.do(http.MethodGet, "/airlines/6e", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPut, "/airlines/6E", map[string]string{"name": "Indigo Airlines"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Indigo Airlines", decode[airlineResponse](t, w).Name)

	w = s.do(http.MethodDelete, "/airlines/6E", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAirlineHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	s.airlines.On("Create", mock.Anything, "AI", "Air India").
		Return(nil, domain.BusinessRule("Airline already exists: AI"))
	s.airlines.On("Delete", mock.Anything, "ZZ").Return(domain.NotFound("Airline not found"))

	w := s.do(http.MethodPost, "/airlines", map[string]string{"code": "AI", "name": "Air India"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Airline already exists: AI"}`, w.Body.String())

	w = s.do(http.MethodDelete, "/airlines/ZZ", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/airlines", map[string]string{"code": "AI"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "is required", decode[errorResponse](t, w).Fields["name"])
}

func TestUserHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	user := &domain.User{ID: "u-1", Name: "Asha Rao", Email: "asha@example.com"}
	s.users.On("Create", mock.Anything, "Asha Rao", "asha@example.com").Return(user, nil)
	s.users.On("List", mock.Anything).Return([]domain.User{*user}, nil)
	s.users.On("Get", mock.Anything, "u-1").Return(user, nil)
	s.users.On("Update", mock.Anything, "u-1", "Asha R", "asha.r@example.com").
		Return(&domain.User{ID: "u-1", Name: "Asha R", Email: "asha.r@example.com"}, nil)
	s.users.On("Delete", mock.Anything, "u-1").Return(nil)

	w := s.do(http.MethodPost, "/users", map[string]string{"name": "Asha Rao", "email": "asha@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":"u-1"}`, w.Body.String())

	w = s.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]userResponse](t, w), 1)

	w = s.do(http.MethodGet, "/users/u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "asha@example.com", decode[userResponse](t, w).Email)

	w = s.do(http.MethodPut, "/users/u-1", map[string]string{"name": "Asha R", "email": "asha.r@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha R", decode[userResponse](t, w).Name)

	w = s.do(http.MethodDelete, "/users/u-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserHandler_Errors(t *testing.T) {
	s := newTestServer(t)
	s.users.On("Get", mock.Anything, "ghost").Return(nil, domain.NotFound("User not found"))
	s.users.On("Delete", mock.Anything, "u-1").Return(domain.BusinessRule("User has active bookings"))

	w := s.do(http.MethodGet, "/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/users/u-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"User has active bookings"}`, w.Body.String())

	w = s.do(http.MethodPost, "/users", map[string]string{"name": "Asha", "email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be a valid email", decode[errorResponse](t, w).Fields["email"])
}
