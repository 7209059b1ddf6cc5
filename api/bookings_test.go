package api

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bookingBody() map[string]any {
	return map[string]any{
		"flightId":    "f-1",
		"userId":      "u-1",
		"seatsBooked": 2,
		"mealType":    "VEG",
		"passengers": []map[string]any{
			{"name": "Asha Rao", "gender": "FEMALE", "age": 34, "seatNumber": "A1"},
			{"name": "Dev Rao", "gender": "MALE", "age": 36, "seatNumber": "A2"},
		},
	}
}

func testTicket() booking.Ticket {
	return booking.Ticket{
		Booking: domain.Booking{
			ID:           "b-1",
			PNR:          "PNR1A2B3C4D",
			UserID:       "u-1",
			FlightID:     "f-1",
			SeatsBooked:  1,
			MealType:     domain.MealTypeNonVeg,
			PassengerIDs: []string{"p-1"},
			CreatedAt:    time.Date(2030, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Passengers: []domain.Passenger{
			{ID: "p-1", Name: "Asha Rao", Gender: domain.GenderFemale, Age: 34, SeatNumber: "C7", BookingID: "b-1", FlightID: "f-1"},
		},
	}
}

func TestBookingHandler_Create(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("BookTicket", mock.Anything, "f-1", booking.BookingRequest{
		UserID:      "u-1",
		SeatsBooked: 2,
		MealType:    domain.MealTypeVeg,
		Passengers: []booking.PassengerInput{
			{Name: "Asha Rao", Gender: domain.GenderFemale, Age: 34, SeatNumber: "A1"},
			{Name: "Dev Rao", Gender: domain.GenderMale, Age: 36, SeatNumber: "A2"},
		},
	}).Return("PNR1A2B3C4D", nil)

	w := s.do(http.MethodPost, "/bookings", bookingBody())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"pnr":"PNR1A2B3C4D"}`, w.Body.String())
}

func TestBookingHandler_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
		msg    string
	}{
		{
			name:   "missing flight",
			mutate: func(b map[string]any) { delete(b, "flightId") },
			field:  "flightId",
			msg:    "is required",
		},
		{
			name:   "unknown meal",
			mutate: func(b map[string]any) { b["mealType"] = "VEGAN" },
			field:  "mealType",
			msg:    "must be VEG or NON_VEG",
		},
		{
			name:   "no passengers",
			mutate: func(b map[string]any) { b["passengers"] = []map[string]any{} },
			field:  "passengers",
			msg:    "must contain at least 1 item(s)",
		},
		{
			name: "bad seat",
			mutate: func(b map[string]any) {
				b["passengers"].([]map[string]any)[1]["seatNumber"] = "12A"
			},
			field: "passengers[1].seatNumber",
			msg:   "invalid seat format",
		},
		{
			name: "bad gender",
			mutate: func(b map[string]any) {
				b["passengers"].([]map[string]any)[0]["gender"] = "X"
			},
			field: "passengers[0].gender",
			msg:   "must be MALE, FEMALE or OTHER",
		},
		{
			name: "too old",
			mutate: func(b map[string]any) {
				b["passengers"].([]map[string]any)[0]["age"] = 130
			},
			field: "passengers[0].age",
			msg:   "must be <= 120",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			body := bookingBody()
			tt.mutate(body)

			w := s.do(http.MethodPost, "/bookings", body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[errorResponse](t, w)
			assert.Equal(t, "Validation failed", resp.Error)
			assert.Equal(t, tt.msg, resp.Fields[tt.field])
		})
	}
}

func TestBookingHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"user missing", domain.NotFound("User not found"), http.StatusNotFound},
		{"count mismatch", domain.BusinessRule("Passengers count must be equal to seats booked"), http.StatusBadRequest},
		{"seat taken", domain.SeatUnavailable("Seat already booked: A1"), http.StatusBadRequest},
		{"internal", errors.New("tx aborted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.bookings.On("BookTicket", mock.Anything, "f-1", mock.Anything).Return("", tt.err)

			w := s.do(http.MethodPost, "/bookings", bookingBody())

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, decode[errorResponse](t, w).Error, tt.err.Error())
		})
	}
}

func TestBookingHandler_Get(t *testing.T) {
	s := newTestServer(t)
	ticket := testTicket()
	s.bookings.On("GetTicket", mock.Anything, "PNR1A2B3C4D").Return(&ticket, nil)

	w := s.do(http.MethodGet, "/bookings/PNR1A2B3C4D", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ticketResponse](t, w)
	assert.Equal(t, "PNR1A2B3C4D", resp.PNR)
	assert.Equal(t, "NON_VEG", resp.MealType)
	require.Len(t, resp.Passengers, 1)
	assert.Equal(t, "C7", resp.Passengers[0].SeatNumber)
}

func TestBookingHandler_GetUnknown(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("GetTicket", mock.Anything, "PNRNOPE").Return(nil, domain.NotFound("PNR not found"))

	w := s.do(http.MethodGet, "/bookings/PNRNOPE", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"PNR not found"}`, w.Body.String())
}

func TestBookingHandler_Cancel(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("CancelBooking", mock.Anything, "PNR1").Return(nil)
	s.bookings.On("CancelBooking", mock.Anything, "PNR2").
		Return(domain.BusinessRule("Cannot cancel within 24 hours of departure"))

	w := s.do(http.MethodDelete, "/bookings/PNR1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, "/bookings/PNR2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot cancel within 24 hours of departure"}`, w.Body.String())
}

func TestBookingHandler_History(t *testing.T) {
	s := newTestServer(t)
	s.bookings.On("HistoryByUser", mock.Anything, "u-1").Return([]booking.Ticket{testTicket()}, nil)
	s.bookings.On("HistoryByUser", mock.Anything, "u-2").Return([]booking.Ticket{}, nil)
	s.bookings.On("HistoryByEmail", mock.Anything, "asha@example.com").Return([]booking.Ticket{testTicket()}, nil)
	s.bookings.On("HistoryByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.NotFound("User not found"))

	w := s.do(http.MethodGet, "/bookings/history/user/u-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]ticketResponse](t, w), 1)

	w = s.do(http.MethodGet, "/bookings/history/user/u-2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(http.MethodGet, "/bookings/history/email/asha@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b-1", decode[[]ticketResponse](t, w)[0].ID)

	w = s.do(http.MethodGet, "/bookings/history/email/ghost@example.com", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
