package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:pnr", h.get)
	router.DELETE("/:pnr", h.cancel)
	router.GET("/history/user/:userId", h.historyByUser)
	router.GET("/history/email/:email", h.historyByEmail)
}

type passengerRequest struct {
	Name       string `json:"name" binding:"required,max=100"`
	Gender     string `json:"gender" binding:"required,gender"`
	Age        int    `json:"age" binding:"required,min=1,max=120"`
	SeatNumber string `json:"seatNumber" binding:"required,seatnumber"`
}

type createBookingRequest struct {
	FlightID    string             `json:"flightId" binding:"required"`
	UserID      string             `json:"userId" binding:"required"`
	SeatsBooked int                `json:"seatsBooked" binding:"required,min=1"`
	MealType    string             `json:"mealType" binding:"required,mealtype"`
	Passengers  []passengerRequest `json:"passengers" binding:"required,min=1,dive"`
}

type createBookingResponse struct {
	PNR string `json:"pnr"`
}

type passengerResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	Age        int    `json:"age"`
	SeatNumber string `json:"seatNumber"`
}

type ticketResponse struct {
	ID          string              `json:"id"`
	PNR         string              `json:"pnr"`
	UserID      string              `json:"userId"`
	FlightID    string              `json:"flightId"`
	SeatsBooked int                 `json:"seatsBooked"`
	MealType    string              `json:"mealType"`
	CreatedAt   time.Time           `json:"createdAt"`
	Passengers  []passengerResponse `json:"passengers"`
}

func toTicketResponse(t booking.Ticket) ticketResponse {
	passengers := make([]passengerResponse, 0, len(t.Passengers))
	for _, p := range t.Passengers {
		passengers = append(passengers, passengerResponse{
			ID:         p.ID,
			Name:       p.Name,
			Gender:     string(p.Gender),
			Age:        p.Age,
			SeatNumber: p.SeatNumber,
		})
	}
	return ticketResponse{
		ID:          t.Booking.ID,
		PNR:         t.Booking.PNR,
		UserID:      t.Booking.UserID,
		FlightID:    t.Booking.FlightID,
		SeatsBooked: t.Booking.SeatsBooked,
		MealType:    string(t.Booking.MealType),
		CreatedAt:   t.Booking.CreatedAt,
		Passengers:  passengers,
	}
}

func toTicketResponses(list []booking.Ticket) []ticketResponse {
	out := make([]ticketResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTicketResponse(t))
	}
	return out
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	passengers := make([]booking.PassengerInput, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, booking.PassengerInput{
			Name:       p.Name,
			Gender:     domain.Gender(p.Gender),
			Age:        p.Age,
			SeatNumber: p.SeatNumber,
		})
	}

	pnr, err := h.service.BookTicket(c.Request.Context(), req.FlightID, booking.BookingRequest{
		UserID:      req.UserID,
		SeatsBooked: req.SeatsBooked,
		MealType:    domain.MealType(req.MealType),
		Passengers:  passengers,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createBookingResponse{PNR: pnr})
}

func (h *BookingHandler) get(c *gin.Context) {
	ticket, err := h.service.GetTicket(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	if err := h.service.CancelBooking(c.Request.Context(), c.Param("pnr")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

func (h *BookingHandler) historyByUser(c *gin.Context) {
	tickets, err := h.service.HistoryByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponses(tickets))
}

func (h *BookingHandler) historyByEmail(c *gin.Context) {
	tickets, err := h.service.HistoryByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponses(tickets))
}
