package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
)

const searchDateLayout = "2006-01-02"

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.POST("/search", h.search)
	router.GET("/:id", h.get)
}

// RegisterAirlineFlights serves the flights of one airline under the airline routes.
func (h *FlightHandler) RegisterAirlineFlights(router *gin.RouterGroup) {
	router.GET("/:code/flights", h.listByAirline)
}

type createFlightRequest struct {
	AirlineCode   string    `json:"airlineCode" binding:"required,max=8"`
	FlightNumber  string    `json:"flightNumber" binding:"required,max=16"`
	FromCity      string    `json:"fromCity" binding:"required,airport"`
	ToCity        string    `json:"toCity" binding:"required,airport"`
	DepartureTime time.Time `json:"departureTime" binding:"required"`
	ArrivalTime   time.Time `json:"arrivalTime" binding:"required"`
	TotalSeats    int       `json:"totalSeats" binding:"required,min=1"`
	Price         float64   `json:"price" binding:"min=0"`
	Status        string    `json:"status" binding:"omitempty,flightstatus"`
}

type searchFlightsRequest struct {
	FromCity string `json:"fromCity" binding:"required,airport"`
	ToCity   string `json:"toCity" binding:"required,airport"`
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
}

type flightResponse struct {
	ID             string    `json:"id"`
	AirlineCode    string    `json:"airlineCode"`
	FlightNumber   string    `json:"flightNumber"`
	FromCity       string    `json:"fromCity"`
	ToCity         string    `json:"toCity"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"availableSeats"`
	Price          float64   `json:"price"`
	Status         string    `json:"status"`
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID,
		AirlineCode:    f.AirlineCode,
		FlightNumber:   f.FlightNumber,
		FromCity:       string(f.FromCity),
		ToCity:         string(f.ToCity),
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
		Price:          f.Price,
		Status:         string(f.Status),
	}
}

func toFlightResponses(list []domain.Flight) []flightResponse {
	out := make([]flightResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFlightResponse(f))
	}
	return out
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	flight, err := h.service.CreateFlight(c.Request.Context(), flights.CreateFlightInput{
		AirlineCode:   strings.ToUpper(req.AirlineCode),
		FlightNumber:  req.FlightNumber,
		FromCity:      domain.AirportCode(strings.ToUpper(req.FromCity)),
		ToCity:        domain.AirportCode(strings.ToUpper(req.ToCity)),
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		TotalSeats:    req.TotalSeats,
		Price:         req.Price,
		Status:        domain.FlightStatus(req.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toFlightResponse(*flight))
}

func (h *FlightHandler) search(c *gin.Context) {
	var req searchFlightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	// already checked by the datetime rule
	date, _ := time.Parse(searchDateLayout, req.Date)

	found, err := h.service.Search(c.Request.Context(),
		domain.AirportCode(strings.ToUpper(req.FromCity)),
		domain.AirportCode(strings.ToUpper(req.ToCity)),
		date,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(found))
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(*flight))
}

func (h *FlightHandler) listByAirline(c *gin.Context) {
	list, err := h.service.ListByAirline(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(list))
}
