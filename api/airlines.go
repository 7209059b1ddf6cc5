package api

import (
	"net/http"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/airlines"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	service airlines.AirlineUseCase
}

func NewAirlineHandler(service airlines.AirlineUseCase) *AirlineHandler {
	return &AirlineHandler{service: service}
}

func (h *AirlineHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:code", h.get)
	router.PUT("/:code", h.update)
	router.DELETE("/:code", h.delete)
}

type createAirlineRequest struct {
	Code string `json:"code" binding:"required,max=8"`
	Name string `json:"name" binding:"required,max=100"`
}

type updateAirlineRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type airlineResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func toAirlineResponse(a domain.Airline) airlineResponse {
	return airlineResponse{Code: a.Code, Name: a.Name}
}

func (h *AirlineHandler) create(c *gin.Context) {
	var req createAirlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	airline, err := h.service.Create(c.Request.Context(), req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAirlineResponse(*airline))
}

func (h *AirlineHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]airlineResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAirlineResponse(a))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AirlineHandler) get(c *gin.Context) {
	airline, err := h.service.Get(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirlineResponse(*airline))
}

func (h *AirlineHandler) update(c *gin.Context) {
	var req updateAirlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	airline, err := h.service.Update(c.Request.Context(), strings.ToUpper(c.Param("code")), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirlineResponse(*airline))
}

func (h *AirlineHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), strings.ToUpper(c.Param("code"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
