package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondBindError answers a request whose body or parameters did not bind.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Validation failed", Fields: fieldErrors(verrs)})
		return
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: "Malformed request: " + err.Error()})
}

// respondError maps a service error to its status. Anything outside the
// domain error kinds is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrBusinessRule), errors.Is(err, domain.ErrSeatUnavailable):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Unexpected error: " + err.Error()})
	}
}
