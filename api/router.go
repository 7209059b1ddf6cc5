package api

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

type Handlers struct {
	Flights  *FlightHandler
	Bookings *BookingHandler
	Airlines *AirlineHandler
	Users    *UserHandler
}

type RouterOptions struct {
	Swagger bool
	// Healthz, when set, answers GET /healthz. The server wires the gRPC
	// health gateway here.
	Healthz http.Handler
}

func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(Recovery(), RequestID(), Logger(), Metrics(), CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Healthz != nil {
		router.GET("/healthz", gin.WrapH(opts.Healthz))
	}

	if opts.Swagger {
		router.GET("/openapi.json", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/json", openAPIDoc)
		})
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))
	}

	h.Flights.Register(router.Group("/flights"))
	h.Bookings.Register(router.Group("/bookings"))

	airlines := router.Group("/airlines")
	h.Airlines.Register(airlines)
	h.Flights.RegisterAirlineFlights(airlines)

	h.Users.Register(router.Group("/users"))

	return router
}
