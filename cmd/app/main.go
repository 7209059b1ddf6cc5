package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/api"
	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/cache"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/service/airlines"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/Domenick1991/flightbooking/internal/service/inventory"
	"github.com/Domenick1991/flightbooking/internal/service/users"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", "path", cfgPath, "error", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStorage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer closeStorage()

	checker := inventory.NewChecker(repos.Flights, repos.Bookings, repos.Passengers)

	location, err := cfg.Booking.Location()
	if err != nil {
		logger.Fatal("Invalid booking timezone", "error", err)
	}
	flightOpts := []flights.FlightServiceOption{flights.WithLocation(location)}
	bookingOpts := []booking.BookingServiceOption{
		booking.WithCancellationWindow(cfg.Booking.CancellationWindowHours),
		booking.WithSeatLockTTL(time.Duration(cfg.Booking.SeatLockTTLSeconds) * time.Second),
		booking.WithPNRGenerator(booking.NewPNRGenerator(cfg.Booking.PNRPrefix)),
	}

	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			logger.Get().Warn("Redis is unreachable, continuing without cache hits", "addr", cfg.Redis.Addr, "error", err)
		}
		flightOpts = append(flightOpts, flights.WithCache(redisCache))
		bookingOpts = append(bookingOpts, booking.WithCache(redisCache))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.BookingEventsTopic)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			logger.Get().Warn("Kafka is unreachable, booking events may be lost", "brokers", cfg.Kafka.Brokers, "error", err)
		}
		bookingOpts = append(bookingOpts, booking.WithProducer(producer))
	}

	flightService := flights.NewFlightService(repos.Flights, repos.Airlines, flightOpts...)
	bookingService := booking.NewBookingService(repos, checker, bookingOpts...)
	airlineService := airlines.NewAirlineService(repos.Airlines)
	userService := users.NewUserService(repos.Users, repos.Bookings)

	handlers := api.Handlers{
		Flights:  api.NewFlightHandler(flightService),
		Bookings: api.NewBookingHandler(bookingService),
		Airlines: api.NewAirlineHandler(airlineService),
		Users:    api.NewUserHandler(userService),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		logger.Fatal("Server error", "error", err)
	}
	logger.Get().Info("Server stopped")
}
