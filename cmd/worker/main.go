package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/bootstrap"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/service/inventory"
	"github.com/prometheus/client_golang/prometheus/promhttp"
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

	if err := checkStorage(cfg); err != nil {
		logger.Fatal("Unsupported storage for worker", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeStorage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open storage", "driver", cfg.Storage.Driver, "error", err)
	}
	defer closeStorage()

	checker := inventory.NewChecker(repos.Flights, repos.Bookings, repos.Passengers)
	emailSender := email.NewSender(repos.Users)

	metricsSrv := &http.Server{Addr: cfg.Worker.MetricsAddress, Handler: promhttp.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error("Metrics server stopped", "error", err)
		}
	}()
	defer metricsSrv.Close()

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
		defer consumer.Close()

		go func() {
			err := consumer.ConsumeBookingEvents(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
				report, err := checker.CheckFlight(ctx, event.FlightID)
				if err != nil {
					logger.WithContext(ctx).Error("Inventory check failed", "flight_id", event.FlightID, "error", err)
				} else if !report.Consistent() {
					logger.WithContext(ctx).Warn("Inventory mismatch after booking event",
						"flight_id", report.FlightID,
						"event", event.Type,
						"pnr", event.PNR,
						"available_seats", report.AvailableSeats,
						"booked_seats", report.BookedSeats,
						"duplicate_seats", report.DuplicateSeats,
					)
				}
				return emailSender.Send(ctx, event)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Get().Error("Consumer stopped", "error", err)
			}
		}()
	} else {
		logger.Get().Warn("No Kafka brokers configured, only periodic reconciliation runs")
	}

	reconcile := func() {
		mismatched, err := checker.CheckAll(ctx)
		if err != nil {
			logger.Get().Error("Inventory reconcile failed", "error", err)
			return
		}
		metrics.InventoryMismatches.Set(float64(len(mismatched)))
	}

	reconcileTicker := time.NewTicker(time.Duration(cfg.Worker.ReconcileIntervalMinutes) * time.Minute)
	defer reconcileTicker.Stop()

	reconcile()
	for {
		select {
		case <-reconcileTicker.C:
			reconcile()
		case <-ctx.Done():
			logger.Get().Info("Worker shutting down")
			return
		}
	}
}

// checkStorage rejects drivers the worker cannot share with the API process.
// An in-memory store here would be a separate, empty one.
func checkStorage(cfg *config.Config) error {
	if cfg.Storage.Driver == config.StorageMemory {
		return fmt.Errorf("storage driver %q is private to the API process, use %q", config.StorageMemory, config.StoragePostgres)
	}
	return nil
}
