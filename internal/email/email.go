package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

// Sender tells the booking user about created and cancelled bookings.
// Delivery is a structured log line until a mail provider is configured.
type Sender struct {
	users repository.UserRepository
}

func NewSender(users repository.UserRepository) *Sender {
	return &Sender{users: users}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	user, err := s.users.GetByID(ctx, event.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WithContext(ctx).Warn("Booking notification dropped, user is gone",
			"pnr", event.PNR, "user_id", event.UserID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user %s: %w", event.UserID, err)
	}

	logger.WithContext(ctx).Info("Booking notification sent",
		"to", user.Email,
		"subject", Subject(event),
		"flight_id", event.FlightID,
		"seats", event.Seats,
	)
	return nil
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled", event.PNR)
	default:
		return fmt.Sprintf("Booking %s confirmed", event.PNR)
	}
}
