package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventBookingCreated   EventType = "booking_created"
	EventBookingCancelled EventType = "booking_cancelled"
)

// BookingEvent is published after a booking or cancellation commits.
type BookingEvent struct {
	Type        EventType `json:"type"`
	PNR         string    `json:"pnr"`
	BookingID   string    `json:"booking_id"`
	FlightID    string    `json:"flight_id"`
	UserID      string    `json:"user_id"`
	SeatsBooked int       `json:"seats_booked"`
	Seats       []string  `json:"seats"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func DecodeBookingEvent(data []byte) (BookingEvent, error) {
	var ev BookingEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return BookingEvent{}, fmt.Errorf("decode booking event: %w", err)
	}
	switch ev.Type {
	case EventBookingCreated, EventBookingCancelled:
	default:
		return BookingEvent{}, fmt.Errorf("unknown booking event type %q", ev.Type)
	}
	if ev.FlightID == "" {
		return BookingEvent{}, fmt.Errorf("booking event %s has no flight id", ev.PNR)
	}
	return ev, nil
}
