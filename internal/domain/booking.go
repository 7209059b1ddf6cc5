package domain

import "time"

type MealType string

const (
	MealTypeVeg    MealType = "VEG"
	MealTypeNonVeg MealType = "NON_VEG"
)

func (m MealType) Valid() bool {
	return m == MealTypeVeg || m == MealTypeNonVeg
}

// Booking is created together with its passengers and deleted on
// cancellation.
type Booking struct {
	ID           string
	PNR          string
	UserID       string
	FlightID     string
	SeatsBooked  int
	MealType     MealType
	PassengerIDs []string
	CreatedAt    time.Time
}
