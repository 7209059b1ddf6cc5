package domain

import "regexp"

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

const (
	MinPassengerAge = 1
	MaxPassengerAge = 120
)

var seatNumberPattern = regexp.MustCompile(`^[A-Z]\d+$`)

// ValidSeatNumber reports whether seat is one upper-case letter followed by digits, e.g. "A12".
func ValidSeatNumber(seat string) bool {
	return seatNumberPattern.MatchString(seat)
}

// Passenger has no life outside its booking. FlightID is copied from the
// owning booking so stores can keep seat numbers unique per flight.
type Passenger struct {
	ID         string
	Name       string
	Gender     Gender
	Age        int
	SeatNumber string
	BookingID  string
	FlightID   string
}
