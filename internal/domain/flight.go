package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

func (s FlightStatus) Valid() bool {
	switch s {
	case FlightStatusScheduled, FlightStatusDelayed, FlightStatusDeparted, FlightStatusCancelled:
		return true
	}
	return false
}

// Flight owns its seat counter. AvailableSeats is changed only through
// seat reservation and release, never by a plain save.
type Flight struct {
	ID             string
	AirlineCode    string
	FlightNumber   string
	FromCity       AirportCode
	ToCity         AirportCode
	DepartureTime  time.Time
	ArrivalTime    time.Time
	TotalSeats     int
	AvailableSeats int
	Price          float64
	Status         FlightStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DepartsOn reports whether the flight departs on the calendar date of day,
// evaluated in day's location.
func (f Flight) DepartsOn(day time.Time) bool {
	y, m, d := day.Date()
	fy, fm, fd := f.DepartureTime.In(day.Location()).Date()
	return y == fy && m == fm && d == fd
}

// BookedSeats is the number of seats claimed by active bookings according
// to the counter.
func (f Flight) BookedSeats() int {
	return f.TotalSeats - f.AvailableSeats
}
