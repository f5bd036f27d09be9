package domain

import (
	"time"

	"github.com/google/uuid"
)

type Flight struct {
	ID               uuid.UUID
	AirlineCode      string
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string

	ExpectedDeparture time.Time
	ExpectedArrival   time.Time

	// Actual times, set once the flight has operated.
	Departure *time.Time
	Arrival   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration prefers actual times over expected ones.
func (f *Flight) Duration() time.Duration {
	departure := f.ExpectedDeparture
	arrival := f.ExpectedArrival
	if f.Departure != nil {
		departure = *f.Departure
	}
	if f.Arrival != nil {
		arrival = *f.Arrival
	}
	return arrival.Sub(departure)
}

// Designation is the airline code followed by the flight number, e.g. BA001.
func (f *Flight) Designation() string {
	return f.AirlineCode + f.FlightNumber
}
