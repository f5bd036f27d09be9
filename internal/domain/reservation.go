package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketType string

const (
	TicketTypeRoundTrip TicketType = "ROUND_TRIP"
	TicketTypeOneWay    TicketType = "ONE_WAY"
)

type FlightClass string

const (
	FlightClassFirst    FlightClass = "FIRST"
	FlightClassBusiness FlightClass = "BUSINESS"
	FlightClassEconomy  FlightClass = "ECONOMY"
)

type Reservation struct {
	ID       uuid.UUID
	AuthorID uuid.UUID

	FirstFlightID  uuid.UUID
	ReturnFlightID *uuid.UUID

	TicketType  TicketType
	FlightClass FlightClass

	ReminderSent bool

	CreatedAt time.Time
	UpdatedAt time.Time
	// DeletedAt marks a soft-deleted reservation; nil means active.
	DeletedAt *time.Time
}

func (r *Reservation) Active() bool {
	return r.DeletedAt == nil
}
