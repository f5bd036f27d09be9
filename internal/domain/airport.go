package domain

import "github.com/google/uuid"

// Airport is immutable reference data, seeded once.
type Airport struct {
	ID        uuid.UUID
	Code      string
	Name      string
	City      string
	Country   string
	Latitude  float64
	Longitude float64
}

type Airline struct {
	ID   uuid.UUID
	Code string
	Name string
}
