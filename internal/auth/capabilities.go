package auth

import "github.com/Domenick1991/flightbooking/internal/domain"

// Capability names gating service operations.
const (
	CapViewFlight  = "flights.view_flight"
	CapViewFlights = "flights.view_flights"
	CapAddFlights  = "flights.add_flights"

	CapAddReservation          = "reservations.add_reservation"
	CapCreateAnyReservation    = "reservations.create_any_reservation"
	CapRetrieveOwnReservations = "reservations.retrieve_own_reservations"
	CapRetrieveAnyReservations = "reservations.retrieve_any_reservations"
	CapDeleteOwnReservation    = "reservations.delete_own_reservation"
	CapDeleteAnyReservations   = "reservations.delete_any_reservations"
	CapUpdateOwnReservation    = "reservations.update_own_reservation"

	CapViewAirport = "airports.view_airport"
	CapViewAirline = "airlines.view_airline"
)

var roleCapabilities = map[domain.Role][]string{
	domain.RoleClient: {
		CapViewFlight,
		CapViewFlights,
		CapViewAirport,
		CapAddReservation,
		CapRetrieveOwnReservations,
		CapDeleteOwnReservation,
		CapUpdateOwnReservation,
	},
	domain.RoleStaff: {
		CapViewFlight,
		CapViewFlights,
		CapAddFlights,
		CapViewAirport,
		CapViewAirline,
	},
	domain.RoleSuperStaff: {
		CapViewFlight,
		CapViewFlights,
		CapAddFlights,
		CapViewAirport,
		CapViewAirline,
		CapCreateAnyReservation,
		CapRetrieveAnyReservations,
		CapDeleteAnyReservations,
	},
}

// Checker answers whether an account holds a named capability.
type Checker interface {
	Has(account *domain.Account, capability string) bool
}

// RoleChecker grants capabilities from the account's role.
type RoleChecker struct {
	grants map[domain.Role]map[string]bool
}

func NewRoleChecker() *RoleChecker {
	grants := make(map[domain.Role]map[string]bool, len(roleCapabilities))
	for role, caps := range roleCapabilities {
		set := make(map[string]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		grants[role] = set
	}
	return &RoleChecker{grants: grants}
}

func (c *RoleChecker) Has(account *domain.Account, capability string) bool {
	if account == nil {
		return false
	}
	return c.grants[account.Role][capability]
}

var _ Checker = (*RoleChecker)(nil)
