package reservations

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type ReservationUseCase interface {
	MakeOwn(ctx context.Context, requestor *domain.Account, input CreateReservationInput) (*domain.Reservation, error)
	MakeFor(ctx context.Context, requestor *domain.Account, accountID uuid.UUID, input CreateReservationInput) (*domain.Reservation, error)
	Filter(ctx context.Context, requestor *domain.Account, query Query) ([]domain.Reservation, error)
	FilterByPeriod(ctx context.Context, requestor *domain.Account, year int, month *time.Month) ([]domain.Reservation, error)
	Delete(ctx context.Context, requestor *domain.Account, id uuid.UUID) error
}

type CreateReservationInput struct {
	FirstFlightID  uuid.UUID          `json:"first_flight"`
	ReturnFlightID *uuid.UUID         `json:"return_flight"`
	TicketType     domain.TicketType  `json:"ticket_type"`
	FlightClass    domain.FlightClass `json:"flight_class"`
}

type Query struct {
	AccountID    *uuid.UUID
	FlightNumber string
	OnDate       *time.Time
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type ReservationService struct {
	reservations repository.ReservationRepository
	flights      repository.FlightRepository
	accounts     repository.AccountRepository
	perms        auth.Checker
	producer     Producer
	eventsTopic  string
}

type ReservationServiceOption func(*ReservationService)

func WithEventsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.eventsTopic = topic
	}
}

func NewReservationService(
	reservations repository.ReservationRepository,
	flights repository.FlightRepository,
	accounts repository.AccountRepository,
	perms auth.Checker,
	producer Producer,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		reservations: reservations,
		flights:      flights,
		accounts:     accounts,
		perms:        perms,
		producer:     producer,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *ReservationService) MakeOwn(ctx context.Context, requestor *domain.Account, input CreateReservationInput) (*domain.Reservation, error) {
	if !s.perms.Has(requestor, auth.CapAddReservation) {
		return nil, &domain.PermissionDeniedError{Capability: auth.CapAddReservation}
	}
	return s.create(ctx, requestor, input)
}

func (s *ReservationService) MakeFor(ctx context.Context, requestor *domain.Account, accountID uuid.UUID, input CreateReservationInput) (*domain.Reservation, error) {
	switch {
	case s.perms.Has(requestor, auth.CapCreateAnyReservation):
	case s.perms.Has(requestor, auth.CapAddReservation) && requestor != nil && requestor.ID == accountID:
	default:
		return nil, &domain.PermissionDeniedError{Capability: auth.CapCreateAnyReservation}
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, account, input)
}

// create runs required-field checks, then the ticket-type conditional
// checks, then persists. The three round-trip checks each report under
// both first_flight and return_flight.
func (s *ReservationService) create(ctx context.Context, author *domain.Account, input CreateReservationInput) (*domain.Reservation, error) {
	verr := &domain.ValidationError{}

	if input.FirstFlightID == uuid.Nil {
		verr.Add("This field is required.", "required", "first_flight")
		return nil, verr
	}

	firstFlight, err := s.flights.GetByID(ctx, input.FirstFlightID)
	if err != nil {
		if isNotFound(err) {
			verr.Add("Flight does not exist.", "does_not_exist", "first_flight")
			return nil, verr
		}
		return nil, err
	}

	ticketType := input.TicketType
	if ticketType == "" {
		ticketType = domain.TicketTypeRoundTrip
	}
	if ticketType != domain.TicketTypeRoundTrip && ticketType != domain.TicketTypeOneWay {
		verr.Add("Not a valid ticket type.", "invalid_choice", "ticket_type")
		return nil, verr
	}

	flightClass := input.FlightClass
	if flightClass == "" {
		flightClass = domain.FlightClassEconomy
	}
	switch flightClass {
	case domain.FlightClassFirst, domain.FlightClassBusiness, domain.FlightClassEconomy:
	default:
		verr.Add("Not a valid flight class.", "invalid_choice", "flight_class")
		return nil, verr
	}

	returnFlightID := input.ReturnFlightID
	if ticketType == domain.TicketTypeOneWay {
		// One-way tickets drop the return leg silently, whatever was sent.
		returnFlightID = nil
	} else {
		if returnFlightID == nil {
			verr.Add("Return Flight is required for a round trip.", "required", "return_flight")
			return nil, verr
		}

		if *returnFlightID == firstFlight.ID {
			verr.Add("Return Flight can not be the same as the first flight.", "invalid", "first_flight", "return_flight")
			return nil, verr
		}

		returnFlight, err := s.flights.GetByID(ctx, *returnFlightID)
		if err != nil {
			if isNotFound(err) {
				verr.Add("Flight does not exist.", "does_not_exist", "return_flight")
				return nil, verr
			}
			return nil, err
		}

		// The guard compares the return leg's arrival against the first
		// leg's departure. Do not tighten it to depart-after-land without
		// product sign-off.
		if returnFlight.ExpectedArrival.Before(firstFlight.ExpectedDeparture) {
			verr.Add("Return Flight can not be before the first flight has taken off.", "invalid", "first_flight", "return_flight")
		}
		if returnFlight.DepartureAirport != firstFlight.ArrivalAirport {
			verr.Add("Return Flight must land in same city as first flight.", "invalid", "first_flight", "return_flight")
		}
		if verr.HasErrors() {
			return nil, verr
		}
	}

	reservation := &domain.Reservation{
		ID:             uuid.New(),
		AuthorID:       author.ID,
		FirstFlightID:  firstFlight.ID,
		ReturnFlightID: returnFlightID,
		TicketType:     ticketType,
		FlightClass:    flightClass,
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventReservationCreated, reservation, author, firstFlight)
	return reservation, nil
}

func (s *ReservationService) Filter(ctx context.Context, requestor *domain.Account, query Query) ([]domain.Reservation, error) {
	scoped, err := s.scopeQuery(requestor, query)
	if err != nil {
		return nil, err
	}

	return s.reservations.Filter(ctx, repository.ReservationFilter{
		AccountID:    scoped.AccountID,
		FlightNumber: scoped.FlightNumber,
		OnDate:       scoped.OnDate,
	})
}

func (s *ReservationService) FilterByPeriod(ctx context.Context, requestor *domain.Account, year int, month *time.Month) ([]domain.Reservation, error) {
	scoped, err := s.scopeQuery(requestor, Query{})
	if err != nil {
		return nil, err
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	if month != nil {
		start = time.Date(year, *month, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	}

	return s.reservations.Filter(ctx, repository.ReservationFilter{
		AccountID:   scoped.AccountID,
		PeriodStart: &start,
		PeriodEnd:   &end,
	})
}

// scopeQuery applies the own-versus-any permission gate. Holders of the
// own-scope capability are pinned to their own account no matter what
// account filter they asked for.
func (s *ReservationService) scopeQuery(requestor *domain.Account, query Query) (Query, error) {
	if s.perms.Has(requestor, auth.CapRetrieveAnyReservations) {
		return query, nil
	}
	if !s.perms.Has(requestor, auth.CapRetrieveOwnReservations) {
		return Query{}, &domain.PermissionDeniedError{Capability: auth.CapRetrieveOwnReservations}
	}
	if query.AccountID != nil && *query.AccountID != requestor.ID {
		return Query{}, &domain.PermissionDeniedError{Capability: auth.CapRetrieveAnyReservations}
	}
	own := requestor.ID
	query.AccountID = &own
	return query, nil
}

func (s *ReservationService) Delete(ctx context.Context, requestor *domain.Account, id uuid.UUID) error {
	reservation, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch {
	case s.perms.Has(requestor, auth.CapDeleteAnyReservations):
	case s.perms.Has(requestor, auth.CapDeleteOwnReservation) && reservation.AuthorID == requestor.ID:
	default:
		return &domain.PermissionDeniedError{Capability: auth.CapDeleteOwnReservation}
	}

	return s.reservations.SoftDelete(ctx, id)
}

func (s *ReservationService) publish(ctx context.Context, eventType string, reservation *domain.Reservation, author *domain.Account, flight *domain.Flight) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: reservation.ID.String(),
		AccountID:     author.ID.String(),
		Email:         author.Email,
		Designation:   flight.Designation(),
		Departure:     flight.ExpectedDeparture,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, reservation.ID.String(), event); err != nil {
		log.Printf("WARNING: failed to publish %s event for reservation %s: %v", eventType, reservation.ID, err)
	}
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

var _ ReservationUseCase = (*ReservationService)(nil)
