package flights

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type PeriodType string

const (
	PeriodDays  PeriodType = "days"
	PeriodWeeks PeriodType = "weeks"
)

const maxFlightDuration = 24 * time.Hour

type FlightUseCase interface {
	Schedule(ctx context.Context, requestor *domain.Account, airlineCode string, input ScheduleInput) (*domain.Flight, error)
	BulkSchedule(ctx context.Context, requestor *domain.Account, airlineCode string, period PeriodType, input BulkScheduleInput) ([]domain.Flight, error)
	Filter(ctx context.Context, requestor *domain.Account, filter FilterInput) ([]domain.Flight, error)
	AirlineSchedule(ctx context.Context, requestor *domain.Account, airlineCode, flightNumber string, onDate *time.Time) ([]domain.Flight, error)
	Get(ctx context.Context, requestor *domain.Account, id uuid.UUID) (*domain.Flight, error)
}

type ScheduleInput struct {
	FlightNumber      string    `json:"flight_number"`
	DepartureAirport  string    `json:"departure_airport"`
	ArrivalAirport    string    `json:"arrival_airport"`
	ExpectedDeparture time.Time `json:"expected_departure"`
	ExpectedArrival   time.Time `json:"expected_arrival"`
}

type BulkScheduleInput struct {
	FlightNumber     string `json:"flight_number"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	// Period is the number of flights to generate, one per day or week.
	Period         int           `json:"period"`
	TimeOfFlight   TimeOfDay     `json:"time_of_flight"`
	FlightDuration time.Duration `json:"flight_duration"`
}

type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

type FilterInput struct {
	OnDate *time.Time
	From   string
	To     string
}

type Cache interface {
	GetUpcomingFlights(ctx context.Context) ([]domain.Flight, error)
	SetUpcomingFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateUpcomingFlights(ctx context.Context) error
}

type FlightService struct {
	flights  repository.FlightRepository
	airlines repository.AirlineRepository
	airports repository.AirportRepository
	cache    Cache
	perms    auth.Checker
	now      func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	airlines repository.AirlineRepository,
	airports repository.AirportRepository,
	cache Cache,
	perms auth.Checker,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		flights:  flights,
		airlines: airlines,
		airports: airports,
		cache:    cache,
		perms:    perms,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) Schedule(ctx context.Context, requestor *domain.Account, airlineCode string, input ScheduleInput) (*domain.Flight, error) {
	if !s.perms.Has(requestor, auth.CapAddFlights) {
		return nil, &domain.PermissionDeniedError{Capability: auth.CapAddFlights}
	}

	airline, err := s.airlines.GetByCode(ctx, airlineCode)
	if err != nil {
		return nil, err
	}

	if err := s.validateRoute(ctx, input.FlightNumber, input.DepartureAirport, input.ArrivalAirport); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		ID:                uuid.New(),
		AirlineCode:       airline.Code,
		FlightNumber:      input.FlightNumber,
		DepartureAirport:  input.DepartureAirport,
		ArrivalAirport:    input.ArrivalAirport,
		ExpectedDeparture: input.ExpectedDeparture,
		ExpectedArrival:   input.ExpectedArrival,
	}

	created, err := s.flights.Create(ctx, flight)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Printf("flight %s on %s already scheduled, insert skipped", flight.Designation(), flight.ExpectedDeparture.Format("2006-01-02"))
	}
	s.invalidateCache(ctx)
	return flight, nil
}

func (s *FlightService) BulkSchedule(ctx context.Context, requestor *domain.Account, airlineCode string, period PeriodType, input BulkScheduleInput) ([]domain.Flight, error) {
	if !s.perms.Has(requestor, auth.CapAddFlights) {
		return nil, &domain.PermissionDeniedError{Capability: auth.CapAddFlights}
	}
	if period != PeriodDays && period != PeriodWeeks {
		verr := &domain.ValidationError{}
		verr.Add("Period type must be days or weeks.", "invalid", "period_type")
		return nil, verr
	}

	airline, err := s.airlines.GetByCode(ctx, airlineCode)
	if err != nil {
		return nil, err
	}

	if err := s.validateRoute(ctx, input.FlightNumber, input.DepartureAirport, input.ArrivalAirport); err != nil {
		return nil, err
	}
	if err := validateSchedule(input); err != nil {
		return nil, err
	}

	// First departure is today at the given time of day; subsequent ones
	// step one day or one week each.
	base := s.now().Truncate(time.Minute)
	base = time.Date(base.Year(), base.Month(), base.Day(), input.TimeOfFlight.Hour, input.TimeOfFlight.Minute, 0, 0, base.Location())

	batch := make([]*domain.Flight, 0, input.Period)
	for k := 0; k < input.Period; k++ {
		var departure time.Time
		if period == PeriodDays {
			departure = base.AddDate(0, 0, k)
		} else {
			departure = base.AddDate(0, 0, 7*k)
		}

		batch = append(batch, &domain.Flight{
			ID:                uuid.New(),
			AirlineCode:       airline.Code,
			FlightNumber:      input.FlightNumber,
			DepartureAirport:  input.DepartureAirport,
			ArrivalAirport:    input.ArrivalAirport,
			ExpectedDeparture: departure,
			ExpectedArrival:   departure.Add(input.FlightDuration),
		})
	}

	created, err := s.flights.CreateBatch(ctx, batch)
	if err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return created, nil
}

func (s *FlightService) Filter(ctx context.Context, requestor *domain.Account, filter FilterInput) ([]domain.Flight, error) {
	if !s.perms.Has(requestor, auth.CapViewFlights) {
		return nil, &domain.PermissionDeniedError{Capability: auth.CapViewFlights}
	}

	unfiltered := filter.OnDate == nil && filter.From == "" && filter.To == ""
	if unfiltered && s.cache != nil {
		if cached, err := s.cache.GetUpcomingFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.Filter(ctx, repository.FlightFilter{
		DepartingAfter: s.now(),
		OnDate:         filter.OnDate,
		From:           filter.From,
		To:             filter.To,
	})
	if err != nil {
		return nil, err
	}

	if unfiltered && s.cache != nil {
		_ = s.cache.SetUpcomingFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) AirlineSchedule(ctx context.Context, requestor *domain.Account, airlineCode, flightNumber string, onDate *time.Time) ([]domain.Flight, error) {
	if !s.perms.Has(requestor, auth.CapViewFlights) {
		return nil, &domain.PermissionDeniedError{Capability: auth.CapViewFlights}
	}

	airline, err := s.airlines.GetByCode(ctx, airlineCode)
	if err != nil {
		return nil, err
	}
	return s.flights.ListByAirline(ctx, airline.Code, flightNumber, onDate)
}

func (s *FlightService) Get(ctx context.Context, requestor *domain.Account, id uuid.UUID) (*domain.Flight, error) {
	if !s.perms.Has(requestor, auth.CapViewFlight) {
		return nil, &domain.PermissionDeniedError{Capability: auth.CapViewFlight}
	}
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) validateRoute(ctx context.Context, flightNumber, departureAirport, arrivalAirport string) error {
	verr := &domain.ValidationError{}

	if flightNumber == "" {
		verr.Add("This field is required.", "required", "flight_number")
	} else if len(flightNumber) > 4 {
		verr.Add("Flight number can not be longer than 4 characters.", "max_length", "flight_number")
	}
	if departureAirport == "" {
		verr.Add("This field is required.", "required", "departure_airport")
	}
	if arrivalAirport == "" {
		verr.Add("This field is required.", "required", "arrival_airport")
	}
	if verr.HasErrors() {
		return verr
	}

	if departureAirport == arrivalAirport {
		verr.Add("Arrival airport cant be same as departure.", "invalid", "departure_airport", "arrival_airport")
		return verr
	}

	if _, err := s.airports.GetByCode(ctx, departureAirport); err != nil {
		if isNotFound(err) {
			verr.Add("Unknown airport code.", "does_not_exist", "departure_airport")
		} else {
			return err
		}
	}
	if _, err := s.airports.GetByCode(ctx, arrivalAirport); err != nil {
		if isNotFound(err) {
			verr.Add("Unknown airport code.", "does_not_exist", "arrival_airport")
		} else {
			return err
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func validateSchedule(input BulkScheduleInput) error {
	verr := &domain.ValidationError{}

	if input.Period <= 0 {
		verr.Add("Period must be a positive number.", "min_value", "period")
	}
	if input.FlightDuration <= 0 {
		verr.Add("Flight duration must be positive.", "min_value", "flight_duration")
	} else if input.FlightDuration > maxFlightDuration {
		verr.Add("Flight duration can not exceed 24 hours.", "max_value", "flight_duration")
	}
	if input.TimeOfFlight.Hour < 0 || input.TimeOfFlight.Hour > 23 || input.TimeOfFlight.Minute < 0 || input.TimeOfFlight.Minute > 59 {
		verr.Add("Time of flight is not a valid time of day.", "invalid", "time_of_flight")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func (s *FlightService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUpcomingFlights(ctx); err != nil {
		log.Printf("invalidate flights cache: %v", err)
	}
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

var _ FlightUseCase = (*FlightService)(nil)
