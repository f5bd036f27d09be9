package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Schedule(ctx context.Context, requestor *domain.Account, airlineCode string, input flights.ScheduleInput) (*domain.Flight, error) {
	args := m.Called(ctx, requestor, airlineCode, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) BulkSchedule(ctx context.Context, requestor *domain.Account, airlineCode string, period flights.PeriodType, input flights.BulkScheduleInput) ([]domain.Flight, error) {
	args := m.Called(ctx, requestor, airlineCode, period, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Filter(ctx context.Context, requestor *domain.Account, filter flights.FilterInput) ([]domain.Flight, error) {
	args := m.Called(ctx, requestor, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) AirlineSchedule(ctx context.Context, requestor *domain.Account, airlineCode, flightNumber string, onDate *time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, requestor, airlineCode, flightNumber, onDate)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Get(ctx context.Context, requestor *domain.Account, id uuid.UUID) (*domain.Flight, error) {
	args := m.Called(ctx, requestor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func sampleFlight() *domain.Flight {
	departure := time.Date(2026, time.September, 4, 9, 30, 0, 0, time.UTC)
	return &domain.Flight{
		ID:                uuid.New(),
		AirlineCode:       "BA",
		FlightNumber:      "001",
		DepartureAirport:  "LHR",
		ArrivalAirport:    "LOS",
		ExpectedDeparture: departure,
		ExpectedArrival:   departure.Add(6 * time.Hour),
	}
}

func TestFlightHandler_schedule(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	staff := &domain.Account{ID: uuid.New(), Email: "staff@example.com", Role: domain.RoleStaff}
	c.Set(accountContextKey, staff)
	c.Params = gin.Params{{Key: "code", Value: "BA"}}

	flight := sampleFlight()
	input := flights.ScheduleInput{
		FlightNumber:      "001",
		DepartureAirport:  "LHR",
		ArrivalAirport:    "LOS",
		ExpectedDeparture: flight.ExpectedDeparture,
		ExpectedArrival:   flight.ExpectedArrival,
	}
	body, _ := json.Marshal(scheduleRequest{
		FlightNumber:      input.FlightNumber,
		DepartureAirport:  input.DepartureAirport,
		ArrivalAirport:    input.ArrivalAirport,
		ExpectedDeparture: input.ExpectedDeparture,
		ExpectedArrival:   input.ExpectedArrival,
	})
	c.Request = httptest.NewRequest("POST", "/airlines/BA/schedule", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Schedule", c.Request.Context(), staff, "BA", input).Return(flight, nil)

	handler.schedule(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Flight Scheduled Successfully")
	assert.Contains(t, w.Body.String(), `"flight_designation":"BA001"`)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_dailySchedule(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	staff := &domain.Account{ID: uuid.New(), Email: "staff@example.com", Role: domain.RoleStaff}
	c.Set(accountContextKey, staff)
	c.Params = gin.Params{{Key: "code", Value: "BA"}}

	body, _ := json.Marshal(bulkScheduleRequest{
		FlightNumber:          "001",
		DepartureAirport:      "LHR",
		ArrivalAirport:        "LOS",
		Period:                5,
		TimeOfFlight:          "09:30",
		FlightDurationMinutes: 360,
	})
	c.Request = httptest.NewRequest("POST", "/airlines/BA/daily-schedule", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	expected := flights.BulkScheduleInput{
		FlightNumber:     "001",
		DepartureAirport: "LHR",
		ArrivalAirport:   "LOS",
		Period:           5,
		TimeOfFlight:     flights.TimeOfDay{Hour: 9, Minute: 30},
		FlightDuration:   6 * time.Hour,
	}
	mockService.On("BulkSchedule", c.Request.Context(), staff, "BA", flights.PeriodDays, expected).
		Return([]domain.Flight{*sampleFlight()}, nil)

	handler.dailySchedule(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Flights Scheduled Successfully")
	mockService.AssertExpectations(t)
}

func TestFlightHandler_dailySchedule_badTime(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "code", Value: "BA"}}
	body, _ := json.Marshal(bulkScheduleRequest{TimeOfFlight: "quarter past nine"})
	c.Request = httptest.NewRequest("POST", "/airlines/BA/daily-schedule", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.dailySchedule(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "BulkSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)
	c.Request = httptest.NewRequest("GET", "/flights?from=London&destination=Lagos", nil)

	mockService.On("Filter", c.Request.Context(), account, flights.FilterInput{From: "London", To: "Lagos"}).
		Return([]domain.Flight{*sampleFlight()}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []flightResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "BA001", response[0].Designation)
	assert.Equal(t, (6 * time.Hour).Seconds(), response[0].DurationSeconds)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request = httptest.NewRequest("GET", "/flights/"+id.String(), nil)

	mockService.On("Get", c.Request.Context(), account, id).
		Return(nil, &domain.NotFoundError{Resource: "flight", Key: id.String()})

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_airlineSchedule(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)
	c.Params = gin.Params{{Key: "code", Value: "BA"}}
	c.Request = httptest.NewRequest("GET", "/airlines/BA/schedule?flight_number=001", nil)

	mockService.On("AirlineSchedule", c.Request.Context(), account, "BA", "001", (*time.Time)(nil)).
		Return([]domain.Flight{*sampleFlight()}, nil)

	handler.airlineSchedule(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Available Flights For Airline: BA Returned")
	mockService.AssertExpectations(t)
}
