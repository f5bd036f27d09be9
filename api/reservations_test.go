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
	"github.com/Domenick1991/flightbooking/internal/service/reservations"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReservationUseCase is a mock implementation of reservations.ReservationUseCase
type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) MakeOwn(ctx context.Context, requestor *domain.Account, input reservations.CreateReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, requestor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) MakeFor(ctx context.Context, requestor *domain.Account, accountID uuid.UUID, input reservations.CreateReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, requestor, accountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Filter(ctx context.Context, requestor *domain.Account, query reservations.Query) ([]domain.Reservation, error) {
	args := m.Called(ctx, requestor, query)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) FilterByPeriod(ctx context.Context, requestor *domain.Account, year int, month *time.Month) ([]domain.Reservation, error) {
	args := m.Called(ctx, requestor, year, month)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) Delete(ctx context.Context, requestor *domain.Account, id uuid.UUID) error {
	args := m.Called(ctx, requestor, id)
	return args.Error(0)
}

func testClient() *domain.Account {
	return &domain.Account{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Obi",
		Role:      domain.RoleClient,
	}
}

func TestReservationHandler_create(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)

	flightID := uuid.New()
	body, _ := json.Marshal(createReservationRequest{
		FirstFlight: flightID.String(),
		TicketType:  "ONE_WAY",
		FlightClass: "ECONOMY",
	})
	c.Request = httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	reservation := &domain.Reservation{
		ID:            uuid.New(),
		AuthorID:      account.ID,
		FirstFlightID: flightID,
		TicketType:    domain.TicketTypeOneWay,
		FlightClass:   domain.FlightClassEconomy,
	}

	mockService.On("MakeOwn", c.Request.Context(), account, reservations.CreateReservationInput{
		FirstFlightID: flightID,
		TicketType:    domain.TicketTypeOneWay,
		FlightClass:   domain.FlightClassEconomy,
	}).Return(reservation, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response reservationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, reservation.ID.String(), response.ID)
	assert.Equal(t, account.ID.String(), response.Author)
	assert.Equal(t, "ONE_WAY", response.TicketType)
	assert.Nil(t, response.ReturnFlight)

	mockService.AssertExpectations(t)
}

func TestReservationHandler_create_validationErrors(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)

	body, _ := json.Marshal(createReservationRequest{})
	c.Request = httptest.NewRequest("POST", "/reservations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	verr := &domain.ValidationError{}
	verr.Add("This field is required.", "required", "first_flight")
	mockService.On("MakeOwn", c.Request.Context(), account, mock.Anything).Return(nil, verr)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors map[string][]struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"errors"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Errors["first_flight"], 1)
	assert.Equal(t, "This field is required.", response.Errors["first_flight"][0].Message)
	assert.Equal(t, "required", response.Errors["first_flight"][0].Code)
}

func TestReservationHandler_createForAccount(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	staff := &domain.Account{ID: uuid.New(), Email: "ops@example.com", Role: domain.RoleSuperStaff}
	c.Set(accountContextKey, staff)

	target := uuid.New()
	flightID := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: target.String()}}

	body, _ := json.Marshal(createReservationRequest{FirstFlight: flightID.String(), TicketType: "ONE_WAY"})
	c.Request = httptest.NewRequest("POST", "/accounts/"+target.String()+"/reservations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	reservation := &domain.Reservation{ID: uuid.New(), AuthorID: target, FirstFlightID: flightID, TicketType: domain.TicketTypeOneWay}
	mockService.On("MakeFor", c.Request.Context(), staff, target, mock.Anything).Return(reservation, nil)

	handler.createForAccount(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response reservationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, target.String(), response.Author)

	mockService.AssertExpectations(t)
}

func TestReservationHandler_list_forwardsQuery(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)
	c.Request = httptest.NewRequest("GET", "/reservations?flight_number=001&date=2026-09-01", nil)

	day := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	mockService.On("Filter", c.Request.Context(), account, reservations.Query{
		FlightNumber: "001",
		OnDate:       &day,
	}).Return([]domain.Reservation{}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_list_permissionDenied(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	staff := &domain.Account{ID: uuid.New(), Email: "staff@example.com", Role: domain.RoleStaff}
	c.Set(accountContextKey, staff)
	c.Request = httptest.NewRequest("GET", "/reservations", nil)

	mockService.On("Filter", c.Request.Context(), staff, reservations.Query{}).
		Return([]domain.Reservation{}, &domain.PermissionDeniedError{Capability: "reservations.retrieve_reservations"})

	handler.list(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient Permission.")
}

func TestReservationHandler_listByPeriod(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)
	c.Params = gin.Params{{Key: "year", Value: "2026"}}
	c.Request = httptest.NewRequest("GET", "/reservations/period/2026?month=3", nil)

	march := time.March
	mockService.On("FilterByPeriod", c.Request.Context(), account, 2026, &march).
		Return([]domain.Reservation{}, nil)

	handler.listByPeriod(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestReservationHandler_delete(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request = httptest.NewRequest("DELETE", "/reservations/"+id.String(), nil)

	mockService.On("Delete", c.Request.Context(), account, id).Return(nil)

	handler.delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reservation Deleted")
	mockService.AssertExpectations(t)
}

func TestReservationHandler_delete_notFound(t *testing.T) {
	mockService := &MockReservationUseCase{}
	handler := NewReservationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	account := testClient()
	c.Set(accountContextKey, account)

	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	c.Request = httptest.NewRequest("DELETE", "/reservations/"+id.String(), nil)

	mockService.On("Delete", c.Request.Context(), account, id).
		Return(&domain.NotFoundError{Resource: "reservation", Key: id.String()})

	handler.delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
