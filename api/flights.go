package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/flights", h.list)
	router.GET("/flights/:id", h.get)
	router.GET("/airlines/:code/schedule", h.airlineSchedule)
	router.POST("/airlines/:code/schedule", h.schedule)
	router.POST("/airlines/:code/daily-schedule", h.dailySchedule)
	router.POST("/airlines/:code/weekly-schedule", h.weeklySchedule)
}

type scheduleRequest struct {
	FlightNumber      string    `json:"flight_number"`
	DepartureAirport  string    `json:"departure_airport"`
	ArrivalAirport    string    `json:"arrival_airport"`
	ExpectedDeparture time.Time `json:"expected_departure"`
	ExpectedArrival   time.Time `json:"expected_arrival"`
}

type bulkScheduleRequest struct {
	FlightNumber          string `json:"flight_number"`
	DepartureAirport      string `json:"departure_airport"`
	ArrivalAirport        string `json:"arrival_airport"`
	Period                int    `json:"period"`
	TimeOfFlight          string `json:"time_of_flight"`
	FlightDurationMinutes int    `json:"flight_duration_minutes"`
}

type flightResponse struct {
	ID                string     `json:"id"`
	Airline           string     `json:"airline"`
	FlightNumber      string     `json:"flight_number"`
	Designation       string     `json:"flight_designation"`
	DepartureAirport  string     `json:"departure_airport"`
	ArrivalAirport    string     `json:"arrival_airport"`
	ExpectedDeparture time.Time  `json:"expected_departure"`
	ExpectedArrival   time.Time  `json:"expected_arrival"`
	Departure         *time.Time `json:"departure,omitempty"`
	Arrival           *time.Time `json:"arrival,omitempty"`
	DurationSeconds   float64    `json:"flight_duration"`
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:                f.ID.String(),
		Airline:           f.AirlineCode,
		FlightNumber:      f.FlightNumber,
		Designation:       f.Designation(),
		DepartureAirport:  f.DepartureAirport,
		ArrivalAirport:    f.ArrivalAirport,
		ExpectedDeparture: f.ExpectedDeparture,
		ExpectedArrival:   f.ExpectedArrival,
		Departure:         f.Departure,
		Arrival:           f.Arrival,
		DurationSeconds:   f.Duration().Seconds(),
	}
}

func toFlightResponses(items []domain.Flight) []flightResponse {
	out := make([]flightResponse, 0, len(items))
	for i := range items {
		out = append(out, toFlightResponse(&items[i]))
	}
	return out
}

func (h *FlightHandler) list(c *gin.Context) {
	filter := flights.FilterInput{
		From: c.Query("from"),
		To:   c.Query("destination"),
	}
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.OnDate = &day
	}

	result, err := h.service.Filter(c.Request.Context(), currentAccount(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponses(result))
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	flight, err := h.service.Get(c.Request.Context(), currentAccount(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) airlineSchedule(c *gin.Context) {
	var onDate *time.Time
	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		onDate = &day
	}

	result, err := h.service.AirlineSchedule(c.Request.Context(), currentAccount(c), c.Param("code"), c.Query("flight_number"), onDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Available Flights For Airline: " + c.Param("code") + " Returned",
		"data":    toFlightResponses(result),
	})
}

func (h *FlightHandler) schedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Schedule(c.Request.Context(), currentAccount(c), c.Param("code"), flights.ScheduleInput{
		FlightNumber:      req.FlightNumber,
		DepartureAirport:  req.DepartureAirport,
		ArrivalAirport:    req.ArrivalAirport,
		ExpectedDeparture: req.ExpectedDeparture,
		ExpectedArrival:   req.ExpectedArrival,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Flight Scheduled Successfully",
		"data":    toFlightResponse(flight),
	})
}

func (h *FlightHandler) dailySchedule(c *gin.Context) {
	h.bulkSchedule(c, flights.PeriodDays)
}

func (h *FlightHandler) weeklySchedule(c *gin.Context) {
	h.bulkSchedule(c, flights.PeriodWeeks)
}

func (h *FlightHandler) bulkSchedule(c *gin.Context, period flights.PeriodType) {
	var req bulkScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	timeOfFlight, err := time.Parse("15:04", req.TimeOfFlight)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid time_of_flight, expected HH:MM"})
		return
	}

	created, err := h.service.BulkSchedule(c.Request.Context(), currentAccount(c), c.Param("code"), period, flights.BulkScheduleInput{
		FlightNumber:     req.FlightNumber,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		Period:           req.Period,
		TimeOfFlight:     flights.TimeOfDay{Hour: timeOfFlight.Hour(), Minute: timeOfFlight.Minute()},
		FlightDuration:   time.Duration(req.FlightDurationMinutes) * time.Minute,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Flights Scheduled Successfully",
		"data":    toFlightResponses(created),
	})
}
