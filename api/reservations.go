package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/reservations"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	service reservations.ReservationUseCase
}

func NewReservationHandler(service reservations.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("/reservations", h.create)
	router.GET("/reservations", h.list)
	router.GET("/reservations/period/:year", h.listByPeriod)
	router.DELETE("/reservations/:id", h.delete)
	router.POST("/accounts/:id/reservations", h.createForAccount)
}

type createReservationRequest struct {
	FirstFlight  string `json:"first_flight"`
	ReturnFlight string `json:"return_flight"`
	TicketType   string `json:"ticket_type"`
	FlightClass  string `json:"flight_class"`
}

type reservationResponse struct {
	ID           string    `json:"id"`
	Author       string    `json:"reserved_by"`
	FirstFlight  string    `json:"first_flight"`
	ReturnFlight *string   `json:"return_flight"`
	TicketType   string    `json:"reservation_type"`
	FlightClass  string    `json:"reservation_class"`
	ReminderSent bool      `json:"reminder_sent"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	resp := reservationResponse{
		ID:           r.ID.String(),
		Author:       r.AuthorID.String(),
		FirstFlight:  r.FirstFlightID.String(),
		TicketType:   string(r.TicketType),
		FlightClass:  string(r.FlightClass),
		ReminderSent: r.ReminderSent,
		CreatedAt:    r.CreatedAt,
	}
	if r.ReturnFlightID != nil {
		v := r.ReturnFlightID.String()
		resp.ReturnFlight = &v
	}
	return resp
}

func toReservationResponses(items []domain.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(items))
	for i := range items {
		out = append(out, toReservationResponse(&items[i]))
	}
	return out
}

func (r createReservationRequest) toInput() (reservations.CreateReservationInput, error) {
	input := reservations.CreateReservationInput{
		TicketType:  domain.TicketType(r.TicketType),
		FlightClass: domain.FlightClass(r.FlightClass),
	}

	if r.FirstFlight != "" {
		id, err := uuid.Parse(r.FirstFlight)
		if err != nil {
			return input, err
		}
		input.FirstFlightID = id
	}
	if r.ReturnFlight != "" {
		id, err := uuid.Parse(r.ReturnFlight)
		if err != nil {
			return input, err
		}
		input.ReturnFlightID = &id
	}
	return input, nil
}

func (h *ReservationHandler) create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	reservation, err := h.service.MakeOwn(c.Request.Context(), currentAccount(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) createForAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flight id"})
		return
	}

	reservation, err := h.service.MakeFor(c.Request.Context(), currentAccount(c), accountID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(reservation))
}

func (h *ReservationHandler) list(c *gin.Context) {
	query := reservations.Query{
		FlightNumber: c.Query("flight_number"),
	}

	if raw := c.Query("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
			return
		}
		query.OnDate = &day
	}
	if raw := c.Query("account"); raw != "" {
		accountID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
			return
		}
		query.AccountID = &accountID
	}

	result, err := h.service.Filter(c.Request.Context(), currentAccount(c), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponses(result))
}

func (h *ReservationHandler) listByPeriod(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	var month *time.Month
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		v := time.Month(m)
		month = &v
	}

	result, err := h.service.FilterByPeriod(c.Request.Context(), currentAccount(c), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponses(result))
}

func (h *ReservationHandler) delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), currentAccount(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation Deleted"})
}
