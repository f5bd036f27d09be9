package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/auth"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/gin-gonic/gin"
)

// AirportHandler serves the reference data behind the flight filters.
type AirportHandler struct {
	airports repository.AirportRepository
	airlines repository.AirlineRepository
	perms    auth.Checker
}

func NewAirportHandler(airports repository.AirportRepository, airlines repository.AirlineRepository, perms auth.Checker) *AirportHandler {
	return &AirportHandler{airports: airports, airlines: airlines, perms: perms}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("/airports", h.list)
	router.GET("/airports/:code", h.get)
	router.GET("/airlines/:code", h.getAirline)
}

type airportResponse struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func toAirportResponse(a *domain.Airport) airportResponse {
	return airportResponse{
		Code:      a.Code,
		Name:      a.Name,
		City:      a.City,
		Country:   a.Country,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
}

func (h *AirportHandler) list(c *gin.Context) {
	if !h.perms.Has(currentAccount(c), auth.CapViewAirport) {
		respondError(c, &domain.PermissionDeniedError{Capability: auth.CapViewAirport})
		return
	}

	airports, err := h.airports.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]airportResponse, 0, len(airports))
	for i := range airports {
		out = append(out, toAirportResponse(&airports[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AirportHandler) get(c *gin.Context) {
	if !h.perms.Has(currentAccount(c), auth.CapViewAirport) {
		respondError(c, &domain.PermissionDeniedError{Capability: auth.CapViewAirport})
		return
	}

	airport, err := h.airports.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAirportResponse(airport))
}

func (h *AirportHandler) getAirline(c *gin.Context) {
	if !h.perms.Has(currentAccount(c), auth.CapViewAirline) {
		respondError(c, &domain.PermissionDeniedError{Capability: auth.CapViewAirline})
		return
	}

	airline, err := h.airlines.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": airline.Code, "name": airline.Name})
}
