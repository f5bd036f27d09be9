package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountHandler struct {
	accounts repository.AccountRepository
}

func NewAccountHandler(accounts repository.AccountRepository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterPublic mounts the unauthenticated routes.
func (h *AccountHandler) RegisterPublic(router *gin.RouterGroup) {
	router.POST("/accounts", h.register)
}

func (h *AccountHandler) Register(router *gin.RouterGroup) {
	router.GET("/accounts/me", h.me)
}

type registerAccountRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PassportNumber string `json:"passport_number"`
}

type accountResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	Role           string    `json:"role"`
	PictureURL     string    `json:"profile_picture_url"`
	PassportNumber string    `json:"passport_number,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:             a.ID.String(),
		Email:          a.Email,
		FullName:       a.FullName(),
		Role:           string(a.Role),
		PictureURL:     a.PictureURL(),
		PassportNumber: a.PassportNumber,
		CreatedAt:      a.CreatedAt,
	}
}

func (h *AccountHandler) register(c *gin.Context) {
	var req registerAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	verr := &domain.ValidationError{}
	if req.Email == "" {
		verr.Add("This field is required.", "required", "email")
	}
	if req.FirstName == "" {
		verr.Add("This field is required.", "required", "first_name")
	}
	if req.LastName == "" {
		verr.Add("This field is required.", "required", "last_name")
	}
	if verr.HasErrors() {
		respondError(c, verr)
		return
	}

	account := &domain.Account{
		ID:             uuid.New(),
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           domain.RoleClient,
		PassportNumber: req.PassportNumber,
	}

	if err := h.accounts.Create(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResponse(account))
}

func (h *AccountHandler) me(c *gin.Context) {
	account := currentAccount(c)
	if account == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}
