package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/middleware"
	"optionvault/internal/services"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	traderService services.TraderServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(traderService services.TraderServicer) *AuthHandler {
	return &AuthHandler{traderService: traderService}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TraderResponse represents the trader data in the response
type TraderResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	IsOwner bool   `json:"is_owner"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token  string         `json:"token"`
	Trader TraderResponse `json:"trader"`
}

// Register handles trader registration
// @Summary     Register a new trader
// @Description Register a new trader with email and password. The first trader becomes the contract owner.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Trader registration data"
// @Success     201 {object} AuthResponse "Trader registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Email already registered"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trader, err := h.traderService.CreateTrader(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(trader)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"trader": gin.H{
			"id":       trader.ID,
			"email":    trader.Email,
			"is_owner": trader.IsOwner,
		},
	})
}

// Login handles trader login
// @Summary     Login trader
// @Description Authenticate a trader and get a token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "Trader login credentials"
// @Success     200 {object} AuthResponse "Trader authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	trader, err := h.traderService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	token, err := middleware.GenerateToken(trader)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"trader": gin.H{
			"id":       trader.ID,
			"email":    trader.Email,
			"is_owner": trader.IsOwner,
		},
	})
}

// GetProfile returns the trader's profile
// @Summary     Get trader profile
// @Description Get the authenticated trader's profile information
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} TraderResponse "Trader profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trader, err := h.traderService.GetTraderByID(traderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trader": gin.H{
			"id":       trader.ID,
			"email":    trader.Email,
			"is_owner": trader.IsOwner,
		},
	})
}
