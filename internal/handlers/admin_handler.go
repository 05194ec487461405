package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/services"
)

// AdminHandler handles owner-only requests: the circuit breaker and the
// oracle feed.
type AdminHandler struct {
	statusService services.StatusServicer
	oracleService services.OracleServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(statusService services.StatusServicer, oracleService services.OracleServicer) *AdminHandler {
	return &AdminHandler{statusService: statusService, oracleService: oracleService}
}

// RecordPriceRequest represents the request payload for posting a price.
type RecordPriceRequest struct {
	Price      string     `json:"price" binding:"required"`
	Decimals   int32      `json:"decimals" binding:"min=0,max=18"`
	RecordedAt *time.Time `json:"recorded_at"`
}

// Pause engages the circuit breaker
// @Summary     Pause the engine
// @Description Disable all state-mutating entry points (owner only)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Engine paused"
// @Failure     403 {object} ErrorResponse "Caller is not the owner"
// @Router      /admin/pause [post]
func (h *AdminHandler) Pause(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.statusService.Pause(traderID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Engine paused"})
}

// Unpause releases the circuit breaker
// @Summary     Unpause the engine
// @Description Re-enable all state-mutating entry points (owner only)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Engine unpaused"
// @Failure     403 {object} ErrorResponse "Caller is not the owner"
// @Router      /admin/unpause [post]
func (h *AdminHandler) Unpause(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.statusService.Unpause(traderID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Engine unpaused"})
}

// GetStatus returns the circuit breaker state
// @Summary     Get engine status
// @Description Report whether the engine is currently paused
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]bool "Engine status"
// @Router      /admin/status [get]
func (h *AdminHandler) GetStatus(c *gin.Context) {
	paused, err := h.statusService.IsPaused()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paused": paused})
}

// RecordPrice appends a reading to the oracle feed
// @Summary     Record an oracle price
// @Description Append a raw price reading with its decimal precision (owner only)
// @Tags        admin
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordPriceRequest true "Price reading"
// @Success     201 {object} models.PricePoint "Recorded price point"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Caller is not the owner"
// @Router      /admin/price-points [post]
func (h *AdminHandler) RecordPrice(c *gin.Context) {
	var req RecordPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	price, err := parseAmount("price", req.Price)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recordedAt := time.Time{}
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	point, err := h.oracleService.RecordPrice(price, req.Decimals, recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"price_point": point})
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
