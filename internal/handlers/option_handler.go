package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
	"optionvault/internal/pagination"
	"optionvault/internal/services"
)

// OptionHandler handles option lifecycle requests.
type OptionHandler struct {
	optionService services.OptionServicer
	eventService  services.EventServicer
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(optionService services.OptionServicer, eventService services.EventServicer) *OptionHandler {
	return &OptionHandler{optionService: optionService, eventService: eventService}
}

// WriteOptionRequest represents the request payload for writing an option.
// Amounts are integer decimal strings in smallest units.
type WriteOptionRequest struct {
	Amount       string `json:"amount" binding:"required"`
	Strike       string `json:"strike" binding:"required"`
	Premium      string `json:"premium" binding:"required"`
	DaysToExpiry int    `json:"days_to_expiry" binding:"min=0"`
	Collateral   string `json:"collateral" binding:"required"`
}

// WriteCallOption handles writing a new call option
// @Summary     Write a call option
// @Description Lock collateral and create a call option at the current market price
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WriteOptionRequest true "Option terms"
// @Success     201 {object} models.Option "Option created"
// @Failure     400 {object} ErrorResponse "Invalid terms, strike, or collateral"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Oracle unavailable"
// @Router      /options/call [post]
func (h *OptionHandler) WriteCallOption(c *gin.Context) {
	h.writeOption(c, models.SideCall)
}

// WritePutOption handles writing a new put option
// @Summary     Write a put option
// @Description Lock collateral and create a put option at the current market price
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WriteOptionRequest true "Option terms"
// @Success     201 {object} models.Option "Option created"
// @Failure     400 {object} ErrorResponse "Invalid terms, strike, or collateral"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Oracle unavailable"
// @Router      /options/put [post]
func (h *OptionHandler) WritePutOption(c *gin.Context) {
	h.writeOption(c, models.SidePut)
}

func (h *OptionHandler) writeOption(c *gin.Context, side models.OptionSide) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WriteOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	strike, err := parseAmount("strike", req.Strike)
	if err != nil {
		respondWithError(c, err)
		return
	}
	premium, err := parseAmount("premium", req.Premium)
	if err != nil {
		respondWithError(c, err)
		return
	}
	collateral, err := parseAmount("collateral", req.Collateral)
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.WriteOption(traderID, side, amount, strike, premium, req.DaysToExpiry, collateral)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"option": option})
}

// BuyCallOption handles buying an open call option
// @Summary     Buy a call option
// @Description Buy an open call option, paying the premium from the approved allowance
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Option bought"
// @Failure     400 {object} ErrorResponse "Not a call option"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Failure     409 {object} ErrorResponse "Insufficient allowance or balance"
// @Router      /options/call/{id}/buy [post]
func (h *OptionHandler) BuyCallOption(c *gin.Context) {
	h.buyOption(c, models.SideCall)
}

// BuyPutOption handles buying an open put option
// @Summary     Buy a put option
// @Description Buy an open put option, paying the premium from the approved allowance
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Option bought"
// @Failure     400 {object} ErrorResponse "Not a put option"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Failure     409 {object} ErrorResponse "Insufficient allowance or balance"
// @Router      /options/put/{id}/buy [post]
func (h *OptionHandler) BuyPutOption(c *gin.Context) {
	h.buyOption(c, models.SidePut)
}

func (h *OptionHandler) buyOption(c *gin.Context, side models.OptionSide) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.BuyOption(traderID, side, optionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// ExerciseCallOption handles exercising a call option
// @Summary     Exercise a call option
// @Description Collect the locked collateral of an expired in-the-money call
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Option exercised"
// @Failure     403 {object} ErrorResponse "Caller is not the buyer"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Failure     409 {object} ErrorResponse "Not expired or out of the money"
// @Router      /options/call/{id}/exercise [post]
func (h *OptionHandler) ExerciseCallOption(c *gin.Context) {
	h.exerciseOption(c, models.SideCall)
}

// ExercisePutOption handles exercising a put option
// @Summary     Exercise a put option
// @Description Collect the locked collateral of an expired in-the-money put
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Option exercised"
// @Failure     403 {object} ErrorResponse "Caller is not the buyer"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Failure     409 {object} ErrorResponse "Not expired or out of the money"
// @Router      /options/put/{id}/exercise [post]
func (h *OptionHandler) ExercisePutOption(c *gin.Context) {
	h.exerciseOption(c, models.SidePut)
}

func (h *OptionHandler) exerciseOption(c *gin.Context, side models.OptionSide) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.ExerciseOption(traderID, side, optionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// ExpireWorthless handles the writer cancelling an out-of-the-money option
// @Summary     Expire an option worthless
// @Description Cancel an expired out-of-the-money option as its writer
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Option cancelled"
// @Failure     403 {object} ErrorResponse "Caller is not the writer"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Failure     409 {object} ErrorResponse "Not expired or in the money"
// @Router      /options/{id}/expire-worthless [post]
func (h *OptionHandler) ExpireWorthless(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.ExpireWorthless(traderID, optionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// RetrieveExpiredFunds handles the writer reclaiming collateral
// @Summary     Retrieve expired funds
// @Description Reclaim the locked collateral of a cancelled option as its writer
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Collateral returned"
// @Failure     403 {object} ErrorResponse "Caller is not the writer"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Failure     409 {object} ErrorResponse "Option not cancelled or already settled"
// @Router      /options/{id}/retrieve-funds [post]
func (h *OptionHandler) RetrieveExpiredFunds(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.RetrieveExpiredFunds(traderID, optionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// GetOptionDetails handles the retrieval of a single option
// @Summary     Get option details
// @Description Get the full record of one option by ID
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Option ID"
// @Success     200 {object} models.Option "Option details"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Router      /options/{id} [get]
func (h *OptionHandler) GetOptionDetails(c *gin.Context) {
	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.GetOptionDetails(optionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"option": option})
}

// GetOptionEvents handles the retrieval of an option's event log
// @Summary     Get option events
// @Description Get the audit log of lifecycle transitions for one option
// @Tags        options
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Option ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[models.OptionEvent] "Paginated events"
// @Failure     404 {object} ErrorResponse "Option not valid"
// @Router      /options/{id}/events [get]
func (h *OptionHandler) GetOptionEvents(c *gin.Context) {
	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	// Existence check so unknown ids fail with the named not-found error.
	if _, err := h.optionService.GetOptionDetails(optionID); err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.eventService.GetOptionEvents(optionID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTraderPositions handles the retrieval of a trader's option ids
// @Summary     Get trader positions
// @Description Get the ids of every option a trader has participated in
// @Tags        traders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  int true  "Trader ID"
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 100)"
// @Success     200 {object} pagination.PageResponse[uint] "Paginated option ids"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /traders/{id}/positions [get]
func (h *OptionHandler) GetTraderPositions(c *gin.Context) {
	traderID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.optionService.GetTraderPositions(traderID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPriceFeed handles the read-only oracle quote
// @Summary     Get price feed
// @Description Get the normalized oracle quote scaled by a reference amount
// @Tags        oracle
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       reference_amount query string false "Reference amount in smallest units (default 1e18)"
// @Success     200 {object} map[string]string "Normalized price"
// @Failure     502 {object} ErrorResponse "Oracle unavailable or stale"
// @Router      /price-feed [get]
func (h *OptionHandler) GetPriceFeed(c *gin.Context) {
	reference := services.UnitScale
	if raw := c.Query("reference_amount"); raw != "" {
		parsed, err := parseAmount("reference_amount", raw)
		if err != nil {
			respondWithError(c, err)
			return
		}
		reference = parsed
	}

	price, err := h.optionService.GetPriceFeed(reference)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reference_amount": reference.String(),
		"price":            price.String(),
	})
}
