package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
	"optionvault/internal/services"
)

// WalletHandler handles wallet and allowance requests.
type WalletHandler struct {
	walletService services.WalletServicer
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService services.WalletServicer) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// DepositRequest represents the request payload for a deposit.
type DepositRequest struct {
	Asset  models.Asset `json:"asset" binding:"required,asset"`
	Amount string       `json:"amount" binding:"required,positive_amount"`
}

// ApproveRequest represents the request payload for setting an allowance.
type ApproveRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// GetBalances returns the caller's wallet balances
// @Summary     Get wallet balances
// @Description Get the authenticated trader's balance in each asset
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]models.Wallet "Balances per asset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallets [get]
func (h *WalletHandler) GetBalances(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallets, err := h.walletService.GetBalances(traderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallets": wallets})
}

// Deposit credits the caller's wallet
// @Summary     Deposit funds
// @Description Credit the authenticated trader's wallet in one asset
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body DepositRequest true "Asset and amount"
// @Success     200 {object} models.Wallet "Updated wallet"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallets/deposit [post]
func (h *WalletHandler) Deposit(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	wallet, err := h.walletService.Deposit(traderID, req.Asset, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet": wallet})
}

// Approve sets the caller's premium allowance
// @Summary     Approve premium spending
// @Description Set the quote-asset allowance the engine may pull for premiums
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ApproveRequest true "Allowance amount"
// @Success     200 {object} models.Allowance "Updated allowance"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallets/approve [post]
func (h *WalletHandler) Approve(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allowance, err := h.walletService.Approve(traderID, amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowance": allowance})
}

// GetAllowance returns the caller's remaining allowance
// @Summary     Get allowance
// @Description Get the authenticated trader's remaining approved premium amount
// @Tags        wallets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Remaining allowance"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /wallets/allowance [get]
func (h *WalletHandler) GetAllowance(c *gin.Context) {
	traderID, err := getTraderID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	amount, err := h.walletService.GetAllowance(traderID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allowance": amount.String()})
}
