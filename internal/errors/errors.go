// Package errors provides custom error types for the OptionVault API.
// Every failure a caller can hit maps to a named AppError code so clients
// can branch deterministically instead of parsing messages.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
	ErrNotOwner           = &AppError{Code: "NOT_OWNER", Message: "Caller is not the contract owner", StatusCode: http.StatusForbidden}
	ErrNotWriter          = &AppError{Code: "NOT_WRITER", Message: "Caller is not the option writer", StatusCode: http.StatusForbidden}
	ErrNotBuyer           = &AppError{Code: "NOT_BUYER", Message: "Caller is not the option buyer", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrEnginePaused   = &AppError{Code: "ENGINE_PAUSED", Message: "The engine is paused; state-changing operations are disabled", StatusCode: http.StatusServiceUnavailable}
)

// Trader errors.
var (
	ErrTraderNotFound = &AppError{Code: "TRADER_NOT_FOUND", Message: "Trader not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A trader with this email already exists", StatusCode: http.StatusConflict}
)

// Option validation errors.
var (
	ErrNeedsMoreThanZero             = &AppError{Code: "NEEDS_MORE_THAN_ZERO", Message: "Amount, strike, and premium must all be greater than zero", StatusCode: http.StatusBadRequest}
	ErrCallStrikeNotMarketPrice      = &AppError{Code: "CALL_STRIKE_NOT_MARKET_PRICE", Message: "Call strike must equal the current market price", StatusCode: http.StatusBadRequest}
	ErrPutStrikeNotMarketPrice       = &AppError{Code: "PUT_STRIKE_NOT_MARKET_PRICE", Message: "Put strike must equal the current market price", StatusCode: http.StatusBadRequest}
	ErrInsufficientCallCollateral    = &AppError{Code: "INSUFFICIENT_CALL_COLLATERAL", Message: "Supplied collateral does not match the required call collateral", StatusCode: http.StatusBadRequest}
	ErrInsufficientPutCollateral     = &AppError{Code: "INSUFFICIENT_PUT_COLLATERAL", Message: "Supplied collateral does not match the required put collateral", StatusCode: http.StatusBadRequest}
	ErrCallPriceNotGreaterThanStrike = &AppError{Code: "CALL_PRICE_NOT_GREATER_THAN_STRIKE", Message: "Market price is not greater than the call strike", StatusCode: http.StatusConflict}
	ErrPutPriceNotLessThanStrike     = &AppError{Code: "PUT_PRICE_NOT_LESS_THAN_STRIKE", Message: "Market price is not less than the put strike", StatusCode: http.StatusConflict}
	ErrCallPriceNotLessThanStrike    = &AppError{Code: "CALL_PRICE_NOT_LESS_THAN_STRIKE", Message: "Market price is not at or below the call strike", StatusCode: http.StatusConflict}
	ErrPutPriceNotGreaterThanStrike  = &AppError{Code: "PUT_PRICE_NOT_GREATER_THAN_STRIKE", Message: "Market price is not at or above the put strike", StatusCode: http.StatusConflict}
)

// Option state errors.
var (
	ErrOptionNotValid     = &AppError{Code: "OPTION_NOT_VALID", Message: "Option does not exist or is not open for purchase", StatusCode: http.StatusNotFound}
	ErrNotCallOption      = &AppError{Code: "NOT_CALL_OPTION", Message: "Option is not a call option", StatusCode: http.StatusBadRequest}
	ErrNotPutOption       = &AppError{Code: "NOT_PUT_OPTION", Message: "Option is not a put option", StatusCode: http.StatusBadRequest}
	ErrNeverBought        = &AppError{Code: "NEVER_BOUGHT", Message: "Option was never bought", StatusCode: http.StatusConflict}
	ErrNotExpired         = &AppError{Code: "NOT_EXPIRED", Message: "Option has not reached expiration yet", StatusCode: http.StatusConflict}
	ErrOptionNotCancelled = &AppError{Code: "OPTION_NOT_CANCELLED", Message: "Option is not in the cancelled state", StatusCode: http.StatusConflict}
)

// Oracle errors.
var (
	ErrInvalidPrice     = &AppError{Code: "INVALID_PRICE", Message: "Oracle returned a non-positive price", StatusCode: http.StatusBadGateway}
	ErrInvalidPriceFeed = &AppError{Code: "INVALID_PRICE_FEED", Message: "Oracle price is older than the staleness threshold", StatusCode: http.StatusBadGateway}
)

// Value transfer errors.
var (
	ErrInsufficientBalance     = &AppError{Code: "INSUFFICIENT_BALANCE", Message: "Wallet balance is insufficient", StatusCode: http.StatusConflict}
	ErrInsufficientAllowance   = &AppError{Code: "INSUFFICIENT_ALLOWANCE", Message: "Approved allowance is insufficient for the premium", StatusCode: http.StatusConflict}
	ErrInsufficientPoolBalance = &AppError{Code: "INSUFFICIENT_POOL_BALANCE", Message: "Pool does not hold enough collateral for this payout", StatusCode: http.StatusConflict}
	ErrTransferFailed          = &AppError{Code: "TRANSFER_FAILED", Message: "Value transfer could not be completed", StatusCode: http.StatusConflict}
)
