package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/logger"
)

// PauseChecker reports whether the circuit breaker is engaged.
type PauseChecker interface {
	IsPaused() (bool, error)
}

// OwnerChecker reports whether a trader is the contract owner.
type OwnerChecker interface {
	IsOwner(traderID uint) (bool, error)
}

// NotPaused refuses every request while the engine is paused. It wraps all
// state-mutating routes; read-only routes are mounted outside it.
func NotPaused(status PauseChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		paused, err := status.IsPaused()
		if err != nil {
			abortWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
			return
		}
		if paused {
			abortWithError(c, apperrors.ErrEnginePaused)
			return
		}
		c.Next()
	}
}

// RequireOwner restricts a route to the contract owner. Ownership is read
// from the database, not the token, so a transferred flag applies at once.
func RequireOwner(traders OwnerChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		traderID, exists := c.Get("traderID")
		if !exists {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}
		owner, err := traders.IsOwner(traderID.(uint))
		if err != nil {
			abortWithError(c, err)
			return
		}
		if !owner {
			abortWithError(c, apperrors.ErrNotOwner)
			return
		}
		c.Next()
	}
}

// abortWithError writes a consistent JSON error response and stops the chain.
func abortWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected guard error", "error", err.Error(), "path", c.Request.URL.Path)
		appErr = apperrors.ErrInternalServer
	}
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
