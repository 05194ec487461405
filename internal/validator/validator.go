// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("option_side", validateOptionSide)
		_ = v.RegisterValidation("asset", validateAsset)
		_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	}
}

func validateOptionSide(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "call", "put":
		return true
	}
	return false
}

func validateAsset(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "collateral", "quote":
		return true
	}
	return false
}

// validatePositiveAmount accepts integer decimal strings greater than zero.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive() && d.IsInteger()
}
