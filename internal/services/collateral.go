package services

import "github.com/shopspring/decimal"

// UnitScale is one whole unit of the collateral asset in smallest units
// (18-decimal fixed point).
var UnitScale = decimal.New(1, 18)

// RequiredCollateral converts a notional amount into the collateral quantity
// needed at the given quote: amount × 1e18 / quote, truncated toward zero.
// Callers must compare against it exactly — rounding drift in the caller's
// favor would under-collateralize the option.
func RequiredCollateral(amount, quote decimal.Decimal) decimal.Decimal {
	q, _ := amount.Mul(UnitScale).QuoRem(quote, 0)
	return q
}
