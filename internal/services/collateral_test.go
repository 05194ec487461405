package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"optionvault/internal/testutil"
)

func TestRequiredCollateral(t *testing.T) {
	t.Run("exact_division", func(t *testing.T) {
		// 3e18 notional at 2000e18 per unit locks 1.5e15.
		got := RequiredCollateral(decimal.New(3, 18), decimal.New(2000, 18))
		testutil.AssertDecimalEqual(t, decimal.New(15, 14), got)
	})

	t.Run("truncates_toward_zero", func(t *testing.T) {
		// 1e18 / 3e18 per unit: the exact quotient 0.333...e18 truncates.
		got := RequiredCollateral(decimal.New(1, 18), decimal.New(3, 18))
		testutil.AssertDecimalEqual(t, decimal.RequireFromString("333333333333333333"), got)
	})

	t.Run("large_notional_no_overflow", func(t *testing.T) {
		// 1e24 notional times 1e18 scale exceeds 64-bit range comfortably.
		got := RequiredCollateral(decimal.New(1, 24), decimal.New(2000, 18))
		testutil.AssertDecimalEqual(t, decimal.New(5, 20), got)
	})
}
