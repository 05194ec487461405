package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"optionvault/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestTrader creates a trader with a hashed password and unique email.
func CreateTestTrader(t *testing.T, db *gorm.DB) *models.Trader {
	t.Helper()
	email := fmt.Sprintf("trader%d@test.com", nextID())
	return CreateTestTraderWithEmail(t, db, email)
}

// CreateTestTraderWithEmail creates a trader with the given email.
func CreateTestTraderWithEmail(t *testing.T, db *gorm.DB, email string) *models.Trader {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	trader := &models.Trader{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(trader).Error; err != nil {
		t.Fatalf("failed to create test trader: %v", err)
	}
	return trader
}

// CreateTestOwner creates a trader flagged as the contract owner.
func CreateTestOwner(t *testing.T, db *gorm.DB) *models.Trader {
	t.Helper()

	trader := CreateTestTrader(t, db)
	if err := db.Model(trader).Update("is_owner", true).Error; err != nil {
		t.Fatalf("failed to mark test trader as owner: %v", err)
	}
	trader.IsOwner = true
	return trader
}

// FundWallet sets a trader's balance in the given asset, creating the
// wallet row if needed.
func FundWallet(t *testing.T, db *gorm.DB, traderID uint, asset models.Asset, balance decimal.Decimal) *models.Wallet {
	t.Helper()

	wallet := &models.Wallet{
		TraderID: traderID,
		Asset:    asset,
		Balance:  balance,
	}
	if err := db.Create(wallet).Error; err != nil {
		t.Fatalf("failed to fund test wallet: %v", err)
	}
	return wallet
}

// SetAllowance sets the trader's quote-asset allowance directly.
func SetAllowance(t *testing.T, db *gorm.DB, traderID uint, amount decimal.Decimal) *models.Allowance {
	t.Helper()

	allowance := &models.Allowance{
		TraderID: traderID,
		Amount:   amount,
	}
	if err := db.Create(allowance).Error; err != nil {
		t.Fatalf("failed to set test allowance: %v", err)
	}
	return allowance
}

// CreateTestPricePoint records a raw oracle reading at the given time.
func CreateTestPricePoint(t *testing.T, db *gorm.DB, price decimal.Decimal, decimals int32, recordedAt time.Time) *models.PricePoint {
	t.Helper()

	point := &models.PricePoint{
		Price:      price,
		Decimals:   decimals,
		RecordedAt: recordedAt,
	}
	if err := db.Create(point).Error; err != nil {
		t.Fatalf("failed to create test price point: %v", err)
	}
	return point
}

// CreateTestOption inserts an option row directly, bypassing the lifecycle
// engine. Useful for seeding options in arbitrary states.
func CreateTestOption(t *testing.T, db *gorm.DB, option *models.Option) *models.Option {
	t.Helper()

	if err := db.Create(option).Error; err != nil {
		t.Fatalf("failed to create test option: %v", err)
	}
	return option
}

// SetPoolBalance sets the engine's pooled collateral balance directly.
func SetPoolBalance(t *testing.T, db *gorm.DB, balance decimal.Decimal) {
	t.Helper()

	pool := &models.PoolAccount{Balance: balance}
	if err := db.Create(pool).Error; err != nil {
		t.Fatalf("failed to set test pool balance: %v", err)
	}
}
