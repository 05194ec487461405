package models

import "github.com/shopspring/decimal"

// Asset identifies one of the two value assets the engine moves.
type Asset string

const (
	// AssetCollateral is the locked asset writers post (18-decimal units).
	AssetCollateral Asset = "collateral"
	// AssetQuote is the asset premiums are paid in.
	AssetQuote Asset = "quote"
)

// Wallet holds a trader's balance in one asset.
type Wallet struct {
	Base
	TraderID uint            `gorm:"not null;uniqueIndex:idx_wallet_trader_asset" json:"trader_id"`
	Asset    Asset           `gorm:"not null;uniqueIndex:idx_wallet_trader_asset" json:"asset"`
	Balance  decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"balance"`
}

// Allowance is the quote-asset amount a trader has approved the engine to
// spend on their behalf (premium pulls during buys).
type Allowance struct {
	Base
	TraderID uint            `gorm:"not null;uniqueIndex" json:"trader_id"`
	Amount   decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"amount"`
}

// PoolAccount is the engine's own held collateral balance, a single shared
// row. Every payout verifies this balance before debiting it.
type PoolAccount struct {
	Base
	Balance decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"balance"`
}
