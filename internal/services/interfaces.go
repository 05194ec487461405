package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"optionvault/internal/models"
	"optionvault/internal/pagination"
)

// TraderServicer defines the contract for trader identity and ownership.
type TraderServicer interface {
	CreateTrader(email, password string) (*models.Trader, error)
	GetTraderByID(id uint) (*models.Trader, error)
	AttemptLogin(email, password string) (*models.Trader, error)
	IsOwner(traderID uint) (bool, error)
}

// WalletServicer is the value-transfer collaborator: two-asset balances,
// ERC20-style allowances, and the engine's pooled collateral account.
// The tx-taking methods participate in the caller's database transaction
// and roll back with it.
type WalletServicer interface {
	GetBalances(traderID uint) ([]models.Wallet, error)
	Deposit(traderID uint, asset models.Asset, amount decimal.Decimal) (*models.Wallet, error)
	Approve(traderID uint, amount decimal.Decimal) (*models.Allowance, error)
	GetAllowance(traderID uint) (decimal.Decimal, error)
	PoolBalance() (decimal.Decimal, error)

	Credit(tx *gorm.DB, traderID uint, asset models.Asset, amount decimal.Decimal) error
	Debit(tx *gorm.DB, traderID uint, asset models.Asset, amount decimal.Decimal) error
	Transfer(tx *gorm.DB, fromID, toID uint, asset models.Asset, amount decimal.Decimal) error
	SpendAllowance(tx *gorm.DB, traderID uint, amount decimal.Decimal) error
	CreditPool(tx *gorm.DB, amount decimal.Decimal) error
	DebitPool(tx *gorm.DB, amount decimal.Decimal) error
}

// OracleServicer wraps the price feed: validated, normalized quotes plus
// feed maintenance for the owner.
type OracleServicer interface {
	Quote(reference decimal.Decimal) (decimal.Decimal, error)
	LatestPoint() (*models.PricePoint, error)
	RecordPrice(price decimal.Decimal, decimals int32, recordedAt time.Time) (*models.PricePoint, error)
}

// EventServicer records lifecycle events inside the operation's transaction.
type EventServicer interface {
	Record(tx *gorm.DB, optionID, traderID uint, action string, details map[string]any) error
	GetOptionEvents(optionID uint, page pagination.PageRequest) (*pagination.PageResponse[models.OptionEvent], error)
}

// StatusServicer controls the global circuit breaker.
type StatusServicer interface {
	IsPaused() (bool, error)
	Pause(traderID uint) error
	Unpause(traderID uint) error
}

// OptionServicer is the lifecycle engine: every state transition an option
// can take, plus the read-only views.
type OptionServicer interface {
	WriteOption(writerID uint, side models.OptionSide, amount, strike, premium decimal.Decimal, daysToExpiry int, collateral decimal.Decimal) (*models.Option, error)
	BuyOption(buyerID uint, side models.OptionSide, optionID uint) (*models.Option, error)
	ExerciseOption(buyerID uint, side models.OptionSide, optionID uint) (*models.Option, error)
	ExpireWorthless(writerID, optionID uint) (*models.Option, error)
	RetrieveExpiredFunds(writerID, optionID uint) (*models.Option, error)
	GetOptionDetails(optionID uint) (*models.Option, error)
	GetTraderPositions(traderID uint, page pagination.PageRequest) (*pagination.PageResponse[uint], error)
	GetPriceFeed(reference decimal.Decimal) (decimal.Decimal, error)
}
