package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OptionSide distinguishes calls from puts.
type OptionSide string

// OptionState is the lifecycle state of an option. States only advance
// forward; terminal rows persist forever as history.
type OptionState string

const (
	SideCall OptionSide = "call"
	SidePut  OptionSide = "put"

	StateOpen      OptionState = "open"
	StateBought    OptionState = "bought"
	StateExercised OptionState = "exercised"
	StateCancelled OptionState = "cancelled"
	// StateSettled marks a cancelled option whose collateral has been
	// retrieved, so the same payout can never be claimed twice.
	StateSettled OptionState = "settled"
)

// Option is the durable record of a written option. Amounts are integers in
// the asset's smallest unit (18-decimal fixed point for the collateral
// asset). Collateral is fixed at write time and never changes.
type Option struct {
	Base
	WriterID   uint            `gorm:"not null;index" json:"writer_id"`
	BuyerID    *uint           `gorm:"index" json:"buyer_id,omitempty"`
	Side       OptionSide      `gorm:"not null" json:"side"`
	State      OptionState     `gorm:"not null;default:'open'" json:"state"`
	Amount     decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"amount"`
	Strike     decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"strike"`
	Premium    decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"premium"`
	Collateral decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"collateral"`
	Expiration time.Time       `gorm:"not null;index" json:"expiration"`

	Writer Trader  `gorm:"foreignKey:WriterID" json:"-"`
	Buyer  *Trader `gorm:"foreignKey:BuyerID" json:"-"`
}

// IsExpired reports whether the option has reached expiration at t.
func (o *Option) IsExpired(t time.Time) bool {
	return !t.Before(o.Expiration)
}

// TraderPosition is an append-only index entry recording that a trader has
// participated in an option, as writer or buyer. Entries are never removed.
type TraderPosition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TraderID  uint      `gorm:"not null;index" json:"trader_id"`
	OptionID  uint      `gorm:"not null" json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}
