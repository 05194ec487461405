package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one reading from the external price oracle: the raw price,
// its decimal precision, and when it was recorded. Immutable time-series
// data — no updates, no deletes.
type PricePoint struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Price      decimal.Decimal `gorm:"type:decimal(64,0);not null" json:"price"`
	Decimals   int32           `gorm:"not null" json:"decimals"`
	RecordedAt time.Time       `gorm:"not null;index" json:"recorded_at"`
	CreatedAt  time.Time       `json:"created_at"`
}
