package models

import "time"

// Trader represents a participant in the system. The first registered
// trader becomes the contract owner and controls the circuit breaker.
type Trader struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	IsOwner             bool       `gorm:"default:false" json:"is_owner"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Wallets   []Wallet         `gorm:"foreignKey:TraderID" json:"wallets,omitempty"`
	Positions []TraderPosition `gorm:"foreignKey:TraderID" json:"positions,omitempty"`
}
