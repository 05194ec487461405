package models

import (
	"time"
)

// Base contains common columns for all tables. Primary keys are
// auto-incrementing so ids are assigned monotonically.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
