package models

// EngineStatus is the circuit-breaker flag, stored as a single row so a
// pause survives restarts and takes effect for the next submitted operation.
type EngineStatus struct {
	Base
	Paused bool `gorm:"not null;default:false" json:"paused"`
}
