package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/logger"
	"optionvault/internal/models"
)

// statusService owns the circuit breaker. Ownership checks live in the
// route guard; this service only flips and reads the flag.
type statusService struct {
	db *gorm.DB
}

// NewStatusService creates a new StatusServicer.
func NewStatusService(db *gorm.DB) StatusServicer {
	return &statusService{db: db}
}

// IsPaused reports whether the engine is paused. A missing row means the
// engine has never been paused.
func (s *statusService) IsPaused() (bool, error) {
	status, err := s.load(s.db)
	if err != nil {
		return false, err
	}
	if status == nil {
		return false, nil
	}
	return status.Paused, nil
}

// Pause engages the circuit breaker for all state-mutating operations.
func (s *statusService) Pause(traderID uint) error {
	if err := s.setPaused(true); err != nil {
		return err
	}
	logger.Get().Warnw("engine paused", "trader_id", traderID)
	return nil
}

// Unpause releases the circuit breaker, restoring prior behavior exactly.
func (s *statusService) Unpause(traderID uint) error {
	if err := s.setPaused(false); err != nil {
		return err
	}
	logger.Get().Infow("engine unpaused", "trader_id", traderID)
	return nil
}

func (s *statusService) setPaused(paused bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		status, err := s.load(tx)
		if err != nil {
			return err
		}
		if status == nil {
			status = &models.EngineStatus{Paused: paused}
			if err := tx.Create(status).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			return nil
		}
		if err := tx.Model(status).Update("paused", paused).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func (s *statusService) load(tx *gorm.DB) (*models.EngineStatus, error) {
	var status models.EngineStatus
	if err := tx.First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &status, nil
}
