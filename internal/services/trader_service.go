package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// traderService handles trader registration, login, and ownership.
type traderService struct {
	db *gorm.DB
}

// NewTraderService creates a new TraderServicer.
func NewTraderService(db *gorm.DB) TraderServicer {
	return &traderService{db: db}
}

// CreateTrader registers a new trader. The first trader to register becomes
// the contract owner.
func (s *traderService) CreateTrader(email, password string) (*models.Trader, error) {
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	trader := &models.Trader{
		Email:    strings.ToLower(email),
		Password: string(hashedPassword),
		IsActive: true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Trader{}).Where("email = ?", trader.Email).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrDuplicateEmail
		}

		var total int64
		if err := tx.Model(&models.Trader{}).Count(&total).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		trader.IsOwner = total == 0

		if err := tx.Create(trader).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trader, nil
}

// GetTraderByID retrieves a trader by ID.
func (s *traderService) GetTraderByID(id uint) (*models.Trader, error) {
	var trader models.Trader
	if err := s.db.First(&trader, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTraderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &trader, nil
}

// AttemptLogin verifies credentials, tracking failed attempts and locking
// the account after too many in a row.
func (s *traderService) AttemptLogin(email, password string) (*models.Trader, error) {
	var trader models.Trader
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&trader).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if trader.LockedUntil != nil && trader.LockedUntil.After(time.Now()) {
		return nil, apperrors.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(trader.Password), []byte(password)) != nil {
		trader.FailedLoginAttempts++
		updates := map[string]any{"failed_login_attempts": trader.FailedLoginAttempts}
		if trader.FailedLoginAttempts >= maxFailedLogins {
			lockedUntil := time.Now().Add(lockoutDuration)
			updates["locked_until"] = lockedUntil
		}
		if err := s.db.Model(&trader).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.Model(&trader).Updates(map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	trader.LastLoginAt = &now

	return &trader, nil
}

// IsOwner reports whether the trader is the contract owner.
func (s *traderService) IsOwner(traderID uint) (bool, error) {
	trader, err := s.GetTraderByID(traderID)
	if err != nil {
		return false, err
	}
	return trader.IsOwner, nil
}
