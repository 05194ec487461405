package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
)

// oracleService adapts the raw price feed into validated, normalized quotes.
type oracleService struct {
	db        *gorm.DB
	staleness time.Duration
	now       func() time.Time
}

// NewOracleService creates a new OracleServicer. A quote whose recording
// time is older than staleness is rejected.
func NewOracleService(db *gorm.DB, staleness time.Duration) OracleServicer {
	return &oracleService{db: db, staleness: staleness, now: time.Now}
}

// LatestPoint returns the most recent feed entry.
func (s *oracleService) LatestPoint() (*models.PricePoint, error) {
	var point models.PricePoint
	if err := s.db.Order("recorded_at DESC, id DESC").First(&point).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidPrice, "No price has been recorded")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &point, nil
}

// Quote returns the latest price normalized to the reference amount:
// price × reference / 10^decimals, truncated. Fails on a non-positive
// price or a reading older than the staleness threshold.
func (s *oracleService) Quote(reference decimal.Decimal) (decimal.Decimal, error) {
	point, err := s.LatestPoint()
	if err != nil {
		return decimal.Zero, err
	}
	if !point.Price.IsPositive() {
		return decimal.Zero, apperrors.ErrInvalidPrice
	}
	if s.now().Sub(point.RecordedAt) > s.staleness {
		return decimal.Zero, apperrors.ErrInvalidPriceFeed
	}

	quote, _ := point.Price.Mul(reference).QuoRem(decimal.New(1, point.Decimals), 0)
	return quote, nil
}

// RecordPrice appends a new feed entry. Non-positive prices are stored as-is
// and rejected at read time, mirroring how a misbehaving upstream feed
// surfaces to consumers.
func (s *oracleService) RecordPrice(price decimal.Decimal, decimals int32, recordedAt time.Time) (*models.PricePoint, error) {
	if decimals < 0 || decimals > 18 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "decimals must be between 0 and 18")
	}
	if recordedAt.IsZero() {
		recordedAt = s.now()
	}

	point := &models.PricePoint{
		Price:      price,
		Decimals:   decimals,
		RecordedAt: recordedAt,
	}
	if err := s.db.Create(point).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return point, nil
}
