package services

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/logger"
	"optionvault/internal/models"
	"optionvault/internal/pagination"
)

const secondsPerDay = 86400

// optionService is the lifecycle engine. Every mutating operation runs as
// one database transaction under a process-wide mutex: operations are
// totally ordered, and no caller can re-enter while a transfer leg is in
// flight. Within a transaction, every ledger write happens before any value
// moves.
type optionService struct {
	db      *gorm.DB
	wallets WalletServicer
	oracle  OracleServicer
	events  EventServicer

	mu  sync.Mutex
	now func() time.Time
}

// NewOptionService creates a new OptionServicer.
func NewOptionService(db *gorm.DB, wallets WalletServicer, oracle OracleServicer, events EventServicer) OptionServicer {
	return &optionService{
		db:      db,
		wallets: wallets,
		oracle:  oracle,
		events:  events,
		now:     time.Now,
	}
}

// WriteOption creates a new option in the open state. The strike must equal
// the oracle quote at write time, and the supplied collateral must equal
// the computed requirement exactly. The collateral moves from the writer's
// wallet into the pool, where it stays locked until exercise or retrieval.
func (s *optionService) WriteOption(writerID uint, side models.OptionSide, amount, strike, premium decimal.Decimal, daysToExpiry int, collateral decimal.Decimal) (*models.Option, error) {
	if !amount.IsPositive() || !strike.IsPositive() || !premium.IsPositive() {
		return nil, apperrors.ErrNeedsMoreThanZero
	}
	if daysToExpiry < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days to expiry cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quote, err := s.oracle.Quote(UnitScale)
	if err != nil {
		return nil, err
	}
	if !strike.Equal(quote) {
		if side == models.SideCall {
			return nil, apperrors.ErrCallStrikeNotMarketPrice
		}
		return nil, apperrors.ErrPutStrikeNotMarketPrice
	}

	required := RequiredCollateral(amount, quote)
	if !collateral.Equal(required) {
		if side == models.SideCall {
			return nil, apperrors.ErrInsufficientCallCollateral
		}
		return nil, apperrors.ErrInsufficientPutCollateral
	}

	now := s.now()
	option := &models.Option{
		WriterID:   writerID,
		Side:       side,
		State:      models.StateOpen,
		Amount:     amount,
		Strike:     strike,
		Premium:    premium,
		Collateral: collateral,
		Expiration: now.Add(time.Duration(daysToExpiry) * secondsPerDay * time.Second),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(option).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(&models.TraderPosition{TraderID: writerID, OptionID: option.ID}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.events.Record(tx, option.ID, writerID, models.ActionOptionOpened, map[string]any{
			"side":       option.Side,
			"amount":     option.Amount.String(),
			"strike":     option.Strike.String(),
			"premium":    option.Premium.String(),
			"collateral": option.Collateral.String(),
			"expiration": option.Expiration.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}

		// Ledger writes are done; the collateral moves last.
		if err := s.wallets.Debit(tx, writerID, models.AssetCollateral, collateral); err != nil {
			return err
		}
		return s.wallets.CreditPool(tx, collateral)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("option written",
		"option_id", option.ID,
		"side", option.Side,
		"writer_id", writerID,
		"collateral", option.Collateral.String(),
	)
	return option, nil
}

// BuyOption sets the caller as buyer and pulls the premium from their
// approved allowance over to the writer. An option can be bought at most
// once and only before expiration.
func (s *optionService) BuyOption(buyerID uint, side models.OptionSide, optionID uint) (*models.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var option *models.Option
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		option, err = getOption(tx, optionID)
		if err != nil {
			return err
		}
		if option.Side != side {
			return sideMismatch(side)
		}
		if option.State != models.StateOpen || option.IsExpired(s.now()) {
			return apperrors.ErrOptionNotValid
		}

		buyer := buyerID
		option.BuyerID = &buyer
		option.State = models.StateBought
		if err := tx.Model(&models.Option{}).Where("id = ?", option.ID).
			Updates(map[string]any{"buyer_id": buyerID, "state": models.StateBought}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(&models.TraderPosition{TraderID: buyerID, OptionID: option.ID}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.events.Record(tx, option.ID, buyerID, models.ActionOptionBought, map[string]any{
			"premium": option.Premium.String(),
		}); err != nil {
			return err
		}

		// Premium moves buyer → writer off the approved allowance.
		if err := s.wallets.SpendAllowance(tx, buyerID, option.Premium); err != nil {
			return err
		}
		return s.wallets.Transfer(tx, buyerID, option.WriterID, models.AssetQuote, option.Premium)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("option bought", "option_id", option.ID, "buyer_id", buyerID)
	return option, nil
}

// ExerciseOption pays the locked collateral to the buyer of an expired,
// in-the-money option. A call exercises when the quote is strictly above
// the strike; a put when strictly below. Equality is never exercisable.
func (s *optionService) ExerciseOption(buyerID uint, side models.OptionSide, optionID uint) (*models.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var option *models.Option
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		option, err = getOption(tx, optionID)
		if err != nil {
			return err
		}
		if option.Side != side {
			return sideMismatch(side)
		}
		if option.BuyerID == nil || *option.BuyerID != buyerID {
			return apperrors.ErrNotBuyer
		}
		if option.State != models.StateBought {
			return apperrors.ErrNeverBought
		}
		if !option.IsExpired(s.now()) {
			return apperrors.ErrNotExpired
		}

		quote, err := s.oracle.Quote(UnitScale)
		if err != nil {
			return err
		}
		if side == models.SideCall {
			if quote.Cmp(option.Strike) <= 0 {
				return apperrors.ErrCallPriceNotGreaterThanStrike
			}
		} else {
			if quote.Cmp(option.Strike) >= 0 {
				return apperrors.ErrPutPriceNotLessThanStrike
			}
		}

		option.State = models.StateExercised
		if err := tx.Model(&models.Option{}).Where("id = ?", option.ID).
			Update("state", models.StateExercised).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.events.Record(tx, option.ID, buyerID, models.ActionOptionExercised, map[string]any{
			"quote":      quote.String(),
			"collateral": option.Collateral.String(),
		}); err != nil {
			return err
		}

		// Payout last, against the pool's actual held balance.
		if err := s.wallets.DebitPool(tx, option.Collateral); err != nil {
			return err
		}
		return s.wallets.Credit(tx, buyerID, models.AssetCollateral, option.Collateral)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("option exercised", "option_id", option.ID, "buyer_id", buyerID)
	return option, nil
}

// ExpireWorthless lets the writer cancel an expired, out-of-the-money
// option. A quote equal to the strike counts as worthless for both sides.
// No value moves here; the writer reclaims collateral via
// RetrieveExpiredFunds.
func (s *optionService) ExpireWorthless(writerID, optionID uint) (*models.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var option *models.Option
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		option, err = getOption(tx, optionID)
		if err != nil {
			return err
		}
		if option.WriterID != writerID {
			return apperrors.ErrNotWriter
		}
		if option.State != models.StateBought {
			return apperrors.ErrNeverBought
		}
		if !option.IsExpired(s.now()) {
			return apperrors.ErrNotExpired
		}

		quote, err := s.oracle.Quote(UnitScale)
		if err != nil {
			return err
		}
		if option.Side == models.SideCall {
			if quote.Cmp(option.Strike) > 0 {
				return apperrors.ErrCallPriceNotLessThanStrike
			}
		} else {
			if quote.Cmp(option.Strike) < 0 {
				return apperrors.ErrPutPriceNotGreaterThanStrike
			}
		}

		option.State = models.StateCancelled
		if err := tx.Model(&models.Option{}).Where("id = ?", option.ID).
			Update("state", models.StateCancelled).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.events.Record(tx, option.ID, writerID, models.ActionOptionExpiredWorthless, map[string]any{
			"quote": quote.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("option expired worthless", "option_id", option.ID, "writer_id", writerID)
	return option, nil
}

// RetrieveExpiredFunds pays the locked collateral back to the writer of a
// cancelled option and settles it, so the same collateral can never be
// claimed a second time.
func (s *optionService) RetrieveExpiredFunds(writerID, optionID uint) (*models.Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var option *models.Option
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		option, err = getOption(tx, optionID)
		if err != nil {
			return err
		}
		if option.WriterID != writerID {
			return apperrors.ErrNotWriter
		}
		if option.State != models.StateCancelled {
			return apperrors.ErrOptionNotCancelled
		}
		if !option.IsExpired(s.now()) {
			return apperrors.ErrNotExpired
		}

		option.State = models.StateSettled
		if err := tx.Model(&models.Option{}).Where("id = ?", option.ID).
			Update("state", models.StateSettled).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.events.Record(tx, option.ID, writerID, models.ActionFundsRetrieved, map[string]any{
			"collateral": option.Collateral.String(),
		}); err != nil {
			return err
		}

		if err := s.wallets.DebitPool(tx, option.Collateral); err != nil {
			return err
		}
		return s.wallets.Credit(tx, writerID, models.AssetCollateral, option.Collateral)
	})
	if err != nil {
		return nil, err
	}

	logger.Get().Infow("expired funds retrieved", "option_id", option.ID, "writer_id", writerID)
	return option, nil
}

// GetOptionDetails returns the full record of one option.
func (s *optionService) GetOptionDetails(optionID uint) (*models.Option, error) {
	return getOption(s.db, optionID)
}

// GetTraderPositions returns the ids of every option the trader has ever
// participated in, in acquisition order.
func (s *optionService) GetTraderPositions(traderID uint, page pagination.PageRequest) (*pagination.PageResponse[uint], error) {
	page.Defaults()

	base := s.db.Model(&models.TraderPosition{}).Where("trader_id = ?", traderID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var optionIDs []uint
	if err := base.Scopes(pagination.Paginate(page)).
		Order("id ASC").
		Pluck("option_id", &optionIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(optionIDs, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPriceFeed exposes the oracle quote for an arbitrary reference amount.
func (s *optionService) GetPriceFeed(reference decimal.Decimal) (decimal.Decimal, error) {
	if !reference.IsPositive() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "reference amount must be greater than zero")
	}
	return s.oracle.Quote(reference)
}

// getOption loads an option by id.
func getOption(tx *gorm.DB, optionID uint) (*models.Option, error) {
	var option models.Option
	if err := tx.First(&option, optionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOptionNotValid
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &option, nil
}

// sideMismatch maps the side the caller asked for to the matching error.
func sideMismatch(side models.OptionSide) error {
	if side == models.SideCall {
		return apperrors.ErrNotCallOption
	}
	return apperrors.ErrNotPutOption
}
