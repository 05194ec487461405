package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
)

// walletService implements the value-transfer collaborator over the wallets,
// allowances, and pool tables.
type walletService struct {
	db *gorm.DB
}

// NewWalletService creates a new WalletServicer.
func NewWalletService(db *gorm.DB) WalletServicer {
	return &walletService{db: db}
}

// GetBalances returns the caller's wallets, one per asset held.
func (s *walletService) GetBalances(traderID uint) ([]models.Wallet, error) {
	var wallets []models.Wallet
	if err := s.db.Where("trader_id = ?", traderID).Order("asset").Find(&wallets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return wallets, nil
}

// Deposit credits the trader's wallet in the given asset.
func (s *walletService) Deposit(traderID uint, asset models.Asset, amount decimal.Decimal) (*models.Wallet, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "deposit amount must be greater than zero")
	}

	var wallet *models.Wallet
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.Credit(tx, traderID, asset, amount); err != nil {
			return err
		}
		var txErr error
		wallet, txErr = getWallet(tx, traderID, asset)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// Approve sets the quote-asset allowance the engine may spend for the
// trader. Approvals replace the previous value, they do not accumulate.
func (s *walletService) Approve(traderID uint, amount decimal.Decimal) (*models.Allowance, error) {
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allowance cannot be negative")
	}

	var allowance models.Allowance
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trader_id = ?", traderID).First(&allowance).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				allowance = models.Allowance{TraderID: traderID, Amount: amount}
				if err := tx.Create(&allowance).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		allowance.Amount = amount
		if err := tx.Model(&allowance).Update("amount", amount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &allowance, nil
}

// GetAllowance returns the trader's remaining approved amount.
func (s *walletService) GetAllowance(traderID uint) (decimal.Decimal, error) {
	var allowance models.Allowance
	if err := s.db.Where("trader_id = ?", traderID).First(&allowance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return allowance.Amount, nil
}

// PoolBalance returns the collateral the engine currently holds.
func (s *walletService) PoolBalance() (decimal.Decimal, error) {
	var pool models.PoolAccount
	if err := s.db.First(&pool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pool.Balance, nil
}

// Credit adds amount to the trader's wallet, creating it on first use.
func (s *walletService) Credit(tx *gorm.DB, traderID uint, asset models.Asset, amount decimal.Decimal) error {
	var wallet models.Wallet
	err := tx.Where("trader_id = ? AND asset = ?", traderID, asset).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{TraderID: traderID, Asset: asset, Balance: amount}
		if err := tx.Create(&wallet).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransferFailed, err)
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, err)
	}

	if err := tx.Model(&wallet).Update("balance", wallet.Balance.Add(amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, err)
	}
	return nil
}

// Debit removes amount from the trader's wallet.
func (s *walletService) Debit(tx *gorm.DB, traderID uint, asset models.Asset, amount decimal.Decimal) error {
	wallet, err := getWallet(tx, traderID, asset)
	if err != nil {
		return err
	}
	if wallet.Balance.Cmp(amount) < 0 {
		return apperrors.ErrInsufficientBalance
	}
	if err := tx.Model(wallet).Update("balance", wallet.Balance.Sub(amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, err)
	}
	return nil
}

// Transfer moves amount between two traders in one asset.
func (s *walletService) Transfer(tx *gorm.DB, fromID, toID uint, asset models.Asset, amount decimal.Decimal) error {
	if err := s.Debit(tx, fromID, asset, amount); err != nil {
		return err
	}
	return s.Credit(tx, toID, asset, amount)
}

// SpendAllowance consumes amount of the trader's approved allowance.
func (s *walletService) SpendAllowance(tx *gorm.DB, traderID uint, amount decimal.Decimal) error {
	var allowance models.Allowance
	if err := tx.Where("trader_id = ?", traderID).First(&allowance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInsufficientAllowance
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if allowance.Amount.Cmp(amount) < 0 {
		return apperrors.ErrInsufficientAllowance
	}
	if err := tx.Model(&allowance).Update("amount", allowance.Amount.Sub(amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreditPool adds locked collateral to the engine's pool.
func (s *walletService) CreditPool(tx *gorm.DB, amount decimal.Decimal) error {
	var pool models.PoolAccount
	err := tx.First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pool = models.PoolAccount{Balance: amount}
		if err := tx.Create(&pool).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrTransferFailed, err)
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, err)
	}

	if err := tx.Model(&pool).Update("balance", pool.Balance.Add(amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, err)
	}
	return nil
}

// DebitPool pays collateral out of the pool. The pool's actual held balance
// must cover the payout; per-option accounting is not trusted on its own.
func (s *walletService) DebitPool(tx *gorm.DB, amount decimal.Decimal) error {
	var pool models.PoolAccount
	if err := tx.First(&pool).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInsufficientPoolBalance
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if pool.Balance.Cmp(amount) < 0 {
		return apperrors.ErrInsufficientPoolBalance
	}
	if err := tx.Model(&pool).Update("balance", pool.Balance.Sub(amount)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrTransferFailed, err)
	}
	return nil
}

// getWallet loads a trader's wallet in one asset.
func getWallet(tx *gorm.DB, traderID uint, asset models.Asset) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := tx.Where("trader_id = ? AND asset = ?", traderID, asset).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInsufficientBalance
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &wallet, nil
}
