package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"optionvault/internal/models"
	"optionvault/internal/testutil"
)

func TestDeposit(t *testing.T) {
	t.Run("creates_wallet_on_first_use", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		wallet, err := svc.Deposit(trader.ID, models.AssetCollateral, decimal.New(5, 18))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.New(5, 18), wallet.Balance)
	})

	t.Run("accumulates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		_, err := svc.Deposit(trader.ID, models.AssetQuote, decimal.New(5, 18))
		testutil.AssertNoError(t, err)
		wallet, err := svc.Deposit(trader.ID, models.AssetQuote, decimal.New(3, 18))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.New(8, 18), wallet.Balance)
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		_, err := svc.Deposit(trader.ID, models.AssetQuote, decimal.Zero)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestDebit(t *testing.T) {
	t.Run("insufficient_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		trader := testutil.CreateTestTrader(t, db)
		testutil.FundWallet(t, db, trader.ID, models.AssetQuote, decimal.New(1, 18))

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.Debit(tx, trader.ID, models.AssetQuote, decimal.New(2, 18))
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
	})

	t.Run("missing_wallet", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		trader := testutil.CreateTestTrader(t, db)

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.Debit(tx, trader.ID, models.AssetQuote, decimal.New(1, 18))
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_BALANCE")
	})

	t.Run("exact_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		trader := testutil.CreateTestTrader(t, db)
		testutil.FundWallet(t, db, trader.ID, models.AssetQuote, decimal.New(2, 18))

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.Debit(tx, trader.ID, models.AssetQuote, decimal.New(2, 18))
		})
		testutil.AssertNoError(t, err)

		wallets, err := svc.GetBalances(trader.ID)
		testutil.AssertNoError(t, err)
		if len(wallets) != 1 {
			t.Fatalf("expected 1 wallet, got %d", len(wallets))
		}
		testutil.AssertDecimalEqual(t, decimal.Zero, wallets[0].Balance)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("moves_between_traders", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		from := testutil.CreateTestTrader(t, db)
		to := testutil.CreateTestTrader(t, db)
		testutil.FundWallet(t, db, from.ID, models.AssetQuote, decimal.New(5, 18))

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.Transfer(tx, from.ID, to.ID, models.AssetQuote, decimal.New(2, 18))
		})
		testutil.AssertNoError(t, err)

		fromWallets, _ := svc.GetBalances(from.ID)
		toWallets, _ := svc.GetBalances(to.ID)
		testutil.AssertDecimalEqual(t, decimal.New(3, 18), fromWallets[0].Balance)
		testutil.AssertDecimalEqual(t, decimal.New(2, 18), toWallets[0].Balance)
	})
}

func TestApprove(t *testing.T) {
	t.Run("replaces_previous_allowance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		_, err := svc.Approve(trader.ID, decimal.New(5, 18))
		testutil.AssertNoError(t, err)
		allowance, err := svc.Approve(trader.ID, decimal.New(2, 18))
		testutil.AssertNoError(t, err)

		// Approvals replace, they do not accumulate.
		testutil.AssertDecimalEqual(t, decimal.New(2, 18), allowance.Amount)
	})

	t.Run("zero_revokes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		_, err := svc.Approve(trader.ID, decimal.New(5, 18))
		testutil.AssertNoError(t, err)
		_, err = svc.Approve(trader.ID, decimal.Zero)
		testutil.AssertNoError(t, err)

		remaining, err := svc.GetAllowance(trader.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, remaining)
	})

	t.Run("negative_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		_, err := svc.Approve(trader.ID, decimal.New(-1, 18))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unapproved_trader_has_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)
		trader := testutil.CreateTestTrader(t, db)

		remaining, err := svc.GetAllowance(trader.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, remaining)
	})
}

func TestSpendAllowance(t *testing.T) {
	t.Run("insufficient", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		trader := testutil.CreateTestTrader(t, db)
		testutil.SetAllowance(t, db, trader.ID, decimal.New(1, 18))

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.SpendAllowance(tx, trader.ID, decimal.New(2, 18))
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_ALLOWANCE")
	})

	t.Run("no_allowance_row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		trader := testutil.CreateTestTrader(t, db)

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.SpendAllowance(tx, trader.ID, decimal.New(1, 18))
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_ALLOWANCE")
	})
}

func TestPool(t *testing.T) {
	t.Run("empty_pool_reads_zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db)

		balance, err := svc.PoolBalance()
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.Zero, balance)
	})

	t.Run("credit_then_debit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := svc.CreditPool(tx, decimal.New(5, 18)); err != nil {
				return err
			}
			return svc.DebitPool(tx, decimal.New(2, 18))
		})
		testutil.AssertNoError(t, err)

		balance, err := svc.PoolBalance()
		testutil.AssertNoError(t, err)
		testutil.AssertDecimalEqual(t, decimal.New(3, 18), balance)
	})

	t.Run("overdraw_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)
		testutil.SetPoolBalance(t, db, decimal.New(1, 18))

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.DebitPool(tx, decimal.New(2, 18))
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_POOL_BALANCE")
	})

	t.Run("debit_empty_pool", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewWalletService(db).(*walletService)

		err := db.Transaction(func(tx *gorm.DB) error {
			return svc.DebitPool(tx, decimal.New(1, 18))
		})
		testutil.AssertAppError(t, err, "INSUFFICIENT_POOL_BALANCE")
	})
}
