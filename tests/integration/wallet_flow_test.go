package integration

import (
	"net/http"
	"testing"
)

func TestWalletFlow_DepositApproveAndRead(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerTrader(t, "trader@test.com")

	// Deposits accumulate per asset
	app.deposit(t, token, "collateral", "1000000000000000000")
	app.deposit(t, token, "collateral", "500000000000000000")
	app.deposit(t, token, "quote", "5000000000000000000")

	if got := app.walletBalance(t, token, "collateral"); got != "1500000000000000000" {
		t.Errorf("expected collateral balance 1500000000000000000, got %s", got)
	}
	if got := app.walletBalance(t, token, "quote"); got != "5000000000000000000" {
		t.Errorf("expected quote balance 5000000000000000000, got %s", got)
	}

	// Approve replaces the spending allowance
	rec := app.request("POST", "/api/v1/wallets/approve",
		`{"amount":"5000000000000000000"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/wallets/approve",
		`{"amount":"2000000000000000000"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/wallets/allowance", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get allowance failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["allowance"] != "2000000000000000000" {
		t.Errorf("expected allowance 2000000000000000000, got %v", result["allowance"])
	}
}

func TestWalletFlow_RejectsInvalidDeposits(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerTrader(t, "trader@test.com")

	rec := app.request("POST", "/api/v1/wallets/deposit",
		`{"asset":"doge","amount":"1000000000000000000"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown asset, got %d", rec.Code)
	}

	rec = app.request("POST", "/api/v1/wallets/deposit",
		`{"asset":"quote","amount":"0"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero amount, got %d", rec.Code)
	}
}
