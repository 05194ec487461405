package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
	"optionvault/internal/services"
)

// --- mock status service ---

type mockStatusService struct {
	isPausedFn func() (bool, error)
	pauseFn    func(traderID uint) error
	unpauseFn  func(traderID uint) error
}

func (m *mockStatusService) IsPaused() (bool, error) {
	if m.isPausedFn != nil {
		return m.isPausedFn()
	}
	return false, nil
}

func (m *mockStatusService) Pause(traderID uint) error {
	if m.pauseFn != nil {
		return m.pauseFn(traderID)
	}
	return nil
}

func (m *mockStatusService) Unpause(traderID uint) error {
	if m.unpauseFn != nil {
		return m.unpauseFn(traderID)
	}
	return nil
}

var _ services.StatusServicer = (*mockStatusService)(nil)

// --- mock oracle service ---

type mockOracleService struct {
	quoteFn       func(reference decimal.Decimal) (decimal.Decimal, error)
	latestPointFn func() (*models.PricePoint, error)
	recordPriceFn func(price decimal.Decimal, decimals int32, recordedAt time.Time) (*models.PricePoint, error)
}

func (m *mockOracleService) Quote(reference decimal.Decimal) (decimal.Decimal, error) {
	if m.quoteFn != nil {
		return m.quoteFn(reference)
	}
	return decimal.Zero, nil
}

func (m *mockOracleService) LatestPoint() (*models.PricePoint, error) {
	if m.latestPointFn != nil {
		return m.latestPointFn()
	}
	return &models.PricePoint{}, nil
}

func (m *mockOracleService) RecordPrice(price decimal.Decimal, decimals int32, recordedAt time.Time) (*models.PricePoint, error) {
	if m.recordPriceFn != nil {
		return m.recordPriceFn(price, decimals, recordedAt)
	}
	return &models.PricePoint{}, nil
}

var _ services.OracleServicer = (*mockOracleService)(nil)

func setupAdminRouter(handler *AdminHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectTraderID(1))
	auth.GET("/admin/status", handler.GetStatus)
	auth.POST("/admin/pause", handler.Pause)
	auth.POST("/admin/unpause", handler.Unpause)
	auth.POST("/admin/price-points", handler.RecordPrice)
	return r
}

func TestAdminHandler_PauseUnpause(t *testing.T) {
	t.Run("pause returns 200", func(t *testing.T) {
		var pausedBy uint
		statusSvc := &mockStatusService{
			pauseFn: func(traderID uint) error {
				pausedBy = traderID
				return nil
			},
		}
		handler := NewAdminHandler(statusSvc, &mockOracleService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "POST", "/admin/pause", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if pausedBy != 1 {
			t.Errorf("expected pause recorded for trader 1, got %d", pausedBy)
		}
	})

	t.Run("unpause returns 200", func(t *testing.T) {
		handler := NewAdminHandler(&mockStatusService{}, &mockOracleService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "POST", "/admin/unpause", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("status reports paused flag", func(t *testing.T) {
		statusSvc := &mockStatusService{
			isPausedFn: func() (bool, error) { return true, nil },
		}
		handler := NewAdminHandler(statusSvc, &mockOracleService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "GET", "/admin/status", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["paused"] != true {
			t.Errorf("expected paused true, got %v", result["paused"])
		}
	})
}

func TestAdminHandler_RecordPrice(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var gotPrice decimal.Decimal
		var gotDecimals int32
		oracleSvc := &mockOracleService{
			recordPriceFn: func(price decimal.Decimal, decimals int32, recordedAt time.Time) (*models.PricePoint, error) {
				gotPrice = price
				gotDecimals = decimals
				return &models.PricePoint{ID: 1, Price: price, Decimals: decimals}, nil
			},
		}
		handler := NewAdminHandler(&mockStatusService{}, oracleSvc)
		r := setupAdminRouter(handler)

		rec := doRequest(r, "POST", "/admin/price-points", `{"price":"200000000000","decimals":8}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotPrice.Equal(decimal.New(2000, 8)) {
			t.Errorf("expected price 2000e8, got %s", gotPrice)
		}
		if gotDecimals != 8 {
			t.Errorf("expected 8 decimals, got %d", gotDecimals)
		}
	})

	t.Run("returns 400 on missing price", func(t *testing.T) {
		handler := NewAdminHandler(&mockStatusService{}, &mockOracleService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "POST", "/admin/price-points", `{"decimals":8}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on fractional price", func(t *testing.T) {
		handler := NewAdminHandler(&mockStatusService{}, &mockOracleService{})
		r := setupAdminRouter(handler)

		rec := doRequest(r, "POST", "/admin/price-points", `{"price":"12.5","decimals":8}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on out_of_range decimals", func(t *testing.T) {
		oracleSvc := &mockOracleService{
			recordPriceFn: func(_ decimal.Decimal, _ int32, _ time.Time) (*models.PricePoint, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "decimals must be between 0 and 18")
			},
		}
		handler := NewAdminHandler(&mockStatusService{}, oracleSvc)
		r := setupAdminRouter(handler)

		rec := doRequest(r, "POST", "/admin/price-points", `{"price":"100","decimals":19}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
