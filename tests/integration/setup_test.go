package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"optionvault/internal/handlers"
	"optionvault/internal/logger"
	"optionvault/internal/middleware"
	"optionvault/internal/services"
	"optionvault/internal/testutil"
	"optionvault/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)

	// Services
	traderService := services.NewTraderService(db)
	walletService := services.NewWalletService(db)
	oracleService := services.NewOracleService(db, time.Hour)
	eventService := services.NewEventService(db)
	statusService := services.NewStatusService(db)
	optionService := services.NewOptionService(db, walletService, oracleService, eventService)

	// Handlers
	authHandler := handlers.NewAuthHandler(traderService)
	walletHandler := handlers.NewWalletHandler(walletService)
	optionHandler := handlers.NewOptionHandler(optionService, eventService)
	adminHandler := handlers.NewAdminHandler(statusService, oracleService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	options := protected.Group("/options")
	options.GET("/:id", optionHandler.GetOptionDetails)
	options.GET("/:id/events", optionHandler.GetOptionEvents)
	protected.GET("/traders/:id/positions", optionHandler.GetTraderPositions)
	protected.GET("/price-feed", optionHandler.GetPriceFeed)

	wallets := protected.Group("/wallets")
	wallets.GET("", walletHandler.GetBalances)
	wallets.GET("/allowance", walletHandler.GetAllowance)

	// State-mutating routes respect the circuit breaker
	mutating := protected.Group("/")
	mutating.Use(middleware.NotPaused(statusService))

	mutating.POST("/wallets/deposit", walletHandler.Deposit)
	mutating.POST("/wallets/approve", walletHandler.Approve)

	calls := mutating.Group("/options/call")
	calls.POST("", optionHandler.WriteCallOption)
	calls.POST("/:id/buy", optionHandler.BuyCallOption)
	calls.POST("/:id/exercise", optionHandler.ExerciseCallOption)

	puts := mutating.Group("/options/put")
	puts.POST("", optionHandler.WritePutOption)
	puts.POST("/:id/buy", optionHandler.BuyPutOption)
	puts.POST("/:id/exercise", optionHandler.ExercisePutOption)

	mutating.POST("/options/:id/expire-worthless", optionHandler.ExpireWorthless)
	mutating.POST("/options/:id/retrieve-funds", optionHandler.RetrieveExpiredFunds)

	// Owner-only routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireOwner(traderService))
	admin.GET("/status", adminHandler.GetStatus)
	admin.POST("/pause", adminHandler.Pause)
	admin.POST("/unpause", adminHandler.Unpause)
	admin.POST("/price-points", adminHandler.RecordPrice)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertErrorCode checks that the response body carries the given error code.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, code string) {
	t.Helper()
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error body, got: %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %v", code, errObj["code"])
	}
}

// registerTrader registers a new trader and returns the token and trader ID.
func (app *testApp) registerTrader(t *testing.T, email string) (token string, traderID uint) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123"}`, email)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	trader := result["trader"].(map[string]interface{})
	return result["token"].(string), uint(trader["id"].(float64))
}

// loginTrader logs in and returns the token.
func (app *testApp) loginTrader(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// recordPrice records a raw feed price through the admin endpoint.
func (app *testApp) recordPrice(t *testing.T, ownerToken, price string, decimals int32) {
	t.Helper()
	body := fmt.Sprintf(`{"price":%q,"decimals":%d}`, price, decimals)
	rec := app.request("POST", "/api/v1/admin/price-points", body, ownerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record price failed: %d %s", rec.Code, rec.Body.String())
	}
}

// deposit credits the trader's wallet through the deposit endpoint.
func (app *testApp) deposit(t *testing.T, token, asset, amount string) {
	t.Helper()
	body := fmt.Sprintf(`{"asset":%q,"amount":%q}`, asset, amount)
	rec := app.request("POST", "/api/v1/wallets/deposit", body, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("deposit failed: %d %s", rec.Code, rec.Body.String())
	}
}

// walletBalance reads the trader's balance for one asset via the API.
func (app *testApp) walletBalance(t *testing.T, token, asset string) string {
	t.Helper()
	rec := app.request("GET", "/api/v1/wallets", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("get wallets failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, raw := range result["wallets"].([]interface{}) {
		wallet := raw.(map[string]interface{})
		if wallet["asset"] == asset {
			return wallet["balance"].(string)
		}
	}
	return "0"
}
