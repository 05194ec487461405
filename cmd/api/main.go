package main

import (
	"fmt"
	"net/http"
	"os"

	"optionvault/internal/config"
	"optionvault/internal/database"
	"optionvault/internal/handlers"
	"optionvault/internal/logger"
	"optionvault/internal/middleware"
	"optionvault/internal/services"
	"optionvault/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           OptionVault API
// @version         1.0
// @description     OptionVault is a lifecycle engine for bilateral, fully collateralized European-style call and put options.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	traderService := services.NewTraderService(db)
	walletService := services.NewWalletService(db)
	oracleService := services.NewOracleService(db, appConfig.OracleStaleness)
	eventService := services.NewEventService(db)
	statusService := services.NewStatusService(db)
	optionService := services.NewOptionService(db, walletService, oracleService, eventService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(traderService)
	walletHandler := handlers.NewWalletHandler(walletService)
	optionHandler := handlers.NewOptionHandler(optionService, eventService)
	adminHandler := handlers.NewAdminHandler(statusService, oracleService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Trader profile
	protected.GET("/profile", authHandler.GetProfile)

	// Read-only routes stay available while the engine is paused
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

	log.Infof("Starting OptionVault backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
