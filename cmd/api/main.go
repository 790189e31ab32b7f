package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "setoran/api/swagger" // swagger docs
	"setoran/internal/config"
	"setoran/internal/database"
	"setoran/internal/handler"
	"setoran/internal/logger"
	"setoran/internal/middleware"
	"setoran/internal/repository"
	"setoran/internal/service"
	"setoran/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// @title           Setoran API
// @version         1.0
// @description     Deposit requests, approvals and the cash ledger.
// @host            localhost:8080
// @BasePath        /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	gormLevel := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := database.NewConnection(cfg.DatabaseURL, database.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		LogLevel:     gormLevel,
	}, zl)
	if err != nil {
		zl.Fatal("Database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("Database migration failed", zap.Error(err))
	}
	zl.Info("Connected to PostgreSQL successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zl)
	go wsHub.Run(ctx)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db, cfg.DBLockTimeout)
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewDepositItemRepository(db)
	requestRepo := repository.NewDepositRequestRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	ledgerService := service.NewLedgerService(ledgerRepo, statsRepo, zl)
	if err := ledgerService.InitBalance(ctx); err != nil {
		zl.Fatal("Ledger balance init failed", zap.Error(err))
	}

	requestService := service.NewDepositRequestService(
		txManager,
		requestRepo,
		userRepo,
		service.NewAvailabilityChecker(itemRepo),
		service.NewDepositPoster(itemRepo, ledgerService, zl),
		service.NewAuditService(auditRepo),
		wsHub,
		zl,
	)

	// Initialize Handlers
	requestHandler := handler.NewDepositRequestHandler(requestService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	statisticsHandler := handler.NewStatisticsHandler(ledgerService)

	// Set up Gin Router
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(zl), middleware.ErrorHandler(zl))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowOrigin
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// API Routing
	requestHandler.RegisterRoutes(router.Group(""))
	ledgerHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Graceful shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
