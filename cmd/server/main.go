package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/stockledger/backend/internal/application/catalog"
	erpsyncapp "github.com/stockledger/backend/internal/application/erpsync"
	ledgerapp "github.com/stockledger/backend/internal/application/ledger"
	purchasingapp "github.com/stockledger/backend/internal/application/purchasing"
	"github.com/stockledger/backend/internal/domain/shared"
	"github.com/stockledger/backend/internal/infrastructure/cache"
	"github.com/stockledger/backend/internal/infrastructure/config"
	"github.com/stockledger/backend/internal/infrastructure/erp"
	"github.com/stockledger/backend/internal/infrastructure/event"
	"github.com/stockledger/backend/internal/infrastructure/logger"
	"github.com/stockledger/backend/internal/infrastructure/persistence"
	"github.com/stockledger/backend/internal/infrastructure/scheduler"
	"github.com/stockledger/backend/internal/interfaces/http/handler"
	"github.com/stockledger/backend/internal/interfaces/http/middleware"
	"github.com/stockledger/backend/internal/interfaces/http/router"
)

//	@title			Stock Ledger API
//	@version		1.0
//	@description	Append-only stock ledger with balance projection, purchasing and ERP reconciliation

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Stock Ledger Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with a GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	locationRepo := persistence.NewGormStorageLocationRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	balanceRepo := persistence.NewGormBalanceRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	syncStateRepo := persistence.NewGormSyncStateRepository(db.DB)

	// Transaction scopes
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	purchasingScope := persistence.NewGormPurchasingTransactionScope(db.DB)
	erpSyncScope := persistence.NewGormErpSyncTransactionScope(db.DB)

	// Both the ledger service and the receiving path append movements, so
	// they must share the per-(item, location) writer locks.
	movementLocks := shared.NewKeyedMutex()

	// Application services
	catalogService := catalogapp.NewCatalogService(itemRepo, locationRepo, supplierRepo)
	ledgerService := ledgerapp.NewLedgerService(ledgerScope, movementRepo, balanceRepo, itemRepo, locationRepo, movementLocks)
	orderService := purchasingapp.NewPurchaseOrderService(purchasingScope, orderRepo, supplierRepo, itemRepo, catalogService, movementLocks)

	// Balance cache (Redis when configured, in-memory otherwise)
	balanceCache := cache.NewBalanceCache(cfg.Redis, log)
	ledgerService.SetBalanceCache(balanceCache)
	orderService.SetBalanceCache(balanceCache)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	movementAppliedHandler := ledgerapp.NewMovementAppliedHandler(log, balanceRepo)
	eventBus.Subscribe(movementAppliedHandler)
	log.Info("Event handlers registered",
		zap.Strings("movement_applied_events", movementAppliedHandler.EventTypes()),
	)

	ledgerService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)

	// ERP gateway and reconciliation coordinator
	gateway := erp.NewHTTPGateway(cfg.Erp, log)
	if gateway.Enabled() {
		log.Info("ERP gateway enabled", zap.String("base_url", cfg.Erp.BaseURL))
	} else {
		log.Info("ERP gateway disabled, sync operations are no-ops")
	}
	reconciliationService := erpsyncapp.NewReconciliationService(
		gateway, erpSyncScope, syncStateRepo, balanceRepo, itemRepo, locationRepo, log,
	)

	// Reconciliation scheduler (if enabled)
	if cfg.Scheduler.Enabled {
		schedulerConfig := scheduler.DefaultReconciliationSchedulerConfig()
		if cfg.Scheduler.Interval > 0 {
			schedulerConfig.Interval = cfg.Scheduler.Interval
		}
		reconciliationScheduler, err := scheduler.NewReconciliationScheduler(schedulerConfig, reconciliationService, log)
		if err != nil {
			log.Fatal("Failed to create reconciliation scheduler", zap.Error(err))
		}
		if err := reconciliationScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reconciliation scheduler", zap.Error(err))
		}
		defer func() {
			if err := reconciliationScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping reconciliation scheduler", zap.Error(err))
			}
		}()
		log.Info("Reconciliation scheduler started",
			zap.Duration("interval", schedulerConfig.Interval),
			zap.Duration("cycle_timeout", schedulerConfig.CycleTimeout),
		)
	}

	// HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	purchaseOrderHandler := handler.NewPurchaseOrderHandler(orderService)
	erpSyncHandler := handler.NewErpSyncHandler(reconciliationService)
	dashboardHandler := handler.NewDashboardHandler(ledgerService, orderService)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine and middleware stack
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/items", catalogHandler.CreateItem)
	catalogRoutes.GET("/items", catalogHandler.ListItems)
	catalogRoutes.GET("/items/sku/:sku", catalogHandler.GetItemBySKU)
	catalogRoutes.GET("/items/:id", catalogHandler.GetItem)
	catalogRoutes.PUT("/items/:id", catalogHandler.UpdateItem)
	catalogRoutes.DELETE("/items/:id", catalogHandler.DeleteItem)
	catalogRoutes.POST("/locations", catalogHandler.CreateLocation)
	catalogRoutes.GET("/locations", catalogHandler.ListLocations)
	catalogRoutes.GET("/locations/:id", catalogHandler.GetLocation)
	catalogRoutes.DELETE("/locations/:id", catalogHandler.DeleteLocation)
	catalogRoutes.POST("/suppliers", catalogHandler.CreateSupplier)
	catalogRoutes.GET("/suppliers", catalogHandler.ListSuppliers)
	catalogRoutes.GET("/suppliers/:id", catalogHandler.GetSupplier)
	catalogRoutes.PUT("/suppliers/:id", catalogHandler.UpdateSupplier)
	catalogRoutes.DELETE("/suppliers/:id", catalogHandler.DeleteSupplier)
	r.Register(catalogRoutes)

	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/movements", ledgerHandler.Record)
	ledgerRoutes.GET("/movements/history", ledgerHandler.History)
	ledgerRoutes.GET("/movements/recent", ledgerHandler.Recent)
	ledgerRoutes.GET("/balances/lookup", ledgerHandler.GetBalance)
	ledgerRoutes.GET("/items/:item_id/balances", ledgerHandler.ListItemBalances)
	ledgerRoutes.GET("/alerts", ledgerHandler.Alerts)
	ledgerRoutes.GET("/overview", ledgerHandler.Overview)
	r.Register(ledgerRoutes)

	purchasingRoutes := router.NewDomainGroup("purchasing", "/purchasing")
	purchasingRoutes.POST("/orders", purchaseOrderHandler.Create)
	purchasingRoutes.GET("/orders", purchaseOrderHandler.List)
	purchasingRoutes.GET("/orders/stats/open", purchaseOrderHandler.CountOpen)
	purchasingRoutes.GET("/orders/:id", purchaseOrderHandler.GetByID)
	purchasingRoutes.POST("/orders/:id/submit", purchaseOrderHandler.Submit)
	purchasingRoutes.POST("/orders/:id/receive", purchaseOrderHandler.ReceiveLine)
	purchasingRoutes.POST("/orders/:id/cancel", purchaseOrderHandler.Cancel)
	r.Register(purchasingRoutes)

	erpRoutes := router.NewDomainGroup("erp", "/erp")
	erpRoutes.POST("/reconcile", erpSyncHandler.Reconcile)
	erpRoutes.POST("/export", erpSyncHandler.Export)
	erpRoutes.POST("/import", erpSyncHandler.Import)
	erpRoutes.GET("/status", erpSyncHandler.Status)
	r.Register(erpRoutes)

	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/metrics", dashboardHandler.Metrics)
	r.Register(dashboardRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/health", systemHandler.Health)
	r.Register(systemRoutes)

	r.Setup()

	// HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for the root health check endpoint
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.FromGin(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
