package router

import (
	"time"

	"github.com/osama347/general-store-management-system-sub000/internal/config"
	"github.com/osama347/general-store-management-system-sub000/internal/handler"
	"github.com/osama347/general-store-management-system-sub000/internal/middleware"
	"github.com/osama347/general-store-management-system-sub000/internal/repository"
	"github.com/osama347/general-store-management-system-sub000/internal/service"
	"github.com/osama347/general-store-management-system-sub000/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const (
	roleClerk   = "clerk"
	roleManager = "manager"
	roleAdmin   = "admin"
)

// New wires repositories, services and handlers and returns the configured
// engine. This is the composition root for the HTTP side; the worker pool is
// wired separately in main.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	poolRepo := repository.NewPoolRepository(db)
	stockRepo := repository.NewStockRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	txRunner := repository.NewTxRunner(db)

	// Services
	ledger := service.NewLedgerService(poolRepo, stockRepo, transferRepo, catalogRepo, locationRepo, txRunner, dispatcher)

	// Handlers
	stockHandler := handler.NewStockHandler(ledger)
	catalogHandler := handler.NewCatalogHandler(catalogRepo, rdb)
	locationHandler := handler.NewLocationHandler(locationRepo)
	healthHandler := handler.NewHealthHandler(db, rdb)

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	r.GET("/health", healthHandler.Check)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimiter(300, time.Minute))
	v1.Use(middleware.JWTAuth(cfg.JWTSecret))

	anyStaff := middleware.RequireRole(roleClerk, roleManager, roleAdmin)
	managers := middleware.RequireRole(roleManager, roleAdmin)

	// Catalog and directory reads feed the intake/distribution/transfer forms.
	v1.GET("/products", anyStaff, catalogHandler.ListProducts)
	v1.GET("/products/:productID", anyStaff, catalogHandler.GetProduct)
	v1.GET("/locations", anyStaff, locationHandler.ListLocations)

	stock := v1.Group("/stock")
	{
		stock.GET("/summary", anyStaff, stockHandler.ListSummaries)
		stock.GET("/summary/:productID", anyStaff, stockHandler.ProductSummary)
		stock.GET("/transfers", anyStaff, stockHandler.ListTransfers)

		// Consumption is posted by the POS flow, which clerks run.
		stock.POST("/consume", anyStaff, stockHandler.Consume)

		// Pool and movement mutations are back-office only.
		stock.POST("/intake", managers, stockHandler.Intake)
		stock.POST("/distribute", managers, stockHandler.Distribute)
		stock.POST("/transfer", managers, stockHandler.Transfer)
	}

	return r
}
