package router

import (
	"time"

	"canteenpos/internal/config"
	"canteenpos/internal/handler"
	"canteenpos/internal/infra"
	"canteenpos/internal/middleware"
	"canteenpos/internal/notify"
	"canteenpos/internal/repository"
	"canteenpos/internal/service"
	"canteenpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	bridge := notify.NewRedisBridge(rdb)
	lockStore := infra.NewRedisLockStore(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(inventoryRepo, productRepo)
	productSvc := service.NewProductService(productRepo, inventorySvc)
	categorySvc := service.NewCategoryService(categoryRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, inventorySvc, bridge, dispatcher)
	stationSvc := service.NewStationService(lockStore, bridge, cfg.StationLockTTL(), cfg.MaxStations)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ordersH := handler.NewOrdersHandler(orderSvc)
	stationsH := handler.NewStationsHandler(stationSvc)
	productsH := handler.NewProductsHandler(productSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", ordersH.PlaceOrder)
			orders.GET("/by-pc/:pcNumber", ordersH.ByStation)
			orders.GET("/by-session/:sessionId", ordersH.BySession)
			orders.GET("/completed", ordersH.Completed)
			orders.POST("/:id/confirm", ordersH.Confirm)
			orders.PATCH("/:id/cancel", ordersH.Cancel)
		}

		pc := v1.Group("/pc-session")
		{
			pc.POST("/claim", stationsH.Claim)
			pc.POST("/release", stationsH.Release)
			pc.GET("/locked", stationsH.Locked)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("", productsH.List)
			products.GET("/:id", productsH.Get)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Archive)
			products.PATCH("/:id/unarchive", productsH.Unarchive)
			products.POST("/:id/components", productsH.AddComponent)
			products.GET("/:id/stock", productsH.Stock)
		}

		inv := v1.Group("/inventory")
		{
			inv.POST("", inventoryH.AddStock)
			inv.GET("/:productId", inventoryH.Records)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", categoriesH.Create)
			categories.GET("", categoriesH.List)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Delete)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
