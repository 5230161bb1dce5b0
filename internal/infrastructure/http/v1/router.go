// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/app"
	"inventory/internal/core/idempotency"
	"inventory/internal/domain/auth"
	"inventory/internal/domain/catalogs/category"
	"inventory/internal/domain/catalogs/product"
	"inventory/internal/domain/catalogs/vendor"
	"inventory/internal/infrastructure/http/v1/dto"
	"inventory/internal/infrastructure/http/v1/handlers"
	"inventory/internal/infrastructure/http/v1/middleware"
	"inventory/internal/infrastructure/metrics"
	"inventory/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Services are the wired domain services
	Services *app.Services

	// Idempotency stores responses of keyed document creations
	Idempotency idempotency.Store

	// Metrics is optional; nil disables /metrics and HTTP instrumentation
	Metrics *metrics.Metrics

	// HealthChecks are run by /health/ready
	HealthChecks map[string]handlers.Pinger
}

// Role sets.
var (
	rolesAdmin    = []string{auth.RoleAdmin}
	rolesManagers = []string{auth.RoleAdmin, auth.RoleManager}
	rolesEveryone = []string{auth.RoleAdmin, auth.RoleManager, auth.RoleStaff}
)

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	dto.RegisterValidators()

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.HealthChecks)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.Services.Auth)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", authHandler.Login)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.Services.Auth))

		protected.GET("/auth/me", authHandler.Me)

		users := protected.Group("/users", middleware.RequireRole(rolesAdmin...))
		{
			users.POST("", authHandler.CreateUser)
			users.GET("", authHandler.ListUsers)
		}

		registerCatalogRoutes(protected, base, cfg)
		registerDocumentRoutes(protected, base, cfg)

		dashboard := handlers.NewDashboardHandler(base, cfg.Services.Reports)
		protected.GET("/dashboard", middleware.RequireRole(rolesAdmin...), dashboard.Get)
	}

	return router
}

func registerCatalogRoutes(protected *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	svc := cfg.Services

	categories := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*category.Category, dto.CreateCategoryRequest]{
		Service: svc.Categories.CatalogService,
		MapCreateDTO: func(req *dto.CreateCategoryRequest) (*category.Category, error) {
			return req.ToEntity(), nil
		},
	})
	RegisterCatalogRoutes(protected.Group("/categories"), categories, rolesAdmin...)

	vendors := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*vendor.Vendor, dto.CreateVendorRequest]{
		Service: svc.Vendors.CatalogService,
		MapCreateDTO: func(req *dto.CreateVendorRequest) (*vendor.Vendor, error) {
			return req.ToEntity(), nil
		},
	})
	RegisterCatalogRoutes(protected.Group("/vendors"), vendors, rolesManagers...)

	products := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*product.Product, dto.CreateProductRequest]{
		Service:      svc.Products.CatalogService,
		MapCreateDTO: (*dto.CreateProductRequest).ToEntity,
	})
	productHandler := handlers.NewProductHandler(base, svc.Products, svc.Stock, svc.Reports)

	group := protected.Group("/products")
	// static route registered alongside /:id; gin resolves it first
	group.GET("/export", middleware.RequireRole(rolesManagers...), productHandler.Export)
	RegisterCatalogRoutes(group, products, rolesManagers...)
	group.PATCH("/:id", middleware.RequireRole(rolesManagers...), productHandler.Update)
	group.GET("/:id/movements", productHandler.Movements)
}

func registerDocumentRoutes(protected *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	var keyed []gin.HandlerFunc
	if cfg.Idempotency != nil {
		keyed = append(keyed, middleware.Idempotency(cfg.Idempotency))
	}

	sales := handlers.NewSaleHandler(base, cfg.Services.Sales)
	group := protected.Group("/sales")
	{
		group.GET("", sales.List)
		group.GET("/:id", sales.Get)
		group.POST("", chain(middleware.RequireRole(rolesEveryone...), keyed, sales.Create)...)
	}

	orders := handlers.NewPurchaseOrderHandler(base, cfg.Services.PurchaseOrders)
	group = protected.Group("/purchase-orders")
	{
		group.GET("", orders.List)
		group.GET("/:id", orders.Get)
		group.POST("", chain(middleware.RequireRole(rolesManagers...), keyed, orders.Create)...)
		group.PUT("/:id/approve", middleware.RequireRole(rolesAdmin...), orders.Approve)
		group.PUT("/:id/receive", middleware.RequireRole(rolesEveryone...), orders.Receive)
	}
}

func chain(guard gin.HandlerFunc, mid []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mid)+2)
	out = append(out, guard)
	out = append(out, mid...)
	return append(out, h)
}
