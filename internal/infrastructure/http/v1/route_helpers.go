package v1

import (
	"github.com/gin-gonic/gin"

	"inventory/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

// RegisterCatalogRoutes registers the standard catalog routes.
// Reads are open to every authenticated user; creation needs one of createRoles.
//
// Usage:
//
//	handler := handlers.NewCatalogHandler(base, handlers.CatalogHandlerConfig[*vendor.Vendor, dto.CreateVendorRequest]{...})
//	RegisterCatalogRoutes(protected.Group("/vendors"), handler, auth.RoleAdmin, auth.RoleManager)
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, createRoles ...string) {
	group.GET("", handler.List)
	group.POST("", middleware.RequireRole(createRoles...), handler.Create)
	group.GET("/:id", handler.Get)
}
