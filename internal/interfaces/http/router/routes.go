package router

import (
	"github.com/gin-gonic/gin"
	"github.com/splitfin/backend/internal/interfaces/http/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// IntelligenceRoutes groups the product intelligence endpoints
func IntelligenceRoutes(intel *handler.IntelligenceHandler, exports *handler.ExportHandler) *DomainGroup {
	return NewDomainGroup("intelligence", "").
		GET("/popularity", intel.ListPopularity).
		GET("/popularity/export", exports.ExportPopularity).
		GET("/reorder-alerts", intel.ListReorderAlerts).
		GET("/reorder-alerts/export", exports.ExportReorderAlerts).
		GET("/brands", intel.ListBrands).
		POST("/price-check", intel.PriceCheck)
}

// RegisterSystemRoutes mounts the probes, and the API docs when enabled,
// outside API versioning
func RegisterSystemRoutes(engine *gin.Engine, health *handler.HealthHandler, swagger bool) {
	engine.GET("/health", health.Live)
	engine.GET("/health/ready", health.Ready)
	if swagger {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
