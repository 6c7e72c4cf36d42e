package http

import (
	"github.com/gin-gonic/gin"
	"github.com/hinote/backend/config"
	"github.com/sirupsen/logrus"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log logrus.FieldLogger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()

	// Global middleware
	router.Use(MetricsMiddleware())
	router.Use(RecoveryMiddleware(log))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)
	router.GET(MetricsPath, MetricsHandler())

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		orders := v1.Group("/orders")
		{
			orders.POST("/extract", handler.ExtractOrder)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.POST("/match", handler.MatchProduct)
		}

		merchants := v1.Group("/merchants/:merchantId")
		{
			merchants.PUT("/catalog", handler.PutCatalog)
			merchants.GET("/catalog", handler.GetCatalog)
			merchants.DELETE("/catalog", handler.DeleteCatalog)
		}
	}

	return router
}
