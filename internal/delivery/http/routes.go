package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/splitcart/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		lists := v1.Group("/lists")
		{
			lists.POST("", handler.CreateList)
			lists.GET("/:id", handler.GetList)
			lists.POST("/:id/items", handler.AddItem)
			lists.DELETE("/:id/items/:key", handler.RemoveItem)
			lists.DELETE("/:id", handler.DeleteList)
		}

		v1.POST("/compare", handler.Compare)
	}

	return router
}
