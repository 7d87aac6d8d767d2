package routes

import (
	"github.com/gin-gonic/gin"

	"coinfolio/internal/handlers"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	// API routes
	api := r.Group("/api/v1")
	{
		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/unread-count", h.UnreadCount)
			notifications.POST("", h.CreateNotification)
			notifications.POST("/read-all", h.MarkAllRead)
		}

		rules := api.Group("/rules")
		{
			rules.GET("", h.ListRules)
			rules.POST("", h.CreateRule)
		}

		api.GET("/portfolio", h.GetPortfolio)
		api.POST("/prices", h.UpdatePrice)
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "coinfolio",
		})
	})

	// Root endpoint
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Coinfolio Portfolio Dashboard API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"notifications": "/api/v1/notifications",
				"rules":         "/api/v1/rules",
				"portfolio":     "/api/v1/portfolio",
				"health":        "/health",
			},
		})
	})
}
