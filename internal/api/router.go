package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/potatotracker/internal/api/handler"
	"github.com/potatotracker/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, transactionHandler *handler.TransactionHandler) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:chatId", transactionHandler.List)
			transactions.GET("/:chatId/history", transactionHandler.GetHistory)
			transactions.GET("/:chatId/:id", transactionHandler.GetByID)
			transactions.PUT("/:chatId/:id", transactionHandler.Update)
			transactions.DELETE("/:chatId/:id", transactionHandler.Delete)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
