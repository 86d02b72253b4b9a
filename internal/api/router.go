package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timmy/leadscout/internal/api/handler"
	"github.com/timmy/leadscout/internal/api/middleware"
)

// Deps collects the services the HTTP surface exposes.
type Deps struct {
	Messages    handler.MessageReader
	Corrections handler.Corrections
	Trainer     handler.Trainer
	Stats       handler.StatsSource
	Purger      handler.HistoryPurger
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps Deps, mode string, retention int) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	messageHandler := handler.NewMessageHandler(deps.Messages)
	feedbackHandler := handler.NewFeedbackHandler(deps.Corrections)
	adminHandler := handler.NewAdminHandler(deps.Trainer, deps.Stats, deps.Purger, retentionDuration(retention))

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Processed messages and their decision trails
		v1.GET("/messages", messageHandler.List)
		v1.GET("/messages/:id", messageHandler.Get)

		// Feedback loop
		v1.POST("/feedback", feedbackHandler.Submit)

		// Training and statistics
		v1.POST("/train", adminHandler.Train)
		v1.GET("/stats", adminHandler.Stats)

		// Retention
		v1.DELETE("/history", adminHandler.ClearHistory)
	}

	return r
}

func retentionDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}
