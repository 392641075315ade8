package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/handler"
)

// SetupRoutes configures all API routes.
func SetupRoutes(
	router *gin.Engine,
	statsHandler *handler.StatsHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/health", healthHandler.HealthCheck)

	v1 := router.Group("/api/v1")
	project := v1.Group("/projects/:projectID")
	project.GET("/stats/daily", statsHandler.GetDailyStats)
	project.GET("/stats/summary", statsHandler.GetMentionsSummary)
	project.GET("/stats/sentiment", statsHandler.GetBrandSentiment)
	project.GET("/stats/trend", statsHandler.GetStatsTrend)
}
