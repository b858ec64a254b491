package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ros_backend/pkg/analytics"
	"ros_backend/pkg/config"
	"ros_backend/pkg/utils"
)

// RegisterDashboardRoutes exposes the assembled snapshot for the dashboard
// frontend. The snapshot is computed once at startup; every request serves
// the same document.
func RegisterDashboardRoutes(router *gin.RouterGroup, snapshot *analytics.Snapshot) {
	router.GET("/dashboard", func(c *gin.Context) {
		utils.SuccessResponseWithData(c, snapshot)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"environment":  config.AppConfig.Environment,
			"last_updated": snapshot.LastUpdated,
		})
	})
}
