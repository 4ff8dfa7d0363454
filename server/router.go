package server

import (
	"time"

	httpHandler "creative-assigner/interfaces/http"
	"creative-assigner/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	healthHandler httpHandler.IHealthHandler,
	directoryHandler httpHandler.IDirectoryHandler,
	sessionHandler httpHandler.ISessionHandler,
	secretKey string,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))

	api.GET("/platforms", directoryHandler.Platforms)
	api.GET("/assets", directoryHandler.Assets)

	directory := api.Group("/directory")
	{
		directory.GET("/accounts", directoryHandler.Accounts)
		directory.GET("/campaigns", directoryHandler.Campaigns)
		directory.GET("/placements", directoryHandler.Placements)
		directory.GET("/ads", directoryHandler.ExistingAds)
	}

	api.POST("/sessions", sessionHandler.Create)
	sessions := api.Group("/sessions/:id")
	{
		sessions.GET("", sessionHandler.Get)
		sessions.DELETE("", sessionHandler.Close)

		// Step 1 and catalog
		sessions.POST("/assets", sessionHandler.SelectAsset)
		sessions.DELETE("/assets/:assetId", sessionHandler.DeselectAsset)
		sessions.PUT("/platforms", sessionHandler.SetPlatforms)

		// Step 2
		sessions.POST("/placements", sessionHandler.SelectPlacement)
		sessions.DELETE("/placements/:placementId", sessionHandler.DeselectPlacement)

		// Step 3
		sessions.POST("/drops", sessionHandler.Drop)
		sessions.DELETE("/placements/:placementId/slots/:slotId/assets/:assetId", sessionHandler.Unassign)
		sessions.PATCH("/placements/:placementId/slots/:slotId", sessionHandler.SetSlotText)

		sessions.POST("/wizard/next", sessionHandler.Next)
		sessions.POST("/wizard/back", sessionHandler.Back)

		// Step 4
		sessions.POST("/submit", sessionHandler.Submit)
		sessions.GET("/attempts", sessionHandler.Attempts)
		sessions.POST("/fix-mode", sessionHandler.EnterFixMode)
		sessions.DELETE("/fix-mode", sessionHandler.ExitFixMode)

		sessions.GET("/events", sessionHandler.Events)
	}

	return router
}
