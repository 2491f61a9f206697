package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardledger/backend/internal/api/handlers"
	"github.com/cardledger/backend/internal/auth"
	"github.com/cardledger/backend/internal/config"
	"github.com/cardledger/backend/internal/services"
)

func SetupRouter(cfg config.ServerConfig, authenticator auth.Authenticator, sessions *auth.SessionStore, inventoryService *services.InventoryService) *gin.Engine {
	router := gin.Default()
	router.Use(MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	authHandler := handlers.NewAuthHandler(authenticator, sessions)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)

	// The session endpoint is the only functionality reachable
	// without a token
	router.POST("/api/auth/session", authHandler.CreateSession)

	api := router.Group("/api")
	api.Use(RequireSession(sessions))
	{
		inventory := api.Group("/inventory")
		{
			inventory.POST("", inventoryHandler.BuildInventory)
			inventory.POST("/export", inventoryHandler.ExportInventory)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
