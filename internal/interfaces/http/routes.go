package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api/v1")
	{
		api.GET("/feed", handler.GetFeed)
		api.POST("/feed/viewport", handler.PostViewport)
		api.POST("/feed/reload", handler.PostReload)

		api.POST("/assets", handler.AddAsset)
		api.GET("/assets", handler.ListAssets)
		api.GET("/assets/:id", handler.GetAsset)
		api.DELETE("/assets/:id", handler.DeleteAsset)
		api.POST("/assets/:id/price", handler.UpdatePrice)

		api.POST("/quotes/refresh", handler.RefreshQuotes)
		api.GET("/portfolio", handler.GetPortfolio)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
