package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/atelierzuzka/backend/internal/handlers"
)

type RouterConfig struct {
	DraftHandler    *handlers.DraftHandler
	TemplateHandler *handlers.TemplateHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Drafting
		api.POST("/drafts", cfg.DraftHandler.CreateDraft)
		api.POST("/drafts/from-tags", cfg.DraftHandler.CreateDraftFromTags)
		// Templates
		api.GET("/templates", cfg.TemplateHandler.ListTemplates)
		api.POST("/templates/products/:id", cfg.TemplateHandler.StoreTemplateForProduct)
		api.POST("/templates/seed", cfg.TemplateHandler.SeedTemplates)
		// Pricing
		api.POST("/price/suggest", cfg.TemplateHandler.SuggestPrice)
	}

	return router
}
