package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/atelierzuzka/backend/internal/clients/chroma"
	"github.com/atelierzuzka/backend/internal/clients/gcp"
	"github.com/atelierzuzka/backend/internal/clients/openai"
	"github.com/atelierzuzka/backend/internal/clients/redis"
	"github.com/atelierzuzka/backend/internal/db"
	"github.com/atelierzuzka/backend/internal/handlers"
	"github.com/atelierzuzka/backend/internal/pkg/logger"
	"github.com/atelierzuzka/backend/internal/repos"
	"github.com/atelierzuzka/backend/internal/server"
	"github.com/atelierzuzka/backend/internal/services"
	"github.com/atelierzuzka/backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	var thePG *gorm.DB
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Warn("Postgres init failed, catalog features disabled", "error", err)
	} else {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
		thePG = postgresService.DB()
	}

	// Repos
	var productRepo repos.ProductRepo
	if thePG != nil {
		productRepo = repos.NewProductRepo(thePG, log)
	}

	// Clients
	log.Info("Setting up clients from main...")
	visionClient, err := gcp.NewVision(log)
	if err != nil {
		log.Warn("Could not init Vision client, image tagging disabled", "error", err)
	}
	tagCache, err := redis.NewTagCache(log)
	if err != nil {
		log.Warn("Could not init Redis tag cache, vision results will not be cached", "error", err)
	}
	llmClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("Could not init LLM client, drafting falls back to structured output", "error", err)
	}
	chromaClient, err := chroma.New(log, chroma.Config{
		BaseURL: utils.GetEnv("CHROMA_BASE_URL", "http://localhost:8000", log),
	})
	if err != nil {
		log.Warn("Could not init Chroma client, template retrieval disabled", "error", err)
	}

	var embedder services.Embedder
	var generator services.TextGenerator
	if llmClient != nil {
		embedder = llmClient
		generator = llmClient
	}

	// Template stores
	var ragStore, productStore *services.TemplateStore
	if chromaClient != nil {
		ragStore, err = services.NewTemplateStore(log, chromaClient, embedder, utils.GetEnv("RAG_COLLECTION", "rag_templates", log))
		if err != nil {
			log.Warn("Could not init rag template store", "error", err)
		}
		productStore, err = services.NewTemplateStore(log, chromaClient, embedder, utils.GetEnv("PRODUCT_TEMPLATE_COLLECTION", "product_templates", log))
		if err != nil {
			log.Warn("Could not init product template store", "error", err)
		}
	}

	// Services
	log.Info("Setting up services from main...")
	var retriever *services.TemplateRetriever
	var curator *services.TemplateCurator
	if ragStore != nil {
		retriever, err = services.NewTemplateRetriever(log, ragStore)
		if err != nil {
			log.Warn("Could not init TemplateRetriever", "error", err)
		}
		curator, err = services.NewTemplateCurator(log, ragStore, productRepo)
		if err != nil {
			log.Warn("Could not init TemplateCurator", "error", err)
		}
	}
	var templateAdmin *services.TemplateAdminService
	if productStore != nil {
		templateAdmin, err = services.NewTemplateAdminService(log, productStore, productRepo)
		if err != nil {
			log.Warn("Could not init TemplateAdminService", "error", err)
		}
	}
	controller, err := services.NewGenerationController(log, generator)
	if err != nil {
		log.Error("Could not init GenerationController", "error", err)
		os.Exit(1)
	}
	draftService, err := services.NewDraftService(log, visionClient, tagCache, retriever, controller, curator, templateAdmin)
	if err != nil {
		log.Error("Could not init DraftService", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	draftHandler := handlers.NewDraftHandler(log, draftService)
	templateHandler := handlers.NewTemplateHandler(log, templateAdmin, curator)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		DraftHandler:    draftHandler,
		TemplateHandler: templateHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
